package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/ikkim/giftbox-backend/config"
	"github.com/ikkim/giftbox-backend/internal/app/model"
	"github.com/ikkim/giftbox-backend/internal/app/repository"
	"github.com/ikkim/giftbox-backend/internal/db"
	"github.com/ikkim/giftbox-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// staffRow is one line of the staff roster: email, name, role, password.
// Name, role and password are optional; password defaults to the email.
type staffRow struct {
	Email    string
	Name     string
	Role     model.UserRole
	Password string
}

func main() {
	demo := flag.Bool("demo", false, "seed the demo accounts e0001..e0010 and ADMIN_EMAILS")
	yes := flag.Bool("yes", false, "import without asking for confirmation")
	flag.Parse()

	if !*demo && flag.NArg() < 1 {
		log.Fatal("Usage: go run cmd/seed/main.go [-demo] [-yes] [staff.xlsx]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	util.SetPasswordCost(cfg.Password.HashCost)

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if *demo {
		if err := db.SeedDemoUsers(db.GetDB(), cfg.Seed.AdminEmails); err != nil {
			log.Fatal("Failed to seed demo users:", err)
		}
		fmt.Println("Demo accounts ready (password = email)")
	}

	if flag.NArg() < 1 {
		return
	}

	filePath := flag.Arg(0)
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer f.Close()

	staff, err := readStaffFromXLSX(f, cfg.Seed.AdminEmails)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Total staff to import: %d\n", len(staff))

	if !*yes && !confirm(os.Stdin) {
		fmt.Println("Import cancelled.")
		return
	}

	created, skipped, err := importStaff(context.Background(), repository.NewUserRepository(db.GetDB()), staff)
	if err != nil {
		log.Fatal("Failed to import staff:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("  Created: %d\n", created)
	fmt.Printf("  Already present: %d\n", skipped)
}

func confirm(r io.Reader) bool {
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	answer, _ := bufio.NewReader(r).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "yes" || answer == "y"
}

// readStaffFromXLSX parses the first sheet. The first row is a header.
// Addresses listed in adminEmails are promoted to admin whatever the sheet says.
func readStaffFromXLSX(r io.Reader, adminEmails []string) ([]staffRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	admins := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		admins[strings.ToLower(strings.TrimSpace(email))] = true
	}

	var staff []staffRow
	seen := make(map[string]bool)
	skipped := 0
	for _, row := range rows[1:] {
		email := strings.ToLower(strings.TrimSpace(cell(row, 0)))
		if email == "" || !strings.Contains(email, "@") || seen[email] {
			skipped++
			continue
		}
		seen[email] = true

		role := model.UserRole(strings.ToLower(strings.TrimSpace(cell(row, 2))))
		if !role.Valid() {
			role = model.RoleEmployee
		}
		if admins[email] {
			role = model.RoleAdmin
		}

		password := strings.TrimSpace(cell(row, 3))
		if password == "" {
			password = util.DemoPassword(email)
		}

		staff = append(staff, staffRow{
			Email:    email,
			Name:     strings.TrimSpace(cell(row, 1)),
			Role:     role,
			Password: password,
		})
	}

	fmt.Printf("  Valid rows: %d, skipped rows: %d\n", len(staff), skipped)
	return staff, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// importStaff creates the accounts that do not exist yet
func importStaff(ctx context.Context, users repository.UserRepository, staff []staffRow) (created, skipped int, err error) {
	for _, s := range staff {
		_, err := users.FindByEmail(ctx, s.Email)
		if err == nil {
			skipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, skipped, err
		}

		hash, err := util.HashPassword(s.Password)
		if err != nil {
			return created, skipped, err
		}
		name := s.Name
		if name == "" {
			name = strings.SplitN(s.Email, "@", 2)[0]
		}
		if err := users.Create(ctx, &model.User{
			Email:        s.Email,
			PasswordHash: hash,
			Name:         name,
			Role:         s.Role,
		}); err != nil {
			return created, skipped, fmt.Errorf("create %s: %w", s.Email, err)
		}
		created++
	}
	return created, skipped, nil
}
