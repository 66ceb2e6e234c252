package db

import (
	"fmt"
	"strings"

	"github.com/ikkim/giftbox-backend/internal/app/model"
	"github.com/ikkim/giftbox-backend/pkg/logger"
	"github.com/ikkim/giftbox-backend/pkg/util"
	"gorm.io/gorm"
)

const demoEmployeeCount = 10

// Models lists every table managed by AutoMigrate, parents first
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.GiftBox{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// DemoUserEmails returns the demo staff accounts: e0001@example.com .. e0010@example.com
func DemoUserEmails() []string {
	emails := make([]string, 0, demoEmployeeCount)
	for i := 1; i <= demoEmployeeCount; i++ {
		emails = append(emails, fmt.Sprintf("e%04d@example.com", i))
	}
	return emails
}

// SeedDemoUsers creates the demo employees plus the configured admins.
// The password of every demo account equals its email. Existing accounts are left untouched.
func SeedDemoUsers(db *gorm.DB, adminEmails []string) error {
	logger.Info("Seeding demo users...")

	type seedUser struct {
		email string
		role  model.UserRole
	}
	var users []seedUser
	for _, email := range DemoUserEmails() {
		users = append(users, seedUser{email: email, role: model.RoleEmployee})
	}
	for _, email := range adminEmails {
		users = append(users, seedUser{email: strings.ToLower(strings.TrimSpace(email)), role: model.RoleAdmin})
	}

	created := 0
	for _, u := range users {
		var count int64
		if err := db.Model(&model.User{}).Where("email = ?", u.email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		hash, err := util.HashPassword(util.DemoPassword(u.email))
		if err != nil {
			return err
		}
		user := model.User{
			Email:        u.email,
			PasswordHash: hash,
			Name:         strings.SplitN(u.email, "@", 2)[0],
			Role:         u.role,
		}
		if err := db.Create(&user).Error; err != nil {
			logger.Error("Failed to create demo user", err, map[string]interface{}{
				"email": u.email,
			})
			return err
		}
		created++
	}

	logger.Info("Demo users seeded", map[string]interface{}{
		"created": created,
		"total":   len(users),
	})
	return nil
}
