package util

import (
	"strings"
	"sync/atomic"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost is the bcrypt cost used when PASSWORD_HASH_COST is unset
const DefaultPasswordCost = 12

var passwordCost atomic.Int32

func init() {
	passwordCost.Store(DefaultPasswordCost)
}

// SetPasswordCost changes the bcrypt cost for new hashes and returns the value
// applied after clamping to bcrypt's bounds. Existing hashes keep their cost.
func SetPasswordCost(cost int) int {
	switch {
	case cost <= 0:
		cost = DefaultPasswordCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	passwordCost.Store(int32(cost))
	return cost
}

// PasswordCost returns the bcrypt cost for new hashes
func PasswordCost() int {
	return int(passwordCost.Load())
}

// HashPassword hashes a staff account password.
// Passwords longer than 72 bytes are rejected by bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost())
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks a sign-in password against the stored hash
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// DemoPassword is the initial password of a seeded or imported account
// without an explicit one: the normalized email.
func DemoPassword(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
