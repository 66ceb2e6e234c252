package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestGenerateSessionToken(t *testing.T) {
	tests := []struct {
		name    string
		userID  uint
		email   string
		role    string
		secret  string
		wantErr bool
	}{
		{
			name:   "Employee token",
			userID: 1,
			email:  "e0001@example.com",
			role:   "employee",
			secret: testSecret,
		},
		{
			name:   "Admin token",
			userID: 2,
			email:  "admin@example.com",
			role:   "admin",
			secret: testSecret,
		},
		{
			name:    "Empty secret",
			userID:  3,
			email:   "e0003@example.com",
			role:    "employee",
			secret:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateSessionToken(tt.userID, tt.email, tt.role, tt.secret, 15*time.Minute)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
			}
		})
	}
}

func TestGenerateSessionToken_UniqueIDs(t *testing.T) {
	a, err := GenerateSessionToken(1, "e0001@example.com", "employee", testSecret, time.Minute)
	require.NoError(t, err)
	b, err := GenerateSessionToken(1, "e0001@example.com", "employee", testSecret, time.Minute)
	require.NoError(t, err)

	ca, err := ValidateToken(a, testSecret)
	require.NoError(t, err)
	cb, err := ValidateToken(b, testSecret)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestValidateToken(t *testing.T) {
	token, err := GenerateSessionToken(123, "e0001@example.com", "employee", testSecret, 15*time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{
			name:   "Valid token",
			token:  token,
			secret: testSecret,
		},
		{
			name:    "Invalid secret",
			token:   token,
			secret:  "wrong-secret",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Invalid token format",
			token:   "invalid.token.format",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Empty token",
			token:   "",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				require.NotNil(t, claims)
				assert.Equal(t, uint(123), claims.UserID)
				assert.Equal(t, "e0001@example.com", claims.Email)
				assert.Equal(t, "employee", claims.Role)
				assert.True(t, claims.RemainingLifetime() > 14*time.Minute)
			}
		})
	}
}

func TestExpiredToken(t *testing.T) {
	token, err := GenerateSessionToken(1, "e0001@example.com", "employee", testSecret, time.Nanosecond)
	require.NoError(t, err)

	// Wait a bit to ensure token expires
	time.Sleep(10 * time.Millisecond)

	claims, err := ValidateToken(token, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}
