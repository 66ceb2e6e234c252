package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ikkim/giftbox-backend/internal/app/model"
	"github.com/ikkim/giftbox-backend/internal/app/repository"
	"github.com/ikkim/giftbox-backend/pkg/logger"
	"github.com/ikkim/giftbox-backend/pkg/util"
	"gorm.io/gorm"
)

// TokenRevoker stores signed-out session token IDs until they expire
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Logout(ctx context.Context, token string) error
	ResolveIdentity(ctx context.Context, token string) (*model.Identity, error)
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
	SessionExpiry() time.Duration
}

type authService struct {
	userRepo      repository.UserRepository
	revoker       TokenRevoker
	jwtSecret     string
	sessionExpiry time.Duration
}

// NewAuthService builds the auth service. revoker may be nil, in which case
// sign-out only clears the client cookie.
func NewAuthService(
	userRepo repository.UserRepository,
	revoker TokenRevoker,
	jwtSecret string,
	sessionExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		revoker:       revoker,
		jwtSecret:     jwtSecret,
		sessionExpiry: sessionExpiry,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) SessionExpiry() time.Duration {
	return s.sessionExpiry
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"email":   email,
			"user_id": user.ID,
		})
		return nil, "", ErrInvalidCredentials
	}

	token, err := util.GenerateSessionToken(user.ID, user.Email, string(user.Role), s.jwtSecret, s.sessionExpiry)
	if err != nil {
		logger.Error("Failed to generate session token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
	})
	return user, token, nil
}

// Logout revokes the token for the rest of its lifetime. Invalid or expired
// tokens are already unusable and are ignored.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		logger.Debug("Logout with unusable token", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	if s.revoker != nil {
		if err := s.revoker.Revoke(ctx, claims.ID, claims.RemainingLifetime()); err != nil {
			return err
		}
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

// ResolveIdentity maps a session token to the caller. An empty token is an
// anonymous caller and yields (nil, nil). The role always comes from the
// stored user, not from the token.
func (s *authService) ResolveIdentity(ctx context.Context, token string) (*model.Identity, error) {
	if token == "" {
		return nil, nil
	}

	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrSessionRevoked
		}
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return model.IdentityOf(user), nil
}

func (s *authService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("User not found", map[string]interface{}{
				"user_id": id,
			})
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
