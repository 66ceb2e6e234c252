package middleware

import (
	"context"
	stdErrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/giftbox-backend/internal/app/model"
	"github.com/ikkim/giftbox-backend/internal/app/service"
	"github.com/ikkim/giftbox-backend/internal/errors"
	"github.com/ikkim/giftbox-backend/pkg/util"
)

// Context keys for user information
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	UserRoleKey  = "user_role"
	IdentityKey  = "identity"
	TokenKey     = "session_token"
)

// IdentityResolver maps a session token to the caller
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (*model.Identity, error)
}

type AuthMiddleware struct {
	resolver   IdentityResolver
	cookieName string
}

func NewAuthMiddleware(resolver IdentityResolver, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		resolver:   resolver,
		cookieName: cookieName,
	}
}

// CookieName is the session cookie the middleware reads
func (m *AuthMiddleware) CookieName() string {
	return m.cookieName
}

// extractToken looks at the Authorization header, then the session cookie.
// The token query parameter is read only when allowQuery is set (WebSocket upgrades).
// ok is false when the Authorization header is present but malformed.
func (m *AuthMiddleware) extractToken(c *gin.Context, allowQuery bool) (token string, ok bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}

	if m.cookieName != "" {
		if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
			return cookie, true
		}
	}

	if allowQuery {
		return c.Query("token"), true
	}
	return "", true
}

// Authenticate requires a valid session (JSON API)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return m.authenticate(false)
}

// AuthenticateStream is Authenticate for WebSocket endpoints. It also accepts
// the session token as ?token=.
func (m *AuthMiddleware) AuthenticateStream() gin.HandlerFunc {
	return m.authenticate(true)
}

func (m *AuthMiddleware) authenticate(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := m.extractToken(c, allowQuery)
		if !ok {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "认证格式不正确")
			c.Abort()
			return
		}
		if token == "" {
			log.Warn("Missing session token", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		identity, err := m.resolver.ResolveIdentity(c.Request.Context(), token)
		if err != nil || identity == nil {
			fields := map[string]interface{}{
				"path": c.Request.URL.Path,
			}
			if err != nil {
				fields["error"] = err.Error()
			}
			log.Warn("Session validation failed", fields)

			switch {
			case stdErrors.Is(err, util.ErrExpiredToken):
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "登录已过期，请重新登录")
			case stdErrors.Is(err, service.ErrSessionRevoked):
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenRevoked, "您已退出登录，请重新登录")
			default:
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "会话无效，请重新登录")
			}
			c.Abort()
			return
		}

		setIdentity(c, identity, token)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": identity.UserID,
			"email":   identity.Email,
			"role":    identity.Role,
		})

		c.Next()
	}
}

// OptionalAuthenticate resolves the caller if a usable session is present
// and otherwise continues as anonymous.
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, token := m.resolve(c); identity != nil {
			setIdentity(c, identity, token)
		}
		c.Next()
	}
}

// resolve returns the caller or nil. Any resolution failure is treated as
// anonymous and logged.
func (m *AuthMiddleware) resolve(c *gin.Context) (*model.Identity, string) {
	log := GetLoggerFromContext(c)

	token, ok := m.extractToken(c, false)
	if !ok || token == "" {
		return nil, ""
	}

	identity, err := m.resolver.ResolveIdentity(c.Request.Context(), token)
	if err != nil {
		log.Warn("Session resolution failed, continuing as anonymous", map[string]interface{}{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		})
		return nil, ""
	}
	return identity, token
}

// RequireRole checks if user has required role
func (m *AuthMiddleware) RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		role, exists := GetUserRole(c)
		if !exists {
			log.Warn("Role information not found in context", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzRoleNotFound, "无法获取权限信息")
			c.Abort()
			return
		}

		userID, _ := GetUserID(c)

		for _, r := range roles {
			if role == r {
				log.Debug("Role check passed", map[string]interface{}{
					"user_id":       userID,
					"user_role":     role,
					"required_role": r,
				})
				c.Next()
				return
			}
		}

		log.Warn("Insufficient permissions", map[string]interface{}{
			"user_id":        userID,
			"user_role":      role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		errors.Forbidden(c, "无访问权限")
		c.Abort()
	}
}

// RejectRole blocks the listed roles, e.g. admins filing an employee request
func (m *AuthMiddleware) RejectRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := GetUserRole(c)
		for _, r := range roles {
			if role == r {
				GetLoggerFromContext(c).Warn("Role not allowed", map[string]interface{}{
					"user_role": role,
					"path":      c.Request.URL.Path,
				})
				errors.RespondWithError(c, http.StatusForbidden, errors.AuthzEmployeeOnly, "仅限员工申请")
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, identity *model.Identity, token string) {
	c.Set(IdentityKey, identity)
	c.Set(TokenKey, token)
	c.Set(UserIDKey, identity.UserID)
	c.Set(UserEmailKey, identity.Email)
	c.Set(UserRoleKey, identity.Role)
}

// GetIdentity returns the resolved caller, or nil for anonymous requests
func GetIdentity(c *gin.Context) *model.Identity {
	value, exists := c.Get(IdentityKey)
	if !exists {
		return nil
	}
	identity, _ := value.(*model.Identity)
	return identity
}

// GetSessionToken returns the token the caller authenticated with
func GetSessionToken(c *gin.Context) string {
	return c.GetString(TokenKey)
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetUserEmail extracts user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	return email.(string), true
}

// GetUserRole extracts user role from context
func GetUserRole(c *gin.Context) (model.UserRole, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	return role.(model.UserRole), true
}
