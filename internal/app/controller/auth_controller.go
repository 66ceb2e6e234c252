package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/giftbox-backend/internal/app/model"
	"github.com/ikkim/giftbox-backend/internal/app/service"
	apperrors "github.com/ikkim/giftbox-backend/internal/errors"
	"github.com/ikkim/giftbox-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
	cookie      SessionCookie
}

func NewAuthController(authService service.AuthService, cookie SessionCookie) *AuthController {
	return &AuthController{
		authService: authService,
		cookie:      cookie,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userResponse(user *model.User) gin.H {
	return gin.H{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
	}
}

// Login handles user login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, msgInvalidInput)
		return
	}

	user, token, err := ctrl.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "login")
		return
	}

	ctrl.cookie.Set(c, token, ctrl.authService.SessionExpiry())

	c.JSON(http.StatusOK, gin.H{
		"message":    "登录成功",
		"user":       userResponse(user),
		"token":      token,
		"expires_in": int(ctrl.authService.SessionExpiry().Seconds()),
	})
}

// Logout revokes the current session
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	if err := ctrl.authService.Logout(c.Request.Context(), middleware.GetSessionToken(c)); err != nil {
		respondError(c, err, "logout")
		return
	}

	ctrl.cookie.Clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "已退出登录"})
}

// GetMe returns the current user
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}
