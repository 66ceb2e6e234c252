package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/giftbox-backend/internal/app/model"
	"github.com/ikkim/giftbox-backend/internal/app/service"
	apperrors "github.com/ikkim/giftbox-backend/internal/errors"
	"github.com/ikkim/giftbox-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCookieName = "giftbox_session"

var (
	testEmployee = &model.Identity{UserID: 1, Email: "e0001@example.com", Role: model.RoleEmployee}
	testAdmin    = &model.Identity{UserID: 2, Email: "admin@example.com", Role: model.RoleAdmin}
)

// fakeResolver resolves fixed tokens; unknown tokens are invalid
type fakeResolver struct {
	identities map[string]*model.Identity
	errs       map[string]error
	calls      int
}

func (r *fakeResolver) ResolveIdentity(_ context.Context, token string) (*model.Identity, error) {
	r.calls++
	if token == "" {
		return nil, nil
	}
	if err, ok := r.errs[token]; ok {
		return nil, err
	}
	if identity, ok := r.identities[token]; ok {
		return identity, nil
	}
	return nil, util.ErrInvalidToken
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		identities: map[string]*model.Identity{
			"employee-token": testEmployee,
			"admin-token":    testAdmin,
		},
		errs: map[string]error{
			"expired-token": util.ErrExpiredToken,
			"revoked-token": service.ErrSessionRevoked,
			"broken-store":  errors.New("connection refused"),
		},
	}
}

func setupMiddlewareTest() (*gin.Engine, *AuthMiddleware, *fakeResolver) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	resolver := newFakeResolver()
	return router, NewAuthMiddleware(resolver, testCookieName), resolver
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperrors.ErrorResponse {
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	router, authMiddleware, _ := setupMiddlewareTest()

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		email, _ := GetUserEmail(c)
		role, _ := GetUserRole(c)

		c.JSON(http.StatusOK, gin.H{
			"user_id":  userID,
			"email":    email,
			"role":     role,
			"token":    GetSessionToken(c),
			"identity": GetIdentity(c) != nil,
		})
	})

	tests := []struct {
		name  string
		setup func(req *http.Request)
	}{
		{
			name: "Bearer header",
			setup: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer employee-token")
			},
		},
		{
			name: "Session cookie",
			setup: func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: testCookieName, Value: "employee-token"})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			tt.setup(req)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, float64(1), body["user_id"])
			assert.Equal(t, "e0001@example.com", body["email"])
			assert.Equal(t, "employee", body["role"])
			assert.Equal(t, "employee-token", body["token"])
			assert.Equal(t, true, body["identity"])
		})
	}
}

func TestAuthMiddleware_QueryTokenOnlyForStreams(t *testing.T) {
	router, authMiddleware, _ := setupMiddlewareTest()

	handler := func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	}
	router.GET("/api", authMiddleware.Authenticate(), handler)
	router.GET("/stream", authMiddleware.AuthenticateStream(), handler)

	req := httptest.NewRequest("GET", "/api?token=employee-token", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperrors.AuthUnauthorized, decodeError(t, w).Error)

	req = httptest.NewRequest("GET", "/stream?token=employee-token", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":1}`, w.Body.String())

	req = httptest.NewRequest("GET", "/stream?token=expired-token", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperrors.AuthTokenExpired, decodeError(t, w).Error)
}

func TestAuthMiddleware_Authenticate_Failures(t *testing.T) {
	router, authMiddleware, _ := setupMiddlewareTest()

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{name: "No token", header: "", wantCode: apperrors.AuthUnauthorized},
		{name: "Invalid format", header: "Token abc", wantCode: apperrors.AuthTokenInvalid},
		{name: "Empty bearer", header: "Bearer ", wantCode: apperrors.AuthTokenInvalid},
		{name: "Unknown token", header: "Bearer garbage", wantCode: apperrors.AuthTokenInvalid},
		{name: "Expired token", header: "Bearer expired-token", wantCode: apperrors.AuthTokenExpired},
		{name: "Revoked token", header: "Bearer revoked-token", wantCode: apperrors.AuthTokenRevoked},
		{name: "Store failure", header: "Bearer broken-store", wantCode: apperrors.AuthTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, w).Error)
		})
	}
}

func TestAuthMiddleware_HeaderTakesPrecedenceOverCookie(t *testing.T) {
	router, authMiddleware, _ := setupMiddlewareTest()

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		role, _ := GetUserRole(c)
		c.String(http.StatusOK, string(role))
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: "employee-token"})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", w.Body.String())
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	router, authMiddleware, _ := setupMiddlewareTest()

	router.GET("/admin",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole(model.RoleAdmin),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "admin access"})
		},
	)
	router.GET("/any",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole(model.RoleEmployee, model.RoleAdmin),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "ok"})
		},
	)
	router.GET("/no-auth", authMiddleware.RequireRole(model.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name       string
		path       string
		token      string
		wantStatus int
	}{
		{name: "Admin on admin route", path: "/admin", token: "admin-token", wantStatus: http.StatusOK},
		{name: "Employee on admin route", path: "/admin", token: "employee-token", wantStatus: http.StatusForbidden},
		{name: "Employee on multi role route", path: "/any", token: "employee-token", wantStatus: http.StatusOK},
		{name: "Admin on multi role route", path: "/any", token: "admin-token", wantStatus: http.StatusOK},
		{name: "Role without authentication", path: "/no-auth", token: "", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuthMiddleware_RejectRole(t *testing.T) {
	router, authMiddleware, _ := setupMiddlewareTest()

	router.POST("/gift-box",
		authMiddleware.Authenticate(),
		authMiddleware.RejectRole(model.RoleAdmin),
		func(c *gin.Context) {
			c.Status(http.StatusCreated)
		},
	)

	for token, want := range map[string]int{
		"employee-token": http.StatusCreated,
		"admin-token":    http.StatusForbidden,
	} {
		req := httptest.NewRequest("POST", "/gift-box", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, want, w.Code, token)
	}
}

func TestAuthMiddleware_OptionalAuthenticate(t *testing.T) {
	router, authMiddleware, _ := setupMiddlewareTest()

	router.GET("/test", authMiddleware.OptionalAuthenticate(), func(c *gin.Context) {
		if identity := GetIdentity(c); identity != nil {
			c.String(http.StatusOK, identity.Email)
			return
		}
		c.String(http.StatusOK, "guest")
	})

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "No token", token: "", want: "guest"},
		{name: "Valid token", token: "employee-token", want: "e0001@example.com"},
		{name: "Revoked token", token: "revoked-token", want: "guest"},
		{name: "Store failure", token: "broken-store", want: "guest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: testCookieName, Value: tt.token})
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}

func TestContextGetters_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetUserID(c)
	assert.False(t, ok)
	_, ok = GetUserEmail(c)
	assert.False(t, ok)
	_, ok = GetUserRole(c)
	assert.False(t, ok)
	assert.Nil(t, GetIdentity(c))
	assert.Empty(t, GetSessionToken(c))
}

func TestContextGetters_Set(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	setIdentity(c, testAdmin, "admin-token")

	userID, ok := GetUserID(c)
	assert.True(t, ok)
	assert.Equal(t, uint(2), userID)

	role, ok := GetUserRole(c)
	assert.True(t, ok)
	assert.Equal(t, model.RoleAdmin, role)

	assert.Same(t, testAdmin, GetIdentity(c))
}
