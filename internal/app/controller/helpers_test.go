package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/giftbox-backend/config"
	"github.com/ikkim/giftbox-backend/internal/app/controller"
	"github.com/ikkim/giftbox-backend/internal/app/model"
	"github.com/ikkim/giftbox-backend/internal/app/repository"
	"github.com/ikkim/giftbox-backend/internal/app/service"
	"github.com/ikkim/giftbox-backend/internal/db"
	"github.com/ikkim/giftbox-backend/internal/middleware"
	"github.com/ikkim/giftbox-backend/internal/router"
	ws "github.com/ikkim/giftbox-backend/internal/websocket"
	"github.com/ikkim/giftbox-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testJWTSecret  = "test-secret"
	testCookieName = "giftbox_session"
)

type memRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (r *memRevoker) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[tokenID] = true
	return nil
}

func (r *memRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revoked[tokenID], nil
}

type testEnv struct {
	router      *gin.Engine
	db          *gorm.DB
	authService service.AuthService
	hub         *ws.Hub
}

// setupControllerTest builds the server's router against an in-memory database
func setupControllerTest(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	userRepo := repository.NewUserRepository(testDB)
	giftBoxRepo := repository.NewGiftBoxRepository(testDB)

	authService := service.NewAuthService(userRepo, &memRevoker{revoked: map[string]bool{}}, testJWTSecret, time.Hour)
	giftBoxService := service.NewGiftBoxService(giftBoxRepo, hub)
	adminService := service.NewAdminService(giftBoxRepo, hub)

	cfg := &config.Config{
		Server:  config.ServerConfig{GinMode: gin.TestMode},
		Session: config.SessionConfig{CookieName: testCookieName},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"*"}},
	}

	cookie := controller.SessionCookie{Name: testCookieName}
	r := router.NewRouter(
		controller.NewAuthController(authService, cookie),
		controller.NewGiftBoxController(giftBoxService),
		controller.NewAdminController(adminService),
		controller.NewEventController(hub, cfg.CORS.AllowedOrigins),
		controller.NewPageController(authService, giftBoxService, adminService, cookie, true),
		middleware.NewAuthMiddleware(authService, testCookieName),
		cfg,
	)

	return &testEnv{router: r.Setup(), db: testDB, authService: authService, hub: hub}
}

// createUser stores a user whose password equals the email
func (e *testEnv) createUser(t *testing.T, email string, role model.UserRole) *model.User {
	hash, err := util.HashPassword(email)
	require.NoError(t, err)
	user := &model.User{Email: email, PasswordHash: hash, Role: role}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

// token signs a session for user without going through bcrypt
func (e *testEnv) token(t *testing.T, user *model.User) string {
	token, err := util.GenerateSessionToken(user.ID, user.Email, string(user.Role), testJWTSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func (e *testEnv) createGiftBox(t *testing.T, box *model.GiftBox) *model.GiftBox {
	if box.Status == "" {
		box.Status = model.GiftBoxStatusPending
	}
	if box.BoxType == "" {
		box.BoxType = model.BoxTypeStandard
	}
	require.NoError(t, e.db.Omit("User").Create(box).Error)
	return box
}

func (e *testEnv) doJSON(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doPage(method, path, token string, form url.Values) *httptest.ResponseRecorder {
	var reader io.Reader
	if form != nil {
		reader = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, reader)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == testCookieName {
			return cookie
		}
	}
	return nil
}

func strPtr(s string) *string { return &s }
