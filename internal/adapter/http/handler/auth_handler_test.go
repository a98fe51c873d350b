package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zahratun/orders-service/internal/adapter/http/handler"
	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/apperror"
	"github.com/zahratun/orders-service/internal/pkg/logger"
	"github.com/zahratun/orders-service/internal/port"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testLogger returns a quiet logger for tests.
func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "text"})
}

// MockAuthService is a mock implementation of port.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username, password, ipAddress, userAgent string) (*domain.AdminUser, string, error) {
	args := m.Called(ctx, username, password, ipAddress, userAgent)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.AdminUser), args.String(1), args.Error(2)
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*port.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.Claims), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, token, ipAddress, userAgent string) error {
	args := m.Called(ctx, token, ipAddress, userAgent)
	return args.Error(0)
}

func (m *MockAuthService) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthService) CurrentAdmin(ctx context.Context, adminID int64) (*domain.AdminUser, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminUser), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, adminID int64, currentPassword, newPassword, ipAddress, userAgent string) error {
	args := m.Called(ctx, adminID, currentPassword, newPassword, ipAddress, userAgent)
	return args.Error(0)
}

// MockAuthzService is a mock implementation of port.AuthorizationService
type MockAuthzService struct {
	mock.Mock
}

func (m *MockAuthzService) CheckAccess(ctx context.Context, adminID int64, resource, action string) (bool, error) {
	args := m.Called(ctx, adminID, resource, action)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthzService) AddRoleToAdmin(ctx context.Context, adminID int64, role string) error {
	args := m.Called(ctx, adminID, role)
	return args.Error(0)
}

func (m *MockAuthzService) RemoveRoleFromAdmin(ctx context.Context, adminID int64, role string) error {
	args := m.Called(ctx, adminID, role)
	return args.Error(0)
}

func (m *MockAuthzService) GetAdminRoles(ctx context.Context, adminID int64) ([]string, error) {
	args := m.Called(ctx, adminID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAuthzService) ReloadPolicies(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

const testCookieName = "admin_token"

func newTestAuthHandler(authService *MockAuthService, authzService *MockAuthzService) *handler.AuthHandler {
	return handler.NewAuthHandler(authService, authzService, testCookieName, false, testLogger())
}

func performJSON(router *gin.Engine, method, path string, body interface{}, modify func(*http.Request)) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if modify != nil {
		modify(req)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success sets session cookie and returns token", func(t *testing.T) {
		authService := new(MockAuthService)
		authService.On("Login", mock.Anything, "admin", "secret-123", mock.Anything, mock.Anything).Return(&domain.AdminUser{
			ID: 1, Username: "admin", Role: domain.RoleOwner, MustChangePassword: true,
		}, "session-token", nil)

		h := newTestAuthHandler(authService, new(MockAuthzService))
		router := gin.New()
		router.POST("/admin/auth/login", h.Login)

		w := performJSON(router, http.MethodPost, "/admin/auth/login", domain.LoginRequest{
			Username: "admin", Password: "secret-123",
		}, nil)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool `json:"success"`
			Data    struct {
				Token string `json:"token"`
				Admin struct {
					ID                 int64  `json:"id"`
					Username           string `json:"username"`
					Role               string `json:"role"`
					MustChangePassword bool   `json:"must_change_password"`
				} `json:"admin"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "session-token", resp.Data.Token)
		assert.Equal(t, "admin", resp.Data.Admin.Username)
		assert.True(t, resp.Data.Admin.MustChangePassword)

		// Session cookie must be HttpOnly / Cookie сессии должна быть HttpOnly
		cookies := w.Result().Cookies()
		require.NotEmpty(t, cookies)
		var sessionCookie *http.Cookie
		for _, c := range cookies {
			if c.Name == testCookieName {
				sessionCookie = c
			}
		}
		require.NotNil(t, sessionCookie)
		assert.Equal(t, "session-token", sessionCookie.Value)
		assert.True(t, sessionCookie.HttpOnly)
		assert.Equal(t, http.SameSiteStrictMode, sessionCookie.SameSite)
	})

	t.Run("invalid credentials return 401", func(t *testing.T) {
		authService := new(MockAuthService)
		authService.On("Login", mock.Anything, "admin", "wrong", mock.Anything, mock.Anything).
			Return(nil, "", apperror.Unauthorized("invalid credentials"))

		h := newTestAuthHandler(authService, new(MockAuthzService))
		router := gin.New()
		router.POST("/admin/auth/login", h.Login)

		w := performJSON(router, http.MethodPost, "/admin/auth/login", domain.LoginRequest{
			Username: "admin", Password: "wrong",
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("missing fields return 400", func(t *testing.T) {
		h := newTestAuthHandler(new(MockAuthService), new(MockAuthzService))
		router := gin.New()
		router.POST("/admin/auth/login", h.Login)

		w := performJSON(router, http.MethodPost, "/admin/auth/login", map[string]string{"username": "admin"}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_AdminAuthMiddleware(t *testing.T) {
	claims := &port.Claims{AdminID: 1, Username: "admin", Role: domain.RoleOwner}

	newProtectedRouter := func(authService *MockAuthService) *gin.Engine {
		h := newTestAuthHandler(authService, new(MockAuthzService))
		router := gin.New()
		router.GET("/protected", h.AdminAuthMiddleware(), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"admin_id": c.GetInt64("admin_id")})
		})
		return router
	}

	t.Run("accepts session cookie", func(t *testing.T) {
		authService := new(MockAuthService)
		authService.On("ValidateToken", mock.Anything, "cookie-token").Return(claims, nil)
		authService.On("IsTokenBlacklisted", mock.Anything, "cookie-token").Return(false, nil)

		w := performJSON(newProtectedRouter(authService), http.MethodGet, "/protected", nil, func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: testCookieName, Value: "cookie-token"})
		})

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("accepts bearer header", func(t *testing.T) {
		authService := new(MockAuthService)
		authService.On("ValidateToken", mock.Anything, "header-token").Return(claims, nil)
		authService.On("IsTokenBlacklisted", mock.Anything, "header-token").Return(false, nil)

		w := performJSON(newProtectedRouter(authService), http.MethodGet, "/protected", nil, func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer header-token")
		})

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		authService := new(MockAuthService)
		authService.On("ValidateToken", mock.Anything, "cookie-token").Return(claims, nil)
		authService.On("IsTokenBlacklisted", mock.Anything, "cookie-token").Return(false, nil)

		w := performJSON(newProtectedRouter(authService), http.MethodGet, "/protected", nil, func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: testCookieName, Value: "cookie-token"})
			r.Header.Set("Authorization", "Bearer header-token")
		})

		assert.Equal(t, http.StatusOK, w.Code)
		authService.AssertNotCalled(t, "ValidateToken", mock.Anything, "header-token")
	})

	t.Run("missing token returns 401", func(t *testing.T) {
		w := performJSON(newProtectedRouter(new(MockAuthService)), http.MethodGet, "/protected", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token returns 401", func(t *testing.T) {
		authService := new(MockAuthService)
		authService.On("ValidateToken", mock.Anything, "bad-token").Return(nil, apperror.Unauthorized("invalid token"))

		w := performJSON(newProtectedRouter(authService), http.MethodGet, "/protected", nil, func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer bad-token")
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("blacklisted token returns 401", func(t *testing.T) {
		authService := new(MockAuthService)
		authService.On("ValidateToken", mock.Anything, "revoked-token").Return(claims, nil)
		authService.On("IsTokenBlacklisted", mock.Anything, "revoked-token").Return(true, nil)

		w := performJSON(newProtectedRouter(authService), http.MethodGet, "/protected", nil, func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer revoked-token")
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("blacklist check failure is fail-open", func(t *testing.T) {
		authService := new(MockAuthService)
		authService.On("ValidateToken", mock.Anything, "some-token").Return(claims, nil)
		authService.On("IsTokenBlacklisted", mock.Anything, "some-token").Return(false, assert.AnError)

		w := performJSON(newProtectedRouter(authService), http.MethodGet, "/protected", nil, func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer some-token")
		})

		// Redis being down must not lock admins out.
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuthHandler_RBACMiddleware(t *testing.T) {
	claims := &port.Claims{AdminID: 5, Username: "op", Role: domain.RoleOperator}

	newRBACRouter := func(authService *MockAuthService, authzService *MockAuthzService, resource, action string) *gin.Engine {
		h := newTestAuthHandler(authService, authzService)
		router := gin.New()
		router.GET("/guarded", h.AdminAuthMiddleware(), h.RBACMiddleware(resource, action), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
		return router
	}

	authorize := func(authService *MockAuthService) {
		authService.On("ValidateToken", mock.Anything, "token").Return(claims, nil)
		authService.On("IsTokenBlacklisted", mock.Anything, "token").Return(false, nil)
	}

	withToken := func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer token")
	}

	t.Run("allowed", func(t *testing.T) {
		authService := new(MockAuthService)
		authzService := new(MockAuthzService)
		authorize(authService)
		authzService.On("CheckAccess", mock.Anything, int64(5), "orders", "read").Return(true, nil)

		w := performJSON(newRBACRouter(authService, authzService, "orders", "read"), http.MethodGet, "/guarded", nil, withToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("denied returns 403", func(t *testing.T) {
		authService := new(MockAuthService)
		authzService := new(MockAuthzService)
		authorize(authService)
		authzService.On("CheckAccess", mock.Anything, int64(5), "admins", "write").Return(false, nil)

		w := performJSON(newRBACRouter(authService, authzService, "admins", "write"), http.MethodGet, "/guarded", nil, withToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("check failure returns 500", func(t *testing.T) {
		authService := new(MockAuthService)
		authzService := new(MockAuthzService)
		authorize(authService)
		authzService.On("CheckAccess", mock.Anything, int64(5), "orders", "read").Return(false, assert.AnError)

		w := performJSON(newRBACRouter(authService, authzService, "orders", "read"), http.MethodGet, "/guarded", nil, withToken)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	authService := new(MockAuthService)
	authService.On("Logout", mock.Anything, "session-token", mock.Anything, mock.Anything).Return(nil)

	h := newTestAuthHandler(authService, new(MockAuthzService))
	router := gin.New()
	router.POST("/admin/auth/logout", h.Logout)

	w := performJSON(router, http.MethodPost, "/admin/auth/logout", nil, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: testCookieName, Value: "session-token"})
	})

	require.Equal(t, http.StatusOK, w.Code)

	// The cookie is expired on logout / Cookie гасится при выходе
	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
	authService.AssertExpectations(t)
}

func TestAuthHandler_Me(t *testing.T) {
	authService := new(MockAuthService)
	authService.On("ValidateToken", mock.Anything, "token").Return(&port.Claims{AdminID: 3, Username: "admin", Role: domain.RoleManager}, nil)
	authService.On("IsTokenBlacklisted", mock.Anything, "token").Return(false, nil)
	authService.On("CurrentAdmin", mock.Anything, int64(3)).Return(&domain.AdminUser{
		ID: 3, Username: "admin", Role: domain.RoleManager,
	}, nil)

	h := newTestAuthHandler(authService, new(MockAuthzService))
	router := gin.New()
	router.GET("/admin/auth/me", h.AdminAuthMiddleware(), h.Me)

	w := performJSON(router, http.MethodGet, "/admin/auth/me", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer token")
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.Data.ID)
	assert.Equal(t, domain.RoleManager, resp.Data.Role)
}
