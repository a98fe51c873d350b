// Package handler provides HTTP request handlers for the orders service.
// Пакет handler предоставляет обработчики HTTP запросов для сервиса заказов.
package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zahratun/orders-service/internal/adapter/http/middleware"
	"github.com/zahratun/orders-service/internal/adapter/http/response"
	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/logger"
	"github.com/zahratun/orders-service/internal/pkg/validator"
	"github.com/zahratun/orders-service/internal/port"
)

// sessionCookieMaxAge is the lifetime of the admin session cookie in seconds (7 days).
// sessionCookieMaxAge — срок жизни cookie админ-сессии в секундах (7 дней).
const sessionCookieMaxAge = 7 * 24 * 60 * 60

// AuthHandler handles admin authentication HTTP requests.
// AuthHandler обрабатывает HTTP запросы аутентификации администраторов.
//
// Provides endpoints for login, logout, session introspection and
// password change, plus the session and RBAC middleware.
// Предоставляет эндпоинты входа, выхода, проверки сессии и смены пароля,
// а также middleware сессий и RBAC.
type AuthHandler struct {
	authService  port.AuthService          // Authentication service / Сервис аутентификации
	authzService port.AuthorizationService // Authorization service / Сервис авторизации
	cookieName   string                    // Session cookie name / Имя cookie сессии
	cookieSecure bool                      // Secure cookie flag / Флаг Secure у cookie
	logger       *logger.Logger            // Logger instance / Экземпляр логгера
}

// NewAuthHandler creates a new AuthHandler instance.
// NewAuthHandler создаёт новый экземпляр AuthHandler.
func NewAuthHandler(
	authService port.AuthService,
	authzService port.AuthorizationService,
	cookieName string,
	cookieSecure bool,
	log *logger.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		authzService: authzService,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
		logger:       log.WithComponent("auth_handler"),
	}
}

// AdminInfo represents admin account information in responses.
// AdminInfo представляет информацию об админ-аккаунте в ответах.
type AdminInfo struct {
	ID                 int64  `json:"id"`                   // Account ID / ID аккаунта
	Username           string `json:"username"`             // Login name / Логин
	Role               string `json:"role"`                 // Access role / Роль доступа
	MustChangePassword bool   `json:"must_change_password"` // Password change required / Требуется смена пароля
}

// LoginResponse represents a successful login response.
//
// The token is delivered twice: as the HttpOnly session cookie and in
// the body for clients that authenticate with the Authorization header.
// LoginResponse представляет успешный ответ на вход.
//
// Токен передаётся дважды: в HttpOnly cookie сессии и в теле для
// клиентов, аутентифицирующихся заголовком Authorization.
type LoginResponse struct {
	Token string    `json:"token"` // Session token / Токен сессии
	Admin AdminInfo `json:"admin"` // Account information / Информация об аккаунте
}

// Login handles POST /admin/auth/login endpoint.
// Login обрабатывает POST /admin/auth/login эндпоинт.
// @Summary Admin login
// @Description Authenticate admin and start a session
// @Tags admin-auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse{data=LoginResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 429 {object} response.APIResponse
// @Router /admin/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", map[string]interface{}{
			"details": err.Error(),
		})
		return
	}

	admin, token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password, c.ClientIP(), c.Request.UserAgent())
	middleware.RecordAuthAttempt(err == nil)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookie(c, token, sessionCookieMaxAge)

	response.Success(c, LoginResponse{
		Token: token,
		Admin: AdminInfo{
			ID:                 admin.ID,
			Username:           admin.Username,
			Role:               admin.Role,
			MustChangePassword: admin.MustChangePassword,
		},
	})
}

// Logout handles POST /admin/auth/logout endpoint.
// Logout обрабатывает POST /admin/auth/logout эндпоинт.
// @Summary Admin logout
// @Description Revoke the current session and clear the session cookie
// @Tags admin-auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /admin/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := h.extractToken(c)
	if token == "" {
		response.Unauthorized(c, "")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), token, c.ClientIP(), c.Request.UserAgent()); err != nil {
		response.Error(c, err)
		return
	}

	// Expire the cookie immediately / Немедленно гасим cookie
	h.setSessionCookie(c, "", -1)

	response.Success(c, gin.H{"message": "Logged out successfully"})
}

// Me handles GET /admin/auth/me endpoint.
// Me обрабатывает GET /admin/auth/me эндпоинт.
// @Summary Current admin
// @Description Get the account behind the current session
// @Tags admin-auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse{data=AdminInfo}
// @Failure 401 {object} response.APIResponse
// @Router /admin/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	adminID := c.GetInt64("admin_id")

	admin, err := h.authService.CurrentAdmin(c.Request.Context(), adminID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, AdminInfo{
		ID:                 admin.ID,
		Username:           admin.Username,
		Role:               admin.Role,
		MustChangePassword: admin.MustChangePassword,
	})
}

// ChangePassword handles POST /admin/auth/change-password endpoint.
// ChangePassword обрабатывает POST /admin/auth/change-password эндпоинт.
// @Summary Change own password
// @Description Change password for the authenticated admin
// @Tags admin-auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body domain.ChangePasswordRequest true "Password change data"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /admin/auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req domain.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", map[string]interface{}{
			"details": err.Error(),
		})
		return
	}

	// Validate password quality / Проверяем качество пароля
	validationResult := validator.ValidatePassword(req.NewPassword, validator.AdminPasswordRequirements())
	if !validationResult.Valid {
		response.ValidationError(c, "password does not meet requirements", map[string]interface{}{
			"errors":   validationResult.Errors,
			"strength": validationResult.Strength.String(),
		})
		return
	}

	adminID := c.GetInt64("admin_id")
	if err := h.authService.ChangePassword(c.Request.Context(), adminID, req.CurrentPassword, req.NewPassword, c.ClientIP(), c.Request.UserAgent()); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "Password changed successfully"})
}

// AdminAuthMiddleware returns the admin session middleware.
//
// The session cookie is checked first, the Authorization header second,
// so browser panels and API clients share the same endpoints.
// AdminAuthMiddleware возвращает middleware админ-сессий.
//
// Сначала проверяется cookie сессии, затем заголовок Authorization,
// поэтому браузерные панели и API-клиенты делят одни эндпоинты.
func (h *AuthHandler) AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := h.extractToken(c)
		if token == "" {
			response.Unauthorized(c, "missing session token")
			c.Abort()
			return
		}

		claims, err := h.authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired session")
			c.Abort()
			return
		}

		// Check if the session was revoked by logout
		// Проверяем, не была ли сессия отозвана выходом
		isBlacklisted, blacklistErr := h.authService.IsTokenBlacklisted(c.Request.Context(), token)
		if blacklistErr != nil {
			h.logger.Warn("failed to check token blacklist", "error", blacklistErr)
			// Continue if blacklist check fails (fail-open for availability)
			// Продолжаем, если проверка blacklist не удалась (fail-open для доступности)
		} else if isBlacklisted {
			response.Unauthorized(c, "session has been revoked")
			c.Abort()
			return
		}

		// Set admin info in context / Устанавливаем информацию об админе в контекст
		c.Set("admin_id", claims.AdminID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		// Add admin ID to logger context / Добавляем ID админа в контекст логгера
		ctx := logger.WithUserIDContext(c.Request.Context(), claims.AdminID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RBACMiddleware returns authorization middleware for a specific resource and action.
// RBACMiddleware возвращает middleware авторизации для конкретного ресурса и действия.
//
// Checks if the authenticated admin has permission to perform the action on the resource.
// Проверяет, имеет ли аутентифицированный админ разрешение на выполнение действия над ресурсом.
func (h *AuthHandler) RBACMiddleware(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, exists := c.Get("admin_id")
		if !exists {
			response.Unauthorized(c, "")
			c.Abort()
			return
		}

		aid, ok := adminID.(int64)
		if !ok {
			response.InternalError(c, "invalid admin id type")
			c.Abort()
			return
		}
		allowed, err := h.authzService.CheckAccess(c.Request.Context(), aid, resource, action)
		if err != nil {
			h.logger.Error("authorization check failed", "admin_id", adminID, "resource", resource, "action", action, "error", err)
			response.InternalError(c, "authorization check failed")
			c.Abort()
			return
		}

		middleware.RecordAuthzDecision(allowed, resource, action)
		if !allowed {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// extractToken resolves the session token: cookie first, then the
// Authorization header.
// extractToken извлекает токен сессии: сначала cookie, затем заголовок
// Authorization.
func (h *AuthHandler) extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(h.cookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	// Parse "Bearer <token>" format / Парсим формат "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// setSessionCookie writes the HttpOnly session cookie.
// setSessionCookie записывает HttpOnly cookie сессии.
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookieName, token, maxAge, "/", "", h.cookieSecure, true)
}
