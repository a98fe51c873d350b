// Package service contains the business logic layer of the application.
// Пакет service содержит слой бизнес-логики приложения.
//
// Services implement the business rules and orchestrate operations
// between repositories and other components.
// Сервисы реализуют бизнес-правила и координируют операции
// между репозиториями и другими компонентами.
package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/apperror"
	"github.com/zahratun/orders-service/internal/pkg/logger"
	"github.com/zahratun/orders-service/internal/port"
)

// AuthService implements port.AuthService interface.
// AuthService реализует интерфейс port.AuthService.
//
// Provides admin authentication: login with lockout protection, session
// token issuance and validation (JWT HS256), logout via token blacklist,
// and password changes.
// Предоставляет аутентификацию администраторов: вход с защитой от перебора,
// выдачу и проверку токенов сессий (JWT HS256), выход через чёрный список
// токенов и смену паролей.
type AuthService struct {
	adminRepo        port.AdminRepository // Admin repository / Репозиторий админ-аккаунтов
	auditService     port.AuditService    // Audit service for logging / Сервис аудита для логирования
	tokenCache       port.TokenCache      // Token blacklist cache / Кэш чёрного списка токенов
	rateLimitCache   port.RateLimitCache  // Rate limit cache for login attempts / Кэш ограничений для попыток входа
	secret           []byte               // HMAC signing secret / Секрет подписи HMAC
	sessionTTL       time.Duration        // Session token time-to-live / Время жизни токена сессии
	maxLoginAttempts int                  // Max failed login attempts before lockout / Макс. неудачных попыток до блокировки
	lockoutDuration  time.Duration        // Duration of login lockout / Длительность блокировки входа
	logger           *logger.Logger       // Logger instance / Экземпляр логгера
}

// AuthServiceConfig holds configuration for AuthService.
// AuthServiceConfig содержит конфигурацию для AuthService.
type AuthServiceConfig struct {
	Secret           string        // HMAC signing secret / Секрет подписи HMAC
	SessionTTL       time.Duration // Session token TTL / TTL токена сессии
	MaxLoginAttempts int           // Max failed login attempts before lockout / Макс. неудачных попыток до блокировки
	LockoutDuration  time.Duration // Duration of login lockout / Длительность блокировки входа
}

// DefaultAuthServiceConfig returns default configuration.
// DefaultAuthServiceConfig возвращает конфигурацию по умолчанию.
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		SessionTTL:       7 * 24 * time.Hour, // 7 days / 7 дней
		MaxLoginAttempts: 5,                  // 5 attempts / 5 попыток
		LockoutDuration:  time.Minute,        // 1 minute window / Окно в 1 минуту
	}
}

// NewAuthService creates a new AuthService instance.
// NewAuthService создаёт новый экземпляр AuthService.
func NewAuthService(
	adminRepo port.AdminRepository,
	auditService port.AuditService,
	tokenCache port.TokenCache,
	rateLimitCache port.RateLimitCache,
	config AuthServiceConfig,
	log *logger.Logger,
) (*AuthService, error) {
	if config.Secret == "" {
		return nil, apperror.Internal("JWT secret is not configured", nil)
	}

	sessionTTL := config.SessionTTL
	if sessionTTL == 0 {
		sessionTTL = 7 * 24 * time.Hour // 7 days / 7 дней
	}
	maxLoginAttempts := config.MaxLoginAttempts
	if maxLoginAttempts == 0 {
		maxLoginAttempts = 5 // Default 5 attempts / По умолчанию 5 попыток
	}
	lockoutDuration := config.LockoutDuration
	if lockoutDuration == 0 {
		lockoutDuration = time.Minute // Default 1 minute / По умолчанию 1 минута
	}

	return &AuthService{
		adminRepo:        adminRepo,
		auditService:     auditService,
		tokenCache:       tokenCache,
		rateLimitCache:   rateLimitCache,
		secret:           []byte(config.Secret),
		sessionTTL:       sessionTTL,
		maxLoginAttempts: maxLoginAttempts,
		lockoutDuration:  lockoutDuration,
		logger:           log.WithComponent("auth_service"),
	}, nil
}

// Login authenticates an admin and returns the account with a session token.
// Rejections are deliberately indistinguishable: unknown username, inactive
// account and wrong password all produce the same unauthorized error.
// Login аутентифицирует администратора и возвращает аккаунт с токеном сессии.
// Отказы намеренно неразличимы: неизвестный логин, неактивный аккаунт и
// неверный пароль дают одинаковую ошибку авторизации.
func (s *AuthService) Login(ctx context.Context, username, password, ipAddress, userAgent string) (*domain.AdminUser, string, error) {
	log := s.logger.WithContext(ctx)

	// Check if login is locked due to too many failed attempts
	// Проверяем, заблокирован ли вход из-за множества неудачных попыток
	lockoutKey := s.getLockoutKey(username)
	if locked, lockErr := s.isLoginLocked(ctx, lockoutKey); lockErr != nil {
		log.Warn("failed to check login lockout", "username", username, "error", lockErr)
	} else if locked {
		log.LogAuthAttempt(username, false, "login locked due to too many failed attempts")
		// Audit log: login attempt while locked
		s.logAuditEvent(ctx, 0, domain.AuditActionLoginLocked, username, map[string]interface{}{
			"reason": "too_many_failed_attempts",
		}, ipAddress, userAgent)
		return nil, "", apperror.TooManyRequests("too many login attempts, try again later", int(s.lockoutDuration.Seconds()))
	}

	// Find admin by username / Ищем администратора по логину
	admin, err := s.adminRepo.FindByUsername(ctx, username)
	if err != nil {
		// Increment failed attempts even for non-existent accounts to prevent enumeration
		// Увеличиваем счётчик неудачных попыток даже для несуществующих аккаунтов
		s.recordFailedLoginAttempt(ctx, lockoutKey, username)
		log.LogAuthAttempt(username, false, "admin not found")
		// Audit log: failed login (account not found)
		s.logAuditEvent(ctx, 0, domain.AuditActionLoginFailed, username, map[string]interface{}{
			"reason": "admin_not_found",
		}, ipAddress, userAgent)
		// Return generic error to prevent account enumeration
		// Возвращаем общую ошибку для предотвращения перебора аккаунтов
		return nil, "", apperror.Unauthorized("invalid credentials")
	}

	// Check if account is deactivated / Проверяем, деактивирован ли аккаунт
	if !admin.IsActive {
		s.recordFailedLoginAttempt(ctx, lockoutKey, username)
		log.LogAuthAttempt(username, false, "admin deactivated")
		// Audit log: failed login (account deactivated)
		s.logAuditEvent(ctx, admin.ID, domain.AuditActionLoginFailed, username, map[string]interface{}{
			"reason": "admin_deactivated",
		}, ipAddress, userAgent)
		return nil, "", apperror.Unauthorized("invalid credentials")
	}

	// Verify password / Проверяем пароль
	if bcryptErr := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); bcryptErr != nil {
		s.recordFailedLoginAttempt(ctx, lockoutKey, username)
		log.LogAuthAttempt(username, false, "invalid password")
		// Audit log: failed login (invalid password)
		s.logAuditEvent(ctx, admin.ID, domain.AuditActionLoginFailed, username, map[string]interface{}{
			"reason": "invalid_password",
		}, ipAddress, userAgent)
		return nil, "", apperror.Unauthorized("invalid credentials")
	}

	// Reset failed login attempts on successful authentication
	// Сбрасываем счётчик неудачных попыток при успешной аутентификации
	if resetErr := s.rateLimitCache.Reset(ctx, lockoutKey); resetErr != nil {
		log.Warn("failed to reset login attempts counter", "username", username, "error", resetErr)
	}

	// Generate session token / Генерируем токен сессии
	token, err := s.generateSessionToken(admin)
	if err != nil {
		log.Error("failed to generate session token", "admin_id", admin.ID, "error", err)
		return nil, "", apperror.Internal("failed to generate token", err)
	}

	// Audit log: successful login
	s.logAuditEvent(ctx, admin.ID, domain.AuditActionLoginSuccess, username, map[string]interface{}{
		"role":                 admin.Role,
		"must_change_password": admin.MustChangePassword,
	}, ipAddress, userAgent)

	log.LogAuthAttempt(username, true, "login successful")
	return admin, token, nil
}

// getLockoutKey generates a cache key for login attempt tracking.
// getLockoutKey генерирует ключ кэша для отслеживания попыток входа.
func (s *AuthService) getLockoutKey(username string) string {
	return "login_attempts:" + username
}

// isLoginLocked checks if login is locked due to too many failed attempts.
// isLoginLocked проверяет, заблокирован ли вход из-за множества неудачных попыток.
func (s *AuthService) isLoginLocked(ctx context.Context, lockoutKey string) (bool, error) {
	count, err := s.rateLimitCache.GetCount(ctx, lockoutKey)
	if err != nil {
		return false, err
	}
	return count >= int64(s.maxLoginAttempts), nil
}

// recordFailedLoginAttempt increments the failed login attempt counter.
// recordFailedLoginAttempt увеличивает счётчик неудачных попыток входа.
func (s *AuthService) recordFailedLoginAttempt(ctx context.Context, lockoutKey, username string) {
	log := s.logger.WithContext(ctx)
	count, err := s.rateLimitCache.Increment(ctx, lockoutKey, s.lockoutDuration)
	if err != nil {
		log.Warn("failed to increment login attempts counter", "username", username, "error", err)
		return
	}
	if count >= int64(s.maxLoginAttempts) {
		log.Warn("login locked due to too many failed attempts", "username", username, "attempts", count)
	}
}

// logAuditEvent logs an authentication event to the audit log.
// logAuditEvent записывает событие аутентификации в аудит-лог.
func (s *AuthService) logAuditEvent(ctx context.Context, adminID int64, action, resourceID string, details map[string]interface{}, ipAddress, userAgent string) {
	if s.auditService == nil {
		return
	}
	if err := s.auditService.LogActionWithContext(ctx, adminID, action, domain.AuditResourceTypeAuth, resourceID, details, ipAddress, userAgent); err != nil {
		s.logger.WithContext(ctx).Warn("failed to log audit event", "action", action, "error", err)
	}
}

// generateSessionToken generates a signed JWT session token for an admin.
// generateSessionToken генерирует подписанный JWT токен сессии для администратора.
func (s *AuthService) generateSessionToken(admin *domain.AdminUser) (string, error) {
	now := time.Now()

	// Generate unique JWT ID for blacklist support
	// Генерируем уникальный JWT ID для поддержки blacklist
	jti, err := s.generateJTI()
	if err != nil {
		return "", fmt.Errorf("failed to generate JTI: %w", err)
	}

	claims := port.Claims{
		AdminID:  admin.ID,
		Username: admin.Username,
		Role:     admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "orders-service",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// generateJTI generates a unique JWT ID.
// generateJTI генерирует уникальный JWT ID.
func (s *AuthService) generateJTI() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", bytes), nil
}

// ValidateToken validates a JWT session token and returns the claims.
// ValidateToken проверяет JWT токен сессии и возвращает claims.
func (s *AuthService) ValidateToken(_ context.Context, tokenString string) (*port.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &port.Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method / Проверяем метод подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, apperror.Unauthorized("invalid token")
	}

	claims, ok := token.Claims.(*port.Claims)
	if !ok || !token.Valid {
		return nil, apperror.Unauthorized("invalid token")
	}

	return claims, nil
}

// Logout blacklists the session token for its remaining lifetime.
// Logout помещает токен сессии в чёрный список на оставшийся срок.
func (s *AuthService) Logout(ctx context.Context, token string, ipAddress, userAgent string) error {
	log := s.logger.WithContext(ctx)

	claims, err := s.ValidateToken(ctx, token)
	if err != nil {
		// An invalid or expired token needs no blacklisting.
		// Невалидный или истёкший токен не требует чёрного списка.
		return nil
	}

	if claims.ID != "" {
		var ttl time.Duration
		if claims.ExpiresAt != nil {
			ttl = time.Until(claims.ExpiresAt.Time)
		}
		if ttl <= 0 {
			ttl = s.sessionTTL
		}
		if blErr := s.tokenCache.BlacklistToken(ctx, claims.ID, ttl); blErr != nil {
			log.Warn("failed to blacklist session token", "admin_id", claims.AdminID, "error", blErr)
			// Don't fail logout if blacklisting fails / Не прерываем logout, если blacklist не удался
		}
	}

	// Audit log: logout
	s.logAuditEvent(ctx, claims.AdminID, domain.AuditActionLogout, strconv.FormatInt(claims.AdminID, 10), map[string]interface{}{
		"token_blacklisted": claims.ID != "",
	}, ipAddress, userAgent)

	log.Info("admin logged out", "admin_id", claims.AdminID)
	return nil
}

// IsTokenBlacklisted checks if a token was revoked by logout.
// IsTokenBlacklisted проверяет, был ли токен отозван выходом.
func (s *AuthService) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	claims, err := s.ValidateToken(ctx, token)
	if err != nil {
		return false, err
	}
	if claims.ID == "" {
		return false, nil
	}
	return s.tokenCache.IsBlacklisted(ctx, claims.ID)
}

// CurrentAdmin loads the admin account behind a validated session.
// Fails if the account was deleted or deactivated after the token was issued.
// CurrentAdmin загружает админ-аккаунт за проверенной сессией.
// Ошибка, если аккаунт удалён или деактивирован после выдачи токена.
func (s *AuthService) CurrentAdmin(ctx context.Context, adminID int64) (*domain.AdminUser, error) {
	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		return nil, apperror.Unauthorized("session is no longer valid")
	}
	if !admin.IsActive {
		return nil, apperror.Unauthorized("session is no longer valid")
	}
	return admin, nil
}

// ChangePassword verifies the current password and sets a new one,
// clearing the must-change flag.
// ChangePassword проверяет текущий пароль и устанавливает новый,
// снимая флаг обязательной смены.
func (s *AuthService) ChangePassword(ctx context.Context, adminID int64, currentPassword, newPassword, ipAddress, userAgent string) error {
	log := s.logger.WithContext(ctx)

	// Find admin / Находим администратора
	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		return err
	}

	// Verify current password / Проверяем текущий пароль
	if bcryptErr := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(currentPassword)); bcryptErr != nil {
		return apperror.Unauthorized("invalid current password")
	}

	// Hash new password / Хэшируем новый пароль
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return apperror.Internal("failed to hash password", err)
	}

	// Update admin / Обновляем администратора
	admin.PasswordHash = string(hashedPassword)
	admin.MustChangePassword = false
	admin.UpdatedAt = time.Now()

	if err := s.adminRepo.Update(ctx, admin); err != nil {
		log.Error("failed to update password", "admin_id", adminID, "error", err)
		return err
	}

	// Audit log: password changed
	s.logAuditEvent(ctx, adminID, domain.AuditActionPasswordChange, admin.Username, map[string]interface{}{
		"username": admin.Username,
	}, ipAddress, userAgent)

	log.Info("password changed successfully", "admin_id", adminID)
	return nil
}

// Ensure interface compliance. / Проверка соответствия интерфейсу.
var _ port.AuthService = (*AuthService)(nil)
