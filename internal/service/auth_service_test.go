package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/apperror"
	"github.com/zahratun/orders-service/internal/pkg/logger"
	"github.com/zahratun/orders-service/internal/service"
)

// testLogger returns a quiet logger for tests.
func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "text"})
}

// MockAdminRepository is a mock implementation of port.AdminRepository
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Create(ctx context.Context, admin *domain.AdminUser) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) CreateTx(ctx context.Context, tx *gorm.DB, admin *domain.AdminUser) error {
	args := m.Called(ctx, tx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) FindByID(ctx context.Context, id int64) (*domain.AdminUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminUser), args.Error(1)
}

func (m *MockAdminRepository) FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminUser), args.Error(1)
}

func (m *MockAdminRepository) Update(ctx context.Context, admin *domain.AdminUser) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) UpdateTx(ctx context.Context, tx *gorm.DB, admin *domain.AdminUser) error {
	args := m.Called(ctx, tx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) HardDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAdminRepository) List(ctx context.Context) ([]domain.AdminUser, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.AdminUser), args.Error(1)
}

func (m *MockAdminRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAdminRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

// MockTokenCache is a mock implementation of port.TokenCache
type MockTokenCache struct {
	mock.Mock
}

func (m *MockTokenCache) BlacklistToken(ctx context.Context, tokenID string, expiration time.Duration) error {
	args := m.Called(ctx, tokenID, expiration)
	return args.Error(0)
}

func (m *MockTokenCache) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// MockRateLimitCache is a mock implementation of port.RateLimitCache
type MockRateLimitCache struct {
	mock.Mock
}

func (m *MockRateLimitCache) Increment(ctx context.Context, key string, expiration time.Duration) (int64, error) {
	args := m.Called(ctx, key, expiration)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRateLimitCache) GetCount(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRateLimitCache) Reset(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockAuditService is a mock implementation of port.AuditService
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) LogAction(ctx context.Context, actorID int64, action, resourceType, resourceID string, details map[string]interface{}) error {
	args := m.Called(ctx, actorID, action, resourceType, resourceID, details)
	return args.Error(0)
}

func (m *MockAuditService) LogActionWithContext(ctx context.Context, actorID int64, action, resourceType, resourceID string, details map[string]interface{}, ipAddress, userAgent string) error {
	args := m.Called(ctx, actorID, action, resourceType, resourceID, details, ipAddress, userAgent)
	return args.Error(0)
}

func (m *MockAuditService) GetActorAuditLogs(ctx context.Context, actorID int64, limit int) ([]domain.AuditLog, error) {
	args := m.Called(ctx, actorID, limit)
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}

// newTestAuthService builds an AuthService with the given mocks.
func newTestAuthService(t *testing.T, adminRepo *MockAdminRepository, tokenCache *MockTokenCache, rateLimitCache *MockRateLimitCache, audit *MockAuditService) *service.AuthService {
	t.Helper()

	svc, err := service.NewAuthService(adminRepo, audit, tokenCache, rateLimitCache, service.AuthServiceConfig{
		Secret:           "test-secret",
		SessionTTL:       time.Hour,
		MaxLoginAttempts: 5,
		LockoutDuration:  time.Minute,
	}, testLogger())
	require.NoError(t, err)
	return svc
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestNewAuthService_RequiresSecret(t *testing.T) {
	_, err := service.NewAuthService(new(MockAdminRepository), new(MockAuditService), new(MockTokenCache), new(MockRateLimitCache), service.AuthServiceConfig{}, testLogger())
	require.Error(t, err)
}

func TestAuthService_Login(t *testing.T) {
	const lockoutKey = "login_attempts:admin"

	tests := []struct {
		name        string
		username    string
		password    string
		setupMocks  func(*MockAdminRepository, *MockRateLimitCache, *MockAuditService)
		wantErr     bool
		expectedErr string
	}{
		{
			name:     "success - valid credentials",
			username: "admin",
			password: "correct-password",
			setupMocks: func(repo *MockAdminRepository, rl *MockRateLimitCache, audit *MockAuditService) {
				rl.On("GetCount", mock.Anything, lockoutKey).Return(int64(0), nil)
				repo.On("FindByUsername", mock.Anything, "admin").Return(&domain.AdminUser{
					ID:           1,
					Username:     "admin",
					PasswordHash: hashPassword(t, "correct-password"),
					Role:         domain.RoleOwner,
					IsActive:     true,
				}, nil)
				rl.On("Reset", mock.Anything, lockoutKey).Return(nil)
				audit.On("LogActionWithContext", mock.Anything, int64(1), domain.AuditActionLoginSuccess, domain.AuditResourceTypeAuth, "admin", mock.Anything, mock.Anything, mock.Anything).Return(nil)
			},
			wantErr: false,
		},
		{
			name:     "failure - unknown username",
			username: "admin",
			password: "whatever",
			setupMocks: func(repo *MockAdminRepository, rl *MockRateLimitCache, audit *MockAuditService) {
				rl.On("GetCount", mock.Anything, lockoutKey).Return(int64(0), nil)
				repo.On("FindByUsername", mock.Anything, "admin").Return(nil, apperror.NotFound("admin", "admin"))
				rl.On("Increment", mock.Anything, lockoutKey, mock.Anything).Return(int64(1), nil)
				audit.On("LogActionWithContext", mock.Anything, int64(0), domain.AuditActionLoginFailed, domain.AuditResourceTypeAuth, "admin", mock.Anything, mock.Anything, mock.Anything).Return(nil)
			},
			wantErr:     true,
			expectedErr: apperror.CodeUnauthorized,
		},
		{
			name:     "failure - deactivated account",
			username: "admin",
			password: "correct-password",
			setupMocks: func(repo *MockAdminRepository, rl *MockRateLimitCache, audit *MockAuditService) {
				rl.On("GetCount", mock.Anything, lockoutKey).Return(int64(0), nil)
				repo.On("FindByUsername", mock.Anything, "admin").Return(&domain.AdminUser{
					ID:           1,
					Username:     "admin",
					PasswordHash: hashPassword(t, "correct-password"),
					Role:         domain.RoleOperator,
					IsActive:     false,
				}, nil)
				rl.On("Increment", mock.Anything, lockoutKey, mock.Anything).Return(int64(1), nil)
				audit.On("LogActionWithContext", mock.Anything, int64(1), domain.AuditActionLoginFailed, domain.AuditResourceTypeAuth, "admin", mock.Anything, mock.Anything, mock.Anything).Return(nil)
			},
			wantErr:     true,
			expectedErr: apperror.CodeUnauthorized,
		},
		{
			name:     "failure - wrong password",
			username: "admin",
			password: "wrong-password",
			setupMocks: func(repo *MockAdminRepository, rl *MockRateLimitCache, audit *MockAuditService) {
				rl.On("GetCount", mock.Anything, lockoutKey).Return(int64(0), nil)
				repo.On("FindByUsername", mock.Anything, "admin").Return(&domain.AdminUser{
					ID:           1,
					Username:     "admin",
					PasswordHash: hashPassword(t, "correct-password"),
					Role:         domain.RoleOperator,
					IsActive:     true,
				}, nil)
				rl.On("Increment", mock.Anything, lockoutKey, mock.Anything).Return(int64(1), nil)
				audit.On("LogActionWithContext", mock.Anything, int64(1), domain.AuditActionLoginFailed, domain.AuditResourceTypeAuth, "admin", mock.Anything, mock.Anything, mock.Anything).Return(nil)
			},
			wantErr:     true,
			expectedErr: apperror.CodeUnauthorized,
		},
		{
			name:     "failure - locked after too many attempts",
			username: "admin",
			password: "correct-password",
			setupMocks: func(repo *MockAdminRepository, rl *MockRateLimitCache, audit *MockAuditService) {
				rl.On("GetCount", mock.Anything, lockoutKey).Return(int64(5), nil)
				audit.On("LogActionWithContext", mock.Anything, int64(0), domain.AuditActionLoginLocked, domain.AuditResourceTypeAuth, "admin", mock.Anything, mock.Anything, mock.Anything).Return(nil)
			},
			wantErr:     true,
			expectedErr: apperror.CodeTooManyRequests,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adminRepo := new(MockAdminRepository)
			tokenCache := new(MockTokenCache)
			rateLimitCache := new(MockRateLimitCache)
			audit := new(MockAuditService)
			tt.setupMocks(adminRepo, rateLimitCache, audit)

			svc := newTestAuthService(t, adminRepo, tokenCache, rateLimitCache, audit)

			admin, token, err := svc.Login(context.Background(), tt.username, tt.password, "127.0.0.1", "test-agent")

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, admin)
				assert.Empty(t, token)
				appErr, ok := apperror.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, tt.expectedErr, appErr.Code)
			} else {
				require.NoError(t, err)
				require.NotNil(t, admin)
				assert.NotEmpty(t, token)
				assert.Equal(t, tt.username, admin.Username)
			}

			adminRepo.AssertExpectations(t)
			rateLimitCache.AssertExpectations(t)
			audit.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	// Unknown username and wrong password must produce the same error
	// so accounts cannot be enumerated through the login endpoint.
	adminRepo := new(MockAdminRepository)
	rateLimitCache := new(MockRateLimitCache)
	audit := new(MockAuditService)

	rateLimitCache.On("GetCount", mock.Anything, mock.Anything).Return(int64(0), nil)
	rateLimitCache.On("Increment", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
	audit.On("LogActionWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	adminRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, apperror.NotFound("admin", "ghost"))
	adminRepo.On("FindByUsername", mock.Anything, "real").Return(&domain.AdminUser{
		ID:           7,
		Username:     "real",
		PasswordHash: hashPassword(t, "correct-password"),
		IsActive:     true,
	}, nil)

	svc := newTestAuthService(t, adminRepo, new(MockTokenCache), rateLimitCache, audit)

	_, _, errUnknown := svc.Login(context.Background(), "ghost", "whatever", "", "")
	_, _, errWrongPass := svc.Login(context.Background(), "real", "wrong", "", "")

	require.Error(t, errUnknown)
	require.Error(t, errWrongPass)
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

func TestAuthService_ValidateToken(t *testing.T) {
	adminRepo := new(MockAdminRepository)
	rateLimitCache := new(MockRateLimitCache)
	audit := new(MockAuditService)

	rateLimitCache.On("GetCount", mock.Anything, mock.Anything).Return(int64(0), nil)
	rateLimitCache.On("Reset", mock.Anything, mock.Anything).Return(nil)
	audit.On("LogActionWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	adminRepo.On("FindByUsername", mock.Anything, "admin").Return(&domain.AdminUser{
		ID:           3,
		Username:     "admin",
		PasswordHash: hashPassword(t, "pass-123"),
		Role:         domain.RoleManager,
		IsActive:     true,
	}, nil)

	svc := newTestAuthService(t, adminRepo, new(MockTokenCache), rateLimitCache, audit)

	_, token, err := svc.Login(context.Background(), "admin", "pass-123", "", "")
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		claims, err := svc.ValidateToken(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, int64(3), claims.AdminID)
		assert.Equal(t, "admin", claims.Username)
		assert.Equal(t, domain.RoleManager, claims.Role)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken(context.Background(), "not-a-token")
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		shortLived, err := service.NewAuthService(adminRepo, audit, new(MockTokenCache), rateLimitCache, service.AuthServiceConfig{
			Secret:     "test-secret",
			SessionTTL: -time.Minute,
		}, testLogger())
		require.NoError(t, err)

		_, expiredToken, err := shortLived.Login(context.Background(), "admin", "pass-123", "", "")
		require.NoError(t, err)

		claims, err := svc.ValidateToken(context.Background(), expiredToken)
		require.Error(t, err)
		assert.Nil(t, claims)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other, err := service.NewAuthService(adminRepo, audit, new(MockTokenCache), rateLimitCache, service.AuthServiceConfig{
			Secret: "another-secret",
		}, testLogger())
		require.NoError(t, err)

		_, otherToken, err := other.Login(context.Background(), "admin", "pass-123", "", "")
		require.NoError(t, err)

		_, err = svc.ValidateToken(context.Background(), otherToken)
		require.Error(t, err)
	})
}

func TestAuthService_LogoutBlacklistsToken(t *testing.T) {
	adminRepo := new(MockAdminRepository)
	tokenCache := new(MockTokenCache)
	rateLimitCache := new(MockRateLimitCache)
	audit := new(MockAuditService)

	rateLimitCache.On("GetCount", mock.Anything, mock.Anything).Return(int64(0), nil)
	rateLimitCache.On("Reset", mock.Anything, mock.Anything).Return(nil)
	audit.On("LogActionWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	adminRepo.On("FindByUsername", mock.Anything, "admin").Return(&domain.AdminUser{
		ID:           1,
		Username:     "admin",
		PasswordHash: hashPassword(t, "pass-123"),
		IsActive:     true,
	}, nil)

	tokenCache.On("BlacklistToken", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(nil)
	tokenCache.On("IsBlacklisted", mock.Anything, mock.AnythingOfType("string")).Return(true, nil)

	svc := newTestAuthService(t, adminRepo, tokenCache, rateLimitCache, audit)

	_, token, err := svc.Login(context.Background(), "admin", "pass-123", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token, "", ""))

	blacklisted, err := svc.IsTokenBlacklisted(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, blacklisted)

	tokenCache.AssertExpectations(t)
}

func TestAuthService_Logout_InvalidTokenIsNoop(t *testing.T) {
	svc := newTestAuthService(t, new(MockAdminRepository), new(MockTokenCache), new(MockRateLimitCache), new(MockAuditService))

	// Invalid tokens need no blacklisting, logout still succeeds.
	require.NoError(t, svc.Logout(context.Background(), "garbage", "", ""))
}

func TestAuthService_CurrentAdmin(t *testing.T) {
	tests := []struct {
		name      string
		adminID   int64
		setupMock func(*MockAdminRepository)
		wantErr   bool
	}{
		{
			name:    "success - active account",
			adminID: 1,
			setupMock: func(m *MockAdminRepository) {
				m.On("FindByID", mock.Anything, int64(1)).Return(&domain.AdminUser{ID: 1, Username: "admin", IsActive: true}, nil)
			},
		},
		{
			name:    "failure - account deleted after token issue",
			adminID: 2,
			setupMock: func(m *MockAdminRepository) {
				m.On("FindByID", mock.Anything, int64(2)).Return(nil, apperror.NotFound("admin", 2))
			},
			wantErr: true,
		},
		{
			name:    "failure - account deactivated after token issue",
			adminID: 3,
			setupMock: func(m *MockAdminRepository) {
				m.On("FindByID", mock.Anything, int64(3)).Return(&domain.AdminUser{ID: 3, Username: "former", IsActive: false}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adminRepo := new(MockAdminRepository)
			tt.setupMock(adminRepo)

			svc := newTestAuthService(t, adminRepo, new(MockTokenCache), new(MockRateLimitCache), new(MockAuditService))

			admin, err := svc.CurrentAdmin(context.Background(), tt.adminID)
			if tt.wantErr {
				require.Error(t, err)
				appErr, ok := apperror.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.adminID, admin.ID)
			}

			adminRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	t.Run("success clears must-change flag", func(t *testing.T) {
		adminRepo := new(MockAdminRepository)
		audit := new(MockAuditService)
		audit.On("LogActionWithContext", mock.Anything, mock.Anything, domain.AuditActionPasswordChange, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		adminRepo.On("FindByID", mock.Anything, int64(1)).Return(&domain.AdminUser{
			ID:                 1,
			Username:           "admin",
			PasswordHash:       hashPassword(t, "old-password"),
			IsActive:           true,
			MustChangePassword: true,
		}, nil)
		adminRepo.On("Update", mock.Anything, mock.MatchedBy(func(a *domain.AdminUser) bool {
			return !a.MustChangePassword &&
				bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("new-password")) == nil
		})).Return(nil)

		svc := newTestAuthService(t, adminRepo, new(MockTokenCache), new(MockRateLimitCache), audit)

		err := svc.ChangePassword(context.Background(), 1, "old-password", "new-password", "", "")
		require.NoError(t, err)
		adminRepo.AssertExpectations(t)
	})

	t.Run("failure - wrong current password", func(t *testing.T) {
		adminRepo := new(MockAdminRepository)
		adminRepo.On("FindByID", mock.Anything, int64(1)).Return(&domain.AdminUser{
			ID:           1,
			Username:     "admin",
			PasswordHash: hashPassword(t, "old-password"),
			IsActive:     true,
		}, nil)

		svc := newTestAuthService(t, adminRepo, new(MockTokenCache), new(MockRateLimitCache), new(MockAuditService))

		err := svc.ChangePassword(context.Background(), 1, "not-the-password", "new-password", "", "")
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	})
}

func TestAuthService_ConcurrentTokenValidation(t *testing.T) {
	adminRepo := new(MockAdminRepository)
	rateLimitCache := new(MockRateLimitCache)
	audit := new(MockAuditService)

	rateLimitCache.On("GetCount", mock.Anything, mock.Anything).Return(int64(0), nil)
	rateLimitCache.On("Reset", mock.Anything, mock.Anything).Return(nil)
	audit.On("LogActionWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	adminRepo.On("FindByUsername", mock.Anything, "admin").Return(&domain.AdminUser{
		ID:           1,
		Username:     "admin",
		PasswordHash: hashPassword(t, "pass-123"),
		IsActive:     true,
	}, nil)

	svc := newTestAuthService(t, adminRepo, new(MockTokenCache), rateLimitCache, audit)

	_, token, err := svc.Login(context.Background(), "admin", "pass-123", "", "")
	require.NoError(t, err)

	const goroutines = 50
	var wg sync.WaitGroup
	errs := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, validateErr := svc.ValidateToken(context.Background(), token); validateErr != nil {
				errs <- validateErr
			}
		}()
	}

	wg.Wait()
	close(errs)

	for validateErr := range errs {
		t.Errorf("concurrent validation failed: %v", validateErr)
	}
}
