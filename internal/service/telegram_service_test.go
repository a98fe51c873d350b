package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/apperror"
	"github.com/zahratun/orders-service/internal/service"
)

// MockInitDataVerifier is a mock implementation of port.InitDataVerifier
type MockInitDataVerifier struct {
	mock.Mock
}

func (m *MockInitDataVerifier) Verify(rawInitData string) (*domain.TelegramIdentity, error) {
	args := m.Called(rawInitData)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TelegramIdentity), args.Error(1)
}

// MockTelegramUserRepository is a mock implementation of port.TelegramUserRepository
type MockTelegramUserRepository struct {
	mock.Mock
}

func (m *MockTelegramUserRepository) Upsert(ctx context.Context, user *domain.TelegramUser) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockTelegramUserRepository) FindByTgID(ctx context.Context, tgID int64) (*domain.TelegramUser, error) {
	args := m.Called(ctx, tgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TelegramUser), args.Error(1)
}

func TestTelegramAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("verified identity is upserted with latest profile fields", func(t *testing.T) {
		verifier := new(MockInitDataVerifier)
		userRepo := new(MockTelegramUserRepository)

		verifier.On("Verify", "raw-init-data").Return(&domain.TelegramIdentity{
			TgID:         1001,
			Username:     "ali",
			FirstName:    "Ali",
			LastName:     "Valiyev",
			LanguageCode: "uz",
			IsPremium:    true,
		}, nil)
		userRepo.On("Upsert", ctx, mock.MatchedBy(func(u *domain.TelegramUser) bool {
			return u.TgID == 1001 && u.Username == "ali" && u.IsPremium
		})).Return(nil)

		svc := service.NewTelegramAuthService(verifier, userRepo, testLogger())

		user, err := svc.Authenticate(ctx, "raw-init-data")
		require.NoError(t, err)
		assert.Equal(t, int64(1001), user.TgID)
		assert.Equal(t, "Ali", user.FirstName)

		verifier.AssertExpectations(t)
		userRepo.AssertExpectations(t)
	})

	t.Run("verification failure never touches the repository", func(t *testing.T) {
		verifier := new(MockInitDataVerifier)
		userRepo := new(MockTelegramUserRepository)

		verifier.On("Verify", "tampered").Return(nil, apperror.Unauthorized("invalid init data"))

		svc := service.NewTelegramAuthService(verifier, userRepo, testLogger())

		user, err := svc.Authenticate(ctx, "tampered")
		require.Error(t, err)
		assert.Nil(t, user)

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)

		userRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("upsert failure surfaces as error", func(t *testing.T) {
		verifier := new(MockInitDataVerifier)
		userRepo := new(MockTelegramUserRepository)

		verifier.On("Verify", "raw-init-data").Return(&domain.TelegramIdentity{TgID: 1001}, nil)
		userRepo.On("Upsert", ctx, mock.Anything).Return(assert.AnError)

		svc := service.NewTelegramAuthService(verifier, userRepo, testLogger())

		user, err := svc.Authenticate(ctx, "raw-init-data")
		assert.Error(t, err)
		assert.Nil(t, user)
	})
}
