package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zahratun/orders-service/internal/adapter/http/handler"
	"github.com/zahratun/orders-service/internal/adapter/http/middleware"
	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/apperror"
	"github.com/zahratun/orders-service/internal/port"
)

// ==================== Mocks ====================

// MockTelegramAuthService is a mock implementation of port.TelegramAuthService.
type MockTelegramAuthService struct {
	mock.Mock
}

func (m *MockTelegramAuthService) Authenticate(ctx context.Context, rawInitData string) (*domain.TelegramUser, error) {
	args := m.Called(ctx, rawInitData)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TelegramUser), args.Error(1)
}

// Compile-time interface compliance check / Проверка соответствия интерфейсу
var _ port.TelegramAuthService = (*MockTelegramAuthService)(nil)

// ==================== Tests ====================

func TestTelegramHandler_Authenticate(t *testing.T) {
	t.Run("init data in header", func(t *testing.T) {
		authService := new(MockTelegramAuthService)
		authService.On("Authenticate", mock.Anything, "signed-payload").
			Return(&domain.TelegramUser{TgID: 1001, Username: "customer"}, nil)

		h := handler.NewTelegramHandler(authService, testLogger())
		router := gin.New()
		router.POST("/api/auth/telegram", h.Authenticate)

		w := performJSON(router, http.MethodPost, "/api/auth/telegram", nil, func(req *http.Request) {
			req.Header.Set(middleware.InitDataHeader, "signed-payload")
		})

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data domain.TelegramUser `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(1001), resp.Data.TgID)
		authService.AssertExpectations(t)
	})

	t.Run("init data in body when header absent", func(t *testing.T) {
		authService := new(MockTelegramAuthService)
		authService.On("Authenticate", mock.Anything, "signed-payload").
			Return(&domain.TelegramUser{TgID: 1001}, nil)

		h := handler.NewTelegramHandler(authService, testLogger())
		router := gin.New()
		router.POST("/api/auth/telegram", h.Authenticate)

		w := performJSON(router, http.MethodPost, "/api/auth/telegram", handler.TelegramAuthRequest{
			InitData: "signed-payload",
		}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		authService.AssertExpectations(t)
	})

	t.Run("verification failure returns 401", func(t *testing.T) {
		authService := new(MockTelegramAuthService)
		authService.On("Authenticate", mock.Anything, "tampered").
			Return(nil, apperror.Unauthorized("invalid init data"))

		h := handler.NewTelegramHandler(authService, testLogger())
		router := gin.New()
		router.POST("/api/auth/telegram", h.Authenticate)

		w := performJSON(router, http.MethodPost, "/api/auth/telegram", handler.TelegramAuthRequest{
			InitData: "tampered",
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		authService.AssertExpectations(t)
	})
}
