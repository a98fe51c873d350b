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
	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/apperror"
	"github.com/zahratun/orders-service/internal/port"
)

// MockOrderService is a mock implementation of port.OrderService
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, identity *domain.TelegramIdentity, req *domain.CreateOrderRequest) (*domain.Order, error) {
	args := m.Called(ctx, identity, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) ListCustomerOrders(ctx context.Context, tgID int64) ([]domain.Order, error) {
	args := m.Called(ctx, tgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderService) GetCustomerOrder(ctx context.Context, orderID, tgID int64) (*domain.Order, error) {
	args := m.Called(ctx, orderID, tgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, filter port.OrderFilter) ([]domain.Order, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) Transition(ctx context.Context, orderID int64, to domain.OrderStatus, adminID int64, ipAddress, userAgent string) (*domain.TransitionResult, error) {
	args := m.Called(ctx, orderID, to, adminID, ipAddress, userAgent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransitionResult), args.Error(1)
}

func (m *MockOrderService) StatusHistory(ctx context.Context, orderID int64) ([]domain.OrderStatusLog, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderStatusLog), args.Error(1)
}

// withIdentity injects a verified customer identity the way the Telegram
// auth middleware does.
// withIdentity внедряет проверенную идентичность клиента так же, как это
// делает middleware Telegram-аутентификации.
func withIdentity(identity *domain.TelegramIdentity) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity != nil {
			c.Set("telegram_identity", identity)
		}
		c.Next()
	}
}

func withAdminID(id int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("admin_id", id)
		c.Next()
	}
}

func customerIdentity() *domain.TelegramIdentity {
	return &domain.TelegramIdentity{TgID: 1001, FirstName: "Ali", Username: "ali"}
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	reqBody := domain.CreateOrderRequest{
		DeliveryMode: "pickup",
		Phone:        "+998901234567",
		Items: []domain.CreateOrderItem{
			{ProductID: 10, Title: "Lavash", Price: 35000, Qty: 1},
		},
	}

	t.Run("returns 201 with the created order", func(t *testing.T) {
		orderService := new(MockOrderService)
		orderService.On("CreateOrder", mock.Anything, mock.MatchedBy(func(id *domain.TelegramIdentity) bool {
			return id.TgID == 1001
		}), mock.Anything).Return(&domain.Order{ID: 42, TgID: 1001, Status: domain.StatusNew, Total: 35000}, nil)

		h := handler.NewOrderHandler(orderService, testLogger())
		router := gin.New()
		router.POST("/api/orders", withIdentity(customerIdentity()), h.CreateOrder)

		w := performJSON(router, http.MethodPost, "/api/orders", reqBody, nil)

		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Data domain.Order `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(42), resp.Data.ID)
		assert.Equal(t, domain.StatusNew, resp.Data.Status)
		orderService.AssertExpectations(t)
	})

	t.Run("missing identity returns 401", func(t *testing.T) {
		orderService := new(MockOrderService)

		h := handler.NewOrderHandler(orderService, testLogger())
		router := gin.New()
		router.POST("/api/orders", withIdentity(nil), h.CreateOrder)

		w := performJSON(router, http.MethodPost, "/api/orders", reqBody, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		orderService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty items returns 400", func(t *testing.T) {
		orderService := new(MockOrderService)

		h := handler.NewOrderHandler(orderService, testLogger())
		router := gin.New()
		router.POST("/api/orders", withIdentity(customerIdentity()), h.CreateOrder)

		w := performJSON(router, http.MethodPost, "/api/orders", domain.CreateOrderRequest{
			DeliveryMode: "pickup",
			Phone:        "+998901234567",
			Items:        []domain.CreateOrderItem{},
		}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		orderService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("validation error from service returns 400 with code", func(t *testing.T) {
		orderService := new(MockOrderService)
		orderService.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, apperror.ValidationError("invalid phone number", nil))

		h := handler.NewOrderHandler(orderService, testLogger())
		router := gin.New()
		router.POST("/api/orders", withIdentity(customerIdentity()), h.CreateOrder)

		w := performJSON(router, http.MethodPost, "/api/orders", reqBody, nil)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, apperror.CodeValidation, resp.Error.Code)
	})
}

func TestOrderHandler_GetMyOrder(t *testing.T) {
	t.Run("foreign order is reported as not found", func(t *testing.T) {
		orderService := new(MockOrderService)
		orderService.On("GetCustomerOrder", mock.Anything, int64(7), int64(1001)).
			Return(nil, apperror.NotFound("order", int64(7)))

		h := handler.NewOrderHandler(orderService, testLogger())
		router := gin.New()
		router.GET("/api/orders/:id", withIdentity(customerIdentity()), h.GetMyOrder)

		w := performJSON(router, http.MethodGet, "/api/orders/7", nil, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-numeric id returns 400", func(t *testing.T) {
		h := handler.NewOrderHandler(new(MockOrderService), testLogger())
		router := gin.New()
		router.GET("/api/orders/:id", withIdentity(customerIdentity()), h.GetMyOrder)

		w := performJSON(router, http.MethodGet, "/api/orders/abc", nil, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_ListOrders(t *testing.T) {
	t.Run("applies pagination defaults", func(t *testing.T) {
		orderService := new(MockOrderService)
		orderService.On("ListOrders", mock.Anything, port.OrderFilter{Page: 1, PageSize: 20}).
			Return([]domain.Order{{ID: 1}, {ID: 2}}, int64(2), nil)

		h := handler.NewOrderHandler(orderService, testLogger())
		router := gin.New()
		router.GET("/admin/orders", h.ListOrders)

		w := performJSON(router, http.MethodGet, "/admin/orders", nil, nil)

		require.Equal(t, http.StatusOK, w.Code)
		orderService.AssertExpectations(t)

		var resp struct {
			Meta struct {
				Page       int   `json:"page"`
				PageSize   int   `json:"page_size"`
				Total      int64 `json:"total"`
				TotalPages int   `json:"total_pages"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Meta.Page)
		assert.Equal(t, 20, resp.Meta.PageSize)
		assert.Equal(t, int64(2), resp.Meta.Total)
		assert.Equal(t, 1, resp.Meta.TotalPages)
	})

	t.Run("caps page size at 100", func(t *testing.T) {
		orderService := new(MockOrderService)
		orderService.On("ListOrders", mock.Anything, port.OrderFilter{Page: 2, PageSize: 100}).
			Return([]domain.Order{}, int64(0), nil)

		h := handler.NewOrderHandler(orderService, testLogger())
		router := gin.New()
		router.GET("/admin/orders", h.ListOrders)

		w := performJSON(router, http.MethodGet, "/admin/orders?page=2&page_size=500", nil, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		orderService.AssertExpectations(t)
	})

	t.Run("passes status filter through", func(t *testing.T) {
		orderService := new(MockOrderService)
		orderService.On("ListOrders", mock.Anything, port.OrderFilter{Status: domain.StatusPreparing, Page: 1, PageSize: 20}).
			Return([]domain.Order{}, int64(0), nil)

		h := handler.NewOrderHandler(orderService, testLogger())
		router := gin.New()
		router.GET("/admin/orders", h.ListOrders)

		w := performJSON(router, http.MethodGet, "/admin/orders?status=preparing", nil, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		orderService.AssertExpectations(t)
	})
}

func TestOrderHandler_Transition(t *testing.T) {
	t.Run("moves order to the requested status", func(t *testing.T) {
		orderService := new(MockOrderService)
		orderService.On("Transition", mock.Anything, int64(42), domain.StatusPreparing, int64(7), mock.Anything, mock.Anything).
			Return(&domain.TransitionResult{OrderID: 42, FromStatus: domain.StatusNew, ToStatus: domain.StatusPreparing}, nil)

		h := handler.NewOrderHandler(orderService, testLogger())
		router := gin.New()
		router.POST("/admin/orders/:id/transition", withAdminID(7), h.Transition)

		w := performJSON(router, http.MethodPost, "/admin/orders/42/transition", domain.TransitionRequest{
			ToStatus: domain.StatusPreparing,
		}, nil)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data domain.TransitionResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, domain.StatusNew, resp.Data.FromStatus)
		assert.Equal(t, domain.StatusPreparing, resp.Data.ToStatus)
	})

	t.Run("illegal edge returns 400", func(t *testing.T) {
		orderService := new(MockOrderService)
		orderService.On("Transition", mock.Anything, int64(42), domain.StatusDelivered, int64(7), mock.Anything, mock.Anything).
			Return(nil, apperror.InvalidTransition(string(domain.StatusNew), string(domain.StatusDelivered)))

		h := handler.NewOrderHandler(orderService, testLogger())
		router := gin.New()
		router.POST("/admin/orders/:id/transition", withAdminID(7), h.Transition)

		w := performJSON(router, http.MethodPost, "/admin/orders/42/transition", domain.TransitionRequest{
			ToStatus: domain.StatusDelivered,
		}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, apperror.CodeInvalidTransition, resp.Error.Code)
	})

	t.Run("missing body returns 400", func(t *testing.T) {
		h := handler.NewOrderHandler(new(MockOrderService), testLogger())
		router := gin.New()
		router.POST("/admin/orders/:id/transition", withAdminID(7), h.Transition)

		w := performJSON(router, http.MethodPost, "/admin/orders/42/transition", nil, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_StatusHistory(t *testing.T) {
	orderService := new(MockOrderService)
	orderService.On("StatusHistory", mock.Anything, int64(42)).Return([]domain.OrderStatusLog{
		{OrderID: 42, FromStatus: domain.StatusNew, ToStatus: domain.StatusPreparing},
		{OrderID: 42, FromStatus: domain.StatusPreparing, ToStatus: domain.StatusReady},
	}, nil)

	h := handler.NewOrderHandler(orderService, testLogger())
	router := gin.New()
	router.GET("/admin/orders/:id/history", h.StatusHistory)

	w := performJSON(router, http.MethodGet, "/admin/orders/42/history", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []domain.OrderStatusLog `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, domain.StatusNew, resp.Data[0].FromStatus)
}
