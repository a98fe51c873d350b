package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zahratun/orders-service/internal/adapter/http/middleware"
	"github.com/zahratun/orders-service/internal/adapter/http/response"
	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/logger"
	"github.com/zahratun/orders-service/internal/port"
)

// OrderHandler handles order HTTP requests for both customers and admins.
// OrderHandler обрабатывает HTTP запросы заказов для клиентов и админов.
//
// Customer endpoints require a verified Telegram identity in the request
// context; admin endpoints require an admin session.
// Клиентские эндпоинты требуют проверенной Telegram-идентичности в
// контексте запроса; админские требуют админ-сессию.
type OrderHandler struct {
	orderService port.OrderService // Order service / Сервис заказов
	logger       *logger.Logger    // Logger instance / Экземпляр логгера
}

// NewOrderHandler creates a new OrderHandler instance.
// NewOrderHandler создаёт новый экземпляр OrderHandler.
func NewOrderHandler(orderService port.OrderService, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       log.WithComponent("order_handler"),
	}
}

// ==================== Customer Endpoints / Клиентские эндпоинты ====================

// CreateOrder handles POST /api/orders.
// CreateOrder обрабатывает POST /api/orders.
// @Summary Create order
// @Description Place a new order; the total is computed server-side
// @Tags orders
// @Accept json
// @Produce json
// @Param X-Telegram-Init-Data header string true "Signed Mini App init data"
// @Param request body domain.CreateOrderRequest true "Order data"
// @Success 201 {object} response.APIResponse{data=domain.Order}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /api/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	identity := telegramIdentity(c)
	if identity == nil {
		response.Unauthorized(c, "")
		return
	}

	var req domain.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", map[string]interface{}{
			"details": err.Error(),
		})
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), identity, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.RecordOrderCreated(order.DeliveryMode)
	response.Created(c, order)
}

// ListMyOrders handles GET /api/orders.
// ListMyOrders обрабатывает GET /api/orders.
// @Summary List own orders
// @Description Get the caller's orders, newest first
// @Tags orders
// @Produce json
// @Param X-Telegram-Init-Data header string true "Signed Mini App init data"
// @Success 200 {object} response.APIResponse{data=[]domain.Order}
// @Failure 401 {object} response.APIResponse
// @Router /api/orders [get]
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	identity := telegramIdentity(c)
	if identity == nil {
		response.Unauthorized(c, "")
		return
	}

	orders, err := h.orderService.ListCustomerOrders(c.Request.Context(), identity.TgID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, orders)
}

// GetMyOrder handles GET /api/orders/:id.
//
// A foreign order is reported as not found so order IDs cannot be probed.
// GetMyOrder обрабатывает GET /api/orders/:id.
//
// Чужой заказ сообщается как не найденный, чтобы ID нельзя было перебирать.
// @Summary Get own order
// @Description Get one of the caller's orders by ID
// @Tags orders
// @Produce json
// @Param X-Telegram-Init-Data header string true "Signed Mini App init data"
// @Param id path int true "Order ID"
// @Success 200 {object} response.APIResponse{data=domain.Order}
// @Failure 401 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /api/orders/{id} [get]
func (h *OrderHandler) GetMyOrder(c *gin.Context) {
	identity := telegramIdentity(c)
	if identity == nil {
		response.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	order, err := h.orderService.GetCustomerOrder(c.Request.Context(), id, identity.TgID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, order)
}

// ==================== Admin Endpoints / Админские эндпоинты ====================

// ListOrders handles GET /admin/orders.
// ListOrders обрабатывает GET /admin/orders.
// @Summary List orders
// @Description Get paginated orders with optional status filtering
// @Tags admin-orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status: new, preparing, ready, delivered, cancelled"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page (max 100)" default(20)
// @Success 200 {object} response.APIResponse{data=[]domain.Order,meta=response.Meta}
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /admin/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100 // Maximum page size / Максимальный размер страницы
	}

	filter := port.OrderFilter{
		Status:   domain.OrderStatus(c.Query("status")),
		Page:     page,
		PageSize: pageSize,
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, orders, response.NewMeta(page, pageSize, total))
}

// GetOrder handles GET /admin/orders/:id.
// GetOrder обрабатывает GET /admin/orders/:id.
// @Summary Get order
// @Description Get order details with items and customer profile
// @Tags admin-orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} response.APIResponse{data=domain.Order}
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /admin/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, order)
}

// Transition handles POST /admin/orders/:id/transition.
// Transition обрабатывает POST /admin/orders/:id/transition.
// @Summary Change order status
// @Description Move an order along a legal status edge
// @Tags admin-orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param request body domain.TransitionRequest true "Target status"
// @Success 200 {object} response.APIResponse{data=domain.TransitionResult}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /admin/orders/{id}/transition [post]
func (h *OrderHandler) Transition(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	var req domain.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", map[string]interface{}{
			"details": err.Error(),
		})
		return
	}

	adminID := c.GetInt64("admin_id")

	result, err := h.orderService.Transition(c.Request.Context(), id, req.ToStatus, adminID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.RecordOrderTransition(string(result.FromStatus), string(result.ToStatus))
	response.Success(c, result)
}

// StatusHistory handles GET /admin/orders/:id/history.
// StatusHistory обрабатывает GET /admin/orders/:id/history.
// @Summary Order status history
// @Description Get the status change log of an order, oldest first
// @Tags admin-orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} response.APIResponse{data=[]domain.OrderStatusLog}
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /admin/orders/{id}/history [get]
func (h *OrderHandler) StatusHistory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	history, err := h.orderService.StatusHistory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, history)
}

// telegramIdentity extracts the verified customer identity stored by the
// Telegram auth middleware.
// telegramIdentity извлекает проверенную идентичность клиента, сохранённую
// middleware Telegram-аутентификации.
func telegramIdentity(c *gin.Context) *domain.TelegramIdentity {
	value, exists := c.Get("telegram_identity")
	if !exists {
		return nil
	}

	identity, ok := value.(*domain.TelegramIdentity)
	if !ok {
		return nil
	}
	return identity
}
