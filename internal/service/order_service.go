package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/apperror"
	"github.com/zahratun/orders-service/internal/pkg/logger"
	"github.com/zahratun/orders-service/internal/port"
)

// uzPhonePattern matches Uzbekistan phone numbers: optional +, country
// code 998, then exactly 9 digits. Spaces are stripped before matching.
// uzPhonePattern соответствует номерам Узбекистана: опциональный +, код
// страны 998, затем ровно 9 цифр. Пробелы убираются до проверки.
var uzPhonePattern = regexp.MustCompile(`^\+?998\d{9}$`)

// notifyTimeout bounds the background Telegram notification calls so a
// slow Bot API never pins a goroutine.
// notifyTimeout ограничивает фоновые вызовы уведомлений Telegram, чтобы
// медленный Bot API не удерживал горутину.
const notifyTimeout = 10 * time.Second

// OrderService implements port.OrderService interface.
// OrderService реализует интерфейс port.OrderService.
//
// Owns the order lifecycle: creation with server-side totals, the status
// state machine with compare-and-swap updates, status history, and
// best-effort Telegram notifications.
// Владеет жизненным циклом заказа: создание с серверным расчётом итога,
// машина состояний статусов с compare-and-swap обновлениями, история
// статусов и Telegram-уведомления по мере возможности.
type OrderService struct {
	orderRepo  port.OrderRepository     // Order repository / Репозиторий заказов
	statusRepo port.StatusLogRepository // Status history repository / Репозиторий истории статусов
	menuRepo   port.MenuRepository      // Menu repository (prices) / Репозиторий меню (цены)
	txManager  port.Transaction         // Transaction manager / Менеджер транзакций
	audit      *AuditService            // Audit service / Сервис аудита
	notifier   port.Notifier            // Telegram notifier / Telegram-уведомитель
	logger     *logger.Logger           // Logger instance / Экземпляр логгера
}

// NewOrderService creates a new OrderService instance.
// NewOrderService создаёт новый экземпляр OrderService.
func NewOrderService(
	orderRepo port.OrderRepository,
	statusRepo port.StatusLogRepository,
	menuRepo port.MenuRepository,
	txManager port.Transaction,
	audit *AuditService,
	notifier port.Notifier,
	log *logger.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		statusRepo: statusRepo,
		menuRepo:   menuRepo,
		txManager:  txManager,
		audit:      audit,
		notifier:   notifier,
		logger:     log.WithComponent("order_service"),
	}
}

// ==================== Customer Operations / Операции клиента ====================

// CreateOrder validates and persists a customer order.
//
// The total is always computed server-side: the current catalog price
// wins over whatever the client sent, the client price is used only for
// products that have since left the catalog.
// CreateOrder валидирует и сохраняет заказ клиента.
//
// Итог всегда считается на сервере: текущая цена каталога важнее
// присланной клиентом, цена клиента используется только для продуктов,
// уже покинувших каталог.
func (s *OrderService) CreateOrder(ctx context.Context, identity *domain.TelegramIdentity, req *domain.CreateOrderRequest) (*domain.Order, error) {
	log := s.logger.WithContext(ctx)

	phone := strings.ReplaceAll(req.Phone, " ", "")
	if !uzPhonePattern.MatchString(phone) {
		return nil, apperror.ValidationError("phone must be a valid Uzbekistan number", map[string]interface{}{
			"field":  "phone",
			"format": "+998XXXXXXXXX",
		})
	}

	if req.DeliveryMode == domain.DeliveryModeDelivery && strings.TrimSpace(req.Address) == "" {
		return nil, apperror.ValidationError("address is required for delivery orders", map[string]interface{}{
			"field": "address",
		})
	}

	// Resolve authoritative prices for the requested products
	// Получаем актуальные цены для запрошенных продуктов
	productIDs := make([]int64, 0, len(req.Items))
	for _, item := range req.Items {
		productIDs = append(productIDs, item.ProductID)
	}

	prices, err := s.menuRepo.ProductPrices(ctx, productIDs)
	if err != nil {
		log.Error("failed to resolve product prices", "error", err)
		return nil, err
	}

	var total int64
	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		price := item.Price
		if dbPrice, ok := prices[item.ProductID]; ok {
			price = dbPrice
		} else {
			log.Warn("product missing from catalog, using client price",
				"product_id", item.ProductID, "client_price", item.Price)
		}

		total += price * int64(item.Qty)
		items = append(items, domain.OrderItem{
			ProductID:   item.ProductID,
			Title:       item.Title,
			Price:       price,
			Qty:         item.Qty,
			AddonsJSON:  item.Addons,
			ItemComment: item.ItemComment,
		})
	}

	order := &domain.Order{
		TgID:           identity.TgID,
		Status:         domain.StatusNew,
		DeliveryMode:   req.DeliveryMode,
		Phone:          phone,
		Address:        req.Address,
		PickupBranchID: req.PickupBranchID,
		Comment:        req.Comment,
		Total:          total,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
		Items:          items,
	}

	// Persist order and audit record atomically
	// Сохраняем заказ и запись аудита атомарно
	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if createErr := s.orderRepo.CreateTx(ctx, tx, order); createErr != nil {
			return createErr
		}

		return s.audit.LogActionTx(ctx, tx, 0, domain.AuditActionOrderCreate, domain.AuditResourceTypeOrder, fmt.Sprintf("%d", order.ID), map[string]interface{}{
			"tg_id":         identity.TgID,
			"delivery_mode": order.DeliveryMode,
			"total":         order.Total,
			"items":         len(order.Items),
		})
	})

	if err != nil {
		log.Error("failed to create order", "tg_id", identity.TgID, "error", err)
		return nil, err
	}

	log.Info("order created", "order_id", order.ID, "tg_id", identity.TgID, "total", order.Total)

	// Best-effort admin notification, never blocks the response
	// Уведомление админам по мере возможности, никогда не блокирует ответ
	go func(o domain.Order) {
		nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if notifyErr := s.notifier.NotifyAdminsNewOrder(nctx, &o); notifyErr != nil {
			s.logger.Warn("failed to notify admins about new order", "order_id", o.ID, "error", notifyErr)
		}
	}(*order)

	return order, nil
}

// ListCustomerOrders returns the caller's orders, newest first.
// ListCustomerOrders возвращает заказы вызывающего, сначала новые.
func (s *OrderService) ListCustomerOrders(ctx context.Context, tgID int64) ([]domain.Order, error) {
	return s.orderRepo.ListByCustomer(ctx, tgID)
}

// GetCustomerOrder returns one order scoped by ownership. A foreign order
// is reported as not found so order IDs cannot be probed.
// GetCustomerOrder возвращает один заказ в рамках владения. Чужой заказ
// сообщается как не найденный, чтобы ID заказов нельзя было перебирать.
func (s *OrderService) GetCustomerOrder(ctx context.Context, orderID, tgID int64) (*domain.Order, error) {
	return s.orderRepo.FindByIDForCustomer(ctx, orderID, tgID)
}

// ==================== Admin Operations / Операции администратора ====================

// ListOrders returns orders for the admin panel.
// ListOrders возвращает заказы для админ-панели.
func (s *OrderService) ListOrders(ctx context.Context, filter port.OrderFilter) ([]domain.Order, int64, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, apperror.ValidationError("unknown order status", map[string]interface{}{
			"status": string(filter.Status),
		})
	}
	return s.orderRepo.List(ctx, filter)
}

// GetOrder returns one order with items and customer for the admin panel.
// GetOrder возвращает один заказ с позициями и клиентом для админ-панели.
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.orderRepo.FindByID(ctx, orderID)
}

// Transition moves an order along a legal status edge.
//
// The status update is a compare-and-swap on the previously read status,
// so two admins racing on the same order cannot both win; the loser gets
// a conflict. The change and its history record commit atomically, the
// customer notification is fired after commit and never fails the call.
// Transition переводит заказ по допустимому ребру статусов.
//
// Обновление статуса — это compare-and-swap по ранее прочитанному
// статусу, поэтому два администратора на одном заказе не могут выиграть
// оба; проигравший получает конфликт. Изменение и запись истории
// коммитятся атомарно, уведомление клиента уходит после коммита и
// никогда не роняет вызов.
func (s *OrderService) Transition(ctx context.Context, orderID int64, to domain.OrderStatus, adminID int64, ipAddress, userAgent string) (*domain.TransitionResult, error) {
	log := s.logger.WithContext(ctx)

	if !to.IsValid() {
		return nil, apperror.ValidationError("unknown order status", map[string]interface{}{
			"status": string(to),
		})
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if !domain.CanTransition(from, to) {
		return nil, apperror.InvalidTransition(string(from), string(to))
	}

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if updateErr := s.orderRepo.UpdateStatusTx(ctx, tx, orderID, from, to); updateErr != nil {
			return updateErr
		}

		statusLog := &domain.OrderStatusLog{
			OrderID:    orderID,
			AdminID:    adminID,
			FromStatus: from,
			ToStatus:   to,
			CreatedAt:  time.Now(),
		}
		if logErr := s.statusRepo.CreateTx(ctx, tx, statusLog); logErr != nil {
			return logErr
		}

		return s.audit.LogActionWithContextTx(ctx, tx, adminID, domain.AuditActionOrderTransition, domain.AuditResourceTypeOrder, fmt.Sprintf("%d", orderID), map[string]interface{}{
			"from_status": from,
			"to_status":   to,
		}, ipAddress, userAgent)
	})

	if err != nil {
		log.Error("failed to transition order", "order_id", orderID, "from", from, "to", to, "error", err)
		return nil, err
	}

	log.Info("order transitioned", "order_id", orderID, "from", from, "to", to, "admin_id", adminID)

	// Best-effort customer notification after commit
	// Уведомление клиента по мере возможности после коммита
	go func(tgID int64, status domain.OrderStatus) {
		nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if notifyErr := s.notifier.NotifyCustomerStatus(nctx, tgID, status); notifyErr != nil {
			s.logger.Warn("failed to notify customer about status change", "order_id", orderID, "error", notifyErr)
		}
	}(order.TgID, to)

	return &domain.TransitionResult{
		OrderID:    orderID,
		FromStatus: from,
		ToStatus:   to,
	}, nil
}

// StatusHistory returns the status change log of an order, oldest first.
// StatusHistory возвращает журнал смен статуса заказа, сначала старые.
func (s *OrderService) StatusHistory(ctx context.Context, orderID int64) ([]domain.OrderStatusLog, error) {
	// Ensure the order exists so an empty history is distinguishable
	// from an unknown order.
	// Убеждаемся, что заказ существует, чтобы пустая история отличалась
	// от неизвестного заказа.
	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.statusRepo.FindByOrderID(ctx, orderID)
}

// Ensure interface compliance. / Проверка соответствия интерфейсу.
var _ port.OrderService = (*OrderService)(nil)
