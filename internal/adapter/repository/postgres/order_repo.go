package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/apperror"
	"github.com/zahratun/orders-service/internal/port"
)

// OrderRepository implements port.OrderRepository using PostgreSQL.
// OrderRepository реализует интерфейс port.OrderRepository с использованием PostgreSQL.
//
// Orders and their items are written together inside a transaction;
// status changes use a conditional update so concurrent transitions
// cannot silently overwrite each other.
// Заказы и их позиции записываются вместе внутри транзакции; смена
// статуса использует условное обновление, чтобы конкурентные переходы
// не перезаписывали друг друга незаметно.
type OrderRepository struct {
	db *gorm.DB // Database connection / Подключение к базе данных
}

// NewOrderRepository creates a new OrderRepository instance.
// NewOrderRepository создаёт новый экземпляр OrderRepository.
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateTx persists an order together with its items within a transaction.
// GORM cascades the Items association, so the order and all lines land
// in one atomic write.
// CreateTx сохраняет заказ вместе с позициями в рамках транзакции.
// GORM каскадно сохраняет ассоциацию Items, так что заказ и все позиции
// записываются атомарно.
func (r *OrderRepository) CreateTx(ctx context.Context, tx *gorm.DB, order *domain.Order) error {
	if err := tx.WithContext(ctx).Create(order).Error; err != nil {
		return apperror.Internal("failed to create order", err)
	}
	return nil
}

// FindByID retrieves an order with its items and customer profile.
// FindByID получает заказ с позициями и профилем клиента.
func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Customer").
		Where("id = ?", id).
		First(&order).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("order", id)
		}
		return nil, apperror.Internal("failed to find order", err)
	}
	return &order, nil
}

// FindByIDForCustomer retrieves an order scoped to the owning Telegram ID.
// A foreign order is reported as not found, never as forbidden, so the
// response does not leak whether the order exists.
// FindByIDForCustomer получает заказ в рамках владеющего Telegram ID.
// Чужой заказ сообщается как не найденный, никогда как запрещённый,
// чтобы ответ не раскрывал существование заказа.
func (r *OrderRepository) FindByIDForCustomer(ctx context.Context, id, tgID int64) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND tg_id = ?", id, tgID).
		First(&order).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("order", id)
		}
		return nil, apperror.Internal("failed to find order", err)
	}
	return &order, nil
}

// ListByCustomer retrieves a customer's orders, newest first.
// ListByCustomer получает заказы клиента, сначала новые.
func (r *OrderRepository) ListByCustomer(ctx context.Context, tgID int64) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tg_id = ?", tgID).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, apperror.Internal("failed to list customer orders", err)
	}
	return orders, nil
}

// List retrieves orders for the admin panel with filtering and pagination.
// Customer profiles are preloaded for display in the orders table.
// List получает заказы для админ-панели с фильтрацией и пагинацией.
// Профили клиентов предзагружаются для отображения в таблице заказов.
func (r *OrderRepository) List(ctx context.Context, filter port.OrderFilter) ([]domain.Order, int64, error) {
	var orders []domain.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Order{})

	// Apply status filter / Применяем фильтр по статусу
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	// Count total matching records / Подсчитываем общее количество записей
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperror.Internal("failed to count orders", err)
	}

	// Calculate offset for pagination / Вычисляем смещение для пагинации
	offset := (filter.Page - 1) * filter.PageSize
	if offset < 0 {
		offset = 0
	}

	// Get paginated results / Получаем результаты с пагинацией
	err := query.
		Preload("Items").
		Preload("Customer").
		Order("created_at DESC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&orders).Error

	if err != nil {
		return nil, 0, apperror.Internal("failed to list orders", err)
	}

	return orders, total, nil
}

// UpdateStatusTx conditionally moves an order from expectedFrom to the given
// status inside a transaction. The WHERE clause on the current status makes
// the update a compare-and-swap: zero affected rows mean another admin moved
// the order first, which maps to a conflict error.
// UpdateStatusTx условно переводит заказ из expectedFrom в заданный статус
// внутри транзакции. Условие WHERE по текущему статусу делает обновление
// compare-and-swap: ноль затронутых строк означает, что другой администратор
// перевёл заказ первым, что отображается в ошибку конфликта.
func (r *OrderRepository) UpdateStatusTx(ctx context.Context, tx *gorm.DB, orderID int64, expectedFrom, to domain.OrderStatus) error {
	result := tx.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ? AND status = ?", orderID, expectedFrom).
		Update("status", to)

	if result.Error != nil {
		return apperror.Internal("failed to update order status", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.Conflict("order", "status", string(expectedFrom))
	}
	return nil
}
