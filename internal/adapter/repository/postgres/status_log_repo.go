package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/apperror"
)

// StatusLogRepository implements port.StatusLogRepository using PostgreSQL.
// StatusLogRepository реализует интерфейс port.StatusLogRepository с использованием PostgreSQL.
type StatusLogRepository struct {
	db *gorm.DB // Database connection / Подключение к базе данных
}

// NewStatusLogRepository creates a new StatusLogRepository instance.
// NewStatusLogRepository создаёт новый экземпляр StatusLogRepository.
func NewStatusLogRepository(db *gorm.DB) *StatusLogRepository {
	return &StatusLogRepository{db: db}
}

// CreateTx appends a status change record within a transaction.
// Written in the same transaction as the order update so history
// never diverges from the order itself.
// CreateTx добавляет запись о смене статуса в рамках транзакции.
// Записывается в той же транзакции, что и обновление заказа, поэтому
// история никогда не расходится с самим заказом.
func (r *StatusLogRepository) CreateTx(ctx context.Context, tx *gorm.DB, log *domain.OrderStatusLog) error {
	if err := tx.WithContext(ctx).Create(log).Error; err != nil {
		return apperror.Internal("failed to create status log", err)
	}
	return nil
}

// FindByOrderID retrieves the status history of an order, oldest first.
// FindByOrderID получает историю статусов заказа, сначала старые.
func (r *StatusLogRepository) FindByOrderID(ctx context.Context, orderID int64) ([]domain.OrderStatusLog, error) {
	var logs []domain.OrderStatusLog
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&logs).Error

	if err != nil {
		return nil, apperror.Internal("failed to find status logs", err)
	}
	return logs, nil
}
