package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/apperror"
)

// TelegramUserRepository implements port.TelegramUserRepository using PostgreSQL.
// TelegramUserRepository реализует интерфейс port.TelegramUserRepository с использованием PostgreSQL.
type TelegramUserRepository struct {
	db *gorm.DB // Database connection / Подключение к базе данных
}

// NewTelegramUserRepository creates a new TelegramUserRepository instance.
// NewTelegramUserRepository создаёт новый экземпляр TelegramUserRepository.
func NewTelegramUserRepository(db *gorm.DB) *TelegramUserRepository {
	return &TelegramUserRepository{db: db}
}

// Upsert inserts or refreshes a customer profile keyed by Telegram ID.
// Profile fields track the latest values Telegram reported in init-data.
// Upsert вставляет или обновляет профиль клиента по Telegram ID.
// Поля профиля отражают последние данные Telegram из init-data.
func (r *TelegramUserRepository) Upsert(ctx context.Context, user *domain.TelegramUser) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tg_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"username", "first_name", "last_name",
				"language_code", "is_premium", "updated_at",
			}),
		}).
		Create(user).Error

	if err != nil {
		return apperror.Internal("failed to upsert telegram user", err)
	}
	return nil
}

// FindByTgID retrieves a customer profile by Telegram ID.
// FindByTgID получает профиль клиента по Telegram ID.
func (r *TelegramUserRepository) FindByTgID(ctx context.Context, tgID int64) (*domain.TelegramUser, error) {
	var user domain.TelegramUser
	err := r.db.WithContext(ctx).
		Where("tg_id = ?", tgID).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("telegram user", tgID)
		}
		return nil, apperror.Internal("failed to find telegram user", err)
	}
	return &user, nil
}
