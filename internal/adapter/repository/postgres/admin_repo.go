// Package postgres provides PostgreSQL-based repository implementations.
// Пакет postgres предоставляет реализации репозиториев на базе PostgreSQL.
//
// This package implements all repository interfaces defined in port package
// using GORM as the ORM layer.
// Этот пакет реализует все интерфейсы репозиториев, определённые в пакете port,
// используя GORM в качестве ORM слоя.
package postgres

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/apperror"
)

// AdminRepository implements port.AdminRepository using PostgreSQL.
// AdminRepository реализует интерфейс port.AdminRepository с использованием PostgreSQL.
//
// Provides CRUD operations for admin accounts with support for
// transactional operations.
// Предоставляет CRUD операции для админ-аккаунтов с поддержкой
// транзакционных операций.
type AdminRepository struct {
	db *gorm.DB // Database connection / Подключение к базе данных
}

// NewAdminRepository creates a new AdminRepository instance.
// NewAdminRepository создаёт новый экземпляр AdminRepository.
func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Create creates a new admin account in the database.
// Create создаёт новый админ-аккаунт в базе данных.
func (r *AdminRepository) Create(ctx context.Context, admin *domain.AdminUser) error {
	return r.CreateTx(ctx, r.db, admin)
}

// CreateTx creates a new admin account within an existing transaction.
// CreateTx создаёт новый админ-аккаунт в рамках существующей транзакции.
// Use this when creating an account as part of a larger transactional operation.
// Используйте, когда создание аккаунта является частью большой транзакции.
func (r *AdminRepository) CreateTx(ctx context.Context, tx *gorm.DB, admin *domain.AdminUser) error {
	if err := tx.WithContext(ctx).Create(admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
			return apperror.Conflict("admin", "username", admin.Username)
		}
		return apperror.Internal("failed to create admin", err)
	}
	return nil
}

// FindByID retrieves an admin account by its unique identifier.
// FindByID получает админ-аккаунт по уникальному идентификатору.
func (r *AdminRepository) FindByID(ctx context.Context, id int64) (*domain.AdminUser, error) {
	var admin domain.AdminUser
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&admin).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("admin", id)
		}
		return nil, apperror.Internal("failed to find admin", err)
	}
	return &admin, nil
}

// FindByUsername retrieves an admin account by login name.
// FindByUsername получает админ-аккаунт по логину.
func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	var admin domain.AdminUser
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&admin).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("admin", username)
		}
		return nil, apperror.Internal("failed to find admin", err)
	}
	return &admin, nil
}

// Update updates an existing admin account in the database.
// Update обновляет существующий админ-аккаунт в базе данных.
func (r *AdminRepository) Update(ctx context.Context, admin *domain.AdminUser) error {
	return r.UpdateTx(ctx, r.db, admin)
}

// UpdateTx updates an existing admin account within an existing transaction.
// UpdateTx обновляет существующий админ-аккаунт в рамках существующей транзакции.
func (r *AdminRepository) UpdateTx(ctx context.Context, tx *gorm.DB, admin *domain.AdminUser) error {
	result := tx.WithContext(ctx).Save(admin)
	if result.Error != nil {
		return apperror.Internal("failed to update admin", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("admin", admin.ID)
	}
	return nil
}

// HardDelete permanently removes an admin account from the database.
// HardDelete физически удаляет админ-аккаунт из базы данных.
// Used for compensating transactions in saga pattern.
// Используется для компенсирующих транзакций в паттерне saga.
func (r *AdminRepository) HardDelete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&domain.AdminUser{}, id)
	if result.Error != nil {
		return apperror.Internal("failed to hard delete admin", result.Error)
	}
	return nil
}

// List retrieves all admin accounts, newest first.
// List получает все админ-аккаунты, сначала новые.
// The admin panel staff list is small, so no pagination is applied.
// Список сотрудников админ-панели невелик, пагинация не применяется.
func (r *AdminRepository) List(ctx context.Context) ([]domain.AdminUser, error) {
	var admins []domain.AdminUser
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&admins).Error

	if err != nil {
		return nil, apperror.Internal("failed to list admins", err)
	}
	return admins, nil
}

// Count returns the number of admin accounts.
// Count возвращает количество админ-аккаунтов.
func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.AdminUser{}).
		Count(&count).Error

	if err != nil {
		return 0, apperror.Internal("failed to count admins", err)
	}
	return count, nil
}

// ExistsByUsername checks if an account with the given login already exists.
// ExistsByUsername проверяет, существует ли уже аккаунт с данным логином.
func (r *AdminRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.AdminUser{}).
		Where("username = ?", username).
		Count(&count).Error

	if err != nil {
		return false, apperror.Internal("failed to check username existence", err)
	}
	return count > 0, nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL duplicate key violation.
// isDuplicateKeyError проверяет, является ли ошибка нарушением уникального ключа PostgreSQL.
// PostgreSQL error code 23505 indicates unique_violation.
// Код ошибки PostgreSQL 23505 указывает на unique_violation.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errMsg := err.Error()
	return errMsg != "" && (strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "23505"))
}
