// Package service contains the business logic layer of the application.
// Пакет service содержит слой бизнес-логики приложения.
package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/apperror"
	"github.com/zahratun/orders-service/internal/pkg/logger"
	"github.com/zahratun/orders-service/internal/port"
)

// AdminService implements port.AdminService interface.
// AdminService реализует интерфейс port.AdminService.
//
// Handles admin account management: creation with saga-style role
// assignment, role/activity updates, and owner-initiated password resets,
// all with transactional audit logging.
// Обрабатывает управление админ-аккаунтами: создание с saga-назначением
// роли, обновление роли/активности и сброс паролей владельцем,
// всё с транзакционным аудит-логированием.
type AdminService struct {
	adminRepo port.AdminRepository      // Admin repository / Репозиторий админ-аккаунтов
	txManager port.Transaction          // Transaction manager / Менеджер транзакций
	authz     port.AuthorizationService // Authorization service / Сервис авторизации
	audit     *AuditService             // Audit service / Сервис аудита
	logger    *logger.Logger            // Logger instance / Экземпляр логгера
}

// NewAdminService creates a new AdminService instance.
// NewAdminService создаёт новый экземпляр AdminService.
func NewAdminService(
	adminRepo port.AdminRepository,
	txManager port.Transaction,
	authz port.AuthorizationService,
	audit *AuditService,
	log *logger.Logger,
) *AdminService {
	return &AdminService{
		adminRepo: adminRepo,
		txManager: txManager,
		authz:     authz,
		audit:     audit,
		logger:    log.WithComponent("admin_service"),
	}
}

// ListAdmins returns all admin accounts, newest first.
// ListAdmins возвращает все админ-аккаунты, сначала новые.
func (s *AdminService) ListAdmins(ctx context.Context) ([]domain.AdminUser, error) {
	return s.adminRepo.List(ctx)
}

// CreateAdmin creates a new admin account with the specified role.
// The account is created with a forced first password change.
//
// Uses saga pattern: creates the account in a transaction, then assigns
// the role. If role assignment fails, executes a compensating transaction
// (hard delete).
// CreateAdmin создаёт новый админ-аккаунт с указанной ролью.
// Аккаунт создаётся с обязательной сменой первого пароля.
//
// Использует паттерн saga: создаёт аккаунт в транзакции, затем назначает
// роль. При неудачном назначении роли выполняет компенсирующую транзакцию
// (физическое удаление).
func (s *AdminService) CreateAdmin(ctx context.Context, req *domain.CreateAdminRequest, actorID int64, ipAddress, userAgent string) (*domain.AdminUser, error) {
	log := s.logger.WithContext(ctx)

	// Check if username already exists / Проверяем, существует ли логин
	exists, err := s.adminRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		log.Error("failed to check username existence", "error", err)
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("admin", "username", req.Username)
	}

	// Hash password / Хэшируем пароль
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return nil, apperror.Internal("failed to hash password", err)
	}

	// Create admin object / Создаём объект админ-аккаунта
	admin := &domain.AdminUser{
		Username:           req.Username,
		PasswordHash:       string(hashedPassword),
		Role:               req.Role,
		IsActive:           true,
		MustChangePassword: true,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}

	// Create admin in transaction with audit log
	// Создаём админ-аккаунт в транзакции с аудит-логом
	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if createErr := s.adminRepo.CreateTx(ctx, tx, admin); createErr != nil {
			return createErr
		}

		// Audit log within transaction / Аудит-лог в рамках транзакции
		return s.audit.LogActionWithContextTx(ctx, tx, actorID, domain.AuditActionAdminCreate, domain.AuditResourceTypeAdmin, fmt.Sprintf("%d", admin.ID), map[string]interface{}{
			"username": admin.Username,
			"role":     admin.Role,
		}, ipAddress, userAgent)
	})

	if err != nil {
		log.Error("failed to create admin in transaction", "error", err)
		return nil, err
	}

	// Assign role AFTER successful commit (saga pattern)
	// Назначаем роль ПОСЛЕ успешного коммита (паттерн saga)
	if err := s.authz.AddRoleToAdmin(ctx, admin.ID, req.Role); err != nil {
		log.Error("failed to assign role, executing compensating transaction", "admin_id", admin.ID, "error", err)

		// Compensating action: hard delete the account
		// Компенсирующее действие: физическое удаление аккаунта
		if deleteErr := s.adminRepo.HardDelete(ctx, admin.ID); deleteErr != nil {
			log.Error("CRITICAL: failed to cleanup admin after role assignment failure", "admin_id", admin.ID, "error", deleteErr)
			return nil, apperror.Internal("admin created but setup failed (cleanup also failed)", err)
		}

		return nil, apperror.Internal("failed to assign role, admin creation rolled back", err)
	}

	log.Info("admin created successfully", "admin_id", admin.ID, "username", admin.Username, "role", admin.Role)
	return admin, nil
}

// UpdateAdmin changes role and/or activity of an account and keeps the
// authorization policy grouping in sync with the stored role.
// UpdateAdmin меняет роль и/или активность аккаунта и синхронизирует
// группировку политик авторизации с сохранённой ролью.
func (s *AdminService) UpdateAdmin(ctx context.Context, id int64, req *domain.UpdateAdminRequest, actorID int64, ipAddress, userAgent string) (*domain.AdminUser, error) {
	log := s.logger.WithContext(ctx)

	// Get account first / Сначала получаем аккаунт
	admin, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousRole := admin.Role
	details := map[string]interface{}{}

	if req.Role != nil && *req.Role != admin.Role {
		details["role_from"] = admin.Role
		details["role_to"] = *req.Role
		admin.Role = *req.Role
	}
	if req.IsActive != nil && *req.IsActive != admin.IsActive {
		details["is_active"] = *req.IsActive
		admin.IsActive = *req.IsActive
	}

	// Nothing changed, return as-is / Ничего не изменилось, возвращаем как есть
	if len(details) == 0 {
		return admin, nil
	}

	// Update account in transaction with audit log
	// Обновляем аккаунт в транзакции с аудит-логом
	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		admin.UpdatedAt = time.Now()

		if updateErr := s.adminRepo.UpdateTx(ctx, tx, admin); updateErr != nil {
			return updateErr
		}

		return s.audit.LogActionWithContextTx(ctx, tx, actorID, domain.AuditActionAdminUpdate, domain.AuditResourceTypeAdmin, fmt.Sprintf("%d", id), details, ipAddress, userAgent)
	})

	if err != nil {
		log.Error("failed to update admin", "admin_id", id, "error", err)
		return nil, err
	}

	// Sync role grouping after a role change
	// Синхронизируем группировку ролей после смены роли
	if previousRole != admin.Role {
		if rmErr := s.authz.RemoveRoleFromAdmin(ctx, id, previousRole); rmErr != nil {
			log.Warn("failed to remove previous role", "admin_id", id, "role", previousRole, "error", rmErr)
		}
		if addErr := s.authz.AddRoleToAdmin(ctx, id, admin.Role); addErr != nil {
			log.Error("failed to assign new role", "admin_id", id, "role", admin.Role, "error", addErr)
			return nil, apperror.Internal("failed to sync admin role", addErr)
		}
	}

	log.Info("admin updated successfully", "admin_id", id, "updated_by", actorID)
	return admin, nil
}

// ResetPassword sets a new password for an account and forces a change
// on next login.
// ResetPassword устанавливает новый пароль для аккаунта и требует его
// смену при следующем входе.
func (s *AdminService) ResetPassword(ctx context.Context, id int64, newPassword string, actorID int64, ipAddress, userAgent string) error {
	log := s.logger.WithContext(ctx)

	// Get account first / Сначала получаем аккаунт
	admin, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// Hash new password / Хэшируем новый пароль
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return apperror.Internal("failed to hash password", err)
	}

	// Reset password in transaction with audit log
	// Сбрасываем пароль в транзакции с аудит-логом
	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		admin.PasswordHash = string(hashedPassword)
		admin.MustChangePassword = true
		admin.UpdatedAt = time.Now()

		if updateErr := s.adminRepo.UpdateTx(ctx, tx, admin); updateErr != nil {
			return updateErr
		}

		return s.audit.LogActionWithContextTx(ctx, tx, actorID, domain.AuditActionPasswordReset, domain.AuditResourceTypeAdmin, fmt.Sprintf("%d", id), map[string]interface{}{
			"username": admin.Username,
		}, ipAddress, userAgent)
	})

	if err != nil {
		log.Error("failed to reset password", "admin_id", id, "error", err)
		return err
	}

	log.Info("password reset successfully", "admin_id", id, "reset_by", actorID)
	return nil
}

// Ensure interface compliance. / Проверка соответствия интерфейсу.
var _ port.AdminService = (*AdminService)(nil)
