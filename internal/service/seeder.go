// Package service contains the business logic layer of the application.
// Пакет service содержит слой бизнес-логики приложения.
package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/logger"
)

// Seeder handles database seeding operations for initial data setup.
// Seeder управляет операциями заполнения базы данных начальными данными.
//
// Used to create default RBAC policies and the initial owner account on first run.
// Используется для создания стандартных политик RBAC и первого владельца при первом запуске.
type Seeder struct {
	db     *gorm.DB              // Database connection / Подключение к базе данных
	authz  *AuthorizationService // Authorization service for role management / Сервис авторизации для управления ролями
	logger *logger.Logger        // Logger instance / Экземпляр логгера
}

// NewSeeder creates a new Seeder instance.
// NewSeeder создаёт новый экземпляр Seeder.
func NewSeeder(db *gorm.DB, authz *AuthorizationService, log *logger.Logger) *Seeder {
	return &Seeder{
		db:     db,
		authz:  authz,
		logger: log.WithComponent("seeder"),
	}
}

// SeedAll runs all seeding operations in order.
// SeedAll запускает все операции заполнения по порядку.
//
// Order: 1) RBAC policies, 2) Initial owner account.
// Порядок: 1) Политики RBAC, 2) Первый аккаунт владельца.
func (s *Seeder) SeedAll(ctx context.Context) error {
	s.logger.Info("starting database seeding")

	// Seed RBAC policies first / Сначала заполняем политики RBAC
	if err := s.SeedPolicies(ctx); err != nil {
		return err
	}

	// Then create the initial owner / Затем создаём первого владельца
	if err := s.SeedOwner(ctx); err != nil {
		return err
	}

	s.logger.Info("database seeding completed successfully")
	return nil
}

// SeedPolicies seeds the base RBAC policies into Casbin.
// SeedPolicies заполняет базовые политики RBAC в Casbin.
//
// Policies define what actions each role can perform on resources:
// Политики определяют, какие действия каждая роль может выполнять над ресурсами:
//   - owner: everything, including admin account management / всё, включая управление админ-аккаунтами
//   - manager: orders and the menu catalog / заказы и каталог меню
//   - operator: orders only / только заказы
func (s *Seeder) SeedPolicies(_ context.Context) error {
	enforcer := s.authz.GetEnforcer()

	// Define base policies: role, resource, action
	// Определяем базовые политики: роль, ресурс, действие
	policies := [][]string{
		// Owner - full access / Владелец - полный доступ
		{"role:owner", "orders", "read"},
		{"role:owner", "orders", "write"},
		{"role:owner", "menu", "read"},
		{"role:owner", "menu", "write"},
		{"role:owner", "admins", "read"},
		{"role:owner", "admins", "write"},
		{"role:owner", "audit", "read"},

		// Manager - orders and menu / Менеджер - заказы и меню
		{"role:manager", "orders", "read"},
		{"role:manager", "orders", "write"},
		{"role:manager", "menu", "read"},
		{"role:manager", "menu", "write"},

		// Operator - orders only / Оператор - только заказы
		{"role:operator", "orders", "read"},
		{"role:operator", "orders", "write"},
	}

	// Add policies that don't already exist
	// Добавляем политики, которые ещё не существуют
	for _, policy := range policies {
		hasPolicy, err := enforcer.HasPolicy(policy)
		if err != nil {
			s.logger.Error("failed to check policy", "policy", policy, "error", err)
			continue
		}
		if !hasPolicy {
			if _, err := enforcer.AddPolicy(policy); err != nil {
				s.logger.Error("failed to add policy", "policy", policy, "error", err)
			} else {
				s.logger.Debug("policy added", "policy", policy)
			}
		}
	}

	s.logger.Info("policies seeded successfully")
	return nil
}

// SeedOwner creates the initial owner account when the admin table is empty.
// SeedOwner создаёт первый аккаунт владельца, когда таблица админов пуста.
//
// The account is created with a forced password change so the bootstrap
// credentials never survive the first login.
// Аккаунт создаётся с обязательной сменой пароля, чтобы начальные учётные
// данные не пережили первый вход.
func (s *Seeder) SeedOwner(ctx context.Context) error {
	// Bootstrap credentials / Начальные учётные данные
	const (
		ownerUsername = "owner"
		ownerPassword = "ChangeMe123"
	)

	// Seed only into an empty admin table / Заполняем только пустую таблицу админов
	var count int64
	if err := s.db.Model(&domain.AdminUser{}).Count(&count).Error; err != nil {
		s.logger.Error("failed to count admin accounts", "error", err)
		return err
	}

	if count > 0 {
		s.logger.Info("admin accounts already exist, skipping owner seed")
		return nil
	}

	// Hash password / Хэшируем пароль
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(ownerPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash owner password", "error", err)
		return err
	}

	// Create owner account / Создаём аккаунт владельца
	owner := &domain.AdminUser{
		Username:           ownerUsername,
		PasswordHash:       string(hashedPassword),
		Role:               domain.RoleOwner,
		IsActive:           true,
		MustChangePassword: true,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}

	if err := s.db.Create(owner).Error; err != nil {
		s.logger.Error("failed to create owner account", "error", err)
		return err
	}

	// Assign owner role / Назначаем роль владельца
	if err := s.authz.AddRoleToAdmin(ctx, owner.ID, domain.RoleOwner); err != nil {
		s.logger.Error("failed to assign owner role", "error", err)
		// Clean up created account on role assignment failure
		// Удаляем созданный аккаунт при ошибке назначения роли
		s.db.Unscoped().Delete(owner)
		return err
	}

	s.logger.Info("initial owner created", "username", ownerUsername)
	return nil
}
