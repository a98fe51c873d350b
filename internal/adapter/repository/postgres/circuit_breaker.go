// Package postgres provides PostgreSQL-based repository implementations with circuit breaker protection.
// Пакет postgres предоставляет реализации репозиториев на базе PostgreSQL с защитой circuit breaker.
package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/circuitbreaker"
	"github.com/zahratun/orders-service/internal/port"
)

// CircuitBreakerConfig holds configuration for repository circuit breakers.
// CircuitBreakerConfig содержит конфигурацию circuit breaker для репозиториев.
type CircuitBreakerConfig struct {
	// MaxFailures is the number of failures before opening the circuit.
	// MaxFailures - количество сбоев до размыкания цепи.
	MaxFailures int

	// Timeout is the duration to wait before testing if service recovered.
	// Timeout - время ожидания перед проверкой восстановления сервиса.
	Timeout time.Duration

	// OnStateChange is called when circuit breaker state changes.
	// OnStateChange вызывается при изменении состояния circuit breaker.
	OnStateChange func(name string, from, to circuitbreaker.State)
}

// DefaultCircuitBreakerConfig returns default circuit breaker configuration for PostgreSQL.
// DefaultCircuitBreakerConfig возвращает конфигурацию circuit breaker по умолчанию для PostgreSQL.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		MaxFailures: 3,
		Timeout:     30 * time.Second,
	}
}

// ==================== Admin Repository with Circuit Breaker ====================

// AdminRepositoryWithCB wraps AdminRepository with circuit breaker protection.
// AdminRepositoryWithCB оборачивает AdminRepository с защитой circuit breaker.
type AdminRepositoryWithCB struct {
	repo    *AdminRepository
	cbRead  *circuitbreaker.CircuitBreaker
	cbWrite *circuitbreaker.CircuitBreaker
}

// NewAdminRepositoryWithCB creates a new AdminRepository with circuit breaker.
// NewAdminRepositoryWithCB создаёт новый AdminRepository с circuit breaker.
func NewAdminRepositoryWithCB(repo *AdminRepository, config CircuitBreakerConfig) *AdminRepositoryWithCB {
	cbReadConfig := circuitbreaker.Config{
		Name:                "postgres-admin-read",
		MaxFailures:         config.MaxFailures,
		Timeout:             config.Timeout,
		MaxHalfOpenRequests: 1,
		OnStateChange:       config.OnStateChange,
	}
	cbWriteConfig := circuitbreaker.Config{
		Name:                "postgres-admin-write",
		MaxFailures:         config.MaxFailures,
		Timeout:             config.Timeout,
		MaxHalfOpenRequests: 1,
		OnStateChange:       config.OnStateChange,
	}
	return &AdminRepositoryWithCB{
		repo:    repo,
		cbRead:  circuitbreaker.New(cbReadConfig),
		cbWrite: circuitbreaker.New(cbWriteConfig),
	}
}

// Create creates a new admin account with circuit breaker protection.
// Create создаёт новый админ-аккаунт с защитой circuit breaker.
func (r *AdminRepositoryWithCB) Create(ctx context.Context, admin *domain.AdminUser) error {
	return r.cbWrite.Execute(ctx, func(ctx context.Context) error {
		return r.repo.Create(ctx, admin)
	})
}

// CreateTx creates a new admin account within a transaction.
// CreateTx создаёт новый админ-аккаунт в рамках транзакции.
// Note: Transaction operations are not circuit-breaker protected individually.
// since they are part of a larger transaction that should be managed as a unit.
// Примечание: Операции транзакций не защищаются circuit breaker индивидуально.
// так как они являются частью большей транзакции, которая должна управляться как единица.
func (r *AdminRepositoryWithCB) CreateTx(ctx context.Context, tx *gorm.DB, admin *domain.AdminUser) error {
	return r.repo.CreateTx(ctx, tx, admin)
}

// FindByID retrieves an admin account by ID with circuit breaker protection.
// FindByID получает админ-аккаунт по ID с защитой circuit breaker.
func (r *AdminRepositoryWithCB) FindByID(ctx context.Context, id int64) (*domain.AdminUser, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.cbRead, func(ctx context.Context) (*domain.AdminUser, error) {
		return r.repo.FindByID(ctx, id)
	})
}

// FindByUsername retrieves an admin account by login with circuit breaker protection.
// FindByUsername получает админ-аккаунт по логину с защитой circuit breaker.
func (r *AdminRepositoryWithCB) FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.cbRead, func(ctx context.Context) (*domain.AdminUser, error) {
		return r.repo.FindByUsername(ctx, username)
	})
}

// Update updates an admin account with circuit breaker protection.
// Update обновляет админ-аккаунт с защитой circuit breaker.
func (r *AdminRepositoryWithCB) Update(ctx context.Context, admin *domain.AdminUser) error {
	return r.cbWrite.Execute(ctx, func(ctx context.Context) error {
		return r.repo.Update(ctx, admin)
	})
}

// UpdateTx updates an admin account within a transaction.
// UpdateTx обновляет админ-аккаунт в рамках транзакции.
func (r *AdminRepositoryWithCB) UpdateTx(ctx context.Context, tx *gorm.DB, admin *domain.AdminUser) error {
	return r.repo.UpdateTx(ctx, tx, admin)
}

// HardDelete permanently deletes an admin account (for compensating transactions).
// HardDelete полностью удаляет админ-аккаунт (для компенсирующих транзакций).
func (r *AdminRepositoryWithCB) HardDelete(ctx context.Context, id int64) error {
	return r.cbWrite.Execute(ctx, func(ctx context.Context) error {
		return r.repo.HardDelete(ctx, id)
	})
}

// List retrieves all admin accounts with circuit breaker protection.
// List получает все админ-аккаунты с защитой circuit breaker.
func (r *AdminRepositoryWithCB) List(ctx context.Context) ([]domain.AdminUser, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.cbRead, func(ctx context.Context) ([]domain.AdminUser, error) {
		return r.repo.List(ctx)
	})
}

// Count returns the number of admin accounts with circuit breaker protection.
// Count возвращает количество админ-аккаунтов с защитой circuit breaker.
func (r *AdminRepositoryWithCB) Count(ctx context.Context) (int64, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.cbRead, func(ctx context.Context) (int64, error) {
		return r.repo.Count(ctx)
	})
}

// ExistsByUsername checks login existence with circuit breaker protection.
// ExistsByUsername проверяет существование логина с защитой circuit breaker.
func (r *AdminRepositoryWithCB) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.cbRead, func(ctx context.Context) (bool, error) {
		return r.repo.ExistsByUsername(ctx, username)
	})
}

// ReadCircuitBreakerState returns the current state of the read circuit breaker.
// ReadCircuitBreakerState возвращает текущее состояние read circuit breaker.
func (r *AdminRepositoryWithCB) ReadCircuitBreakerState() circuitbreaker.State {
	return r.cbRead.State()
}

// WriteCircuitBreakerState returns the current state of the write circuit breaker.
// WriteCircuitBreakerState возвращает текущее состояние write circuit breaker.
func (r *AdminRepositoryWithCB) WriteCircuitBreakerState() circuitbreaker.State {
	return r.cbWrite.State()
}

// Ensure interface compliance. / Проверка соответствия интерфейсу.
var _ port.AdminRepository = (*AdminRepositoryWithCB)(nil)

// ==================== Order Repository with Circuit Breaker ====================

// OrderRepositoryWithCB wraps OrderRepository with circuit breaker protection.
// OrderRepositoryWithCB оборачивает OrderRepository с защитой circuit breaker.
type OrderRepositoryWithCB struct {
	repo    *OrderRepository
	cbRead  *circuitbreaker.CircuitBreaker
	cbWrite *circuitbreaker.CircuitBreaker
}

// NewOrderRepositoryWithCB creates a new OrderRepository with circuit breaker.
// NewOrderRepositoryWithCB создаёт новый OrderRepository с circuit breaker.
func NewOrderRepositoryWithCB(repo *OrderRepository, config CircuitBreakerConfig) *OrderRepositoryWithCB {
	cbReadConfig := circuitbreaker.Config{
		Name:                "postgres-order-read",
		MaxFailures:         config.MaxFailures,
		Timeout:             config.Timeout,
		MaxHalfOpenRequests: 1,
		OnStateChange:       config.OnStateChange,
	}
	cbWriteConfig := circuitbreaker.Config{
		Name:                "postgres-order-write",
		MaxFailures:         config.MaxFailures,
		Timeout:             config.Timeout,
		MaxHalfOpenRequests: 1,
		OnStateChange:       config.OnStateChange,
	}
	return &OrderRepositoryWithCB{
		repo:    repo,
		cbRead:  circuitbreaker.New(cbReadConfig),
		cbWrite: circuitbreaker.New(cbWriteConfig),
	}
}

// CreateTx persists an order within a transaction.
// Transaction operations are not circuit-breaker protected individually.
// CreateTx сохраняет заказ в рамках транзакции.
// Операции транзакций не защищаются circuit breaker индивидуально.
func (r *OrderRepositoryWithCB) CreateTx(ctx context.Context, tx *gorm.DB, order *domain.Order) error {
	return r.repo.CreateTx(ctx, tx, order)
}

// FindByID retrieves an order by ID with circuit breaker protection.
// FindByID получает заказ по ID с защитой circuit breaker.
func (r *OrderRepositoryWithCB) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.cbRead, func(ctx context.Context) (*domain.Order, error) {
		return r.repo.FindByID(ctx, id)
	})
}

// FindByIDForCustomer retrieves a customer-scoped order with circuit breaker protection.
// FindByIDForCustomer получает заказ клиента с защитой circuit breaker.
func (r *OrderRepositoryWithCB) FindByIDForCustomer(ctx context.Context, id, tgID int64) (*domain.Order, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.cbRead, func(ctx context.Context) (*domain.Order, error) {
		return r.repo.FindByIDForCustomer(ctx, id, tgID)
	})
}

// ListByCustomer retrieves a customer's orders with circuit breaker protection.
// ListByCustomer получает заказы клиента с защитой circuit breaker.
func (r *OrderRepositoryWithCB) ListByCustomer(ctx context.Context, tgID int64) ([]domain.Order, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.cbRead, func(ctx context.Context) ([]domain.Order, error) {
		return r.repo.ListByCustomer(ctx, tgID)
	})
}

// List retrieves orders with filtering and circuit breaker protection.
// List получает заказы с фильтрацией и защитой circuit breaker.
func (r *OrderRepositoryWithCB) List(ctx context.Context, filter port.OrderFilter) ([]domain.Order, int64, error) {
	type result struct {
		orders []domain.Order
		total  int64
	}

	res, err := circuitbreaker.ExecuteWithResult(ctx, r.cbRead, func(ctx context.Context) (result, error) {
		orders, total, err := r.repo.List(ctx, filter)
		return result{orders: orders, total: total}, err
	})

	if err != nil {
		return nil, 0, err
	}

	return res.orders, res.total, nil
}

// UpdateStatusTx conditionally updates order status within a transaction.
// UpdateStatusTx условно обновляет статус заказа в рамках транзакции.
func (r *OrderRepositoryWithCB) UpdateStatusTx(ctx context.Context, tx *gorm.DB, orderID int64, expectedFrom, to domain.OrderStatus) error {
	return r.repo.UpdateStatusTx(ctx, tx, orderID, expectedFrom, to)
}

// ReadCircuitBreakerState returns the current state of the read circuit breaker.
// ReadCircuitBreakerState возвращает текущее состояние read circuit breaker.
func (r *OrderRepositoryWithCB) ReadCircuitBreakerState() circuitbreaker.State {
	return r.cbRead.State()
}

// WriteCircuitBreakerState returns the current state of the write circuit breaker.
// WriteCircuitBreakerState возвращает текущее состояние write circuit breaker.
func (r *OrderRepositoryWithCB) WriteCircuitBreakerState() circuitbreaker.State {
	return r.cbWrite.State()
}

// Ensure interface compliance. / Проверка соответствия интерфейсу.
var _ port.OrderRepository = (*OrderRepositoryWithCB)(nil)

// ==================== Menu Repository with Circuit Breaker ====================

// MenuRepositoryWithCB wraps MenuRepository with circuit breaker protection.
// MenuRepositoryWithCB оборачивает MenuRepository с защитой circuit breaker.
type MenuRepositoryWithCB struct {
	repo    *MenuRepository
	cbRead  *circuitbreaker.CircuitBreaker
	cbWrite *circuitbreaker.CircuitBreaker
}

// NewMenuRepositoryWithCB creates a new MenuRepository with circuit breaker.
// NewMenuRepositoryWithCB создаёт новый MenuRepository с circuit breaker.
func NewMenuRepositoryWithCB(repo *MenuRepository, config CircuitBreakerConfig) *MenuRepositoryWithCB {
	cbReadConfig := circuitbreaker.Config{
		Name:                "postgres-menu-read",
		MaxFailures:         config.MaxFailures,
		Timeout:             config.Timeout,
		MaxHalfOpenRequests: 1,
		OnStateChange:       config.OnStateChange,
	}
	cbWriteConfig := circuitbreaker.Config{
		Name:                "postgres-menu-write",
		MaxFailures:         config.MaxFailures,
		Timeout:             config.Timeout,
		MaxHalfOpenRequests: 1,
		OnStateChange:       config.OnStateChange,
	}
	return &MenuRepositoryWithCB{
		repo:    repo,
		cbRead:  circuitbreaker.New(cbReadConfig),
		cbWrite: circuitbreaker.New(cbWriteConfig),
	}
}

// ActiveCategories retrieves active categories with circuit breaker protection.
// ActiveCategories получает активные категории с защитой circuit breaker.
func (r *MenuRepositoryWithCB) ActiveCategories(ctx context.Context) ([]domain.Category, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.cbRead, func(ctx context.Context) ([]domain.Category, error) {
		return r.repo.ActiveCategories(ctx)
	})
}

// ActiveProducts retrieves active products with circuit breaker protection.
// ActiveProducts получает активные продукты с защитой circuit breaker.
func (r *MenuRepositoryWithCB) ActiveProducts(ctx context.Context) ([]domain.Product, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.cbRead, func(ctx context.Context) ([]domain.Product, error) {
		return r.repo.ActiveProducts(ctx)
	})
}

// ActiveAddons retrieves active addons with circuit breaker protection.
// ActiveAddons получает активные опции с защитой circuit breaker.
func (r *MenuRepositoryWithCB) ActiveAddons(ctx context.Context, productIDs []int64) ([]domain.ProductAddon, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.cbRead, func(ctx context.Context) ([]domain.ProductAddon, error) {
		return r.repo.ActiveAddons(ctx, productIDs)
	})
}

// ActiveBranches retrieves active branches with circuit breaker protection.
// ActiveBranches получает активные филиалы с защитой circuit breaker.
func (r *MenuRepositoryWithCB) ActiveBranches(ctx context.Context) ([]domain.Branch, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.cbRead, func(ctx context.Context) ([]domain.Branch, error) {
		return r.repo.ActiveBranches(ctx)
	})
}

// ProductPrices retrieves authoritative prices with circuit breaker protection.
// ProductPrices получает актуальные цены с защитой circuit breaker.
func (r *MenuRepositoryWithCB) ProductPrices(ctx context.Context, productIDs []int64) (map[int64]int64, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.cbRead, func(ctx context.Context) (map[int64]int64, error) {
		return r.repo.ProductPrices(ctx, productIDs)
	})
}

// ListCategories retrieves all categories with circuit breaker protection.
// ListCategories получает все категории с защитой circuit breaker.
func (r *MenuRepositoryWithCB) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.cbRead, func(ctx context.Context) ([]domain.Category, error) {
		return r.repo.ListCategories(ctx)
	})
}

// FindCategory retrieves a category with circuit breaker protection.
// FindCategory получает категорию с защитой circuit breaker.
func (r *MenuRepositoryWithCB) FindCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.cbRead, func(ctx context.Context) (*domain.Category, error) {
		return r.repo.FindCategory(ctx, id)
	})
}

// CreateCategory creates a category with circuit breaker protection.
// CreateCategory создаёт категорию с защитой circuit breaker.
func (r *MenuRepositoryWithCB) CreateCategory(ctx context.Context, category *domain.Category) error {
	return r.cbWrite.Execute(ctx, func(ctx context.Context) error {
		return r.repo.CreateCategory(ctx, category)
	})
}

// UpdateCategory updates a category with circuit breaker protection.
// UpdateCategory обновляет категорию с защитой circuit breaker.
func (r *MenuRepositoryWithCB) UpdateCategory(ctx context.Context, category *domain.Category) error {
	return r.cbWrite.Execute(ctx, func(ctx context.Context) error {
		return r.repo.UpdateCategory(ctx, category)
	})
}

// ListProducts retrieves products with circuit breaker protection.
// ListProducts получает продукты с защитой circuit breaker.
func (r *MenuRepositoryWithCB) ListProducts(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.cbRead, func(ctx context.Context) ([]domain.Product, error) {
		return r.repo.ListProducts(ctx, categoryID)
	})
}

// FindProduct retrieves a product with circuit breaker protection.
// FindProduct получает продукт с защитой circuit breaker.
func (r *MenuRepositoryWithCB) FindProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.cbRead, func(ctx context.Context) (*domain.Product, error) {
		return r.repo.FindProduct(ctx, id)
	})
}

// CreateProduct creates a product with circuit breaker protection.
// CreateProduct создаёт продукт с защитой circuit breaker.
func (r *MenuRepositoryWithCB) CreateProduct(ctx context.Context, product *domain.Product) error {
	return r.cbWrite.Execute(ctx, func(ctx context.Context) error {
		return r.repo.CreateProduct(ctx, product)
	})
}

// UpdateProduct updates a product with circuit breaker protection.
// UpdateProduct обновляет продукт с защитой circuit breaker.
func (r *MenuRepositoryWithCB) UpdateProduct(ctx context.Context, product *domain.Product) error {
	return r.cbWrite.Execute(ctx, func(ctx context.Context) error {
		return r.repo.UpdateProduct(ctx, product)
	})
}

// ReadCircuitBreakerState returns the current state of the read circuit breaker.
// ReadCircuitBreakerState возвращает текущее состояние read circuit breaker.
func (r *MenuRepositoryWithCB) ReadCircuitBreakerState() circuitbreaker.State {
	return r.cbRead.State()
}

// WriteCircuitBreakerState returns the current state of the write circuit breaker.
// WriteCircuitBreakerState возвращает текущее состояние write circuit breaker.
func (r *MenuRepositoryWithCB) WriteCircuitBreakerState() circuitbreaker.State {
	return r.cbWrite.State()
}

// Ensure interface compliance. / Проверка соответствия интерфейсу.
var _ port.MenuRepository = (*MenuRepositoryWithCB)(nil)

// ==================== Audit Log Repository with Circuit Breaker ====================

// AuditLogRepositoryWithCB wraps AuditLogRepository with circuit breaker protection.
// AuditLogRepositoryWithCB оборачивает AuditLogRepository с защитой circuit breaker.
type AuditLogRepositoryWithCB struct {
	repo *AuditLogRepository
	cb   *circuitbreaker.CircuitBreaker
}

// NewAuditLogRepositoryWithCB creates a new AuditLogRepository with circuit breaker.
// NewAuditLogRepositoryWithCB создаёт новый AuditLogRepository с circuit breaker.
func NewAuditLogRepositoryWithCB(repo *AuditLogRepository, config CircuitBreakerConfig) *AuditLogRepositoryWithCB {
	// Audit logs have more lenient settings since they're not critical path.
	// Аудит-логи имеют более мягкие настройки, так как они не на критическом пути.
	cbConfig := circuitbreaker.Config{
		Name:                "postgres-audit",
		MaxFailures:         config.MaxFailures * 2, // More tolerant. / Более терпимый.
		Timeout:             config.Timeout,
		MaxHalfOpenRequests: 1,
		OnStateChange:       config.OnStateChange,
	}
	return &AuditLogRepositoryWithCB{
		repo: repo,
		cb:   circuitbreaker.New(cbConfig),
	}
}

// Create creates a new audit log entry with circuit breaker protection.
// Create создаёт новую запись аудит-лога с защитой circuit breaker.
func (r *AuditLogRepositoryWithCB) Create(ctx context.Context, log *domain.AuditLog) error {
	return r.cb.Execute(ctx, func(ctx context.Context) error {
		return r.repo.Create(ctx, log)
	})
}

// CreateTx creates a new audit log entry within a transaction.
// CreateTx создаёт запись аудит-лога в рамках транзакции.
func (r *AuditLogRepositoryWithCB) CreateTx(ctx context.Context, tx *gorm.DB, log *domain.AuditLog) error {
	return r.repo.CreateTx(ctx, tx, log)
}

// FindByActorID retrieves audit logs for an admin with circuit breaker protection.
// FindByActorID получает аудит-логи администратора с защитой circuit breaker.
func (r *AuditLogRepositoryWithCB) FindByActorID(ctx context.Context, actorID int64, limit int) ([]domain.AuditLog, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.cb, func(ctx context.Context) ([]domain.AuditLog, error) {
		return r.repo.FindByActorID(ctx, actorID, limit)
	})
}

// FindByResourceID retrieves audit logs for a resource with circuit breaker protection.
// FindByResourceID получает аудит-логи ресурса с защитой circuit breaker.
func (r *AuditLogRepositoryWithCB) FindByResourceID(ctx context.Context, resourceType, resourceID string, limit int) ([]domain.AuditLog, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.cb, func(ctx context.Context) ([]domain.AuditLog, error) {
		return r.repo.FindByResourceID(ctx, resourceType, resourceID, limit)
	})
}

// CircuitBreakerState returns the current state of the circuit breaker.
// CircuitBreakerState возвращает текущее состояние circuit breaker.
func (r *AuditLogRepositoryWithCB) CircuitBreakerState() circuitbreaker.State {
	return r.cb.State()
}

// Ensure interface compliance. / Проверка соответствия интерфейсу.
var _ port.AuditLogRepository = (*AuditLogRepositoryWithCB)(nil)

// ==================== Transaction Manager with Circuit Breaker ====================

// TransactionManagerWithCB wraps TransactionManager with circuit breaker protection.
// TransactionManagerWithCB оборачивает TransactionManager с защитой circuit breaker.
type TransactionManagerWithCB struct {
	tm *TransactionManager
	cb *circuitbreaker.CircuitBreaker
}

// NewTransactionManagerWithCB creates a new TransactionManager with circuit breaker.
// NewTransactionManagerWithCB создаёт новый TransactionManager с circuit breaker.
func NewTransactionManagerWithCB(tm *TransactionManager, config CircuitBreakerConfig) *TransactionManagerWithCB {
	cbConfig := circuitbreaker.Config{
		Name:                "postgres-transaction",
		MaxFailures:         config.MaxFailures,
		Timeout:             config.Timeout,
		MaxHalfOpenRequests: 1,
		OnStateChange:       config.OnStateChange,
	}
	return &TransactionManagerWithCB{
		tm: tm,
		cb: circuitbreaker.New(cbConfig),
	}
}

// Begin starts a new transaction with circuit breaker protection.
// Begin начинает новую транзакцию с защитой circuit breaker.
func (t *TransactionManagerWithCB) Begin(ctx context.Context) (*gorm.DB, error) {
	return circuitbreaker.ExecuteWithResult(ctx, t.cb, func(ctx context.Context) (*gorm.DB, error) {
		return t.tm.Begin(ctx)
	})
}

// Commit commits a transaction.
// Commit фиксирует транзакцию.
func (t *TransactionManagerWithCB) Commit(tx *gorm.DB) error {
	// Commit is not circuit-breaker protected because it's part of an already-started transaction.
	// Commit не защищается circuit breaker, так как он часть уже начатой транзакции.
	return t.tm.Commit(tx)
}

// Rollback rolls back a transaction.
// Rollback откатывает транзакцию.
func (t *TransactionManagerWithCB) Rollback(tx *gorm.DB) error {
	// Rollback is not circuit-breaker protected.
	// Rollback не защищается circuit breaker.
	return t.tm.Rollback(tx)
}

// WithTransaction executes a function within a transaction with circuit breaker protection.
// WithTransaction выполняет функцию в рамках транзакции с защитой circuit breaker.
func (t *TransactionManagerWithCB) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.cb.Execute(ctx, func(ctx context.Context) error {
		return t.tm.WithTransaction(ctx, fn)
	})
}

// CircuitBreakerState returns the current state of the circuit breaker.
// CircuitBreakerState возвращает текущее состояние circuit breaker.
func (t *TransactionManagerWithCB) CircuitBreakerState() circuitbreaker.State {
	return t.cb.State()
}

// Ensure interface compliance. / Проверка соответствия интерфейсу.
var _ port.Transaction = (*TransactionManagerWithCB)(nil)
