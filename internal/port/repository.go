// Package port defines interfaces (ports) for the application's external dependencies.
// Пакет port определяет интерфейсы (порты) для внешних зависимостей приложения.
//
// This package follows the Hexagonal Architecture (Ports and Adapters) pattern,
// where ports define the contracts that adapters must implement.
// Этот пакет следует паттерну Гексагональной Архитектуры (Порты и Адаптеры),
// где порты определяют контракты, которые должны реализовывать адаптеры.
package port

import (
	"context"

	"gorm.io/gorm"

	"github.com/zahratun/orders-service/internal/domain"
)

// OrderFilter defines filtering options for admin order queries.
// OrderFilter определяет параметры фильтрации для админских запросов заказов.
type OrderFilter struct {
	Status   domain.OrderStatus // Empty means all statuses / Пустое значение — все статусы
	Page     int                // Page number (1-based) / Номер страницы (с 1)
	PageSize int                // Items per page / Элементов на странице
}

// AdminRepository defines the interface for admin account data access.
// AdminRepository определяет интерфейс для доступа к данным админ-аккаунтов.
type AdminRepository interface {
	// Create creates a new admin account. Duplicate usernames map to a conflict error.
	// Create создаёт новый админ-аккаунт. Дубликат логина отображается в ошибку конфликта.
	Create(ctx context.Context, admin *domain.AdminUser) error

	// CreateTx creates a new admin account within an existing database transaction.
	// CreateTx создаёт новый админ-аккаунт в рамках существующей транзакции БД.
	CreateTx(ctx context.Context, tx *gorm.DB, admin *domain.AdminUser) error

	// FindByID retrieves an admin account by its identifier.
	// FindByID получает админ-аккаунт по идентификатору.
	FindByID(ctx context.Context, id int64) (*domain.AdminUser, error)

	// FindByUsername retrieves an admin account by login name.
	// FindByUsername получает админ-аккаунт по логину.
	FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error)

	// Update updates an existing admin account.
	// Update обновляет существующий админ-аккаунт.
	Update(ctx context.Context, admin *domain.AdminUser) error

	// UpdateTx updates an admin account within a transaction.
	// UpdateTx обновляет админ-аккаунт в рамках транзакции.
	UpdateTx(ctx context.Context, tx *gorm.DB, admin *domain.AdminUser) error

	// HardDelete permanently removes an admin account (compensation path).
	// HardDelete полностью удаляет админ-аккаунт (путь компенсации).
	HardDelete(ctx context.Context, id int64) error

	// List retrieves all admin accounts, newest first.
	// List получает все админ-аккаунты, сначала новые.
	List(ctx context.Context) ([]domain.AdminUser, error)

	// Count returns the number of admin accounts (used by the seeder).
	// Count возвращает количество админ-аккаунтов (используется сидером).
	Count(ctx context.Context) (int64, error)

	// ExistsByUsername checks if an account with the given login already exists.
	// ExistsByUsername проверяет, существует ли аккаунт с указанным логином.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// TelegramUserRepository defines data access for Mini App customers.
// TelegramUserRepository определяет доступ к данным клиентов Mini App.
type TelegramUserRepository interface {
	// Upsert inserts or refreshes a customer profile keyed by Telegram ID.
	// Upsert вставляет или обновляет профиль клиента по Telegram ID.
	Upsert(ctx context.Context, user *domain.TelegramUser) error

	// FindByTgID retrieves a customer profile by Telegram ID.
	// FindByTgID получает профиль клиента по Telegram ID.
	FindByTgID(ctx context.Context, tgID int64) (*domain.TelegramUser, error)
}

// OrderRepository defines the interface for order data access.
// OrderRepository определяет интерфейс для доступа к данным заказов.
type OrderRepository interface {
	// CreateTx persists an order together with its items within a transaction.
	// CreateTx сохраняет заказ вместе с позициями в рамках транзакции.
	CreateTx(ctx context.Context, tx *gorm.DB, order *domain.Order) error

	// FindByID retrieves an order with its items and customer profile.
	// FindByID получает заказ с позициями и профилем клиента.
	FindByID(ctx context.Context, id int64) (*domain.Order, error)

	// FindByIDForCustomer retrieves an order scoped to the owning Telegram ID.
	// A foreign order is reported as not found, never as forbidden.
	// FindByIDForCustomer получает заказ в рамках владеющего Telegram ID.
	// Чужой заказ сообщается как не найденный, никогда как запрещённый.
	FindByIDForCustomer(ctx context.Context, id, tgID int64) (*domain.Order, error)

	// ListByCustomer retrieves a customer's orders, newest first.
	// ListByCustomer получает заказы клиента, сначала новые.
	ListByCustomer(ctx context.Context, tgID int64) ([]domain.Order, error)

	// List retrieves orders for the admin panel with filtering and pagination.
	// Customer profiles are preloaded.
	// List получает заказы для админ-панели с фильтрацией и пагинацией.
	// Профили клиентов предзагружаются.
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int64, error)

	// UpdateStatusTx conditionally moves an order from expectedFrom to the given
	// status inside a transaction. Zero affected rows mean the order changed
	// concurrently and map to a conflict error.
	// UpdateStatusTx условно переводит заказ из expectedFrom в заданный статус
	// внутри транзакции. Ноль затронутых строк означает конкурентное изменение
	// заказа и отображается в ошибку конфликта.
	UpdateStatusTx(ctx context.Context, tx *gorm.DB, orderID int64, expectedFrom, to domain.OrderStatus) error
}

// StatusLogRepository defines data access for order status history.
// StatusLogRepository определяет доступ к истории статусов заказов.
type StatusLogRepository interface {
	// CreateTx appends a status change record within a transaction.
	// CreateTx добавляет запись о смене статуса в рамках транзакции.
	CreateTx(ctx context.Context, tx *gorm.DB, log *domain.OrderStatusLog) error

	// FindByOrderID retrieves the status history of an order, oldest first.
	// FindByOrderID получает историю статусов заказа, сначала старые.
	FindByOrderID(ctx context.Context, orderID int64) ([]domain.OrderStatusLog, error)
}

// MenuRepository defines data access for the menu catalog.
// MenuRepository определяет доступ к данным каталога меню.
type MenuRepository interface {
	// ActiveCategories retrieves active categories ordered by sort.
	// ActiveCategories получает активные категории в порядке sort.
	ActiveCategories(ctx context.Context) ([]domain.Category, error)

	// ActiveProducts retrieves active products ordered by sort.
	// ActiveProducts получает активные продукты в порядке sort.
	ActiveProducts(ctx context.Context) ([]domain.Product, error)

	// ActiveAddons retrieves active addons for the given products, ordered by sort.
	// ActiveAddons получает активные опции указанных продуктов в порядке sort.
	ActiveAddons(ctx context.Context, productIDs []int64) ([]domain.ProductAddon, error)

	// ActiveBranches retrieves active branches ordered by title.
	// ActiveBranches получает активные филиалы в алфавитном порядке.
	ActiveBranches(ctx context.Context) ([]domain.Branch, error)

	// ProductPrices returns the authoritative price per product ID.
	// Unknown IDs are simply absent from the result.
	// ProductPrices возвращает актуальную цену по ID продукта.
	// Неизвестные ID просто отсутствуют в результате.
	ProductPrices(ctx context.Context, productIDs []int64) (map[int64]int64, error)

	// ListCategories retrieves all categories (admin view), ordered by sort.
	// ListCategories получает все категории (админский вид) в порядке sort.
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// FindCategory retrieves a category by ID.
	// FindCategory получает категорию по ID.
	FindCategory(ctx context.Context, id int64) (*domain.Category, error)

	// CreateCategory creates a new category.
	// CreateCategory создаёт новую категорию.
	CreateCategory(ctx context.Context, category *domain.Category) error

	// UpdateCategory updates an existing category.
	// UpdateCategory обновляет существующую категорию.
	UpdateCategory(ctx context.Context, category *domain.Category) error

	// ListProducts retrieves all products (admin view), optionally by category.
	// ListProducts получает все продукты (админский вид), опционально по категории.
	ListProducts(ctx context.Context, categoryID int64) ([]domain.Product, error)

	// FindProduct retrieves a product by ID.
	// FindProduct получает продукт по ID.
	FindProduct(ctx context.Context, id int64) (*domain.Product, error)

	// CreateProduct creates a new product.
	// CreateProduct создаёт новый продукт.
	CreateProduct(ctx context.Context, product *domain.Product) error

	// UpdateProduct updates an existing product.
	// UpdateProduct обновляет существующий продукт.
	UpdateProduct(ctx context.Context, product *domain.Product) error
}

// AuditLogRepository defines the interface for audit log data access.
// AuditLogRepository определяет интерфейс для доступа к данным аудит-логов.
//
// Audit logs track all significant actions in the system for compliance
// and security purposes.
// Аудит-логи отслеживают все значимые действия в системе для целей
// соответствия требованиям и безопасности.
type AuditLogRepository interface {
	// Create creates a new audit log entry.
	// Create создаёт новую запись аудит-лога.
	Create(ctx context.Context, log *domain.AuditLog) error

	// CreateTx creates a new audit log entry within a transaction.
	// CreateTx создаёт запись аудит-лога в рамках транзакции.
	CreateTx(ctx context.Context, tx *gorm.DB, log *domain.AuditLog) error

	// FindByActorID retrieves recent audit logs for a specific admin.
	// FindByActorID получает последние записи аудит-лога для администратора.
	FindByActorID(ctx context.Context, actorID int64, limit int) ([]domain.AuditLog, error)

	// FindByResourceID retrieves audit logs for a specific resource.
	// FindByResourceID получает записи аудит-лога для конкретного ресурса.
	FindByResourceID(ctx context.Context, resourceType string, resourceID string, limit int) ([]domain.AuditLog, error)
}

// Transaction provides database transaction support.
// Transaction обеспечивает поддержку транзакций базы данных.
//
// Transactions ensure data consistency when multiple operations
// need to be performed atomically.
// Транзакции обеспечивают согласованность данных, когда несколько операций
// должны выполняться атомарно.
type Transaction interface {
	// Begin starts a new database transaction.
	// Begin начинает новую транзакцию базы данных.
	Begin(ctx context.Context) (*gorm.DB, error)

	// Commit commits a transaction, making all changes permanent.
	// Commit фиксирует транзакцию, делая все изменения постоянными.
	Commit(tx *gorm.DB) error

	// Rollback rolls back a transaction, discarding all changes.
	// Rollback откатывает транзакцию, отменяя все изменения.
	Rollback(tx *gorm.DB) error

	// WithTransaction executes a function within a transaction.
	// WithTransaction выполняет функцию в рамках транзакции.
	// Automatically commits on success or rolls back on error.
	// Автоматически фиксирует при успехе или откатывает при ошибке.
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}
