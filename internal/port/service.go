package port

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zahratun/orders-service/internal/domain"
)

// Claims represents the JWT claims of an admin session token.
// Claims представляет JWT-клеймы токена админ-сессии.
type Claims struct {
	AdminID  int64  `json:"admin_id"` // Admin account ID / ID админ-аккаунта
	Username string `json:"username"` // Login name / Логин
	Role     string `json:"role"`     // Access role / Роль доступа
	jwt.RegisteredClaims
}

// AuthService defines admin authentication operations.
// AuthService определяет операции аутентификации администраторов.
type AuthService interface {
	// Login verifies credentials and issues a session token.
	// Rejections are deliberately indistinguishable: unknown username,
	// inactive account and wrong password all produce the same error.
	// Login проверяет учётные данные и выдаёт токен сессии.
	// Отказы намеренно неразличимы: неизвестный логин, неактивный аккаунт
	// и неверный пароль дают одинаковую ошибку.
	Login(ctx context.Context, username, password, ipAddress, userAgent string) (*domain.AdminUser, string, error)

	// ValidateToken parses and verifies a session token.
	// ValidateToken разбирает и проверяет токен сессии.
	ValidateToken(ctx context.Context, token string) (*Claims, error)

	// Logout blacklists the session token for its remaining lifetime.
	// Logout помещает токен сессии в чёрный список на оставшийся срок.
	Logout(ctx context.Context, token string, ipAddress, userAgent string) error

	// IsTokenBlacklisted checks whether a token was revoked by logout.
	// IsTokenBlacklisted проверяет, был ли токен отозван выходом.
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)

	// CurrentAdmin loads the admin behind a validated session; fails if the
	// account was deleted or deactivated after the token was issued.
	// CurrentAdmin загружает администратора за проверенной сессией; ошибка,
	// если аккаунт удалён или деактивирован после выдачи токена.
	CurrentAdmin(ctx context.Context, adminID int64) (*domain.AdminUser, error)

	// ChangePassword verifies the current password and sets a new one,
	// clearing the must-change flag.
	// ChangePassword проверяет текущий пароль и устанавливает новый,
	// снимая флаг обязательной смены.
	ChangePassword(ctx context.Context, adminID int64, currentPassword, newPassword, ipAddress, userAgent string) error
}

// AdminService defines admin account management operations (owner only).
// AdminService определяет операции управления админ-аккаунтами (только owner).
type AdminService interface {
	// ListAdmins returns all admin accounts, newest first.
	// ListAdmins возвращает все админ-аккаунты, сначала новые.
	ListAdmins(ctx context.Context) ([]domain.AdminUser, error)

	// CreateAdmin creates an account with a forced first password change.
	// CreateAdmin создаёт аккаунт с обязательной сменой первого пароля.
	CreateAdmin(ctx context.Context, req *domain.CreateAdminRequest, actorID int64, ipAddress, userAgent string) (*domain.AdminUser, error)

	// UpdateAdmin changes role and/or activity of an account and keeps the
	// authorization policy grouping in sync.
	// UpdateAdmin меняет роль и/или активность аккаунта и синхронизирует
	// группировку политик авторизации.
	UpdateAdmin(ctx context.Context, id int64, req *domain.UpdateAdminRequest, actorID int64, ipAddress, userAgent string) (*domain.AdminUser, error)

	// ResetPassword sets a new password and forces a change on next login.
	// ResetPassword устанавливает новый пароль и требует его смену при входе.
	ResetPassword(ctx context.Context, id int64, newPassword string, actorID int64, ipAddress, userAgent string) error
}

// OrderService defines order lifecycle operations.
// OrderService определяет операции жизненного цикла заказов.
type OrderService interface {
	// CreateOrder validates and persists a customer order with server-side
	// totals and fires a best-effort admin notification.
	// CreateOrder валидирует и сохраняет заказ клиента с серверным расчётом
	// итога и отправляет админам уведомление по мере возможности.
	CreateOrder(ctx context.Context, identity *domain.TelegramIdentity, req *domain.CreateOrderRequest) (*domain.Order, error)

	// ListCustomerOrders returns the caller's orders, newest first.
	// ListCustomerOrders возвращает заказы вызывающего, сначала новые.
	ListCustomerOrders(ctx context.Context, tgID int64) ([]domain.Order, error)

	// GetCustomerOrder returns one order scoped by ownership.
	// GetCustomerOrder возвращает один заказ в рамках владения.
	GetCustomerOrder(ctx context.Context, orderID, tgID int64) (*domain.Order, error)

	// ListOrders returns orders for the admin panel.
	// ListOrders возвращает заказы для админ-панели.
	ListOrders(ctx context.Context, filter OrderFilter) ([]domain.Order, int64, error)

	// GetOrder returns one order with items and customer for the admin panel.
	// GetOrder возвращает один заказ с позициями и клиентом для админ-панели.
	GetOrder(ctx context.Context, orderID int64) (*domain.Order, error)

	// Transition moves an order along a legal status edge, logging the change
	// and notifying the customer best-effort.
	// Transition переводит заказ по допустимому ребру статусов, фиксируя
	// изменение и уведомляя клиента по мере возможности.
	Transition(ctx context.Context, orderID int64, to domain.OrderStatus, adminID int64, ipAddress, userAgent string) (*domain.TransitionResult, error)

	// StatusHistory returns the status change log of an order, oldest first.
	// StatusHistory возвращает журнал смен статуса заказа, сначала старые.
	StatusHistory(ctx context.Context, orderID int64) ([]domain.OrderStatusLog, error)
}

// MenuService defines menu catalog operations.
// MenuService определяет операции каталога меню.
type MenuService interface {
	// Menu returns the customer-facing category tree (cached).
	// Menu возвращает клиентское дерево категорий (кэшируется).
	Menu(ctx context.Context) ([]domain.MenuCategory, error)

	// Branches returns active pickup branches.
	// Branches возвращает активные филиалы самовывоза.
	Branches(ctx context.Context) ([]domain.Branch, error)

	// ListCategories returns all categories for the admin panel.
	// ListCategories возвращает все категории для админ-панели.
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// GetCategory returns one category.
	// GetCategory возвращает одну категорию.
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)

	// CreateCategory creates a category and invalidates the menu cache.
	// CreateCategory создаёт категорию и инвалидирует кэш меню.
	CreateCategory(ctx context.Context, category *domain.Category, actorID int64, ipAddress, userAgent string) error

	// UpdateCategory updates a category and invalidates the menu cache.
	// UpdateCategory обновляет категорию и инвалидирует кэш меню.
	UpdateCategory(ctx context.Context, id int64, patch func(*domain.Category), actorID int64, ipAddress, userAgent string) (*domain.Category, error)

	// DeleteCategory deactivates a category (soft delete).
	// DeleteCategory деактивирует категорию (мягкое удаление).
	DeleteCategory(ctx context.Context, id int64, actorID int64, ipAddress, userAgent string) error

	// ListProducts returns products for the admin panel, optionally by category.
	// ListProducts возвращает продукты для админ-панели, опционально по категории.
	ListProducts(ctx context.Context, categoryID int64) ([]domain.Product, error)

	// CreateProduct creates a product and invalidates the menu cache.
	// CreateProduct создаёт продукт и инвалидирует кэш меню.
	CreateProduct(ctx context.Context, product *domain.Product, actorID int64, ipAddress, userAgent string) error

	// UpdateProduct updates a product and invalidates the menu cache.
	// UpdateProduct обновляет продукт и инвалидирует кэш меню.
	UpdateProduct(ctx context.Context, id int64, patch func(*domain.Product), actorID int64, ipAddress, userAgent string) (*domain.Product, error)

	// DeleteProduct deactivates a product (soft delete).
	// DeleteProduct деактивирует продукт (мягкое удаление).
	DeleteProduct(ctx context.Context, id int64, actorID int64, ipAddress, userAgent string) error
}

// TelegramAuthService defines customer authentication via Mini App init-data.
// TelegramAuthService определяет аутентификацию клиентов через init-data Mini App.
type TelegramAuthService interface {
	// Authenticate verifies raw init-data and upserts the customer profile.
	// Any verification failure yields an unauthorized error, never partial data.
	// Authenticate проверяет сырой init-data и обновляет профиль клиента.
	// Любой сбой проверки даёт ошибку авторизации, никогда частичные данные.
	Authenticate(ctx context.Context, rawInitData string) (*domain.TelegramUser, error)
}

// InitDataVerifier validates Telegram Mini App init-data signatures.
// InitDataVerifier проверяет подписи init-data Telegram Mini App.
type InitDataVerifier interface {
	// Verify checks the signature and freshness of raw init-data and returns
	// the verified identity. Failures return an unauthorized error.
	// Verify проверяет подпись и свежесть сырого init-data и возвращает
	// проверенную идентичность. Сбои возвращают ошибку авторизации.
	Verify(rawInitData string) (*domain.TelegramIdentity, error)
}

// Notifier sends best-effort Telegram notifications. Errors are returned for
// logging but callers never fail a request because of them.
// Notifier отправляет Telegram-уведомления по мере возможности. Ошибки
// возвращаются для логирования, но запросы из-за них не падают.
type Notifier interface {
	// NotifyAdminsNewOrder posts a new-order summary to the admin chat.
	// NotifyAdminsNewOrder публикует сводку нового заказа в админ-чат.
	NotifyAdminsNewOrder(ctx context.Context, order *domain.Order) error

	// NotifyCustomerStatus tells the customer about a status change.
	// Statuses with no customer-facing message are silently skipped.
	// NotifyCustomerStatus сообщает клиенту о смене статуса.
	// Статусы без клиентского сообщения молча пропускаются.
	NotifyCustomerStatus(ctx context.Context, tgID int64, status domain.OrderStatus) error
}

// AuthorizationService defines authorization operations using RBAC.
// AuthorizationService определяет операции авторизации с использованием RBAC.
type AuthorizationService interface {
	// CheckAccess verifies if an admin may perform an action on a resource.
	// CheckAccess проверяет, может ли администратор выполнить действие над ресурсом.
	CheckAccess(ctx context.Context, adminID int64, resource, action string) (bool, error)

	// AddRoleToAdmin assigns a role to an admin account.
	// AddRoleToAdmin назначает роль админ-аккаунту.
	AddRoleToAdmin(ctx context.Context, adminID int64, role string) error

	// RemoveRoleFromAdmin removes a role from an admin account.
	// RemoveRoleFromAdmin удаляет роль у админ-аккаунта.
	RemoveRoleFromAdmin(ctx context.Context, adminID int64, role string) error

	// GetAdminRoles returns all roles assigned to an admin account.
	// GetAdminRoles возвращает все роли, назначенные админ-аккаунту.
	GetAdminRoles(ctx context.Context, adminID int64) ([]string, error)

	// ReloadPolicies reloads authorization policies from storage.
	// ReloadPolicies перезагружает политики авторизации из хранилища.
	ReloadPolicies(ctx context.Context) error
}

// AuditService defines audit logging operations.
// AuditService определяет операции аудит-логирования.
type AuditService interface {
	// LogAction records an action in the audit trail.
	// LogAction записывает действие в аудит-лог.
	LogAction(ctx context.Context, actorID int64, action, resourceType, resourceID string, details map[string]interface{}) error

	// LogActionWithContext records an action with client IP and user agent.
	// LogActionWithContext записывает действие с IP клиента и user agent.
	LogActionWithContext(ctx context.Context, actorID int64, action, resourceType, resourceID string, details map[string]interface{}, ipAddress, userAgent string) error

	// GetActorAuditLogs returns recent audit entries of one admin.
	// GetActorAuditLogs возвращает последние записи аудита одного администратора.
	GetActorAuditLogs(ctx context.Context, actorID int64, limit int) ([]domain.AuditLog, error)
}
