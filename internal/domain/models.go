// Package domain contains core business entities and value objects.
// Пакет domain содержит основные бизнес-сущности и объекты-значения.
package domain

import (
	"encoding/json"
	"time"
)

// Admin role constants define the access level of an admin account.
// Константы ролей определяют уровень доступа админ-аккаунта.
const (
	// RoleOwner has full access including admin account management.
	// RoleOwner имеет полный доступ, включая управление админ-аккаунтами.
	RoleOwner = "owner"

	// RoleManager can manage the menu and process orders.
	// RoleManager может управлять меню и обрабатывать заказы.
	RoleManager = "manager"

	// RoleOperator can only view and process orders.
	// RoleOperator может только просматривать и обрабатывать заказы.
	RoleOperator = "operator"
)

// Delivery mode constants.
// Константы режимов доставки.
const (
	// DeliveryModeDelivery means courier delivery to the customer's address.
	// DeliveryModeDelivery означает курьерскую доставку по адресу клиента.
	DeliveryModeDelivery = "delivery"

	// DeliveryModePickup means the customer picks the order up at a branch.
	// DeliveryModePickup означает самовывоз из филиала.
	DeliveryModePickup = "pickup"
)

// Audit action constants for authentication events.
// Константы действий аудита для событий аутентификации.
const (
	// AuditActionLoginSuccess indicates a successful admin login.
	// AuditActionLoginSuccess указывает на успешный вход администратора.
	AuditActionLoginSuccess = "auth.login.success"

	// AuditActionLoginFailed indicates a failed login attempt.
	// AuditActionLoginFailed указывает на неудачную попытку входа.
	AuditActionLoginFailed = "auth.login.failed"

	// AuditActionLoginLocked indicates a rate-limited login attempt.
	// AuditActionLoginLocked указывает на вход, отклонённый лимитом попыток.
	AuditActionLoginLocked = "auth.login.locked"

	// AuditActionLogout indicates an admin logout.
	// AuditActionLogout указывает на выход администратора.
	AuditActionLogout = "auth.logout"

	// AuditActionPasswordChange indicates a password change.
	// AuditActionPasswordChange указывает на смену пароля.
	AuditActionPasswordChange = "auth.password.change"

	// AuditActionPasswordReset indicates an owner-initiated password reset.
	// AuditActionPasswordReset указывает на сброс пароля владельцем.
	AuditActionPasswordReset = "auth.password.reset"
)

// Audit action constants for order events.
// Константы действий аудита для событий заказов.
const (
	// AuditActionOrderCreate indicates a new customer order.
	// AuditActionOrderCreate указывает на новый заказ клиента.
	AuditActionOrderCreate = "order.create"

	// AuditActionOrderTransition indicates an order status change by an admin.
	// AuditActionOrderTransition указывает на смену статуса заказа администратором.
	AuditActionOrderTransition = "order.transition"
)

// Audit action constants for admin account and menu management.
// Константы действий аудита для управления аккаунтами и меню.
const (
	AuditActionAdminCreate     = "admin.create"
	AuditActionAdminUpdate     = "admin.update"
	AuditActionCategoryCreate  = "menu.category.create"
	AuditActionCategoryUpdate  = "menu.category.update"
	AuditActionCategoryDelete  = "menu.category.delete"
	AuditActionProductCreate   = "menu.product.create"
	AuditActionProductUpdate   = "menu.product.update"
	AuditActionProductDelete   = "menu.product.delete"
)

// Audit resource type constants.
// Константы типов ресурсов аудита.
const (
	// AuditResourceTypeAuth represents authentication resource type.
	// AuditResourceTypeAuth представляет тип ресурса аутентификации.
	AuditResourceTypeAuth = "auth"

	// AuditResourceTypeAdmin represents admin account resource type.
	// AuditResourceTypeAdmin представляет тип ресурса админ-аккаунта.
	AuditResourceTypeAdmin = "admin"

	// AuditResourceTypeOrder represents order resource type.
	// AuditResourceTypeOrder представляет тип ресурса заказа.
	AuditResourceTypeOrder = "order"

	// AuditResourceTypeMenu represents menu resource type (categories/products).
	// AuditResourceTypeMenu представляет тип ресурса меню (категории/продукты).
	AuditResourceTypeMenu = "menu"
)

// AdminUser represents a staff account for the admin panel.
// AdminUser представляет аккаунт сотрудника для админ-панели.
//
// Fields:
//   - ID: Unique identifier (primary key)
//   - Username: Login name (unique, used for authentication)
//   - PasswordHash: Bcrypt hash of the account password
//   - Role: Access level (owner, manager, operator)
//   - IsActive: Whether the account may log in
//   - MustChangePassword: Forces a password change on next login
//
// Поля:
//   - ID: Уникальный идентификатор (первичный ключ)
//   - Username: Логин (уникальный, используется для аутентификации)
//   - PasswordHash: Bcrypt хэш пароля аккаунта
//   - Role: Уровень доступа (owner, manager, operator)
//   - IsActive: Может ли аккаунт входить в систему
//   - MustChangePassword: Требует смену пароля при следующем входе
type AdminUser struct {
	ID                 int64     `gorm:"primaryKey"`                 // Primary key / Первичный ключ
	Username           string    `gorm:"uniqueIndex;not null"`       // Unique login / Уникальный логин
	PasswordHash       string    `gorm:"not null"`                   // Bcrypt hash / Bcrypt хэш
	Role               string    `gorm:"type:varchar(20);not null"`  // Access role / Роль доступа
	IsActive           bool      `gorm:"default:true"`               // Account enabled / Аккаунт активен
	MustChangePassword bool      `gorm:"default:false"`              // Force password change / Принудительная смена пароля
	CreatedAt          time.Time `gorm:"not null"`                   // Creation time / Время создания
	UpdatedAt          time.Time `gorm:"not null"`                   // Update time / Время обновления
}

// TableName returns the database table name for AdminUser entity.
// TableName возвращает имя таблицы в базе данных для сущности AdminUser.
func (AdminUser) TableName() string {
	return "admin_users"
}

// TelegramUser represents a Mini App customer identified by Telegram.
// TelegramUser представляет клиента Mini App, идентифицированного через Telegram.
//
// The record is upserted on every verified init-data authentication,
// so profile fields track the latest values Telegram reported.
// Запись обновляется при каждой проверенной аутентификации init-data,
// поэтому поля профиля отражают последние данные от Telegram.
type TelegramUser struct {
	TgID         int64     `gorm:"primaryKey;autoIncrement:false"` // Telegram user ID / Telegram ID пользователя
	Username     string    `gorm:"type:varchar(255)"`              // Telegram username / Имя пользователя Telegram
	FirstName    string    `gorm:"type:varchar(255)"`              // First name / Имя
	LastName     string    `gorm:"type:varchar(255)"`              // Last name / Фамилия
	LanguageCode string    `gorm:"type:varchar(10)"`               // Client language / Язык клиента
	IsPremium    bool      `gorm:"default:false"`                  // Telegram Premium flag / Флаг Telegram Premium
	CreatedAt    time.Time `gorm:"not null"`                       // First seen / Первое появление
	UpdatedAt    time.Time `gorm:"not null"`                       // Last seen / Последнее появление
}

// TableName returns the database table name for TelegramUser entity.
// TableName возвращает имя таблицы в базе данных для сущности TelegramUser.
func (TelegramUser) TableName() string {
	return "tg_users"
}

// Branch represents a restaurant pickup location.
// Branch представляет филиал ресторана для самовывоза.
type Branch struct {
	ID        int64     `gorm:"primaryKey"`        // Primary key / Первичный ключ
	Title     string    `gorm:"not null"`          // Branch name / Название филиала
	Address   string    `gorm:"type:text"`         // Street address / Адрес
	Phone     string    `gorm:"type:varchar(20)"`  // Contact phone / Контактный телефон
	Sort      int       `gorm:"default:0"`         // Display order / Порядок отображения
	IsActive  bool      `gorm:"default:true"`      // Visible to customers / Видим клиентам
	CreatedAt time.Time `gorm:"not null"`          // Creation time / Время создания
	UpdatedAt time.Time `gorm:"not null"`          // Update time / Время обновления
}

// TableName returns the database table name for Branch entity.
// TableName возвращает имя таблицы в базе данных для сущности Branch.
func (Branch) TableName() string {
	return "branches"
}

// Category represents a menu category.
// Category представляет категорию меню.
type Category struct {
	ID        int64     `gorm:"primaryKey"`   // Primary key / Первичный ключ
	Title     string    `gorm:"not null"`     // Category name / Название категории
	ImageURL  string    `gorm:"type:text"`    // Cover image / Обложка
	Sort      int       `gorm:"default:0"`    // Display order / Порядок отображения
	IsActive  bool      `gorm:"default:true"` // Visible to customers / Видима клиентам
	CreatedAt time.Time `gorm:"not null"`     // Creation time / Время создания
	UpdatedAt time.Time `gorm:"not null"`     // Update time / Время обновления
}

// TableName returns the database table name for Category entity.
// TableName возвращает имя таблицы в базе данных для сущности Category.
func (Category) TableName() string {
	return "categories"
}

// Product represents a menu item. Prices are stored in UZS without
// fractional units.
// Product представляет позицию меню. Цены хранятся в UZS без дробных единиц.
type Product struct {
	ID          int64     `gorm:"primaryKey"`                        // Primary key / Первичный ключ
	CategoryID  int64     `gorm:"not null;index:idx_products_category"` // Parent category / Родительская категория
	Title       string    `gorm:"not null"`                          // Product name / Название продукта
	Description string    `gorm:"type:text"`                         // Description / Описание
	Price       int64     `gorm:"not null"`                          // Price in UZS / Цена в UZS
	ImageURL    string    `gorm:"type:text"`                         // Product image / Изображение продукта
	Tags        string    `gorm:"type:text"`                         // Comma-separated tags / Теги через запятую
	Sort        int       `gorm:"default:0"`                         // Display order / Порядок отображения
	IsActive    bool      `gorm:"default:true"`                      // Visible to customers / Видим клиентам
	CreatedAt   time.Time `gorm:"not null"`                          // Creation time / Время создания
	UpdatedAt   time.Time `gorm:"not null"`                          // Update time / Время обновления
}

// TableName returns the database table name for Product entity.
// TableName возвращает имя таблицы в базе данных для сущности Product.
func (Product) TableName() string {
	return "products"
}

// ProductAddon represents an optional extra for a product.
// ProductAddon представляет дополнительную опцию продукта.
type ProductAddon struct {
	ID        int64     `gorm:"primaryKey"`                         // Primary key / Первичный ключ
	ProductID int64     `gorm:"not null;index:idx_addons_product"`  // Parent product / Родительский продукт
	Title     string    `gorm:"not null"`                           // Addon name / Название опции
	Price     int64     `gorm:"not null;default:0"`                 // Addon price in UZS / Цена опции в UZS
	Sort      int       `gorm:"default:0"`                          // Display order / Порядок отображения
	IsActive  bool      `gorm:"default:true"`                       // Available / Доступна
	CreatedAt time.Time `gorm:"not null"`                           // Creation time / Время создания
	UpdatedAt time.Time `gorm:"not null"`                           // Update time / Время обновления
}

// TableName returns the database table name for ProductAddon entity.
// TableName возвращает имя таблицы в базе данных для сущности ProductAddon.
func (ProductAddon) TableName() string {
	return "product_addons"
}

// Order represents a customer order.
// Order представляет заказ клиента.
//
// Fields:
//   - TgID: Telegram ID of the ordering customer
//   - Status: Current lifecycle state (see OrderStatus)
//   - DeliveryMode: delivery or pickup
//   - Total: Server-computed total in UZS
//
// Поля:
//   - TgID: Telegram ID заказавшего клиента
//   - Status: Текущее состояние жизненного цикла (см. OrderStatus)
//   - DeliveryMode: доставка или самовывоз
//   - Total: Итог в UZS, рассчитанный на сервере
type Order struct {
	ID             int64       `gorm:"primaryKey"`                        // Primary key / Первичный ключ
	TgID           int64       `gorm:"not null;index:idx_orders_tg"`     // Customer Telegram ID / Telegram ID клиента
	Status         OrderStatus `gorm:"type:varchar(20);not null;index:idx_orders_status"` // Lifecycle state / Состояние жизненного цикла
	DeliveryMode   string      `gorm:"type:varchar(20);not null"`        // delivery or pickup / доставка или самовывоз
	Phone          string      `gorm:"type:varchar(20);not null"`        // Contact phone / Контактный телефон
	Address        string      `gorm:"type:text"`                        // Delivery address / Адрес доставки
	PickupBranchID *int64      `gorm:""`                                 // Pickup branch / Филиал самовывоза
	Comment        string      `gorm:"type:text"`                        // Order comment / Комментарий к заказу
	Total          int64       `gorm:"not null"`                         // Total in UZS / Итог в UZS
	CreatedAt      time.Time   `gorm:"not null;index:idx_orders_created"` // Creation time / Время создания
	UpdatedAt      time.Time   `gorm:"not null"`                         // Update time / Время обновления

	Items    []OrderItem   `gorm:"foreignKey:OrderID"` // Order lines / Позиции заказа
	Customer *TelegramUser `gorm:"foreignKey:TgID;references:TgID"` // Customer profile / Профиль клиента
}

// TableName returns the database table name for Order entity.
// TableName возвращает имя таблицы в базе данных для сущности Order.
func (Order) TableName() string {
	return "orders"
}

// OrderItem represents a single line of an order. Title and Price are
// denormalized at order time so menu edits never rewrite history.
// OrderItem представляет одну позицию заказа. Title и Price фиксируются
// в момент заказа, чтобы правки меню не переписывали историю.
type OrderItem struct {
	ID          int64           `gorm:"primaryKey"`                       // Primary key / Первичный ключ
	OrderID     int64           `gorm:"not null;index:idx_items_order"`   // Parent order / Родительский заказ
	ProductID   int64           `gorm:"not null"`                         // Ordered product / Заказанный продукт
	Title       string          `gorm:"not null"`                         // Product title at order time / Название на момент заказа
	Price       int64           `gorm:"not null"`                         // Unit price at order time / Цена на момент заказа
	Qty         int             `gorm:"not null"`                         // Quantity / Количество
	AddonsJSON  json.RawMessage `gorm:"type:jsonb"`                       // Selected addons / Выбранные опции
	ItemComment string          `gorm:"type:text"`                        // Per-item comment / Комментарий к позиции
}

// TableName returns the database table name for OrderItem entity.
// TableName возвращает имя таблицы в базе данных для сущности OrderItem.
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderStatusLog records a single status change of an order.
// OrderStatusLog фиксирует одну смену статуса заказа.
type OrderStatusLog struct {
	ID         int64       `gorm:"primaryKey"`                      // Primary key / Первичный ключ
	OrderID    int64       `gorm:"not null;index:idx_status_order"` // Affected order / Затронутый заказ
	AdminID    int64       `gorm:"not null"`                        // Acting admin / Действовавший администратор
	FromStatus OrderStatus `gorm:"type:varchar(20);not null"`       // Previous state / Предыдущее состояние
	ToStatus   OrderStatus `gorm:"type:varchar(20);not null"`       // New state / Новое состояние
	CreatedAt  time.Time   `gorm:"not null"`                        // Change time / Время изменения
}

// TableName returns the database table name for OrderStatusLog entity.
// TableName возвращает имя таблицы в базе данных для сущности OrderStatusLog.
func (OrderStatusLog) TableName() string {
	return "order_status_logs"
}

// AuditLog represents an audit log entry for tracking admin and system actions.
// AuditLog представляет запись аудит-лога для отслеживания действий.
//
// Fields:
//   - ActorID: ID of the admin who performed the action (0 for system/customer flows)
//   - Action: Type of action performed (e.g., "order.transition", "auth.login.success")
//   - ResourceType: Type of resource affected (e.g., "order", "menu")
//   - ResourceID: ID of the affected resource
//   - Details: Additional JSON details about the action
//
// Поля:
//   - ActorID: ID администратора, выполнившего действие (0 для системных/клиентских потоков)
//   - Action: Тип выполненного действия (например, "order.transition", "auth.login.success")
//   - ResourceType: Тип затронутого ресурса (например, "order", "menu")
//   - ResourceID: ID затронутого ресурса
//   - Details: Дополнительные JSON-детали о действии
type AuditLog struct {
	ID           int64           `gorm:"primaryKey"`                       // Primary key / Первичный ключ
	ActorID      int64           `gorm:"not null;index:idx_audit_actor"`   // Acting admin / Действовавший администратор
	Action       string          `gorm:"type:varchar(100);not null"`       // Action type / Тип действия
	ResourceType string          `gorm:"type:varchar(50)"`                 // Resource type / Тип ресурса
	ResourceID   string          `gorm:"type:varchar(50)"`                 // Resource ID / ID ресурса
	Details      json.RawMessage `gorm:"type:jsonb"`                       // JSON details / JSON детали
	IPAddress    *string         `gorm:"type:inet"`                        // Client IP / IP клиента
	UserAgent    *string         `gorm:"type:text"`                        // Client user agent / User agent клиента
	CreatedAt    time.Time       `gorm:"not null;index:idx_audit_created"` // Creation time / Время создания
}

// TableName returns the database table name for AuditLog entity.
// TableName возвращает имя таблицы в базе данных для сущности AuditLog.
func (AuditLog) TableName() string {
	return "audit_logs"
}

// TelegramIdentity is the verified result of init-data validation.
// TelegramIdentity — проверенный результат валидации init-data.
//
// Only produced by a successful signature + freshness check; handlers
// never see partially verified data.
// Создаётся только после успешной проверки подписи и свежести; обработчики
// никогда не видят частично проверенные данные.
type TelegramIdentity struct {
	TgID         int64  `json:"tg_id"`         // Telegram user ID / Telegram ID
	Username     string `json:"username"`      // Telegram username / Имя пользователя
	FirstName    string `json:"first_name"`    // First name / Имя
	LastName     string `json:"last_name"`     // Last name / Фамилия
	LanguageCode string `json:"language_code"` // Client language / Язык клиента
	IsPremium    bool   `json:"is_premium"`    // Premium flag / Флаг Premium
	AuthDate     int64  `json:"auth_date"`     // Unix auth timestamp / Unix-время аутентификации
}

// LoginRequest represents an admin login request.
// LoginRequest представляет запрос на вход администратора.
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Login name / Логин
	Password string `json:"password" binding:"required"` // Password / Пароль
}

// ChangePasswordRequest represents a request to change the current admin's password.
// ChangePasswordRequest представляет запрос на смену пароля текущего администратора.
//
// Validation rules / Правила валидации:
//   - CurrentPassword: Required, verified against the stored hash / Обязательно, сверяется с хэшем
//   - NewPassword: Required, minimum 6 characters / Обязательно, минимум 6 символов
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`   // Current password / Текущий пароль
	NewPassword     string `json:"new_password" binding:"required,min=6"` // New password / Новый пароль
}

// CreateAdminRequest represents a request to create a new admin account.
// CreateAdminRequest представляет запрос на создание нового админ-аккаунта.
//
// Validation rules / Правила валидации:
//   - Username: Required / Обязательно
//   - Password: Required, minimum 6 characters / Обязательно, минимум 6 символов
//   - Role: Required, one of: owner, manager, operator / Обязательно, одно из: owner, manager, operator
type CreateAdminRequest struct {
	Username string `json:"username" binding:"required"`                        // Login name / Логин
	Password string `json:"password" binding:"required,min=6"`                  // Initial password / Начальный пароль
	Role     string `json:"role" binding:"required,oneof=owner manager operator"` // Access role / Роль доступа
}

// UpdateAdminRequest represents a partial update of an admin account.
// UpdateAdminRequest представляет частичное обновление админ-аккаунта.
type UpdateAdminRequest struct {
	Role     *string `json:"role" binding:"omitempty,oneof=owner manager operator"` // New role / Новая роль
	IsActive *bool   `json:"is_active"`                                             // Enable/disable / Включить/выключить
}

// ResetPasswordRequest represents an owner-initiated password reset.
// ResetPasswordRequest представляет сброс пароля, инициированный владельцем.
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=6"` // New password / Новый пароль
}

// CreateOrderItem is a single line of an incoming order request.
// CreateOrderItem — одна позиция входящего запроса на заказ.
type CreateOrderItem struct {
	ProductID   int64           `json:"product_id" binding:"required"` // Product reference / Ссылка на продукт
	Title       string          `json:"title" binding:"required"`      // Product title / Название продукта
	Price       int64           `json:"price" binding:"min=0"`         // Client-side price (fallback only) / Цена клиента (только как запасная)
	Qty         int             `json:"qty" binding:"required,gt=0"`   // Quantity / Количество
	Addons      json.RawMessage `json:"selected_addons"`               // Selected addons / Выбранные опции
	ItemComment string          `json:"item_comment"`                  // Per-item comment / Комментарий к позиции
}

// CreateOrderRequest represents an incoming customer order.
// CreateOrderRequest представляет входящий заказ клиента.
//
// Validation rules / Правила валидации:
//   - DeliveryMode: Required, delivery or pickup / Обязательно, delivery или pickup
//   - Phone: Required, Uzbekistan format +998XXXXXXXXX / Обязательно, формат Узбекистана
//   - Address: Required when DeliveryMode is delivery / Обязателен при доставке
//   - Items: Required, at least one line / Обязательно, минимум одна позиция
type CreateOrderRequest struct {
	DeliveryMode   string            `json:"delivery_mode" binding:"required,oneof=delivery pickup"` // Fulfilment mode / Режим выполнения
	Phone          string            `json:"phone" binding:"required"`                               // Contact phone / Контактный телефон
	Address        string            `json:"address"`                                                // Delivery address / Адрес доставки
	PickupBranchID *int64            `json:"pickup_branch_id"`                                       // Pickup branch / Филиал самовывоза
	Comment        string            `json:"comment"`                                                // Order comment / Комментарий
	Items          []CreateOrderItem `json:"items" binding:"required,min=1,dive"`                    // Order lines / Позиции заказа
}

// TransitionRequest represents an admin order status change request.
// TransitionRequest представляет запрос администратора на смену статуса заказа.
type TransitionRequest struct {
	ToStatus OrderStatus `json:"to_status" binding:"required"` // Target state / Целевое состояние
}

// TransitionResult reports a completed status change.
// TransitionResult сообщает о выполненной смене статуса.
type TransitionResult struct {
	OrderID    int64       `json:"order_id"`    // Affected order / Затронутый заказ
	FromStatus OrderStatus `json:"from_status"` // Previous state / Предыдущее состояние
	ToStatus   OrderStatus `json:"to_status"`   // New state / Новое состояние
}

// MenuCategory is a category with its active products, as served to customers.
// MenuCategory — категория с её активными продуктами, как отдаётся клиентам.
type MenuCategory struct {
	Category
	Products []MenuProduct `json:"products"` // Active products / Активные продукты
}

// MenuProduct is a product with its active addons.
// MenuProduct — продукт с его активными опциями.
type MenuProduct struct {
	Product
	Addons []ProductAddon `json:"addons"` // Active addons / Активные опции
}
