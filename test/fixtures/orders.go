// Package fixtures provides reusable test data builders.
// Пакет fixtures предоставляет переиспользуемые билдеры тестовых данных.
package fixtures

import (
	"time"

	"github.com/zahratun/orders-service/internal/domain"
)

// AdminFixtures provides test admin account data
type AdminFixtures struct{}

// NewAdminFixtures creates a new AdminFixtures instance
func NewAdminFixtures() *AdminFixtures {
	return &AdminFixtures{}
}

// Owner returns an active owner account for testing
func (f *AdminFixtures) Owner() *domain.AdminUser {
	return &domain.AdminUser{
		ID:           1,
		Username:     "owner",
		PasswordHash: "$2a$10$rQJjO5KFz3v5KTjcPNTmEOl8y7Xz5k7Jw9q5n3YxV1z2A3B4C5D6E", // hashed "Password123!"
		Role:         domain.RoleOwner,
		IsActive:     true,
		CreatedAt:    time.Now().Add(-24 * time.Hour),
		UpdatedAt:    time.Now(),
	}
}

// Operator returns an active operator account for testing
func (f *AdminFixtures) Operator() *domain.AdminUser {
	admin := f.Owner()
	admin.ID = 2
	admin.Username = "operator"
	admin.Role = domain.RoleOperator
	return admin
}

// Deactivated returns a disabled account for testing
func (f *AdminFixtures) Deactivated() *domain.AdminUser {
	admin := f.Owner()
	admin.ID = 3
	admin.Username = "former-employee"
	admin.IsActive = false
	return admin
}

// FreshAdmin returns an account that must change its password
func (f *AdminFixtures) FreshAdmin() *domain.AdminUser {
	admin := f.Owner()
	admin.ID = 4
	admin.Username = "newcomer"
	admin.Role = domain.RoleManager
	admin.MustChangePassword = true
	return admin
}

// CustomerFixtures provides test Telegram customer data
type CustomerFixtures struct{}

// NewCustomerFixtures creates a new CustomerFixtures instance
func NewCustomerFixtures() *CustomerFixtures {
	return &CustomerFixtures{}
}

// Customer returns a verified Mini App customer for testing
func (f *CustomerFixtures) Customer() *domain.TelegramUser {
	return &domain.TelegramUser{
		TgID:         1001,
		Username:     "ali",
		FirstName:    "Ali",
		LastName:     "Valiyev",
		LanguageCode: "uz",
		CreatedAt:    time.Now().Add(-48 * time.Hour),
		UpdatedAt:    time.Now(),
	}
}

// Identity returns the verified identity matching Customer
func (f *CustomerFixtures) Identity() *domain.TelegramIdentity {
	return &domain.TelegramIdentity{
		TgID:         1001,
		Username:     "ali",
		FirstName:    "Ali",
		LastName:     "Valiyev",
		LanguageCode: "uz",
		AuthDate:     time.Now().Unix(),
	}
}

// OrderFixtures provides test order data
type OrderFixtures struct{}

// NewOrderFixtures creates a new OrderFixtures instance
func NewOrderFixtures() *OrderFixtures {
	return &OrderFixtures{}
}

// PickupOrder returns a fresh pickup order for testing
func (f *OrderFixtures) PickupOrder() *domain.Order {
	branchID := int64(1)
	return &domain.Order{
		ID:             1,
		TgID:           1001,
		Status:         domain.StatusNew,
		DeliveryMode:   "pickup",
		Phone:          "+998901234567",
		PickupBranchID: &branchID,
		Total:          80000,
		CreatedAt:      time.Now().Add(-10 * time.Minute),
		UpdatedAt:      time.Now(),
		Items: []domain.OrderItem{
			{ID: 1, OrderID: 1, ProductID: 10, Title: "Beef Lavash", Price: 35000, Qty: 2},
			{ID: 2, OrderID: 1, ProductID: 11, Title: "Cola 0.5", Price: 10000, Qty: 1},
		},
	}
}

// DeliveryOrder returns an order being delivered
func (f *OrderFixtures) DeliveryOrder() *domain.Order {
	order := f.PickupOrder()
	order.ID = 2
	order.DeliveryMode = "delivery"
	order.Address = "Tashkent, Chilonzor 12"
	order.PickupBranchID = nil
	order.Status = domain.StatusPreparing
	return order
}

// OrderWithStatus returns an order in the given state
func (f *OrderFixtures) OrderWithStatus(status domain.OrderStatus) *domain.Order {
	order := f.PickupOrder()
	order.Status = status
	return order
}

// OrdersList returns a list of orders for testing pagination
func (f *OrderFixtures) OrdersList(count int) []domain.Order {
	statuses := []domain.OrderStatus{
		domain.StatusNew,
		domain.StatusPreparing,
		domain.StatusReady,
		domain.StatusDelivered,
	}

	orders := make([]domain.Order, count)
	for i := 0; i < count; i++ {
		orders[i] = domain.Order{
			ID:           int64(i + 1),
			TgID:         int64(1000 + i%10),
			Status:       statuses[i%len(statuses)],
			DeliveryMode: "pickup",
			Phone:        "+998901234567",
			Total:        int64(10000 * (i + 1)),
			CreatedAt:    time.Now().Add(-time.Duration(i) * time.Hour),
			UpdatedAt:    time.Now(),
		}
	}
	return orders
}

// ValidCreateOrderRequest returns a valid pickup order request
func (f *OrderFixtures) ValidCreateOrderRequest() *domain.CreateOrderRequest {
	branchID := int64(1)
	return &domain.CreateOrderRequest{
		DeliveryMode:   "pickup",
		Phone:          "+998901234567",
		PickupBranchID: &branchID,
		Items: []domain.CreateOrderItem{
			{ProductID: 10, Title: "Beef Lavash", Price: 35000, Qty: 2},
			{ProductID: 11, Title: "Cola 0.5", Price: 10000, Qty: 1},
		},
	}
}

// AuditLogFixtures provides test audit log data
type AuditLogFixtures struct{}

// NewAuditLogFixtures creates a new AuditLogFixtures instance
func NewAuditLogFixtures() *AuditLogFixtures {
	return &AuditLogFixtures{}
}

// ValidAuditLog returns a valid audit log for testing
func (f *AuditLogFixtures) ValidAuditLog() *domain.AuditLog {
	ip := "192.168.1.1"
	ua := "Mozilla/5.0"
	return &domain.AuditLog{
		ID:           1,
		ActorID:      1,
		Action:       domain.AuditActionOrderTransition,
		ResourceType: domain.AuditResourceTypeOrder,
		ResourceID:   "1",
		Details:      []byte(`{"from":"new","to":"preparing"}`),
		IPAddress:    &ip,
		UserAgent:    &ua,
		CreatedAt:    time.Now(),
	}
}

// AuditLogsList returns a list of audit logs for testing
func (f *AuditLogFixtures) AuditLogsList(count int) []domain.AuditLog {
	actions := []string{
		domain.AuditActionLoginSuccess,
		domain.AuditActionOrderTransition,
		domain.AuditActionCategoryCreate,
		domain.AuditActionAdminCreate,
	}

	logs := make([]domain.AuditLog, count)
	for i := 0; i < count; i++ {
		logs[i] = domain.AuditLog{
			ID:         int64(i + 1),
			ActorID:    int64(i%4 + 1),
			Action:     actions[i%len(actions)],
			ResourceID: "1",
			Details:    []byte(`{}`),
			CreatedAt:  time.Now().Add(-time.Duration(i) * time.Minute),
		}
	}
	return logs
}
