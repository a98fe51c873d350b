package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zahratun/orders-service/internal/domain"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from domain.OrderStatus
		to   domain.OrderStatus
		want bool
	}{
		{"new to preparing", domain.StatusNew, domain.StatusPreparing, true},
		{"new to cancelled", domain.StatusNew, domain.StatusCancelled, true},
		{"new to ready skips preparing", domain.StatusNew, domain.StatusReady, false},
		{"new to delivered skips everything", domain.StatusNew, domain.StatusDelivered, false},
		{"preparing to ready", domain.StatusPreparing, domain.StatusReady, true},
		{"preparing to cancelled", domain.StatusPreparing, domain.StatusCancelled, true},
		{"preparing to delivered skips ready", domain.StatusPreparing, domain.StatusDelivered, false},
		{"preparing back to new", domain.StatusPreparing, domain.StatusNew, false},
		{"ready to delivered", domain.StatusReady, domain.StatusDelivered, true},
		{"ready cannot be cancelled", domain.StatusReady, domain.StatusCancelled, false},
		{"delivered is terminal", domain.StatusDelivered, domain.StatusNew, false},
		{"cancelled is terminal", domain.StatusCancelled, domain.StatusPreparing, false},
		{"self transition illegal", domain.StatusPreparing, domain.StatusPreparing, false},
		{"unknown source", domain.OrderStatus("shipped"), domain.StatusDelivered, false},
		{"unknown target", domain.StatusNew, domain.OrderStatus("shipped"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.CanTransition(tt.from, tt.to))
		})
	}
}

func TestOrderStatus_IsValid(t *testing.T) {
	for _, s := range []domain.OrderStatus{
		domain.StatusNew, domain.StatusPreparing, domain.StatusReady,
		domain.StatusDelivered, domain.StatusCancelled,
	} {
		assert.True(t, s.IsValid(), string(s))
	}

	assert.False(t, domain.OrderStatus("").IsValid())
	assert.False(t, domain.OrderStatus("shipped").IsValid())
	assert.False(t, domain.OrderStatus("NEW").IsValid(), "statuses are case sensitive")
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.True(t, domain.StatusDelivered.IsTerminal())
	assert.True(t, domain.StatusCancelled.IsTerminal())

	assert.False(t, domain.StatusNew.IsTerminal())
	assert.False(t, domain.StatusPreparing.IsTerminal())
	assert.False(t, domain.StatusReady.IsTerminal())

	// Unknown statuses are not terminal, just invalid.
	assert.False(t, domain.OrderStatus("shipped").IsTerminal())
}

func TestAllowedTransitions(t *testing.T) {
	assert.ElementsMatch(t,
		[]domain.OrderStatus{domain.StatusPreparing, domain.StatusCancelled},
		domain.AllowedTransitions(domain.StatusNew))
	assert.ElementsMatch(t,
		[]domain.OrderStatus{domain.StatusReady, domain.StatusCancelled},
		domain.AllowedTransitions(domain.StatusPreparing))
	assert.ElementsMatch(t,
		[]domain.OrderStatus{domain.StatusDelivered},
		domain.AllowedTransitions(domain.StatusReady))
	assert.Empty(t, domain.AllowedTransitions(domain.StatusDelivered))
	assert.Empty(t, domain.AllowedTransitions(domain.StatusCancelled))
}
