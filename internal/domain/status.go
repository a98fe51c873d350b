package domain

// OrderStatus is the lifecycle state of an order.
// OrderStatus — состояние жизненного цикла заказа.
type OrderStatus string

// Order lifecycle states.
// Состояния жизненного цикла заказа.
const (
	// StatusNew is the initial state of every order.
	// StatusNew — начальное состояние каждого заказа.
	StatusNew OrderStatus = "new"

	// StatusPreparing means the kitchen has accepted the order.
	// StatusPreparing означает, что кухня приняла заказ.
	StatusPreparing OrderStatus = "preparing"

	// StatusReady means the order is ready for delivery or pickup.
	// StatusReady означает, что заказ готов к доставке или выдаче.
	StatusReady OrderStatus = "ready"

	// StatusDelivered is a terminal success state.
	// StatusDelivered — терминальное успешное состояние.
	StatusDelivered OrderStatus = "delivered"

	// StatusCancelled is a terminal failure state.
	// StatusCancelled — терминальное состояние отмены.
	StatusCancelled OrderStatus = "cancelled"
)

// statusTransitions defines the legal edges of the order state machine.
// Terminal states map to an empty set.
// statusTransitions определяет допустимые переходы машины состояний заказа.
// Терминальные состояния отображаются в пустое множество.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusNew:       {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// IsValid reports whether s is a known order status.
// IsValid сообщает, является ли s известным статусом заказа.
func (s OrderStatus) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are possible from s.
// IsTerminal сообщает, что дальнейшие переходы из s невозможны.
func (s OrderStatus) IsTerminal() bool {
	next, ok := statusTransitions[s]
	return ok && len(next) == 0
}

// CanTransition reports whether the edge from→to is legal.
// Self-transitions are never legal.
// CanTransition сообщает, допустим ли переход from→to.
// Переходы в то же состояние недопустимы.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the legal target states from the given state.
// AllowedTransitions возвращает допустимые целевые состояния из заданного.
func AllowedTransitions(from OrderStatus) []OrderStatus {
	next := statusTransitions[from]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}
