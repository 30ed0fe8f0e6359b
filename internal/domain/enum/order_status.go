package enum

// OrderStatus represents the kitchen-workflow status of an order.
//
// Transitions:
//
//	PENDING -> PREPARING -> READY -> COMPLETED
//	PENDING|PREPARING -> CANCELLED (terminal)
//
// COMPLETED additionally requires the order to be fully paid; payment
// completeness and kitchen completeness are independent gates.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are possible from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Modifiable reports whether items may still be added to an order in s.
func (s OrderStatus) Modifiable() bool {
	return s == OrderStatusPending || s == OrderStatusPreparing
}

// CanTransitionTo reports whether the kitchen workflow permits moving from s
// to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusPreparing || next == OrderStatusCancelled
	case OrderStatusPreparing:
		return next == OrderStatusReady || next == OrderStatusCancelled
	case OrderStatusReady:
		return next == OrderStatusCompleted
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}
