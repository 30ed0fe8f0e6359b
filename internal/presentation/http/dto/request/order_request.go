package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutRequest converts a cart into an order.
type CheckoutRequest struct {
	OrderType string `json:"order_type" binding:"required"`
}

// OrderItemRequest is one requested item when adding to an order.
type OrderItemRequest struct {
	MenuItemID uuid.UUID   `json:"menu_item_id" binding:"required"`
	Quantity   int         `json:"quantity" binding:"required,gt=0"`
	OptionIDs  []uuid.UUID `json:"option_ids"`
}

// AddOrderItemsRequest appends items to an open order.
type AddOrderItemsRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ApplyDiscountRequest applies a discount on behalf of the acting staff role.
type ApplyDiscountRequest struct {
	Kind  string          `json:"kind" binding:"required"`
	Value decimal.Decimal `json:"value" binding:"required"`
}

// UpdateOrderStatusRequest drives a kitchen workflow transition.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
