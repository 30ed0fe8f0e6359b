package request

import "github.com/google/uuid"

// OpenCartRequest opens (or returns) the cart for a table session.
type OpenCartRequest struct {
	SessionID uuid.UUID `json:"session_id" binding:"required"`
}

// AddCartItemRequest adds an item to a cart.
type AddCartItemRequest struct {
	MenuItemID uuid.UUID   `json:"menu_item_id" binding:"required"`
	Quantity   int         `json:"quantity" binding:"required,gt=0"`
	OptionIDs  []uuid.UUID `json:"option_ids"`
}
