package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tablewise/tablewise-api/internal/application/service"
	"github.com/tablewise/tablewise-api/internal/presentation/http/dto/request"
	"github.com/tablewise/tablewise-api/internal/presentation/http/dto/response"
)

// CartHandler handles cart-related HTTP requests
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Open returns the session's cart, creating an empty one on first use.
func (h *CartHandler) Open(c *gin.Context) {
	var req request.OpenCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.cartService.GetOrCreate(c.Request.Context(), req.SessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart retrieved successfully", cart)
}

// Get handles getting a cart with its items
func (h *CartHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cart ID")
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart retrieved successfully", cart)
}

// AddItem handles adding an item to a cart
func (h *CartHandler) AddItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cart ID")
		return
	}

	var req request.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), id, req.MenuItemID, req.Quantity, req.OptionIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added successfully", cart)
}

// RemoveItem handles removing an item from a cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cart ID")
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		response.BadRequest(c, "Invalid cart item ID")
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed successfully", cart)
}
