package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tablewise/tablewise-api/internal/application/service"
	"github.com/tablewise/tablewise-api/internal/domain/enum"
	"github.com/tablewise/tablewise-api/internal/domain/repository"
	"github.com/tablewise/tablewise-api/internal/presentation/http/dto/request"
	"github.com/tablewise/tablewise-api/internal/presentation/http/dto/response"
	"github.com/tablewise/tablewise-api/pkg/pagination"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Checkout converts a cart into an order.
func (h *OrderHandler) Checkout(c *gin.Context) {
	cartID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cart ID")
		return
	}

	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.Checkout(c.Request.Context(), cartID, enum.OrderType(req.OrderType))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", order)
}

// List handles listing orders with filters and pagination
func (h *OrderHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.OrderFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
	}
	params.Pagination.Validate()

	if statusStr := c.Query("status"); statusStr != "" {
		status := enum.OrderStatus(statusStr)
		if !status.Valid() {
			response.BadRequest(c, "Unknown order status")
			return
		}
		params.Status = &status
	}

	if sessionIDStr := c.Query("session_id"); sessionIDStr != "" {
		if sessionID, err := uuid.Parse(sessionIDStr); err == nil {
			params.SessionID = &sessionID
		}
	}

	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			params.StartDate = &startDate
		}
	}

	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			params.EndDate = &endDate
		}
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Orders retrieved successfully", result)
}

// Get handles getting a single order
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// AddItems handles appending items to an open order
func (h *OrderHandler) AddItems(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.AddOrderItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.OrderItemInput{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			OptionIDs:  item.OptionIDs,
		}
	}

	order, err := h.orderService.AddItems(c.Request.Context(), id, items)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Items added successfully", order)
}

// ApplyDiscount applies a discount on behalf of the acting role.
func (h *OrderHandler) ApplyDiscount(c *gin.Context) {
	actor, ok := GetActorRole(c)
	if !ok {
		response.Unauthorized(c, "Staff not authenticated")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	kind := enum.DiscountKind(req.Kind)
	if !kind.Valid() {
		response.BadRequest(c, "Unknown discount kind")
		return
	}

	order, err := h.orderService.ApplyDiscount(c.Request.Context(), id, actor, kind, req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount applied successfully", order)
}

// RemoveDiscount removes an applied discount.
func (h *OrderHandler) RemoveDiscount(c *gin.Context) {
	actor, ok := GetActorRole(c)
	if !ok {
		response.Unauthorized(c, "Staff not authenticated")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.RemoveDiscount(c.Request.Context(), id, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount removed successfully", order)
}

// UpdateStatus drives a kitchen workflow transition.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var order interface{}
	var err error
	switch enum.OrderStatus(req.Status) {
	case enum.OrderStatusPreparing:
		order, err = h.orderService.Accept(c.Request.Context(), id)
	case enum.OrderStatusReady:
		order, err = h.orderService.MarkReady(c.Request.Context(), id)
	case enum.OrderStatusCompleted:
		order, err = h.orderService.Complete(c.Request.Context(), id)
	case enum.OrderStatusCancelled:
		order, err = h.orderService.Cancel(c.Request.Context(), id)
	default:
		response.BadRequest(c, "Unknown order status")
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order status updated successfully", order)
}
