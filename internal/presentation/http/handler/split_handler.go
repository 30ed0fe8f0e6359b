package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tablewise/tablewise-api/internal/application/service"
	"github.com/tablewise/tablewise-api/internal/domain/enum"
	"github.com/tablewise/tablewise-api/internal/presentation/http/dto/request"
	"github.com/tablewise/tablewise-api/internal/presentation/http/dto/response"
)

// SplitHandler handles bill-split HTTP requests
type SplitHandler struct {
	splitService *service.SplitService
}

// NewSplitHandler creates a new split handler
func NewSplitHandler(splitService *service.SplitService) *SplitHandler {
	return &SplitHandler{splitService: splitService}
}

// Create starts a split for the order
func (h *SplitHandler) Create(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.CreateSplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	split, err := h.splitService.CreateSplit(c.Request.Context(), id,
		enum.SplitMethod(req.Method), req.Amounts, req.DinerCount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Split created successfully", split)
}

// Get returns the current split state
func (h *SplitHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	split, err := h.splitService.GetSplit(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Split retrieved successfully", split)
}

// Validate checks custom amounts against the order total without creating a
// split, so the till can show remaining/over/under while amounts are entered.
func (h *SplitHandler) Validate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.ValidateSplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.splitService.ValidateCustomSplit(c.Request.Context(), id, req.Amounts)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Split validated", result)
}

// PayShare settles one share of a split
func (h *SplitHandler) PayShare(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}
	shareID, ok := parseIDParam(c, "shareId")
	if !ok {
		response.BadRequest(c, "Invalid share ID")
		return
	}

	var req request.PayShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	split, err := h.splitService.PayShare(c.Request.Context(), id, shareID,
		enum.PaymentMethod(req.Method), req.AmountTendered)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Share paid successfully", split)
}
