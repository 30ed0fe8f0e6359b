package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tablewise/tablewise-api/internal/application/service"
	"github.com/tablewise/tablewise-api/internal/domain/enum"
	"github.com/tablewise/tablewise-api/internal/presentation/http/dto/request"
	"github.com/tablewise/tablewise-api/internal/presentation/http/dto/response"
)

// PaymentHandler handles payment ledger HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RecordPayment appends a payment to the order's ledger
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.paymentService.RecordPayment(c.Request.Context(), id, service.PaymentInput{
		Amount:         req.Amount,
		Method:         enum.PaymentMethod(req.Method),
		AmountTendered: req.AmountTendered,
		TransactionID:  req.TransactionID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded successfully", order)
}

// RecordRefund appends a refund against an earlier payment
func (h *PaymentHandler) RecordRefund(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.RecordRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.paymentService.RecordRefund(c.Request.Context(), id, req.PaymentID, req.Amount, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Refund recorded successfully", order)
}
