package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest appends a payment to an order's ledger.
type RecordPaymentRequest struct {
	Amount         decimal.Decimal  `json:"amount" binding:"required"`
	Method         string           `json:"method" binding:"required"`
	AmountTendered *decimal.Decimal `json:"amount_tendered,omitempty"`
	TransactionID  *string          `json:"transaction_id,omitempty"`
}

// RecordRefundRequest appends a refund against an earlier payment.
type RecordRefundRequest struct {
	PaymentID uuid.UUID       `json:"payment_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Reason    *string         `json:"reason,omitempty"`
}
