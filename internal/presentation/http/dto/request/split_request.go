package request

import "github.com/shopspring/decimal"

// CreateSplitRequest starts a bill split for an order. DinerCount applies to
// EQUAL splits, Amounts to CUSTOM splits.
type CreateSplitRequest struct {
	Method     string            `json:"method" binding:"required"`
	DinerCount int               `json:"diner_count,omitempty"`
	Amounts    []decimal.Decimal `json:"amounts,omitempty"`
}

// ValidateSplitRequest checks custom amounts against the order total without
// creating a split.
type ValidateSplitRequest struct {
	Amounts []decimal.Decimal `json:"amounts" binding:"required,min=1"`
}

// PayShareRequest settles one share of a split.
type PayShareRequest struct {
	Method         string           `json:"method" binding:"required"`
	AmountTendered *decimal.Decimal `json:"amount_tendered,omitempty"`
}
