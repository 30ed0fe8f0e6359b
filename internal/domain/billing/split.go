package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tablewise/tablewise-api/internal/domain/enum"
	"github.com/tablewise/tablewise-api/pkg/apperror"
)

// Diner-count bounds for equal splits.
const (
	MinEqualSplitShares = 2
	MaxEqualSplitShares = 20
)

// Share is one diner's portion of a split bill.
type Share struct {
	ID            uuid.UUID           `json:"id"`
	Amount        decimal.Decimal     `json:"amount"`
	Paid          bool                `json:"paid"`
	PaymentMethod *enum.PaymentMethod `json:"payment_method,omitempty"`
}

// Split is an ephemeral partition of an order's grand total across diners.
// It is never persisted as a first-class entity; each paid share becomes an
// ordinary Payment in the ledger.
type Split struct {
	OrderID    uuid.UUID        `json:"order_id"`
	Method     enum.SplitMethod `json:"method"`
	GrandTotal decimal.Decimal  `json:"grand_total"`
	Shares     []Share          `json:"shares"`
}

// BalanceResult describes how a set of custom share amounts compares to the
// order grand total.
type BalanceResult struct {
	Sum         decimal.Decimal `json:"sum"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	Remaining   decimal.Decimal `json:"remaining"`
	IsBalanced  bool            `json:"is_balanced"`
	IsOverpaid  bool            `json:"is_overpaid"`
	IsUnderpaid bool            `json:"is_underpaid"`
}

// NewSplit partitions grandTotal across diners using the given method.
// BY_ITEM is reserved and rejected explicitly; CUSTOM requires the entered
// amounts to balance before any share may be paid, checked here up front.
func NewSplit(orderID uuid.UUID, method enum.SplitMethod, grandTotal decimal.Decimal, customAmounts []decimal.Decimal, dinerCount int) (*Split, error) {
	switch method {
	case enum.SplitMethodEqual:
		if dinerCount < MinEqualSplitShares || dinerCount > MaxEqualSplitShares {
			return nil, apperror.NewBadRequestError("Equal split supports between 2 and 20 diners")
		}
		amounts := EqualSplit(grandTotal, dinerCount)
		return &Split{
			OrderID:    orderID,
			Method:     method,
			GrandTotal: grandTotal,
			Shares:     newShares(amounts),
		}, nil

	case enum.SplitMethodCustom:
		if len(customAmounts) < 1 {
			return nil, apperror.NewBadRequestError("Custom split requires at least one share amount")
		}
		result := ValidateCustomSplit(customAmounts, grandTotal)
		if !result.IsBalanced {
			return nil, apperror.NewUnbalancedSplitError(
				result.Sum.StringFixed(2), grandTotal.StringFixed(2))
		}
		return &Split{
			OrderID:    orderID,
			Method:     method,
			GrandTotal: grandTotal,
			Shares:     newShares(customAmounts),
		}, nil

	default:
		return nil, apperror.NewUnsupportedSplitMethodError(string(method))
	}
}

func newShares(amounts []decimal.Decimal) []Share {
	shares := make([]Share, len(amounts))
	for i, a := range amounts {
		shares[i] = Share{ID: uuid.New(), Amount: Round(a)}
	}
	return shares
}

// ValidateCustomSplit compares entered per-diner amounts to the grand total.
func ValidateCustomSplit(amounts []decimal.Decimal, grandTotal decimal.Decimal) BalanceResult {
	sum := Sum(amounts)
	return BalanceResult{
		Sum:         sum,
		GrandTotal:  grandTotal,
		Remaining:   grandTotal.Sub(sum),
		IsBalanced:  EqualWithin(sum, grandTotal),
		IsOverpaid:  sum.Sub(grandTotal).Cmp(Epsilon) > 0,
		IsUnderpaid: grandTotal.Sub(sum).Cmp(Epsilon) > 0,
	}
}

// FindShare returns the share with the given id, or nil.
func (s *Split) FindShare(shareID uuid.UUID) *Share {
	for i := range s.Shares {
		if s.Shares[i].ID == shareID {
			return &s.Shares[i]
		}
	}
	return nil
}

// MarkPaid flags a share as paid with the chosen method. Paying a share
// twice is rejected.
func (s *Split) MarkPaid(shareID uuid.UUID, method enum.PaymentMethod) error {
	share := s.FindShare(shareID)
	if share == nil {
		return apperror.NewNotFoundError("Share")
	}
	if share.Paid {
		return apperror.NewConflictError("Share has already been paid")
	}
	share.Paid = true
	share.PaymentMethod = &method
	return nil
}

// Complete reports whether every share has been paid. Completion is tracked
// per share, never inferred from the ledger aggregate: one diner overpaying
// their share must not mask another underpaying theirs.
func (s *Split) Complete() bool {
	for i := range s.Shares {
		if !s.Shares[i].Paid {
			return false
		}
	}
	return true
}
