package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tablewise/tablewise-api/internal/domain/billing"
	"github.com/tablewise/tablewise-api/internal/domain/entity"
	"github.com/tablewise/tablewise-api/internal/domain/enum"
	"github.com/tablewise/tablewise-api/internal/domain/repository"
	"github.com/tablewise/tablewise-api/pkg/apperror"
)

// SplitService partitions an order's grand total across diners and settles
// each share through the payment ledger. Splits are ephemeral session state
// held in memory, keyed by order; the ledger only ever sees ordinary
// payments.
type SplitService struct {
	orderRepo repository.OrderRepository
	payments  *PaymentService

	mu     sync.RWMutex
	splits map[uuid.UUID]*billing.Split
}

// NewSplitService creates a new split service
func NewSplitService(orderRepo repository.OrderRepository, payments *PaymentService) *SplitService {
	return &SplitService{
		orderRepo: orderRepo,
		payments:  payments,
		splits:    make(map[uuid.UUID]*billing.Split),
	}
}

// CreateSplit starts a split for the order. EQUAL partitions the grand
// total across dinerCount shares; CUSTOM takes explicit amounts that must
// balance against the grand total before any share may be paid. Replacing
// an existing split is allowed only while none of its shares are paid.
func (s *SplitService) CreateSplit(ctx context.Context, orderID uuid.UUID, method enum.SplitMethod, customAmounts []decimal.Decimal, dinerCount int) (*billing.Split, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == enum.OrderStatusCancelled {
		return nil, apperror.NewOrderNotModifiableError(order.Status.String())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.splits[orderID]; ok {
		for i := range existing.Shares {
			if existing.Shares[i].Paid {
				return nil, apperror.NewConflictError(
					"A split with paid shares already exists for this order")
			}
		}
	}

	split, err := billing.NewSplit(orderID, method, order.GrandTotal, customAmounts, dinerCount)
	if err != nil {
		return nil, err
	}

	s.splits[orderID] = split
	return split, nil
}

// GetSplit returns the current split for the order.
func (s *SplitService) GetSplit(ctx context.Context, orderID uuid.UUID) (*billing.Split, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	split, ok := s.splits[orderID]
	if !ok {
		return nil, apperror.NewNotFoundError("Split")
	}
	return split, nil
}

// ValidateCustomSplit checks entered amounts against the order's grand
// total without creating a split.
func (s *SplitService) ValidateCustomSplit(ctx context.Context, orderID uuid.UUID, amounts []decimal.Decimal) (*billing.BalanceResult, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	result := billing.ValidateCustomSplit(amounts, order.GrandTotal)
	return &result, nil
}

// PayShare settles one share through the payment ledger and marks it paid.
// Split completion is tracked per share, never inferred from the order's
// aggregate balance.
func (s *SplitService) PayShare(ctx context.Context, orderID, shareID uuid.UUID, method enum.PaymentMethod, tendered *decimal.Decimal) (*billing.Split, error) {
	s.mu.Lock()
	split, ok := s.splits[orderID]
	if !ok {
		s.mu.Unlock()
		return nil, apperror.NewNotFoundError("Split")
	}
	share := split.FindShare(shareID)
	if share == nil {
		s.mu.Unlock()
		return nil, apperror.NewNotFoundError("Share")
	}
	if share.Paid {
		s.mu.Unlock()
		return nil, apperror.NewConflictError("Share has already been paid")
	}
	amount := share.Amount
	s.mu.Unlock()

	// The ledger write happens outside the split lock; a failed payment
	// leaves the share unpaid.
	_, err := s.payments.RecordPayment(ctx, orderID, PaymentInput{
		Amount:         amount,
		Method:         method,
		AmountTendered: tendered,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := split.MarkPaid(shareID, method); err != nil {
		return nil, err
	}
	if split.Complete() {
		// The split served its purpose; drop the session state.
		delete(s.splits, orderID)
	}
	return split, nil
}

func (s *SplitService) getOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}
