package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tablewise/tablewise-api/internal/domain/entity"
	"github.com/tablewise/tablewise-api/internal/domain/enum"
	"github.com/tablewise/tablewise-api/pkg/pagination"
)

// OrderRepository defines the interface for order data operations.
//
// Writes against a single order are serialized through optimistic version
// checks: every update carries the version the caller read, and a concurrent
// writer causes ErrVersionConflict instead of a lost update.
type OrderRepository interface {
	// CheckoutCart atomically claims the cart's checkout latch and creates
	// the order with its line items. When the latch was already claimed it
	// returns ErrCartAlreadyCheckedOut and creates nothing.
	CheckoutCart(ctx context.Context, order *entity.Order, cartID uuid.UUID) error

	// GetByID loads an order with line items, payments, and refunds.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)

	// UpdateWithVersion persists the order's mutable fields (totals,
	// discount, status) guarded by the version the caller read, appending
	// any newItems in the same transaction. Returns ErrVersionConflict when
	// the guard fails.
	UpdateWithVersion(ctx context.Context, order *entity.Order, newItems []entity.LineItem) error
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.OrderStatus
	SessionID  *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// PaymentRepository defines the interface for the append-only payment ledger.
// Payment and Refund rows are only ever inserted; the order's running totals
// are updated under the same optimistic version guard as other order writes.
type PaymentRepository interface {
	// RecordPayment appends a payment and persists the order's updated
	// total_paid and status in one transaction.
	RecordPayment(ctx context.Context, order *entity.Order, payment *entity.Payment) error

	// RecordRefund appends a refund and persists the order's updated
	// total_paid in one transaction. The referenced payment row stays
	// untouched.
	RecordRefund(ctx context.Context, order *entity.Order, refund *entity.Refund) error
}
