package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tablewise/tablewise-api/internal/domain/entity"
	domainRepo "github.com/tablewise/tablewise-api/internal/domain/repository"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

// CheckoutCart claims the cart's checkout latch and creates the order in a
// single transaction. The latch is a conditional UPDATE on
// checked_out_at IS NULL, so exactly one of two concurrent checkouts wins;
// the loser sees ErrCartAlreadyCheckedOut and nothing is written.
func (r *orderRepository) CheckoutCart(ctx context.Context, order *entity.Order, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Cart{}).
			Where("id = ? AND checked_out_at IS NULL", cartID).
			Update("checked_out_at", tx.NowFunc())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domainRepo.ErrCartAlreadyCheckedOut
		}

		return tx.Create(order).Error
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Scopes(StoreScope(ctx)).
		Preload("LineItems").
		Preload("Payments").
		Preload("Refunds").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{}).Scopes(StoreScope(ctx))

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.SessionID != nil {
		query = query.Where("session_id = ?", *params.SessionID)
	}
	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("LineItems").
		Order("created_at DESC").
		Find(&orders).Error

	return orders, total, err
}

// UpdateWithVersion persists the order's mutable fields guarded by the
// version the caller read. New line items are appended in the same
// transaction. Version bumps on every write.
func (r *orderRepository) UpdateWithVersion(ctx context.Context, order *entity.Order, newItems []entity.LineItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Order{}).
			Where("id = ? AND version = ?", order.ID, order.Version).
			Updates(map[string]interface{}{
				"status":              order.Status,
				"subtotal":            order.Subtotal,
				"discount_amount":     order.DiscountAmount,
				"vat":                 order.VAT,
				"service_charge":      order.ServiceCharge,
				"grand_total":         order.GrandTotal,
				"total_paid":          order.TotalPaid,
				"discount_kind":       order.DiscountKind,
				"discount_value":      order.DiscountValue,
				"discount_applied_by": order.DiscountAppliedBy,
				"version":             gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domainRepo.ErrVersionConflict
		}

		if len(newItems) > 0 {
			if err := tx.Create(&newItems).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

// RecordPayment appends the payment row and persists the order's running
// totals under the optimistic version guard. Payment rows are insert-only.
func (r *paymentRepository) RecordPayment(ctx context.Context, order *entity.Order, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bumpOrderTotals(tx, order); err != nil {
			return err
		}
		return tx.Create(payment).Error
	})
}

// RecordRefund appends the refund row and persists the decremented
// total_paid. The referenced payment row is never touched.
func (r *paymentRepository) RecordRefund(ctx context.Context, order *entity.Order, refund *entity.Refund) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bumpOrderTotals(tx, order); err != nil {
			return err
		}
		return tx.Create(refund).Error
	})
}

func bumpOrderTotals(tx *gorm.DB, order *entity.Order) error {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]interface{}{
			"total_paid": order.TotalPaid,
			"status":     order.Status,
			"version":    gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainRepo.ErrVersionConflict
	}
	return nil
}
