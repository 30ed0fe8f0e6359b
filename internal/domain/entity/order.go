package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tablewise/tablewise-api/internal/domain/billing"
	"github.com/tablewise/tablewise-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Order is the immutable-shape, mutable-state record created from a Cart at
// checkout. Totals hold the invariant
//
//	grand_total = subtotal - discount_amount + vat + service_charge
//
// and Version drives optimistic locking so concurrent staff actions against
// one order are serialized. Orders are archived, never hard-deleted.
type Order struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	StoreID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"store_id"`
	SessionID uuid.UUID        `gorm:"type:uuid;not null;index" json:"session_id"`
	OrderType enum.OrderType   `gorm:"size:20;not null" json:"order_type"`
	Status    enum.OrderStatus `gorm:"size:20;not null;default:'PENDING'" json:"status"`

	Subtotal       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"discount_amount"`
	VAT            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"vat"`
	ServiceCharge  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"service_charge"`
	GrandTotal     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"grand_total"`
	TotalPaid      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"total_paid"`

	DiscountKind      *enum.DiscountKind `gorm:"size:20" json:"discount_kind,omitempty"`
	DiscountValue     *decimal.Decimal   `gorm:"type:numeric(12,2)" json:"discount_value,omitempty"`
	DiscountAppliedBy *enum.Role         `gorm:"size:20" json:"discount_applied_by,omitempty"`

	Version   int            `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	LineItems []LineItem `gorm:"foreignKey:OrderID" json:"line_items,omitempty"`
	Payments  []Payment  `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
	Refunds   []Refund   `gorm:"foreignKey:OrderID" json:"refunds,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// HasDiscount reports whether a discount is applied.
func (o *Order) HasDiscount() bool {
	return o.DiscountKind != nil && o.DiscountValue != nil
}

// Discount returns the applied discount, valid only when HasDiscount.
func (o *Order) Discount() billing.Discount {
	d := billing.Discount{}
	if o.DiscountKind != nil {
		d.Kind = *o.DiscountKind
	}
	if o.DiscountValue != nil {
		d.Value = *o.DiscountValue
	}
	if o.DiscountAppliedBy != nil {
		d.AppliedByRole = *o.DiscountAppliedBy
	}
	return d
}

// SetDiscount stamps the discount fields from an authorized discount.
func (o *Order) SetDiscount(d billing.Discount) {
	kind, value, role := d.Kind, d.Value, d.AppliedByRole
	o.DiscountKind = &kind
	o.DiscountValue = &value
	o.DiscountAppliedBy = &role
}

// ClearDiscount removes the discount fields.
func (o *Order) ClearDiscount() {
	o.DiscountKind = nil
	o.DiscountValue = nil
	o.DiscountAppliedBy = nil
}

// RecalculateTotals recomputes subtotal, discount amount, VAT, service
// charge, and grand total from the line items and the applied discount.
// VAT and service charge are levied on the discounted subtotal.
func (o *Order) RecalculateTotals(vatRate, serviceChargeRate decimal.Decimal) {
	subtotal := decimal.Zero
	for i := range o.LineItems {
		subtotal = subtotal.Add(o.LineItems[i].LineSubtotal)
	}
	o.Subtotal = billing.Round(subtotal)

	o.DiscountAmount = decimal.Zero
	if o.HasDiscount() {
		o.DiscountAmount = o.Discount().Amount(o.Subtotal)
	}

	base := o.Subtotal.Sub(o.DiscountAmount)
	o.VAT = billing.ApplyRate(base, vatRate)
	o.ServiceCharge = billing.ApplyRate(base, serviceChargeRate)
	o.GrandTotal = o.Subtotal.Sub(o.DiscountAmount).Add(o.VAT).Add(o.ServiceCharge)
}

// RemainingBalance returns grand total minus total paid.
func (o *Order) RemainingBalance() decimal.Decimal {
	return o.GrandTotal.Sub(o.TotalPaid)
}

// FullyPaid reports whether total paid covers the grand total within the
// one-cent tolerance.
func (o *Order) FullyPaid() bool {
	return o.TotalPaid.Cmp(o.GrandTotal.Sub(billing.Epsilon)) >= 0
}

// FindPayment returns the payment with the given id, or nil.
func (o *Order) FindPayment(paymentID uuid.UUID) *Payment {
	for i := range o.Payments {
		if o.Payments[i].ID == paymentID {
			return &o.Payments[i]
		}
	}
	return nil
}

// RefundedAgainst sums prior refunds recorded against one payment.
func (o *Order) RefundedAgainst(paymentID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for i := range o.Refunds {
		if o.Refunds[i].PaymentID == paymentID {
			total = total.Add(o.Refunds[i].Amount)
		}
	}
	return total
}

// LineItem is an order line snapshotted from a cart item at checkout.
type LineItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	MenuItemID      uuid.UUID       `gorm:"type:uuid;not null" json:"menu_item_id"`
	Name            string          `gorm:"size:255;not null" json:"name"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	SelectedOptions SelectedOptions `gorm:"type:jsonb" json:"selected_options,omitempty"`
	LineSubtotal    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"line_subtotal"`
	CreatedAt       time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new line item
func (li *LineItem) BeforeCreate(tx *gorm.DB) error {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the LineItem model
func (LineItem) TableName() string {
	return "order_line_items"
}
