package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tablewise/tablewise-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Payment is one entry in an order's append-only payment ledger. Payments
// are never mutated or deleted; corrections happen through Refund records.
type Payment struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	OrderID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"order_id"`
	Amount         decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"amount"`
	Method         enum.PaymentMethod `gorm:"size:20;not null" json:"method"`
	AmountTendered *decimal.Decimal   `gorm:"type:numeric(12,2)" json:"amount_tendered,omitempty"` // cash only
	TransactionID  *string            `gorm:"size:255" json:"transaction_id,omitempty"`            // non-cash only
	RecordedAt     time.Time          `gorm:"not null" json:"recorded_at"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// Change returns the cash change due (tendered minus amount), zero for
// non-cash payments or when no tender was recorded. Informational only,
// never persisted beyond the tendered amount itself.
func (p *Payment) Change() decimal.Decimal {
	if p.AmountTendered == nil {
		return decimal.Zero
	}
	return p.AmountTendered.Sub(p.Amount)
}

// Refund references a Payment and reverses part or all of its amount.
// The original Payment row stays untouched.
type Refund struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	PaymentID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"payment_id"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Reason     *string         `gorm:"size:255" json:"reason,omitempty"`
	RecordedAt time.Time       `gorm:"not null" json:"recorded_at"`
}

// BeforeCreate generates a UUID before creating a new refund
func (r *Refund) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Refund model
func (Refund) TableName() string {
	return "refunds"
}
