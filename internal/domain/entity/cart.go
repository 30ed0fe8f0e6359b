package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart is the pre-checkout, freely mutable collection of selected items for
// an active table session. Checkout locks it permanently: CheckedOutAt is a
// one-way latch flipped by a conditional update so two concurrent checkouts
// cannot both succeed.
type Cart struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	StoreID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"store_id"`
	SessionID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"session_id"`
	CheckedOutAt *time.Time     `json:"checked_out_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new cart
func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Cart model
func (Cart) TableName() string {
	return "carts"
}

// Locked reports whether the cart has been checked out.
func (c *Cart) Locked() bool {
	return c.CheckedOutAt != nil
}

// Subtotal sums the line subtotals of all items.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].LineSubtotal)
	}
	return total
}

// FindMergeableItem returns an existing line with the same menu item and the
// same option set, or nil. Identical selections merge into one line instead
// of appending duplicates.
func (c *Cart) FindMergeableItem(menuItemID uuid.UUID, options SelectedOptions) *CartItem {
	key := options.fingerprint()
	for i := range c.Items {
		if c.Items[i].MenuItemID == menuItemID && c.Items[i].SelectedOptions.fingerprint() == key {
			return &c.Items[i]
		}
	}
	return nil
}

// CartItem is one line in a cart. Prices are snapshotted at add time so
// later menu edits do not retroactively change an open cart.
type CartItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CartID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"cart_id"`
	MenuItemID      uuid.UUID       `gorm:"type:uuid;not null" json:"menu_item_id"`
	Name            string          `gorm:"size:255;not null" json:"name"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"` // base price + option surcharges
	SelectedOptions SelectedOptions `gorm:"type:jsonb" json:"selected_options,omitempty"`
	LineSubtotal    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"line_subtotal"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new cart item
func (ci *CartItem) BeforeCreate(tx *gorm.DB) error {
	if ci.ID == uuid.Nil {
		ci.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CartItem model
func (CartItem) TableName() string {
	return "cart_items"
}

// Recalculate updates the line subtotal from unit price and quantity.
func (ci *CartItem) Recalculate() {
	ci.LineSubtotal = ci.UnitPrice.Mul(decimal.NewFromInt(int64(ci.Quantity))).Round(2)
}

// SelectedOption is a customization snapshot on a cart or order line.
type SelectedOption struct {
	OptionID        uuid.UUID       `json:"option_id"`
	Name            string          `json:"name"`
	AdditionalPrice decimal.Decimal `json:"additional_price"`
}

// SelectedOptions is stored as a jsonb column.
type SelectedOptions []SelectedOption

// Scan implements the sql.Scanner interface for SelectedOptions
func (so *SelectedOptions) Scan(value interface{}) error {
	if value == nil {
		*so = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan SelectedOptions: unsupported type")
	}

	return json.Unmarshal(bytes, so)
}

// Value implements the driver.Valuer interface for SelectedOptions
func (so SelectedOptions) Value() (driver.Value, error) {
	if so == nil {
		return json.Marshal(SelectedOptions{})
	}
	return json.Marshal(so)
}

// SurchargeTotal sums the option surcharges.
func (so SelectedOptions) SurchargeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, o := range so {
		total = total.Add(o.AdditionalPrice)
	}
	return total
}

// fingerprint produces an order-insensitive identity for merging lines.
func (so SelectedOptions) fingerprint() string {
	ids := make([]string, len(so))
	for i, o := range so {
		ids[i] = o.OptionID.String()
	}
	sort.Strings(ids)
	out := ""
	for _, id := range ids {
		out += id + ";"
	}
	return out
}
