package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store represents one restaurant in the multi-tenant platform. Every
// scoped entity carries its StoreID and every scoped query filters on it.
type Store struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	Settings  StoreSettings  `gorm:"type:jsonb;serializer:json" json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new store
func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Store model
func (Store) TableName() string {
	return "stores"
}

// StoreSettings holds per-store billing and receipt configuration.
type StoreSettings struct {
	Currency          string          `json:"currency,omitempty"`
	Timezone          string          `json:"timezone,omitempty"`
	VATRate           decimal.Decimal `json:"vat_rate"`            // percentage, e.g. 7 for 7%
	ServiceChargeRate decimal.Decimal `json:"service_charge_rate"` // percentage, e.g. 10 for 10%
	ReceiptHeader     string          `json:"receipt_header,omitempty"`
	ReceiptFooter     string          `json:"receipt_footer,omitempty"`
}

// Scan implements the sql.Scanner interface for StoreSettings
func (ss *StoreSettings) Scan(value interface{}) error {
	if value == nil {
		*ss = StoreSettings{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan StoreSettings: unsupported type")
	}

	return json.Unmarshal(bytes, ss)
}

// Value implements the driver.Valuer interface for StoreSettings
func (ss StoreSettings) Value() (driver.Value, error) {
	return json.Marshal(ss)
}

// DefaultStoreSettings returns default settings for new stores
func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		Currency:          "THB",
		Timezone:          "Asia/Bangkok",
		VATRate:           decimal.NewFromInt(7),
		ServiceChargeRate: decimal.NewFromInt(10),
		ReceiptFooter:     "Thank you, please come again",
	}
}
