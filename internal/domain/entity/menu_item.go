package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MenuItem represents a sellable dish. Menu CRUD lives in the management
// dashboard; the order core only reads items to price cart lines.
type MenuItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	StoreID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"store_id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	BasePrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"base_price"`
	Available bool            `gorm:"default:true" json:"available"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Options []MenuItemOption `gorm:"foreignKey:MenuItemID" json:"options,omitempty"`
}

// BeforeCreate generates a UUID before creating a new menu item
func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the MenuItem model
func (MenuItem) TableName() string {
	return "menu_items"
}

// FindOption returns the option with the given id, or nil.
func (m *MenuItem) FindOption(optionID uuid.UUID) *MenuItemOption {
	for i := range m.Options {
		if m.Options[i].ID == optionID {
			return &m.Options[i]
		}
	}
	return nil
}

// MenuItemOption represents a customization with a price surcharge, e.g.
// "extra cheese +0.50".
type MenuItemOption struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	MenuItemID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"menu_item_id"`
	Name            string          `gorm:"size:255;not null" json:"name"`
	AdditionalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"additional_price"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new menu item option
func (o *MenuItemOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the MenuItemOption model
func (MenuItemOption) TableName() string {
	return "menu_item_options"
}
