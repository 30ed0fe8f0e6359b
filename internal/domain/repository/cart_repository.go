package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tablewise/tablewise-api/internal/domain/entity"
)

// CartRepository defines the interface for cart data operations
type CartRepository interface {
	Create(ctx context.Context, cart *entity.Cart) error
	// GetByID loads a cart with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Cart, error)
	GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*entity.Cart, error)
	AddItem(ctx context.Context, item *entity.CartItem) error
	UpdateItem(ctx context.Context, item *entity.CartItem) error
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error
}

// MenuItemRepository defines read access to menu items for cart pricing.
// Menu CRUD itself belongs to the management dashboard, not this core.
type MenuItemRepository interface {
	// GetByID loads a menu item with its options.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.MenuItem, error)
}

// StoreRepository defines the interface for store lookups
type StoreRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Store, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Store, error)
}
