package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ctxKey string

const (
	// StoreIDKey is the context key for the acting store ID
	StoreIDKey ctxKey = "store_id"
)

// StoreScope returns a GORM scope that filters by store. It is applied to
// every query over store-scoped entities. A missing store context fails
// safe by matching nothing, so cross-store data can never leak through a
// forgotten middleware.
func StoreScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		storeID, ok := ctx.Value(StoreIDKey).(uuid.UUID)
		if !ok || storeID == uuid.Nil {
			return db.Where("1 = 0")
		}
		return db.Where("store_id = ?", storeID)
	}
}

// WithStore adds the store ID to the context
func WithStore(ctx context.Context, storeID uuid.UUID) context.Context {
	return context.WithValue(ctx, StoreIDKey, storeID)
}

// GetStoreID extracts the store ID from the context
func GetStoreID(ctx context.Context) (uuid.UUID, bool) {
	storeID, ok := ctx.Value(StoreIDKey).(uuid.UUID)
	return storeID, ok
}
