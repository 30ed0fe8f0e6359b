package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tablewise/tablewise-api/internal/domain/repository"
	infraRepo "github.com/tablewise/tablewise-api/internal/infrastructure/repository"
	"github.com/tablewise/tablewise-api/internal/presentation/http/dto/response"
)

// ExtractStoreFromHost extracts the store slug from the subdomain,
// e.g. "riverside.tablewise.app" -> "riverside".
func ExtractStoreFromHost(host string) (string, error) {
	// Remove port if present
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}

	parts := strings.Split(host, ".")
	if len(parts) < 3 {
		return "", errors.New("invalid subdomain")
	}
	return parts[0], nil
}

// StoreMiddleware resolves the acting store from the subdomain and scopes the
// request context to it. Every repository query downstream filters on this
// store; when it is absent the scope fails safe and matches nothing.
func StoreMiddleware(storeRepo repository.StoreRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeSlug, err := ExtractStoreFromHost(c.Request.Host)
		if err != nil {
			// No subdomain, e.g. direct IP access during development.
			c.Set("store_id", uuid.Nil)
			c.Next()
			return
		}

		store, err := storeRepo.GetBySlug(c.Request.Context(), storeSlug)
		if err != nil || store == nil {
			response.NotFound(c, "Store not found")
			c.Abort()
			return
		}

		// A staff token minted for one store must not act on another.
		tokenStoreVal, exists := c.Get("staff_store_id")
		if exists {
			tokenStore, ok := tokenStoreVal.(uuid.UUID)
			if ok && tokenStore != uuid.Nil && tokenStore != store.ID {
				response.Forbidden(c, "Access denied to this store")
				c.Abort()
				return
			}
		}

		c.Set("store_id", store.ID)
		c.Set("store", store)

		ctx := infraRepo.WithStore(c.Request.Context(), store.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireStore ensures a valid store context exists
func RequireStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID, exists := c.Get("store_id")
		if !exists {
			response.BadRequest(c, "Store context required")
			c.Abort()
			return
		}

		id, ok := storeID.(uuid.UUID)
		if !ok || id == uuid.Nil {
			response.BadRequest(c, "Invalid store context")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetStoreID retrieves the store ID from gin context
func GetStoreID(c *gin.Context) uuid.UUID {
	storeID, exists := c.Get("store_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := storeID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
