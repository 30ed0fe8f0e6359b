package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tablewise/tablewise-api/internal/config"
	"github.com/tablewise/tablewise-api/internal/domain/enum"
	domainRepo "github.com/tablewise/tablewise-api/internal/domain/repository"
	"github.com/tablewise/tablewise-api/internal/presentation/http/handler"
	"github.com/tablewise/tablewise-api/internal/presentation/http/middleware"
	"github.com/tablewise/tablewise-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
	Payment *handler.PaymentHandler
	Split   *handler.SplitHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
	StoreRepo  domainRepo.StoreRepository
	Logger     *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes: all endpoints require an authenticated staff token and
	// a resolved store context.
	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.StoreMiddleware(deps.StoreRepo))
		protected.Use(middleware.RequireStore())

		// Per-store rate limiter
		rateLimiter := middleware.NewStoreRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerCartRoutes(protected, h)
		registerOrderRoutes(protected, h)
	}

	return router
}

func registerCartRoutes(protected *gin.RouterGroup, h *Handlers) {
	carts := protected.Group("/carts")
	{
		carts.POST("", h.Cart.Open)
		carts.GET("/:id", h.Cart.Get)
		carts.POST("/:id/items", h.Cart.AddItem)
		carts.DELETE("/:id/items/:itemId", h.Cart.RemoveItem)
		carts.POST("/:id/checkout", h.Order.Checkout)
	}
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers) {
	orders := protected.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.GET("/:id", h.Order.Get)
		orders.POST("/:id/items", h.Order.AddItems)

		// Discount tiers are enforced in the domain policy; the route only
		// requires an authenticated cashier or above.
		orders.POST("/:id/discount", middleware.RequireRole(enum.RoleCashier), h.Order.ApplyDiscount)
		orders.DELETE("/:id/discount", middleware.RequireRole(enum.RoleCashier), h.Order.RemoveDiscount)

		orders.POST("/:id/status", h.Order.UpdateStatus)

		orders.POST("/:id/payments", middleware.RequireRole(enum.RoleCashier), h.Payment.RecordPayment)
		orders.POST("/:id/refunds", middleware.RequireRole(enum.RoleAdmin), h.Payment.RecordRefund)

		orders.POST("/:id/split", h.Split.Create)
		orders.GET("/:id/split", h.Split.Get)
		orders.POST("/:id/split/validate", h.Split.Validate)
		orders.POST("/:id/split/shares/:shareId/pay", middleware.RequireRole(enum.RoleCashier), h.Split.PayShare)
	}
}
