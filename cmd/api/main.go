package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/tablewise/tablewise-api/internal/application/service"
	"github.com/tablewise/tablewise-api/internal/config"
	"github.com/tablewise/tablewise-api/internal/infrastructure/database"
	"github.com/tablewise/tablewise-api/internal/infrastructure/notify"
	"github.com/tablewise/tablewise-api/internal/infrastructure/repository"
	"github.com/tablewise/tablewise-api/internal/presentation/http/handler"
	"github.com/tablewise/tablewise-api/internal/presentation/http/routes"
	"github.com/tablewise/tablewise-api/pkg/printer"
	"github.com/tablewise/tablewise-api/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Structured logger
	var logger *zap.Logger
	var err error
	if cfg.App.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	cartRepo := repository.NewCartRepository(db)
	menuItemRepo := repository.NewMenuItemRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Notification sink for kitchen displays and customer apps
	notifier := notify.NewLogNotifier(logger)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		logger.Warn("Failed to initialize printer", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}

	// Initialize services
	receiptService := service.NewReceiptService(thermalPrinter, storeRepo, logger)
	cartService := service.NewCartService(cartRepo, menuItemRepo, notifier)
	orderService := service.NewOrderService(orderRepo, cartRepo, menuItemRepo, storeRepo, notifier, cfg.Billing)
	paymentService := service.NewPaymentService(orderRepo, paymentRepo, notifier, receiptService)
	splitService := service.NewSplitService(orderRepo, paymentService)

	// Initialize handlers
	handlers := &routes.Handlers{
		Cart:    handler.NewCartHandler(cartService),
		Order:   handler.NewOrderHandler(orderService),
		Payment: handler.NewPaymentHandler(paymentService),
		Split:   handler.NewSplitHandler(splitService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
		StoreRepo:  storeRepo,
		Logger:     logger,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	logger.Info("Starting server",
		zap.String("service", cfg.App.Name),
		zap.String("port", port),
		zap.String("env", cfg.App.Env),
	)

	if err := router.Run(":" + port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
