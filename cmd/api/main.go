package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/pharmaline/pos-api/internal/application/service"
	"github.com/pharmaline/pos-api/internal/config"
	"github.com/pharmaline/pos-api/internal/infrastructure/cache"
	"github.com/pharmaline/pos-api/internal/infrastructure/database"
	"github.com/pharmaline/pos-api/internal/infrastructure/repository"
	"github.com/pharmaline/pos-api/internal/presentation/http/handler"
	"github.com/pharmaline/pos-api/internal/presentation/http/routes"
	"github.com/pharmaline/pos-api/pkg/logger"
	"github.com/pharmaline/pos-api/pkg/printer"
	"github.com/pharmaline/pos-api/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zapLogger, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		zapLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		zapLogger.Warn("failed to seed default data", zap.Error(err))
	}

	// Redis is optional: the till works without the product cache, just
	// slower on lookups.
	rdb, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		zapLogger.Warn("redis unavailable, product cache disabled", zap.Error(err))
		rdb = nil
	}
	productCache := cache.NewProductCache(rdb, cfg.Redis.CacheTTL, zapLogger)

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	saleReturnRepo := repository.NewSaleReturnRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	heldOrderRepo := repository.NewHeldOrderRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, storeRepo, customerRepo, jwtManager)
	productService := service.NewProductService(productRepo, categoryRepo, productCache)
	categoryService := service.NewCategoryService(categoryRepo)
	customerService := service.NewCustomerService(customerRepo)
	supplierService := service.NewSupplierService(supplierRepo)
	saleService := service.NewSaleService(saleRepo, productRepo, customerRepo, productCache)
	returnService := service.NewReturnService(saleReturnRepo, saleRepo, productRepo, productCache)
	purchaseService := service.NewPurchaseService(purchaseRepo, productRepo, supplierRepo, productCache)
	cartService := service.NewCartService(productRepo, customerRepo, productCache, cfg.POS.TaxRate, zapLogger)
	holdService := service.NewHoldService(cartService, heldOrderRepo, zapLogger)
	checkoutService := service.NewCheckoutService(cartService, saleService, cfg.POS.CheckoutTimeout, zapLogger)
	dashboardService := service.NewDashboardService(analyticsRepo, productRepo, cfg.POS.ExpiryAlertDays)
	storeService := service.NewStoreService(storeRepo)
	userService := service.NewUserService(userRepo)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		zapLogger.Warn("failed to initialize printer", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}
	receiptService := service.NewReceiptService(thermalPrinter, saleRepo, storeRepo, cfg.Printer.Type, zapLogger)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		POS:       handler.NewPOSHandler(cartService, holdService, checkoutService),
		Product:   handler.NewProductHandler(productService),
		Category:  handler.NewCategoryHandler(categoryService),
		Sale:      handler.NewSaleHandler(saleService),
		Return:    handler.NewReturnHandler(returnService),
		Purchase:  handler.NewPurchaseHandler(purchaseService),
		Customer:  handler.NewCustomerHandler(customerService),
		Supplier:  handler.NewSupplierHandler(supplierService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Settings:  handler.NewSettingsHandler(storeService),
		User:      handler.NewUserHandler(userService),
		Receipt:   handler.NewReceiptHandler(receiptService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Logger:          zapLogger,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	zapLogger.Info("starting server",
		zap.String("service", cfg.App.Name),
		zap.String("port", port),
		zap.String("env", cfg.App.Env),
	)

	if err := router.Run(":" + port); err != nil {
		zapLogger.Fatal("failed to start server", zap.Error(err))
	}
}
