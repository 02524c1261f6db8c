package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pharmaline/pos-api/internal/config"
	domainRepo "github.com/pharmaline/pos-api/internal/domain/repository"
	"github.com/pharmaline/pos-api/internal/presentation/http/handler"
	"github.com/pharmaline/pos-api/internal/presentation/http/middleware"
	"github.com/pharmaline/pos-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	POS       *handler.POSHandler
	Product   *handler.ProductHandler
	Category  *handler.CategoryHandler
	Sale      *handler.SaleHandler
	Return    *handler.ReturnHandler
	Purchase  *handler.PurchaseHandler
	Customer  *handler.CustomerHandler
	Supplier  *handler.SupplierHandler
	Dashboard *handler.DashboardHandler
	Settings  *handler.SettingsHandler
	User      *handler.UserHandler
	Receipt   *handler.ReceiptHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Logger          *zap.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-store rate limiter
		rateLimiter := middleware.NewStoreRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Settings
	protected.GET("/settings", h.Settings.GetSettings)
	protected.PUT("/settings", middleware.RequireAdmin(), h.Settings.UpdateSettings)

	// Dashboard
	protected.GET("/dashboard", h.Dashboard.GetStats)

	// Till (cart, hold/recall, checkout)
	registerPOSRoutes(protected, h, deps)

	// Products
	registerProductRoutes(protected, h)

	// Categories
	registerCategoryRoutes(protected, h)

	// Sales and returns
	registerSaleRoutes(protected, h)

	// Purchases
	registerPurchaseRoutes(protected, h)

	// Customers
	registerCustomerRoutes(protected, h)

	// Suppliers
	registerSupplierRoutes(protected, h)

	// Staff (Admin)
	registerUserRoutes(protected, h)

	// Receipt printing
	registerReceiptRoutes(protected, h)
}

func registerPOSRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	pos := protected.Group("/pos")
	{
		pos.GET("/cart", h.POS.GetCart)
		pos.DELETE("/cart", h.POS.ClearCart)
		pos.POST("/cart/items", h.POS.AddItem)
		pos.PUT("/cart/items", h.POS.UpdateItem)
		pos.DELETE("/cart/items", h.POS.RemoveItem)
		pos.DELETE("/cart/products/:product_id", h.POS.RemoveProduct)
		pos.POST("/cart/line-discount", h.POS.SetLineDiscount)
		pos.POST("/cart/discount", h.POS.SetGlobalDiscount)
		pos.PUT("/cart/customer", h.POS.SetCustomer)
		pos.PUT("/cart/payment-method", h.POS.SetPaymentMethod)

		pos.POST("/hold", h.POS.HoldCart)
		pos.GET("/held", h.POS.ListHeldOrders)
		pos.POST("/held/:ref/recall", h.POS.RecallCart)
		pos.DELETE("/held/:ref", h.POS.DeleteHeldOrder)

		// Checkout uses idempotency middleware to prevent duplicate sales
		pos.POST("/checkout", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.POS.Checkout)
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/expiring", h.Product.GetExpiring)
		products.GET("/:id", h.Product.Get)

		products.POST("", middleware.RequireAdmin(), h.Product.Create)
		products.PUT("/:id", middleware.RequireAdmin(), h.Product.Update)
		products.DELETE("/:id", middleware.RequireAdmin(), h.Product.Delete)
		products.POST("/:id/batches", middleware.RequireAdmin(), h.Product.AddBatch)
	}
}

func registerCategoryRoutes(protected *gin.RouterGroup, h *Handlers) {
	categories := protected.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.POST("", middleware.RequireAdmin(), h.Category.Create)
		categories.PUT("/:id", middleware.RequireAdmin(), h.Category.Update)
		categories.DELETE("/:id", middleware.RequireAdmin(), h.Category.Delete)
	}
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers) {
	sales := protected.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.GET("/due", h.Sale.GetDue)
		sales.GET("/:id", h.Sale.Get)
		sales.GET("/:id/returns", h.Return.ListForSale)
		sales.POST("/:id/cancel", middleware.RequireAdmin(), h.Sale.Cancel)
		sales.POST("/:id/pay", h.Sale.PayDue)
	}

	returns := protected.Group("/returns")
	{
		returns.GET("", h.Return.List)
		returns.POST("", h.Return.Create)
		returns.GET("/:id", h.Return.Get)
	}
}

func registerPurchaseRoutes(protected *gin.RouterGroup, h *Handlers) {
	purchases := protected.Group("/purchases")
	purchases.Use(middleware.RequireAdmin())
	{
		purchases.GET("", h.Purchase.List)
		purchases.POST("", h.Purchase.Create)
		purchases.GET("/:id", h.Purchase.Get)
		purchases.POST("/:id/receive", h.Purchase.Receive)
		purchases.DELETE("/:id", h.Purchase.Delete)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/walk-in", h.Customer.GetWalkIn)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", middleware.RequireAdmin(), h.Customer.Delete)
	}
}

func registerSupplierRoutes(protected *gin.RouterGroup, h *Handlers) {
	suppliers := protected.Group("/suppliers")
	suppliers.Use(middleware.RequireAdmin())
	{
		suppliers.GET("", h.Supplier.List)
		suppliers.POST("", h.Supplier.Create)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.DELETE("/:id", h.Supplier.Delete)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequireAdmin())
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
		users.DELETE("/:id", h.User.Delete)
	}
}

func registerReceiptRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/status", h.Receipt.GetStatus)
		printerGroup.POST("/test", h.Receipt.TestPrint)
		printerGroup.POST("/receipt/:id", h.Receipt.PrintSale)
	}
}
