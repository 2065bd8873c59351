package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"posguard/internal/catalog"
	"posguard/internal/config"
	"posguard/internal/handler"
	"posguard/internal/middleware"
	"posguard/internal/repository"
	"posguard/internal/seeder"
	"posguard/internal/service"
	"posguard/internal/session"
	"posguard/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Session/Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	cashierRepo := repository.NewCashierRepository(db)
	salespersonRepo := repository.NewSalespersonRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// ── Session state ────────────────────────────────────────────────────────
	catalogSvc := catalog.New(productRepo, rdb, cfg.CatalogCacheTTL())
	registry := session.New(seeder.New(catalogSvc))

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(cashierRepo, cfg)
	orderSvc := service.NewOrderService(
		registry, catalogSvc,
		salespersonRepo, customerRepo, orderRepo, cashierRepo,
		dispatcher, cfg,
	)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc, productRepo)
	directoryH := handler.NewDirectoryHandler(salespersonRepo, customerRepo)

	r.GET("/health", handler.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/v1")
	v1.POST("/auth/login", middleware.RateLimiter(20, time.Minute), authH.Login)

	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(cfg.JWTSecret))
	{
		protected.POST("/auth/switch", authH.Switch)
		protected.GET("/cashiers", authH.ListCashiers)

		protected.POST("/orders", ordersH.Create)
		protected.GET("/orders", ordersH.ListOpen)
		protected.GET("/orders/:id", ordersH.Get)
		protected.POST("/orders/:id/lines", ordersH.AddLine)
		protected.PATCH("/orders/:id/lines/:lineID", ordersH.UpdateLine)
		protected.DELETE("/orders/:id/lines/:lineID", ordersH.RemoveLine)
		protected.PUT("/orders/:id/customer", ordersH.SetCustomer)
		protected.PUT("/orders/:id/salesperson", ordersH.SelectSalesperson)
		protected.POST("/orders/:id/refund", ordersH.Refund)
		protected.POST("/orders/:id/finalize", ordersH.Finalize)
		protected.GET("/orders/:id/receipt-header", ordersH.ReceiptHeader)
		protected.GET("/numpad", ordersH.Numpad)

		protected.GET("/products", catalogH.ListProducts)
		protected.POST("/products", catalogH.CreateProduct)
		protected.PATCH("/products/:id/preselected", catalogH.SetPreselected)
		protected.GET("/price/:barcode", catalogH.PriceCheck)

		protected.GET("/salespersons", directoryH.ListSalespersons)
		protected.GET("/customers", directoryH.ListCustomers)
		protected.POST("/customers", directoryH.CreateCustomer)
	}

	return r
}
