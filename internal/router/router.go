package router

import (
	"time"

	"pdstock/internal/config"
	"pdstock/internal/handler"
	"pdstock/internal/infra"
	"pdstock/internal/middleware"
	"pdstock/internal/repository"
	"pdstock/internal/service"
	"pdstock/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, visionCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	visionClient := infra.NewVisionClient(cfg.VisionSidecarURL, visionCB)
	slipWriter := infra.NewSlipWriter(cfg.SlipStoragePath)

	// ── Repositories ─────────────────────────────────────────────────────────
	operatorRepo := repository.NewOperatorRepository(db)
	productRepo := repository.NewProductRepository(db)
	stockItemRepo := repository.NewStockItemRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	authSvc := service.NewAuthService(operatorRepo, cfg)
	productSvc := service.NewProductService(productRepo)
	stockSvc := service.NewStockService(stockItemRepo, historyRepo, productRepo, dispatcher)
	historySvc := service.NewHistoryService(historyRepo, slipWriter)
	scanSvc := service.NewScanService(visionClient, productSvc, stockSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	operatorsH := handler.NewOperatorsHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	stockH := handler.NewStockHandler(stockSvc)
	historyH := handler.NewHistoryHandler(historySvc)
	scanH := handler.NewScanHandler(scanSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, visionCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		operators := v1.Group("/operators")
		{
			operators.POST("", operatorsH.Create)
			operators.GET("", operatorsH.List)
		}

		products := v1.Group("/products")
		{
			products.POST("", productsH.Register)
			products.GET("", productsH.List)
			products.PUT("/:id", productsH.Update)
		}

		v1.POST("/scan/label", scanH.ScanLabel)

		stock := v1.Group("/stock")
		{
			stock.POST("/receive", stockH.Receive)
			stock.POST("/release", stockH.Release)
			stock.GET("/items", stockH.ListItems)
			stock.GET("/on-hand", stockH.OnHand)
		}

		history := v1.Group("/history")
		{
			history.GET("/receipts", historyH.Receipts)
			history.GET("/releases", historyH.Releases)
			history.GET("/releases/:id/slip", historyH.Slip)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
