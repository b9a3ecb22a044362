package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/Skalersaas/warehouse/internal/domain/balance"
	"github.com/Skalersaas/warehouse/internal/domain/catalogs/client"
	"github.com/Skalersaas/warehouse/internal/domain/catalogs/resource"
	"github.com/Skalersaas/warehouse/internal/domain/catalogs/unit"
	"github.com/Skalersaas/warehouse/internal/domain/documents/receipt"
	"github.com/Skalersaas/warehouse/internal/domain/documents/shipment"
	"github.com/Skalersaas/warehouse/internal/domain/execution"
	"github.com/Skalersaas/warehouse/internal/domain/reconcile"
	"github.com/Skalersaas/warehouse/internal/infrastructure/http/v1/handlers"
	"github.com/Skalersaas/warehouse/internal/infrastructure/http/v1/middleware"
	"github.com/Skalersaas/warehouse/internal/infrastructure/storage/postgres"
	"github.com/Skalersaas/warehouse/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/Skalersaas/warehouse/internal/infrastructure/storage/postgres/document_repo"
	"github.com/Skalersaas/warehouse/pkg/logger"
	"github.com/Skalersaas/warehouse/pkg/numerator"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (health checks, numerator)
	Pool *postgres.Pool

	// TxManager coordinates transactions for all repositories
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// Audit records entity changes; optional
	Audit *postgres.AuditService
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()
	num := numerator.New(cfg.Pool)

	// Shared repositories and services.
	resourceRepo := catalog_repo.NewResourceRepo(cfg.TxManager)
	unitRepo := catalog_repo.NewUnitRepo(cfg.TxManager)
	clientRepo := catalog_repo.NewClientRepo(cfg.TxManager)

	resourceService := resource.NewService(resourceRepo, cfg.TxManager, num)
	unitService := unit.NewService(unitRepo, cfg.TxManager, num)
	clientService := client.NewService(clientRepo, cfg.TxManager, num)

	balanceRepo := postgres.NewBalanceRepo(cfg.TxManager)
	balanceService := balance.NewService(balanceRepo, cfg.TxManager)

	receiptRepo := document_repo.NewReceiptRepo(cfg.TxManager)
	receiptService := receipt.NewService(receiptRepo, balanceService, resourceService, unitService, num, cfg.TxManager)

	shipmentRepo := document_repo.NewShipmentRepo(cfg.TxManager)
	shipmentService := shipment.NewService(shipmentRepo, balanceService, clientService, resourceService, unitService, num, cfg.TxManager)

	if cfg.Audit != nil {
		receiptService.WithAudit(cfg.Audit)
		shipmentService.WithAudit(cfg.Audit)
	}

	executionRepo := postgres.NewExecutionRepo(cfg.TxManager)
	executionService := execution.NewService(executionRepo)

	reconcileService := reconcile.NewService(receiptRepo, shipmentRepo, balanceService, executionService)
	reconcileWorker := reconcile.NewWorker(reconcileService)

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		catalogs := apiV1.Group("/catalogs")
		RegisterCatalogRoutes(catalogs.Group("/resources"), handlers.NewResourceHandler(baseHandler, resourceService))
		RegisterCatalogRoutes(catalogs.Group("/units"), handlers.NewUnitHandler(baseHandler, unitService))
		RegisterCatalogRoutes(catalogs.Group("/clients"), handlers.NewClientHandler(baseHandler, clientService))

		docs := apiV1.Group("/documents")
		{
			receiptHandler := handlers.NewReceiptHandler(baseHandler, receiptService)
			receipts := docs.Group("/receipts")
			receipts.GET("", receiptHandler.List)
			receipts.POST("", receiptHandler.Create)
			receipts.GET("/:id", receiptHandler.Get)
			receipts.PUT("/:id", receiptHandler.Update)
			receipts.DELETE("/:id", receiptHandler.Delete)

			shipmentHandler := handlers.NewShipmentHandler(baseHandler, shipmentService)
			shipments := docs.Group("/shipments")
			shipments.GET("", shipmentHandler.List)
			shipments.POST("", shipmentHandler.Create)
			shipments.GET("/:id", shipmentHandler.Get)
			shipments.PUT("/:id", shipmentHandler.Update)
			shipments.DELETE("/:id", shipmentHandler.Delete)
			shipments.POST("/:id/sign", shipmentHandler.Sign)
			shipments.POST("/:id/revoke", shipmentHandler.Revoke)
		}

		balanceHandler := handlers.NewBalanceHandler(baseHandler, balanceService)
		balances := apiV1.Group("/balances")
		{
			balances.GET("", balanceHandler.List)
			balances.GET("/:resourceId/:unitId", balanceHandler.GetPair)
		}

		executionHandler := handlers.NewExecutionHandler(baseHandler, executionService, reconcileWorker)
		executions := apiV1.Group("/executions")
		{
			executions.GET("", executionHandler.List)
			executions.GET("/:date", executionHandler.Get)
			executions.DELETE("/:date", executionHandler.Reset)
			executions.POST("/:date/run", executionHandler.Run)
		}
	}

	return router
}
