// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"doceria/internal/domain/catalogs/customer"
	"doceria/internal/domain/catalogs/material"
	"doceria/internal/domain/catalogs/product"
	"doceria/internal/domain/production"
	"doceria/internal/domain/recipe"
	"doceria/internal/domain/shopping"
	"doceria/internal/domain/stock"
	"doceria/internal/infrastructure/http/v1/handlers"
	"doceria/internal/infrastructure/http/v1/middleware"
	"doceria/internal/infrastructure/storage/postgres"
	"doceria/internal/infrastructure/storage/postgres/catalog_repo"
	"doceria/internal/infrastructure/storage/postgres/production_repo"
	"doceria/internal/infrastructure/storage/postgres/recipe_repo"
	"doceria/internal/infrastructure/storage/postgres/shopping_repo"
	"doceria/internal/infrastructure/storage/postgres/stock_repo"
	"doceria/pkg/logger"
	"doceria/pkg/numerator"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (health checks).
	Pool *postgres.Pool

	// TxManager provides transactional execution for services.
	TxManager *postgres.TxManager

	// Logger for request logging.
	Logger *logger.Logger

	// OrderNumerator generates production order numbers.
	OrderNumerator numerator.Generator

	// ListNumerator generates shopping list numbers.
	ListNumerator numerator.Generator

	// Development enables Gin debug mode.
	Development bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware (order matters)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
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

	base := handlers.NewBaseHandler()

	// Repositories
	materialRepo := catalog_repo.NewMaterialRepo(cfg.TxManager)
	customerRepo := catalog_repo.NewCustomerRepo(cfg.TxManager)
	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	recipeRepo := recipe_repo.NewRecipeRepo(cfg.TxManager)
	stockRepo := stock_repo.NewStockRepo(cfg.TxManager)
	orderRepo := production_repo.NewOrderRepo(cfg.TxManager)
	shoppingRepo := shopping_repo.NewShoppingRepo(cfg.TxManager)

	// Services
	stockService := stock.NewService(stockRepo, cfg.TxManager)
	recipeService := recipe.NewService(recipeRepo)
	materialService := material.NewService(materialRepo, recipeService, stockService)
	customerService := customer.NewService(customerRepo)
	productService := product.NewService(productRepo)
	shoppingService := shopping.NewService(shoppingRepo, cfg.ListNumerator)
	productionService := production.NewService(
		orderRepo,
		production.NewRecipeSource(productService, recipeService),
		stockService,
		cfg.TxManager,
		cfg.OrderNumerator,
	)

	// API v1
	api := router.Group("/api/v1")
	{
		registerCatalogRoutes(api, base, materialService, customerService, productService, recipeService)
		registerStockRoutes(api, base, stockService)
		registerProductionRoutes(api, base, productionService)
		registerShoppingRoutes(api, base, shoppingService)
	}

	return router
}

func registerCatalogRoutes(
	rg *gin.RouterGroup,
	base *handlers.BaseHandler,
	materials *material.Service,
	customers *customer.Service,
	products *product.Service,
	recipes *recipe.Service,
) {
	catalogs := rg.Group("/catalog")

	{
		h := handlers.NewMaterialHandler(base, materials)
		g := catalogs.Group("/materials")
		g.POST("", h.Create)
		g.GET("", h.List)
		g.GET("/critical", h.Critical)
		g.GET("/:id", h.GetByID)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
		g.GET("/:id/usage", h.CheckUsage)
	}

	{
		h := handlers.NewCustomerHandler(base, customers)
		g := catalogs.Group("/customers")
		g.POST("", h.Create)
		g.GET("", h.List)
		g.GET("/:id", h.GetByID)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
	}

	{
		h := handlers.NewProductHandler(base, products)
		g := catalogs.Group("/products")
		g.POST("", h.Create)
		g.GET("", h.List)
		g.GET("/:id", h.GetByID)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
		g.POST("/:id/recipes", h.LinkRecipe)
		g.DELETE("/:id/recipes/:recipeId", h.UnlinkRecipe)
	}

	{
		h := handlers.NewRecipeHandler(base, recipes)
		g := catalogs.Group("/recipes")
		g.POST("", h.Create)
		g.GET("", h.List)
		g.GET("/:id", h.GetByID)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
		g.GET("/:id/cost", h.Cost)
		g.POST("/:id/ingredients", h.AddIngredient)
		g.PUT("/:id/ingredients/:ingredientId", h.UpdateIngredient)
		g.DELETE("/:id/ingredients/:ingredientId", h.RemoveIngredient)
	}
}

func registerStockRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, stocks *stock.Service) {
	h := handlers.NewStockHandler(base, stocks)
	g := rg.Group("/stock")

	g.POST("/batches", h.CreateBatch)
	g.GET("/batches", h.ListBatches)
	g.GET("/batches/:id", h.GetBatch)
	g.PUT("/batches/:id", h.UpdateBatch)
	g.DELETE("/batches/:id", h.DeleteBatch)

	g.POST("/writeoffs", h.CreateWriteoff)
	g.GET("/writeoffs", h.ListWriteoffs)
	g.DELETE("/writeoffs/:id", h.DeleteWriteoff)

	g.GET("/levels", h.Levels)
	g.GET("/levels/:materialId", h.Level)
}

func registerProductionRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, orders *production.Service) {
	h := handlers.NewProductionHandler(base, orders)
	g := rg.Group("/production")

	g.POST("/orders", h.Create)
	g.GET("/orders", h.List)
	g.GET("/orders/:id", h.GetByID)
	g.PUT("/orders/:id", h.Update)
	g.DELETE("/orders/:id", h.Delete)
	g.POST("/orders/:id/start", h.Start)
	g.POST("/orders/:id/complete", h.Complete)
	g.POST("/validate-stock", h.ValidateStock)
}

func registerShoppingRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, lists *shopping.Service) {
	h := handlers.NewShoppingHandler(base, lists)
	g := rg.Group("/shopping")

	g.POST("/lists", h.Create)
	g.GET("/lists", h.List)
	g.GET("/lists/:id", h.GetByID)
	g.PUT("/lists/:id", h.Update)
	g.DELETE("/lists/:id", h.Delete)
	g.POST("/lists/:id/items", h.AddItem)
	g.PUT("/lists/:id/items/:itemId", h.UpdateItem)
	g.DELETE("/lists/:id/items/:itemId", h.RemoveItem)
	g.POST("/lists/:id/items/:itemId/toggle", h.TogglePurchased)
}
