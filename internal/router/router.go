// Package router assembles the HTTP surface: middleware, services and handlers.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "networth/internal/docs" // Import swagger docs
	apperrors "networth/internal/errors"
	"networth/internal/handlers"
	"networth/internal/metrics"
	"networth/internal/middleware"
	"networth/internal/quote"
	"networth/internal/services"
)

// Options configures the router.
type Options struct {
	DB            *gorm.DB
	Verifier      *middleware.Verifier
	Prices        quote.PriceSource
	CORSOrigin    string
	MetricsAPIKey string
}

// New builds the Gin engine with every route registered.
func New(opts Options) *gin.Engine {
	db := opts.DB

	// Services
	accountService := services.NewAccountService(db)
	ledgerService := services.NewLedgerService(db)
	categoryService := services.NewCategoryService(db)
	holdingService := services.NewHoldingService(db, opts.Prices)
	subuserService := services.NewSubuserService(db)
	projectionService := services.NewProjectionService(db)
	netWorthService := services.NewNetWorthService(db)
	quoteService := services.NewQuoteService(opts.Prices)
	auditService := services.NewAuditService(db)

	// Handlers
	accountHandler := handlers.NewAccountHandler(accountService, auditService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	holdingHandler := handlers.NewHoldingHandler(holdingService, auditService)
	subuserHandler := handlers.NewSubuserHandler(subuserService, auditService)
	projectionHandler := handlers.NewProjectionHandler(projectionService, auditService)
	netWorthHandler := handlers.NewNetWorthHandler(netWorthService)
	quoteHandler := handlers.NewQuoteHandler(quoteService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(metrics.Middleware("/health", "/metrics"))
	router.Use(middleware.ErrorHandler())
	router.Use(cors(opts.CORSOrigin))

	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperrors.ErrNotFound)
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics", middleware.APIKeyMiddleware(opts.MetricsAPIKey), gin.WrapH(metrics.Handler()))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(opts.Verifier))

	accounts := v1.Group("/accounts")
	accounts.GET("", accountHandler.GetUserAccounts)
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("/:id", accountHandler.GetAccountByID)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)
	accounts.GET("/:id/history", accountHandler.GetAccountHistory)

	accounts.POST("/:id/contributions", ledgerHandler.AddContribution)
	accounts.DELETE("/:id/contributions/:contributionId", ledgerHandler.DeleteContribution)
	accounts.POST("/:id/withdraw", ledgerHandler.Withdraw)

	accounts.POST("/:id/categories", categoryHandler.AddCategory)
	accounts.PUT("/:id/categories/:categoryId", categoryHandler.UpdateCategory)
	accounts.DELETE("/:id/categories/:categoryId", categoryHandler.DeleteCategory)

	accounts.GET("/:id/holdings", holdingHandler.GetAccountHoldings)
	accounts.POST("/:id/holdings", holdingHandler.AddHolding)
	accounts.GET("/:id/holdings/:holdingId", holdingHandler.GetHolding)
	accounts.DELETE("/:id/holdings/:holdingId", holdingHandler.DeleteHolding)
	accounts.POST("/:id/holdings/:holdingId/lots", holdingHandler.AddLot)
	accounts.PUT("/:id/holdings/:holdingId/lots/:lotId", holdingHandler.UpdateLot)
	accounts.DELETE("/:id/holdings/:holdingId/lots/:lotId", holdingHandler.DeleteLot)

	subusers := v1.Group("/subusers")
	subusers.GET("", subuserHandler.GetUserSubusers)
	subusers.POST("", subuserHandler.CreateSubuser)
	subusers.GET("/:id", subuserHandler.GetSubuserByID)
	subusers.DELETE("/:id", subuserHandler.DeleteSubuser)

	projections := v1.Group("/projections")
	projections.GET("", projectionHandler.GetUserProjections)
	projections.POST("", projectionHandler.CreateProjection)
	projections.GET("/:id", projectionHandler.GetProjection)
	projections.PUT("/:id", projectionHandler.UpdateProjection)
	projections.DELETE("/:id", projectionHandler.DeleteProjection)

	v1.GET("/networth", netWorthHandler.GetNetWorth)
	v1.GET("/quotes/:symbol", quoteHandler.GetQuote)

	return router
}

// cors allows the configured front-end origin.
func cors(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
