package main

import (
	"fmt"
	"net/http"
	"os"

	"networth/internal/config"
	"networth/internal/database"
	"networth/internal/logger"
	"networth/internal/middleware"
	"networth/internal/quote"
	"networth/internal/router"
	"networth/internal/validator"

	"github.com/gin-gonic/gin"
)

// @title           Networth API
// @version         1.0
// @description     Networth tracks account balances, contribution ledgers, investment holdings and savings projections.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	verifier := middleware.NewVerifier(middleware.VerifierConfig{
		Issuer:     appConfig.AuthIssuer,
		Audience:   appConfig.AuthAudience,
		JWKSURL:    appConfig.AuthJWKSURL,
		HMACSecret: appConfig.AuthHMACSecret,
	})
	prices := quote.NewClient(&http.Client{Timeout: appConfig.QuoteTimeout}, appConfig.QuoteAPIURL, appConfig.QuoteAPIKey)

	engine := router.New(router.Options{
		DB:            dbManager.DB(),
		Verifier:      verifier,
		Prices:        prices,
		CORSOrigin:    appConfig.CORSOrigin,
		MetricsAPIKey: appConfig.MetricsAPIKey,
	})

	log.Infof("Starting Networth server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return engine.Run(":" + appConfig.Port)
}
