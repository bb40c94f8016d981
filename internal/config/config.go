package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port       string
	Env        string
	CORSOrigin string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Identity provider
	AuthIssuer     string
	AuthAudience   string
	AuthJWKSURL    string
	AuthHMACSecret string

	// Market quotes
	QuoteAPIURL  string
	QuoteAPIKey  string
	QuoteTimeout time.Duration

	// Metrics
	MetricsAPIKey string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port:       getEnv("PORT", "8080"),
		Env:        getEnv("ENV", "development"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "networth"),
		DBPassword: getEnv("DB_PASSWORD", "networth"),
		DBName:     getEnv("DB_NAME", "networth"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Identity provider
		AuthIssuer:     getEnv("AUTH_ISSUER", ""),
		AuthAudience:   getEnv("AUTH_AUDIENCE", ""),
		AuthJWKSURL:    getEnv("AUTH_JWKS_URL", ""),
		AuthHMACSecret: getEnv("AUTH_HMAC_SECRET", ""),

		// Market quotes
		QuoteAPIURL: getEnv("QUOTE_API_URL", "https://api.twelvedata.com"),
		QuoteAPIKey: getEnv("QUOTE_API_KEY", ""),

		// Metrics
		MetricsAPIKey: getEnv("METRICS_API_KEY", ""),
	}

	timeoutStr := getEnv("QUOTE_TIMEOUT", "5s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		log.Printf("Warning: invalid QUOTE_TIMEOUT value '%s', falling back to 5s\n", timeoutStr)
		timeout = 5 * time.Second
	}
	config.QuoteTimeout = timeout

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
