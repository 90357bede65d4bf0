package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Settlement modes.
const (
	SettlementTransactional = "transactional"
	SettlementCompensating  = "compensating"
)

// Config holds application configuration
type Config struct {
	Port string

	DBDriver       string // postgres, mysql or sqlite
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBLogLevel     string
	DBMaxOpenConns int

	JWTKey          string
	TokenTTLMinutes int

	SettlementMode string

	SendgridApiKey string
	EmailSender    string

	StripeSecretKey string
	StripeApiURL    string

	ReconcileSchedule string
	CorsOrigins       string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port: getEnv("PORT", "5000"),

		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", ""),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "sportify"),
		DBLogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),

		JWTKey:          getEnv("ACCESS_TOKEN_SECRET", "defaultSecret"),
		TokenTTLMinutes: getEnvInt("TOKEN_TTL_MINUTES", 60),

		SettlementMode: strings.ToLower(getEnv("SETTLEMENT_MODE", SettlementTransactional)),

		SendgridApiKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@sportify.local"),

		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		StripeApiURL:    getEnv("STRIPE_API_URL", "https://api.stripe.com"),

		ReconcileSchedule: getEnv("RECONCILE_SCHEDULE", "0 3 * * *"),
		CorsOrigins:       getEnv("CORS_ORIGINS", "*"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default ACCESS_TOKEN_SECRET. Update it in your environment.")
	}
	if AppConfig.SettlementMode != SettlementTransactional && AppConfig.SettlementMode != SettlementCompensating {
		log.Printf("Warning: unknown SETTLEMENT_MODE %q, falling back to %s", AppConfig.SettlementMode, SettlementTransactional)
		AppConfig.SettlementMode = SettlementTransactional
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
