package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	Port              string
	MongoURI          string
	DBName            string
	JWTSecret         string
	AccessTokenTTL    time.Duration
	FrontendURL       string
	StripeSecretKey   string
	PayPalClientID    string
	PayPalSecret      string
	PayPalLive        bool
	LowStockThreshold int
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		Port:              getEnvOrDefault("PORT", "5000"),
		MongoURI:          getEnvOrDefault("MONGO_URI", ""),
		DBName:            getEnvOrDefault("DB_NAME", "hagyustic"),
		JWTSecret:         getEnvOrDefault("JWT_SECRET_KEY", ""),
		AccessTokenTTL:    getDurationEnv("ACCESS_TOKEN_TTL", 7, 24*time.Hour),
		FrontendURL:       getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
		StripeSecretKey:   getEnvOrDefault("STRIPE_SECRET_KEY", ""),
		PayPalClientID:    getEnvOrDefault("PAYPAL_CLIENT_ID", ""),
		PayPalSecret:      getEnvOrDefault("PAYPAL_SECRET", ""),
		PayPalLive:        getBoolEnv("PAYPAL_LIVE", false),
		LowStockThreshold: getIntEnv("LOW_STOCK_THRESHOLD", 10),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
