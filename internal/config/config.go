package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	// ServiceRoleDSN is the elevated credential used by the privileged
	// lookup endpoints. It bypasses row-level policies and must never
	// reach request-scoped code or logs.
	ServiceRoleDSN string

	AppPort   string
	AppEnv    string
	JWTSecret string

	DeliveryFee           int64
	FreeDeliveryThreshold int64

	WhatsAppGatewayURL   string
	WhatsAppGatewayToken string

	StatsQueryTimeout   time.Duration
	StatsOverallTimeout time.Duration

	WebDir string

	// PublicBaseURL is used when composing absolute share-page links.
	PublicBaseURL string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:                os.Getenv("DB_HOST"),
		DBUser:                os.Getenv("DB_USER"),
		DBPassword:            os.Getenv("DB_PASSWORD"),
		DBName:                os.Getenv("DB_NAME"),
		DBPort:                os.Getenv("DB_PORT"),
		ServiceRoleDSN:        os.Getenv("SERVICE_ROLE_DSN"),
		AppPort:               os.Getenv("APP_PORT"),
		AppEnv:                os.Getenv("APP_ENV"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		DeliveryFee:           envInt64("DELIVERY_FEE", 10000),
		FreeDeliveryThreshold: envInt64("FREE_DELIVERY_THRESHOLD", 100000),
		WhatsAppGatewayURL:    os.Getenv("WA_GATEWAY_URL"),
		WhatsAppGatewayToken:  os.Getenv("WA_GATEWAY_TOKEN"),
		StatsQueryTimeout:     envDuration("STATS_QUERY_TIMEOUT", 5*time.Second),
		StatsOverallTimeout:   envDuration("STATS_OVERALL_TIMEOUT", 10*time.Second),
		WebDir:                os.Getenv("WEB_DIR"),
		PublicBaseURL:         os.Getenv("PUBLIC_BASE_URL"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	if cfg.AppPort == "" {
		cfg.AppPort = "8080"
	}
	if cfg.WebDir == "" {
		cfg.WebDir = "./web"
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://localhost:" + cfg.AppPort
	}

	return cfg
}

func envInt64(key string, fallback int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return d
}
