package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	stagingBaseURL    = "https://api.stg.print.com"
	productionBaseURL = "https://api.print.com"
)

type Config struct {
	// Database
	DatabaseURL string

	// Kafka
	KafkaBrokers string

	// API Configuration
	APIPort string
	APIHost string

	// PublicBaseURL is the externally reachable URL of this service,
	// used to build the webhook URL handed to Print.com.
	PublicBaseURL string

	// Print.com
	PrintEnv        string
	PrintAPIKey     string
	PrintAPIBaseURL string

	// Purchase behavior: when true, orders use the copy count baked into
	// the preset instead of the ordered quantity.
	UsePresetCopies bool

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		DatabaseURL:     getEnv("DATABASE_URL", "sqlite://pdc-pod.db"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", "localhost:9092"),
		APIPort:         getEnv("API_PORT", "8080"),
		APIHost:         getEnv("API_HOST", "0.0.0.0"),
		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		PrintEnv:        getEnv("PRINT_ENV", "stg"),
		PrintAPIKey:     getEnv("PRINT_API_KEY", ""),
		PrintAPIBaseURL: getEnv("PRINT_API_BASE_URL", ""),
		UsePresetCopies: getEnv("USE_PRESET_COPIES", "false") == "true",
		Env:             getEnv("ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}, nil
}

// PrintBaseURL resolves the Print.com API base URL. An explicit override
// wins over the environment selection; anything other than "prod" is
// treated as staging.
func (c *Config) PrintBaseURL() string {
	if c.PrintAPIBaseURL != "" {
		return c.PrintAPIBaseURL
	}
	if c.PrintEnv == "prod" {
		return productionBaseURL
	}
	return stagingBaseURL
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
