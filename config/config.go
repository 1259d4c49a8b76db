package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yourusername/biztrack/models"
)

type Config struct {
	Port             string
	DatabaseURL      string
	JWTSecret        string
	JWTRefreshSecret string
	DefaultCurrency  string
	LogLevel         string

	// AllowReconversion controls whether a quotation that was already
	// converted may be converted again, producing another invoice. When
	// false the second conversion is rejected with a conflict.
	AllowReconversion bool
}

func LoadConfig() (*Config, error) {
	godotenv.Load()

	return &Config{
		Port:              os.Getenv("PORT"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecret:         getEnvOrDefault("JWT_SECRET", "dev-secret"),
		JWTRefreshSecret:  getEnvOrDefault("JWT_REFRESH_SECRET", "dev-refresh-secret"),
		DefaultCurrency:   getEnvOrDefault("DEFAULT_CURRENCY", "NGN"),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
		AllowReconversion: getEnvOrDefault("ALLOW_RECONVERSION", "true") == "true",
	}, nil
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// Migrate runs the schema migration for every entity. Shared with the tests,
// which run it against an in-memory sqlite database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Product{},
		&models.Service{},
		&models.Quotation{},
		&models.Invoice{},
		&models.DeliveryNote{},
		&models.LineItem{},
		&models.Payment{},
		&models.DocumentSequence{},
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
