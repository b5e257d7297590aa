package config

import (
	"log"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"order-intake"`
	ServerPort  int    `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL string `env:"DATABASE_URL"`

	StorageURL        string `env:"STORAGE_URL"`
	StorageServiceKey string `env:"STORAGE_SERVICE_KEY"`
	ReceiptBucket     string `env:"RECEIPT_BUCKET" envDefault:"receipts"`

	AdminSecret       string `env:"ADMIN_SECRET"`
	AdminUsername     string `env:"ADMIN_USERNAME"`
	AdminPassword     string `env:"ADMIN_PASSWORD"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`

	// Matches the upload cap the storefront enforces client-side.
	MaxUploadSize string `env:"MAX_UPLOAD_SIZE" envDefault:"4M"`
}

// Load parses the environment and fails fast on anything the handlers cannot
// run without. Surfacing missing configuration at boot keeps it distinct from
// runtime upstream failures.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("config parse: %v", err)
	}

	MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	MustNonEmpty(cfg.StorageURL, "STORAGE_URL")
	MustNonEmpty(cfg.StorageServiceKey, "STORAGE_SERVICE_KEY")
	MustNonEmpty(cfg.AdminSecret, "ADMIN_SECRET")
	MustNonEmpty(cfg.AdminUsername, "ADMIN_USERNAME")
	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		log.Fatalf("missing required env ADMIN_PASSWORD or ADMIN_PASSWORD_HASH")
	}

	return cfg
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}
