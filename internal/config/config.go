// Package config loads runtime settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/erazemk/milaap/internal/model"
)

// Storage backends for uploads.
const (
	StorageDisk  = "disk"
	StorageMinIO = "minio"
)

// Config holds every runtime setting.
type Config struct {
	Addr         string
	DBPath       string
	LogFile      string
	LogLevel     slog.Level
	TemplatesDir string
	DefaultLang  string

	Storage   string
	UploadDir string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	// RabbitMQURL enables event publishing when set.
	RabbitMQURL      string
	RabbitMQExchange string
}

// Load reads .env files (when present) and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
		slog.Debug("no .env file found, using environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment alone.
func FromEnv() (*Config, error) {
	useSSL, err := strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))
	if err != nil {
		return nil, fmt.Errorf("parsing MINIO_USE_SSL: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("MILAAP_LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("parsing MILAAP_LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		Addr:             getEnv("MILAAP_ADDR", ":8080"),
		DBPath:           getEnv("MILAAP_DB", "milaap.db"),
		LogFile:          getEnv("MILAAP_LOG", ""),
		LogLevel:         level,
		TemplatesDir:     getEnv("MILAAP_TEMPLATES", ""),
		DefaultLang:      getEnv("MILAAP_DEFAULT_LANG", model.LangEnglish),
		Storage:          getEnv("MILAAP_STORAGE", StorageDisk),
		UploadDir:        getEnv("MILAAP_UPLOAD_DIR", "uploads"),
		MinIOEndpoint:    getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey:   getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:   getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:      getEnv("MINIO_BUCKET_NAME", "milaap-uploads"),
		MinIOUseSSL:      useSSL,
		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "milaap.events"),
	}
	return cfg, cfg.Validate()
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if !model.ValidLanguage(c.DefaultLang) {
		return fmt.Errorf("unsupported default language %q", c.DefaultLang)
	}
	switch c.Storage {
	case StorageDisk:
		if c.UploadDir == "" {
			return errors.New("upload directory is required for disk storage")
		}
	case StorageMinIO:
		if c.MinIOEndpoint == "" || c.MinIOBucket == "" {
			return errors.New("minio endpoint and bucket are required for minio storage")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
