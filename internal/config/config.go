// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. A .env file in the working directory is loaded first if present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload" // load .env before reading the environment
)

// Storage drivers for uploaded images.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// DefaultMaxImageBytes is the upload cap for category and content images (2 MB).
const DefaultMaxImageBytes = 2 << 20

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string `validate:"required"`
	Port string `validate:"required,numeric"`
	Env  string `validate:"oneof=development production testing"`

	// PostgreSQL connection
	DBHost     string `validate:"required"`
	DBPort     string `validate:"required,numeric"`
	DBUser     string `validate:"required"`
	DBPassword string
	DBName     string `validate:"required"`

	// Image storage
	StorageDriver    string `validate:"oneof=local s3"`
	StorageLocalRoot string `validate:"required_if=StorageDriver local"`
	MaxImageBytes    int64  `validate:"gt=0"`

	// S3-compatible object storage, used when StorageDriver is "s3".
	S3Endpoint  string `validate:"required_if=StorageDriver s3"`
	S3Region    string
	S3AccessKey string `validate:"required_if=StorageDriver s3"`
	S3SecretKey string `validate:"required_if=StorageDriver s3"`
	S3Bucket    string `validate:"required_if=StorageDriver s3"`

	// Browser origins allowed to call the API.
	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if the resulting
// configuration is incomplete or insecure for production.
func Load() (*Config, error) {
	maxImage, err := strconv.ParseInt(envOrDefault("MAX_IMAGE_BYTES", strconv.Itoa(DefaultMaxImageBytes)), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("MAX_IMAGE_BYTES: %w", err)
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "catalog"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "catalog"),

		StorageDriver:    envOrDefault("STORAGE_DRIVER", StorageLocal),
		StorageLocalRoot: envOrDefault("STORAGE_LOCAL_ROOT", "storage/app/public"),
		MaxImageBytes:    maxImage,

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),

		CORSAllowedOrigins: splitList(envOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Env == "production" && cfg.DBPassword == "changeme" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
