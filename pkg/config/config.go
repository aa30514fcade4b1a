package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Dirs          DirConfig
	OCR           OCRConfig
	Database      DatabaseConfig
	Observability ObservabilityConfig
	Pipeline      PipelineConfig
}

// DirConfig holds the filesystem layout for imports
type DirConfig struct {
	Uploads    string // incoming PDFs/images dropped by the operator
	Statements string // cached *_ocr.txt artifacts
	Exports    string // generated CSV/XLSX reports
}

// OCRConfig configures the external OCR engine binaries
type OCRConfig struct {
	PdftotextBin string
	TesseractBin string
	Passes       int // consistency passes per page, max 3
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

type ObservabilityConfig struct {
	MetricsEnabled bool
	MetricsPort    int
}

// PipelineConfig holds run-level knobs
type PipelineConfig struct {
	Workers       int    // concurrent files; 1 = strictly sequential
	LocalIndex    string // sqlite path for the checksum index; empty keeps it in Postgres
	DefaultSource string
}

// Load reads configuration from environment variables. A .env file in
// the working directory is merged in first; variables already set in
// the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Dirs: DirConfig{
			Uploads:    getEnv("UPLOADS_DIR", "./uploads"),
			Statements: getEnv("STATEMENTS_DIR", "./statements"),
			Exports:    getEnv("EXPORTS_DIR", "./exports"),
		},
		OCR: OCRConfig{
			PdftotextBin: getEnv("PDFTOTEXT_BIN", "pdftotext"),
			TesseractBin: getEnv("TESSERACT_BIN", "tesseract"),
			Passes:       getEnvAsInt("OCR_PASSES", 3),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			Database: getEnv("POSTGRES_DB", "ledger-dev"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
			MetricsPort:    getEnvAsInt("METRICS_PORT", 9090),
		},
		Pipeline: PipelineConfig{
			Workers:       getEnvAsInt("PIPELINE_WORKERS", 1),
			LocalIndex:    getEnv("LOCAL_INDEX_PATH", ""),
			DefaultSource: getEnv("DEFAULT_SOURCE", "Statement OCR"),
		},
	}

	if cfg.OCR.Passes < 1 {
		cfg.OCR.Passes = 1
	}
	if cfg.OCR.Passes > 3 {
		cfg.OCR.Passes = 3
	}
	if cfg.Pipeline.Workers < 1 {
		cfg.Pipeline.Workers = 1
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
