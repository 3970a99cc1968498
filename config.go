package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the service configuration
type Config struct {
	OSM      OSMConfig
	Overpass OverpassConfig
	Store    StoreConfig
	S3       S3Config
}

// OSMConfig represents the local dump and extraction settings
type OSMConfig struct {
	DumpPath        string
	MaxAdminLevel   int
	PreferredLocale string // e.g. "name:ja"
	RootRelationID  int64  // 0 means "no specific root requested"
}

// OverpassConfig represents the remote gap-repair query service
type OverpassConfig struct {
	Endpoint     string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	IterationCap int
}

// StoreConfig represents the output store connection settings
type StoreConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// S3Config represents optional S3/R2 settings used to fetch a
// pre-staged dump before extraction begins.
type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	BucketPath      string
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig(envPath string) (*Config, error) {
	// Prefer .env.local over .env (like Next.js)
	// This allows local development configuration to override production config
	localEnvPath := strings.TrimSuffix(envPath, ".env") + ".env.local"
	if _, err := os.Stat(localEnvPath); err == nil {
		if err := loadEnvFile(localEnvPath); err != nil {
			return nil, fmt.Errorf("failed to load local env file: %w", err)
		}
	} else if _, err := os.Stat(envPath); err == nil {
		// Fall back to regular .env file if .env.local doesn't exist
		if err := loadEnvFile(envPath); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	cfg := &Config{
		OSM: OSMConfig{
			DumpPath:        getEnv("OSM_DUMP_PATH", "./data/dump.osm.pbf"),
			MaxAdminLevel:   getEnvInt("OSM_MAX_ADMIN_LEVEL", 7),
			PreferredLocale: getEnv("OSM_PREFERRED_LOCALE", "name:en"),
			RootRelationID:  getEnvInt64("OSM_ROOT_RELATION_ID", 0),
		},
		Overpass: OverpassConfig{
			Endpoint:     getEnv("OVERPASS_ENDPOINT", "https://overpass-api.de/api/interpreter"),
			Timeout:      time.Duration(getEnvInt("OVERPASS_TIMEOUT_SECONDS", 30)) * time.Second,
			MaxRetries:   getEnvInt("OVERPASS_MAX_RETRIES", 3),
			RetryBackoff: time.Duration(getEnvInt("OVERPASS_RETRY_BACKOFF_SECONDS", 2)) * time.Second,
			IterationCap: getEnvInt("OVERPASS_ITERATION_CAP", 10),
		},
		Store: StoreConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "boundarygraph"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		S3: S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			Region:          getEnv("S3_REGION", "us-west-1"),
			Bucket:          getEnv("S3_BUCKET", ""),
			BucketPath:      getEnv("S3_BUCKET_PATH", "dumps"),
		},
	}

	return cfg, nil
}

// loadEnvFile loads environment variables from a .env file
func loadEnvFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Simple env file parsing - split by newlines and set env vars
	lines := strings.Split(string(content), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Split by = and set environment variable
		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			os.Setenv(key, value)
		}
	}

	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

// getEnvInt gets an environment variable as integer with a default value
func getEnvInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// getEnvInt64 gets an environment variable as int64 with a default value
func getEnvInt64(key string, defaultVal int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}
