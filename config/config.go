package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// LLM configuration
	LLMAPIKey string
	LLMAPIURL string
	LLMModel  string

	// Media storage
	S3Bucket  string
	AWSRegion string
}

// LoadConfig creates a new Config instance from environment variables.
// Secret-bearing values accept a *_FILE variant pointing at a mounted secret
// file.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		ServerHost:    getEnv("SERVER_HOST", "0.0.0.0"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getSecret("DB_PASSWORD"),
		DBName:        getEnv("DB_NAME", "plateful"),
		DBSSLMode:     getEnv("DB_SSL_MODE", "disable"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getSecret("REDIS_PASSWORD"),
		RedisURL:      os.Getenv("REDIS_URL"),
		LLMAPIKey:     getSecret("LLM_API_KEY"),
		LLMAPIURL:     getEnv("LLM_API_URL", "https://api.deepseek.com/v1/chat/completions"),
		LLMModel:      getEnv("LLM_MODEL", "deepseek-chat"),
		S3Bucket:      getEnv("S3_BUCKET_NAME", "plateful-recipe-images"),
		AWSRegion:     os.Getenv("AWS_REGION"),
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value %q: %w", dbStr, err)
		}
		cfg.RedisDB = db
	}

	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY or LLM_API_KEY_FILE must be set")
	}

	return cfg, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// getSecret reads NAME from the environment, falling back to the file named
// by NAME_FILE.
func getSecret(name string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	if path := os.Getenv(name + "_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return ""
}
