// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server ServerConfig
	Cache  CacheConfig
	Vault  VaultConfig
	Log    LogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host        string
	Port        int
	GinMode     string
	CORSOrigins []string
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds cache-related configuration.
type CacheConfig struct {
	Type     string
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int

	ConnectTimeout time.Duration
	ReadTimeout    time.Duration

	JSONNumericCheck          bool
	JSONUnescapedUnicode      bool
	JSONSubstituteInvalidUTF8 bool
	JSONUnescapedSlashes      bool
}

// VaultConfig holds vault configuration.
type VaultConfig struct {
	Type string
	// SecretsFile is an optional dotenv file consulted after the environment.
	SecretsFile string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvAsInt("SERVER_PORT", 8080),
			GinMode:     getEnv("GIN_MODE", "debug"),
			CORSOrigins: getEnvAsList("CORS_ALLOW_ORIGINS", nil),
		},
		Cache: CacheConfig{
			Type:                      getEnv("CACHE_TYPE", "redis"),
			Enabled:                   getEnvAsBool("CACHE_ENABLED", true),
			Host:                      getEnv("REDIS_HOST", "localhost"),
			Port:                      getEnvAsInt("REDIS_PORT", 6379),
			Password:                  getEnv("REDIS_PASSWORD", ""),
			DB:                        getEnvAsInt("REDIS_DB", 0),
			ConnectTimeout:            time.Duration(getEnvAsInt("REDIS_CONNECT_TIMEOUT_SECONDS", 5)) * time.Second,
			ReadTimeout:               time.Duration(getEnvAsInt("REDIS_READ_TIMEOUT_SECONDS", 3)) * time.Second,
			JSONNumericCheck:          getEnvAsBool("CACHE_JSON_NUMERIC_CHECK", true),
			JSONUnescapedUnicode:      getEnvAsBool("CACHE_JSON_UNESCAPED_UNICODE", true),
			JSONSubstituteInvalidUTF8: getEnvAsBool("CACHE_JSON_SUBSTITUTE_INVALID_UTF8", true),
			JSONUnescapedSlashes:      getEnvAsBool("CACHE_JSON_UNESCAPED_SLASHES", true),
		},
		Vault: VaultConfig{
			Type:        getEnv("VAULT_TYPE", "dotenv"),
			SecretsFile: getEnv("VAULT_SECRETS_FILE", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if cfg.Cache.Port <= 0 || cfg.Cache.Port > 65535 {
		return nil, fmt.Errorf("invalid REDIS_PORT: %d", cfg.Cache.Port)
	}
	if cfg.Cache.DB < 0 {
		return nil, fmt.Errorf("invalid REDIS_DB: %d", cfg.Cache.DB)
	}

	return cfg, nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as a boolean with a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated environment variable.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
