package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// DatabaseConfig selects and addresses the relational store.
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SQLitePath string
}

// Config is the process configuration.
type Config struct {
	Env                    string
	Port                   string
	LogLevel               string
	Database               DatabaseConfig
	JWTSecret              string
	TokenTTL               time.Duration
	AdminEmail             string
	AdminPassword          string
	SessionCleanupSchedule string
	SettingsPath           string
	Settings               *Settings
}

// IsDevelopment reports whether development logging and defaults apply.
func (c *Config) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development"
}

// Load reads .env (when present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		Port:     getEnv("PORT", "3001"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", DriverSQLite),
			Host:       os.Getenv("TIDB_HOST"),
			Port:       getEnv("TIDB_PORT", "4000"),
			User:       os.Getenv("TIDB_USER"),
			Password:   os.Getenv("TIDB_PASSWORD"),
			Name:       getEnv("TIDB_DATABASE", "lcrm"),
			SQLitePath: getEnv("SQLITE_PATH", "lcrm.db"),
		},
		JWTSecret:              os.Getenv("JWT_SECRET"),
		TokenTTL:               time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
		AdminEmail:             getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:          os.Getenv("ADMIN_PASSWORD"),
		SessionCleanupSchedule: getEnv("SESSION_CLEANUP_SCHEDULE", "@hourly"),
		SettingsPath:           os.Getenv("SETTINGS_PATH"),
	}

	settings, err := LoadSettings(cfg.SettingsPath)
	if err != nil {
		return nil, err
	}
	cfg.Settings = settings
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
