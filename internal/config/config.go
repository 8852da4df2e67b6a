package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	Scheduler SchedulerConfig
	Render    RenderConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// SchedulerConfig holds the payslip dispatcher configuration
type SchedulerConfig struct {
	Enabled              bool
	PayslipGenerationDay int
}

// RenderConfig holds the external document-render service configuration
type RenderConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func Load() (*Config, error) {
	// .env is optional; environment variables win in deployed environments
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cruisehub_reseller"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION", "1h"),
	}
	if config.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}

	generationDay, err := strconv.Atoi(getEnv("PAYSLIP_GENERATION_DAY", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYSLIP_GENERATION_DAY: %w", err)
	}

	config.Scheduler = SchedulerConfig{
		Enabled:              getEnv("SCHEDULER_ENABLED", "true") == "true",
		PayslipGenerationDay: generationDay,
	}

	renderTimeout, err := time.ParseDuration(getEnv("RENDER_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RENDER_TIMEOUT: %w", err)
	}

	config.Render = RenderConfig{
		BaseURL: getEnv("RENDER_BASE_URL", "http://localhost:9090"),
		APIKey:  getEnv("RENDER_API_KEY", ""),
		Timeout: renderTimeout,
	}

	return config, nil
}

// DatabaseURL builds the connection string for pgx
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
