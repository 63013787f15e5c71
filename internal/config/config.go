package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	BotToken string
	AdminID  int64
	Database DatabaseConfig
	Limits   LimitsConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// LimitsConfig holds length ceilings, rate limits and pagination settings
type LimitsConfig struct {
	MaxQuestionLength int
	MaxAnswerLength   int
	MaxSettingLength  int
	RateWindow        time.Duration
	RateCapacity      int
	RateCooldown      time.Duration
	PageSize          int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	adminID, err := getEnvInt64("ADMIN_ID")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BotToken: os.Getenv("BOT_TOKEN"),
		AdminID:  adminID,
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "anonask"),
			User:     getEnv("DB_USER", "anonask"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		Limits: LimitsConfig{
			MaxQuestionLength: getEnvInt("MAX_QUESTION_LENGTH", 2500),
			MaxAnswerLength:   getEnvInt("MAX_ANSWER_LENGTH", 6000),
			MaxSettingLength:  getEnvInt("MAX_SETTING_LENGTH", 256),
			RateWindow:        time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MINUTES", 60)) * time.Minute,
			RateCapacity:      getEnvInt("RATE_LIMIT_QUESTIONS_PER_HOUR", 500),
			RateCooldown:      time.Duration(getEnvInt("RATE_LIMIT_COOLDOWN_SECONDS", 5)) * time.Second,
			PageSize:          getEnvInt("QUESTIONS_PER_PAGE", 5),
		},
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.AdminID == 0 {
		return nil, fmt.Errorf("ADMIN_ID is required")
	}
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvInt64(key string) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return 0, nil
	}

	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return parsed, nil
}
