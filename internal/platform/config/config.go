package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	MigrationsPath string
	Port           string
	IsProduction   bool
	JWTSecret      string
	JWTIssuer      string

	// Redis backs the accrual run lock. An empty address disables the lock.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// Scheduled accrual
	AccrualScheduleEnabled bool
	AccrualRunTime         string // HH:MM
	AccrualTimezone        *time.Location
	AccrualConcurrency     int
	AccrualLockTTL         time.Duration

	RateLimit          string // ulule format, e.g. "100-M"
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "trade-credit-ledger")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("ACCRUAL_SCHEDULE_ENABLED", true)
	viper.SetDefault("ACCRUAL_RUN_TIME", "00:30")
	viper.SetDefault("ACCRUAL_TIMEZONE", "UTC")
	viper.SetDefault("ACCRUAL_CONCURRENCY", 4)
	viper.SetDefault("ACCRUAL_LOCK_TTL", "30m")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")
	if cfg.RedisAddr == "" {
		log.Println("Warning: REDIS_ADDR not set. Accrual runs will not be locked across instances.")
	}

	cfg.AccrualScheduleEnabled = viper.GetBool("ACCRUAL_SCHEDULE_ENABLED")
	cfg.AccrualRunTime = viper.GetString("ACCRUAL_RUN_TIME")
	if _, err := time.Parse("15:04", cfg.AccrualRunTime); err != nil {
		log.Printf("Warning: Invalid value for ACCRUAL_RUN_TIME ('%s'). Defaulting to 00:30.\n", cfg.AccrualRunTime)
		cfg.AccrualRunTime = "00:30"
	}

	tzName := viper.GetString("ACCRUAL_TIMEZONE")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Printf("Warning: Unknown ACCRUAL_TIMEZONE ('%s'). Defaulting to UTC.\n", tzName)
		loc = time.UTC
	}
	cfg.AccrualTimezone = loc

	cfg.AccrualConcurrency = viper.GetInt("ACCRUAL_CONCURRENCY")
	if cfg.AccrualConcurrency < 1 {
		cfg.AccrualConcurrency = 1
	}

	lockTTLStr := viper.GetString("ACCRUAL_LOCK_TTL")
	cfg.AccrualLockTTL, err = time.ParseDuration(lockTTLStr)
	if err != nil || cfg.AccrualLockTTL <= 0 {
		cfg.AccrualLockTTL = 30 * time.Minute
		log.Printf("Warning: Invalid value for ACCRUAL_LOCK_TTL ('%s'). Defaulting to %s.\n", lockTTLStr, cfg.AccrualLockTTL)
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}
