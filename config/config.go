package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Env  string `env:"ENV" default:"dev"`
	Port string `env:"PORT" default:"8083"`

	Store      string `env:"STORE" default:"postgres"`
	DBHost     string `env:"DB_HOST" default:"localhost"`
	DBPort     string `env:"DB_PORT" default:"5432"`
	DBUser     string `env:"DB_USER" default:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" default:"courtfinder"`
	DBSSLMode  string `env:"DB_SSLMODE" default:"disable"`

	RedisAddr     string `env:"REDIS_ADDR" default:"localhost:6379"`
	RedisUser     string `env:"REDIS_USER"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`

	LockStripes       int           `env:"LOCK_STRIPES" default:"256"`
	OverpassURL       string        `env:"OVERPASS_URL" default:"https://overpass-api.de/api/interpreter"`
	OverpassTimeout   time.Duration `env:"OVERPASS_TIMEOUT" default:"10s"`
	VoteRatePerSecond float64       `env:"VOTE_RATE_PER_SECOND" default:"5"`
	VoteRateBurst     int           `env:"VOTE_RATE_BURST" default:"10"`
	ReconcileSchedule string        `env:"RECONCILE_SCHEDULE" default:"0 3 * * *"`
}

// Load đọc file .env (nếu có) rồi nạp cấu hình từ biến môi trường
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: không load được file .env, sử dụng biến môi trường có sẵn: %v", err)
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if cfg.Store != StorePostgres && cfg.Store != StoreMemory {
		return fmt.Errorf("STORE must be %q or %q, got %q", StorePostgres, StoreMemory, cfg.Store)
	}
	if cfg.LockStripes < 1 {
		return fmt.Errorf("LOCK_STRIPES must be positive, got %d", cfg.LockStripes)
	}
	if cfg.VoteRatePerSecond <= 0 {
		return fmt.Errorf("VOTE_RATE_PER_SECOND must be positive, got %v", cfg.VoteRatePerSecond)
	}
	if cfg.VoteRateBurst < 1 {
		return fmt.Errorf("VOTE_RATE_BURST must be positive, got %d", cfg.VoteRateBurst)
	}
	return nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}
