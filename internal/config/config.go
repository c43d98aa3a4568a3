package config

import (
	"fmt"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	Port      string `env:"PORT" envDefault:":8080"`
	DBPath    string `env:"DB_PATH" envDefault:"./data/ecomap.db"`
	JWTSecret string `env:"JWT_SECRET" envDefault:"your-secret-key-change-in-production"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`

	// 热力图渲染限流
	HeatmapRateLimit  int           `env:"HEATMAP_RATE_LIMIT" envDefault:"30"`
	HeatmapRateWindow time.Duration `env:"HEATMAP_RATE_WINDOW" envDefault:"1m"`

	MaxAnnotationsPerTask int    `env:"MAX_ANNOTATIONS_PER_TASK" envDefault:"5"`
	OverlayFormat         string `env:"OVERLAY_FORMAT" envDefault:"png"`
}

// Load 加载配置: .env (if present) first, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("[Config] Failed to read .env")
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HeatmapRateLimit <= 0 {
		return fmt.Errorf("HEATMAP_RATE_LIMIT must be positive, got %d", c.HeatmapRateLimit)
	}
	if c.HeatmapRateWindow <= 0 {
		return fmt.Errorf("HEATMAP_RATE_WINDOW must be positive, got %s", c.HeatmapRateWindow)
	}
	if c.MaxAnnotationsPerTask <= 0 {
		return fmt.Errorf("MAX_ANNOTATIONS_PER_TASK must be positive, got %d", c.MaxAnnotationsPerTask)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return nil
}

// Level returns the configured log level
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
