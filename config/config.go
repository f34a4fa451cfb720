package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all the configuration for the application
type Config struct {
	BotToken       string `env:"BOT_TOKEN"`
	DeepseekAPIKey string `env:"DEEPSEEK_API_KEY"`
	DatabasePath   string `env:"DB_PATH" envDefault:"./data/mathdungeon.db"`
	// Seed fixes the random source of every session; 0 seeds each session from crypto/rand
	Seed  int64 `env:"GAME_SEED" envDefault:"0"`
	Debug bool  `env:"DEBUG" envDefault:"false"`
}

// Load loads the configuration from an optional .env file and environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.BotToken == "" {
		return nil, errors.New("BOT_TOKEN environment variable is required")
	}

	return &cfg, nil
}

// ExplanationsEnabled reports whether an AI key is configured
func (c *Config) ExplanationsEnabled() bool {
	return c.DeepseekAPIKey != ""
}
