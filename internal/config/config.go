package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL     string `toml:"database_url"`
	JWTSecret       string `toml:"jwt_secret"`
	Port            string `toml:"port"`
	LogLevel        string `toml:"log_level"`
	LogPath         string `toml:"log_path"`
	DefaultPageSize int    `toml:"default_page_size"`
	MaxPageSize     int    `toml:"max_page_size"`
	SeedGoals       bool   `toml:"seed_goals"`
}

func defaults() *Config {
	return &Config{
		DatabaseURL:     "devgrowth.db",
		JWTSecret:       "your-secret-key-change-in-production",
		Port:            "8080",
		LogLevel:        "info",
		DefaultPageSize: 10,
		MaxPageSize:     100,
		SeedGoals:       true,
	}
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory when one exists.
func Load() *Config {
	_ = godotenv.Load()
	cfg := defaults()
	cfg.applyEnv()
	return cfg
}

// LoadFile reads a TOML file and then applies environment overrides.
func LoadFile(path string) (*Config, error) {
	_ = godotenv.Load()
	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.Port = getEnv("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogPath = getEnv("LOG_PATH", c.LogPath)
	c.DefaultPageSize = getEnvInt("DEFAULT_PAGE_SIZE", c.DefaultPageSize)
	c.MaxPageSize = getEnvInt("MAX_PAGE_SIZE", c.MaxPageSize)
	c.SeedGoals = getEnvBool("SEED_GOALS", c.SeedGoals)

	if c.MaxPageSize < 1 {
		c.MaxPageSize = 100
	}
	if c.DefaultPageSize < 1 || c.DefaultPageSize > c.MaxPageSize {
		c.DefaultPageSize = min(10, c.MaxPageSize)
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
