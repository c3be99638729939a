package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	StartingTreasury int    `env:"VIZIER_TREASURY" envDefault:"1000"`
	AllowNegative    bool   `env:"VIZIER_ALLOW_NEGATIVE_TREASURY" envDefault:"true"`
	MarginPercent    int    `env:"VIZIER_MARGIN_PERCENT" envDefault:"125"`
	CatalogFile      string `env:"VIZIER_CATALOG_FILE"`
	CatalogDriver    string `env:"VIZIER_CATALOG_DRIVER" envDefault:"postgres"`
	CatalogDSN       string `env:"VIZIER_CATALOG_DSN"`
	LogLevel         string `env:"VIZIER_LOG_LEVEL" envDefault:"info"`
	LogDevelopment   bool   `env:"VIZIER_LOG_DEV" envDefault:"false"`
}

// Load reads dotenv files (missing ones are skipped) and then the environment.
// Variables already set in the environment win over dotenv values.
func Load(dotenvFiles ...string) (Config, error) {
	for _, path := range dotenvFiles {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv fills target from VIZIER_* variables using its env struct tags.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.StartingTreasury < 0 {
		return fmt.Errorf("%w: VIZIER_TREASURY must not be negative, got %d", ErrInvalidConfig, c.StartingTreasury)
	}
	if c.MarginPercent < 100 {
		return fmt.Errorf("%w: VIZIER_MARGIN_PERCENT must be at least 100, got %d", ErrInvalidConfig, c.MarginPercent)
	}
	if c.CatalogDSN != "" && c.CatalogDriver != "postgres" && c.CatalogDriver != "sqlite" {
		return fmt.Errorf("%w: VIZIER_CATALOG_DRIVER must be postgres or sqlite, got %q", ErrInvalidConfig, c.CatalogDriver)
	}
	return nil
}

// Exitf reports a startup failure of the vizier binary on stderr and exits 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
