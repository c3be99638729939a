package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.StartingTreasury)
	assert.True(t, cfg.AllowNegative)
	assert.Equal(t, 125, cfg.MarginPercent)
	assert.Equal(t, "postgres", cfg.CatalogDriver)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogDevelopment)
}

func TestLoad_DotenvAndEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	contents := "VIZIER_TREASURY=42\nVIZIER_MARGIN_PERCENT=150\nVIZIER_CATALOG_DRIVER=sqlite\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	t.Setenv("VIZIER_MARGIN_PERCENT", "200")
	// godotenv sets variables for the process; make sure they are restored.
	t.Setenv("VIZIER_TREASURY", "")
	os.Unsetenv("VIZIER_TREASURY")
	t.Setenv("VIZIER_CATALOG_DRIVER", "")
	os.Unsetenv("VIZIER_CATALOG_DRIVER")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.StartingTreasury)
	assert.Equal(t, 200, cfg.MarginPercent)
	assert.Equal(t, "sqlite", cfg.CatalogDriver)
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("VIZIER_TREASURY", "lots")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestParseEnv_FillsTaggedStruct(t *testing.T) {
	t.Setenv("VIZIER_SESSION", "alpha")
	var target struct {
		Session string `env:"VIZIER_SESSION"`
		Margin  int    `env:"VIZIER_MARGIN_PERCENT" envDefault:"150"`
	}
	require.NoError(t, ParseEnv(&target))
	assert.Equal(t, "alpha", target.Session)
	assert.Equal(t, 150, target.Margin)
}

func TestValidate(t *testing.T) {
	base := Config{StartingTreasury: 10, MarginPercent: 125, CatalogDriver: "postgres"}
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "negative treasury", mutate: func(c *Config) { c.StartingTreasury = -1 }, wantErr: true},
		{name: "margin below 100", mutate: func(c *Config) { c.MarginPercent = 99 }, wantErr: true},
		{name: "unknown driver with dsn", mutate: func(c *Config) { c.CatalogDriver = "mysql"; c.CatalogDSN = "x" }, wantErr: true},
		{name: "unknown driver without dsn is ignored", mutate: func(c *Config) { c.CatalogDriver = "mysql" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
