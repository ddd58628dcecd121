package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the chart rendering service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8982"`

	// Storage configuration
	DeploymentMode  string `env:"DEPLOYMENT_MODE,default=local"`
	GCPProjectID    string `env:"GCP_PROJECT_ID"`
	GCSBucket       string `env:"GCS_BUCKET"`
	LocalOutputDir  string `env:"LOCAL_OUTPUT_DIR,default=./dashboards"`
	ChartAssetsHost string `env:"CHART_ASSETS_HOST,default=https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/"`

	// Projection defaults used when a dataset leaves them unset
	FireTarget      float64 `env:"FIRE_TARGET,default=1500000"`
	Inflation       float64 `env:"INFLATION_RATE,default=0.038"`
	ProjectionYears int     `env:"PROJECTION_YEARS,default=5"`
	ChartWidth      int     `env:"CHART_WIDTH,default=900"`
	ChartHeight     int     `env:"CHART_HEIGHT,default=400"`

	// Theme overrides for the dashboard CSS custom properties
	ThemeTextPrimary   string `env:"THEME_TEXT_PRIMARY"`
	ThemeTextSecondary string `env:"THEME_TEXT_SECONDARY"`
	ThemeGrid          string `env:"THEME_GRID"`
	ThemeSurface       string `env:"THEME_SURFACE"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=auto"`
}

// Load reads an optional .env file and then resolves configuration from
// the environment.
func Load(ctx context.Context, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DeploymentMode {
	case "local":
	case "gcs":
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required when DEPLOYMENT_MODE=gcs")
		}
	default:
		return fmt.Errorf("unsupported DEPLOYMENT_MODE %q", c.DeploymentMode)
	}
	if c.ProjectionYears < 0 {
		return fmt.Errorf("PROJECTION_YEARS must not be negative, got %d", c.ProjectionYears)
	}
	return nil
}

// ThemeOverrides returns the configured theme colours keyed by CSS custom
// property name. Empty settings are omitted.
func (c *Config) ThemeOverrides() map[string]string {
	out := make(map[string]string)
	for name, value := range map[string]string{
		"--invest-text-primary":   c.ThemeTextPrimary,
		"--invest-text-secondary": c.ThemeTextSecondary,
		"--invest-grid":           c.ThemeGrid,
		"--invest-surface":        c.ThemeSurface,
	} {
		if value != "" {
			out[name] = value
		}
	}
	return out
}
