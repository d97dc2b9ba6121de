package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"cycle-insights/pkg/models"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration: defaults, then file, then env.
type Config struct {
	DSN      string
	DataFile string

	UserID              string
	WindowDays          int
	DefaultCycleLength  int
	DefaultPeriodLength int

	HTTPPort int
	Verbose  bool
}

// configFile mirrors the YAML schema.
type configFile struct {
	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`
	Storage struct {
		File string `yaml:"file"`
	} `yaml:"storage"`
	Engine struct {
		UserID              string `yaml:"user_id"`
		WindowDays          int    `yaml:"window_days"`
		DefaultCycleLength  int    `yaml:"default_cycle_length"`
		DefaultPeriodLength int    `yaml:"default_period_length"`
	} `yaml:"engine"`
	HTTP struct {
		Port int `yaml:"port"`
	} `yaml:"http"`
	Log struct {
		Verbose bool `yaml:"verbose"`
	} `yaml:"log"`
}

// LoadConfig resolves configuration. An empty path or a missing file keeps the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		DataFile:            "cycle-insights.yaml",
		UserID:              "default",
		WindowDays:          30,
		DefaultCycleLength:  28,
		DefaultPeriodLength: 5,
		HTTPPort:            8080,
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config file: %w", err)
		default:
			var f configFile
			if err := yaml.Unmarshal(raw, &f); err != nil {
				return Config{}, fmt.Errorf("parse config file: %w", err)
			}
			if f.Database.DSN != "" {
				cfg.DSN = f.Database.DSN
			}
			if f.Storage.File != "" {
				cfg.DataFile = f.Storage.File
			}
			if f.Engine.UserID != "" {
				cfg.UserID = f.Engine.UserID
			}
			if f.Engine.WindowDays > 0 {
				cfg.WindowDays = f.Engine.WindowDays
			}
			if f.Engine.DefaultCycleLength > 0 {
				cfg.DefaultCycleLength = f.Engine.DefaultCycleLength
			}
			if f.Engine.DefaultPeriodLength > 0 {
				cfg.DefaultPeriodLength = f.Engine.DefaultPeriodLength
			}
			if f.HTTP.Port > 0 {
				cfg.HTTPPort = f.HTTP.Port
			}
			cfg.Verbose = f.Log.Verbose
		}
	}

	cfg.DSN = envOrDefault("CYCLE_INSIGHTS_DSN", cfg.DSN)
	cfg.DataFile = envOrDefault("CYCLE_INSIGHTS_DATA_FILE", cfg.DataFile)
	cfg.UserID = strings.TrimSpace(envOrDefault("CYCLE_INSIGHTS_USER", cfg.UserID))
	cfg.WindowDays = envInt("CYCLE_INSIGHTS_WINDOW_DAYS", cfg.WindowDays)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.Verbose = envBool("CYCLE_INSIGHTS_VERBOSE", cfg.Verbose)

	if cfg.UserID == "" {
		return Config{}, fmt.Errorf("missing user id")
	}
	if cfg.WindowDays <= 0 {
		return Config{}, fmt.Errorf("window days must be positive, got %d", cfg.WindowDays)
	}
	return cfg, nil
}

// Engine returns the report pipeline parameters for userID.
func (c Config) Engine(userID string) models.Config {
	if userID == "" {
		userID = c.UserID
	}
	return models.Config{
		UserID:              userID,
		WindowDays:          c.WindowDays,
		DefaultCycleLength:  c.DefaultCycleLength,
		DefaultPeriodLength: c.DefaultPeriodLength,
		Verbose:             c.Verbose,
	}
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt falls back on empty or invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(name string, fallback bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return fallback
	}
}
