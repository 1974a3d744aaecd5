// Package config loads carebill's file and environment configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvDB        = "CAREBILL_DB"
	EnvExportDir = "CAREBILL_EXPORT_DIR"
	EnvLogFile   = "CAREBILL_LOG_FILE"
	EnvLogLevel  = "CAREBILL_LOG_LEVEL"
)

// Config holds machine-local settings. Business settings such as the
// company name live in the database.
type Config struct {
	DBPath    string `yaml:"db_path"`
	ExportDir string `yaml:"export_dir"`
	LogFile   string `yaml:"log_file,omitempty"`
	LogLevel  string `yaml:"log_level"`
}

// Dir returns ~/.config/carebill.
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "carebill"), nil
}

// DefaultPath returns ~/.config/carebill/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns the configuration used when no file exists.
func Default() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return &Config{
		DBPath:    filepath.Join(dir, "carebill.db"),
		ExportDir: ".",
		LogLevel:  "info",
	}, nil
}

// Load reads path (DefaultPath when empty), falling back to defaults for a
// missing file, then applies environment overrides. A .env file in the
// working directory is loaded first if present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.DBPath = expandHome(cfg.DBPath)
	cfg.ExportDir = expandHome(cfg.ExportDir)
	cfg.LogFile = expandHome(cfg.LogFile)
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		key string
		dst *string
	}{
		{EnvDB, &c.DBPath},
		{EnvExportDir, &c.ExportDir},
		{EnvLogFile, &c.LogFile},
		{EnvLogLevel, &c.LogLevel},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.key)); v != "" {
			*o.dst = v
		}
	}
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
