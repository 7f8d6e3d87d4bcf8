// Package config loads settings from ~/.config/leap/config.yaml and the
// environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/leap/internal/store"
)

const (
	DefaultSlotKey         = "quantumLeapData"
	DefaultRollover        = "0 0 * * *"
	DefaultLogLevel        = "info"
	DefaultStrongWeekScore = 7.0
)

type Config struct {
	DBPath           string  `yaml:"db_path"`
	SlotKey          string  `yaml:"slot_key"`
	LogFile          string  `yaml:"log_file"`
	LogLevel         string  `yaml:"log_level"`
	RolloverSchedule string  `yaml:"rollover_schedule"`
	ExportDir        string  `yaml:"export_dir"`
	StrongWeekScore  float64 `yaml:"strong_week_score"`
}

// Dir returns ~/.config/leap.
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "leap"), nil
}

// DefaultPath returns ~/.config/leap/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Defaults returns the configuration used when no file exists.
func Defaults() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, fmt.Errorf("config dir: %w", err)
	}
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return nil, fmt.Errorf("db path: %w", err)
	}
	home, _ := os.UserHomeDir()
	return &Config{
		DBPath:           dbPath,
		SlotKey:          DefaultSlotKey,
		LogFile:          filepath.Join(dir, "leap.log"),
		LogLevel:         DefaultLogLevel,
		RolloverSchedule: DefaultRollover,
		ExportDir:        home,
		StrongWeekScore:  DefaultStrongWeekScore,
	}, nil
}

// Load reads path (DefaultPath when empty). A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}
	if path == "" {
		if path, err = DefaultPath(); err != nil {
			return nil, fmt.Errorf("config path: %w", err)
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

	cfg.DBPath = getEnv("LEAP_DB_PATH", cfg.DBPath)
	cfg.SlotKey = getEnv("LEAP_SLOT_KEY", cfg.SlotKey)
	cfg.LogFile = getEnv("LEAP_LOG_FILE", cfg.LogFile)
	cfg.LogLevel = getEnv("LEAP_LOG_LEVEL", cfg.LogLevel)
	cfg.RolloverSchedule = getEnv("LEAP_ROLLOVER", cfg.RolloverSchedule)
	cfg.ExportDir = getEnv("LEAP_EXPORT_DIR", cfg.ExportDir)
	if v := getEnv("LEAP_STRONG_WEEK_SCORE", ""); v != "" {
		score, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("LEAP_STRONG_WEEK_SCORE: %w", err)
		}
		cfg.StrongWeekScore = score
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SlotKey == "" {
		return errors.New("config: slot_key must not be empty")
	}
	if c.DBPath == "" {
		return errors.New("config: db_path must not be empty")
	}
	if c.StrongWeekScore < 0 || c.StrongWeekScore > 10 {
		return fmt.Errorf("config: strong_week_score must be between 0 and 10, got %v", c.StrongWeekScore)
	}
	return nil
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
