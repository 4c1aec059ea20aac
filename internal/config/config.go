// Package config loads settings from .env, an optional YAML file and the
// environment, in that order of precedence (lowest first).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/config"
)

type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Server    ServerConfig    `yaml:"server"`
	Calendar  CalendarConfig  `yaml:"calendar"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Companion CompanionConfig `yaml:"companion"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type CalendarConfig struct {
	// Timezone is an IANA name; empty means the machine's local zone
	Timezone string `yaml:"timezone"`
}

type AnalyticsConfig struct {
	PlaceholderFactors bool   `yaml:"placeholder_factors"`
	Seed               uint64 `yaml:"seed"`
}

type SchedulerConfig struct {
	CheckInterval string `yaml:"check_interval"`
}

type CompanionConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`
}

// Default returns the settings used when nothing is configured
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Storage:   StorageConfig{Path: filepath.Join(home, ".wellness", "wellness.db")},
		Server:    ServerConfig{Addr: ":8080"},
		Analytics: AnalyticsConfig{Seed: 1},
		Scheduler: SchedulerConfig{CheckInterval: "1h"},
	}
}

// DefaultPath is where Load looks for the YAML file
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".wellness", "config.yaml")
}

// Load reads .env, then the YAML file at WELLNESS_CONFIG (or DefaultPath)
// when it exists, then applies environment overrides
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return LoadFile(getEnv("WELLNESS_CONFIG", DefaultPath()))
}

// LoadFile is Load without the .env step. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		provider, err := config.NewYAML(
			config.File(path),
			config.Expand(os.LookupEnv),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create config provider: %w", err)
		}
		if err := provider.Get(config.Root).Populate(&cfg); err != nil {
			return nil, fmt.Errorf("failed to populate config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat config: %w", err)
	}

	cfg.overrideFromEnv()

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	if _, err := cfg.CheckInterval(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables if present
func (c *Config) overrideFromEnv() {
	c.Storage.Path = getEnv("WELLNESS_DB", c.Storage.Path)
	c.Server.Addr = getEnv("WELLNESS_ADDR", c.Server.Addr)
	c.Calendar.Timezone = getEnv("WELLNESS_TZ", c.Calendar.Timezone)
	c.Analytics.PlaceholderFactors = getEnvAsBool("WELLNESS_PLACEHOLDER_FACTORS", c.Analytics.PlaceholderFactors)
	c.Analytics.Seed = getEnvAsUint64("WELLNESS_PLACEHOLDER_SEED", c.Analytics.Seed)
	c.Scheduler.CheckInterval = getEnv("WELLNESS_CHECK_INTERVAL", c.Scheduler.CheckInterval)
	c.Companion.Provider = getEnv("AI_API_PROVIDER", c.Companion.Provider)
	c.Companion.APIKey = getEnv("AI_API_KEY", c.Companion.APIKey)
}

// Location resolves the calendar timezone
func (c *Config) Location() (*time.Location, error) {
	if c.Calendar.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Calendar.Timezone, err)
	}
	return loc, nil
}

// CheckInterval parses the scheduler interval
func (c *Config) CheckInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Scheduler.CheckInterval)
	if err != nil {
		return 0, fmt.Errorf("parse check interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("check interval must be positive, got %s", d)
	}
	return d, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if result, err := strconv.ParseBool(value); err == nil {
			return result
		}
	}
	return fallback
}

func getEnvAsUint64(key string, fallback uint64) uint64 {
	if value, exists := os.LookupEnv(key); exists {
		if result, err := strconv.ParseUint(value, 10, 64); err == nil {
			return result
		}
	}
	return fallback
}
