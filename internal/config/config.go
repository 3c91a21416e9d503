package config

import (
	"fmt"
	"os"
	"strconv"

	"lang-editor/internal/filewalker"
	"lang-editor/internal/markup"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config holds the editor settings. Values come from defaults, then the
// optional YAML file, then environment variables (a .env file is loaded
// first if present).
type Config struct {
	ModsDir       string   `yaml:"mods_dir"`
	DatabaseURL   string   `yaml:"database_url"`
	WorkerCount   int      `yaml:"worker_count"`
	PageSize      int      `yaml:"page_size"`
	LogLevel      string   `yaml:"log_level"`
	LogFile       string   `yaml:"log_file"`
	ColorPresets  []string `yaml:"color_presets"`
	LanguagePaths []string `yaml:"language_paths"`
	ConfigFile    string   `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ModsDir:       "./mods",
		WorkerCount:   8,
		PageSize:      30,
		LogLevel:      "info",
		ColorPresets:  append([]string(nil), markup.Presets...),
		LanguagePaths: append([]string(nil), filewalker.DefaultLanguagePaths...),
	}
}

// Load builds the configuration from .env, LANGEDIT_CONFIG and the
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := Default()
	cfg.ConfigFile = os.Getenv("LANGEDIT_CONFIG")
	if cfg.ConfigFile != "" {
		if err := cfg.loadFile(cfg.ConfigFile); err != nil {
			return nil, err
		}
	}

	cfg.ModsDir = getEnv("LANGEDIT_MODS_DIR", cfg.ModsDir)
	cfg.DatabaseURL = getEnv("LANGEDIT_DATABASE_URL", cfg.DatabaseURL)
	cfg.WorkerCount = getEnvInt("LANGEDIT_WORKER_COUNT", cfg.WorkerCount)
	cfg.PageSize = getEnvInt("LANGEDIT_PAGE_SIZE", cfg.PageSize)
	cfg.LogLevel = getEnv("LANGEDIT_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("LANGEDIT_LOG_FILE", cfg.LogFile)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	file := c.ConfigFile
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	c.ConfigFile = file

	c.applyDefaults()
	return nil
}

// applyDefaults refills zero values a config file may have cleared.
func (c *Config) applyDefaults() {
	defaults := Default()
	if c.ModsDir == "" {
		c.ModsDir = defaults.ModsDir
	}
	if c.WorkerCount == 0 {
		c.WorkerCount = defaults.WorkerCount
	}
	if c.PageSize == 0 {
		c.PageSize = defaults.PageSize
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if len(c.ColorPresets) == 0 {
		c.ColorPresets = defaults.ColorPresets
	}
	if len(c.LanguagePaths) == 0 {
		c.LanguagePaths = defaults.LanguagePaths
	}
}

// Validate checks that the configuration is usable. Preset colors are
// normalized to lower-case #rrggbb.
func (c *Config) Validate() error {
	if c.PageSize < 1 {
		return fmt.Errorf("page_size must be at least 1")
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("worker_count must be at least 1")
	}
	for i, color := range c.ColorPresets {
		hex, ok := markup.NormalizeHex(color)
		if !ok {
			return fmt.Errorf("color_presets[%d]: %q is not a #RRGGBB color", i, color)
		}
		c.ColorPresets[i] = hex
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Ignoring non-numeric setting")
		return fallback
	}
	return n
}
