package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	UI        UIConfig        `mapstructure:"ui"`
	Theme     ThemeConfig     `mapstructure:"theme"`
	Library   LibraryConfig   `mapstructure:"library"`
	Server    ServerConfig    `mapstructure:"server"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Log       LogConfig       `mapstructure:"log"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CompactWidth    int    `mapstructure:"compact_width"`
	KeepManualPanel bool   `mapstructure:"keep_manual_panel"`
	DateFormat      string `mapstructure:"date_format"`
	Timezone        string `mapstructure:"timezone"`
	Animations      bool   `mapstructure:"animations"`
}

// ThemeConfig overrides palette entries. Empty values keep the defaults.
type ThemeConfig struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Success   string `mapstructure:"success"`
	Warning   string `mapstructure:"warning"`
	Info      string `mapstructure:"info"`
	Error     string `mapstructure:"error"`
	Spacing   int    `mapstructure:"spacing"`
}

// LibraryConfig holds content library defaults.
type LibraryConfig struct {
	DefaultSort      string `mapstructure:"default_sort"`
	DefaultDirection string `mapstructure:"default_direction"`
	Collation        string `mapstructure:"collation"`
}

// ServerConfig holds API server settings.
type ServerConfig struct {
	Addr         string   `mapstructure:"addr"`
	AllowOrigins []string `mapstructure:"allow_origins"`
	// TaskTTL is how long a finished background task stays pollable.
	TaskTTL time.Duration `mapstructure:"task_ttl"`
}

// GeneratorConfig holds content generator settings.
type GeneratorConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

// LogConfig holds log file settings.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// DataDir is where the database and logs live by default.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "rangmanch")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "rangmanch")
}

// Path returns the config file location, honoring RANGMANCH_CONFIG.
func Path() string {
	if p := os.Getenv("RANGMANCH_CONFIG"); p != "" {
		return p
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "rangmanch", "config.toml")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "rangmanch", "config.toml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", filepath.Join(DataDir(), "rangmanch.db"))
	v.SetDefault("ui.compact_width", 100)
	v.SetDefault("ui.keep_manual_panel", false)
	v.SetDefault("ui.date_format", "Jan 2, 2006")
	v.SetDefault("ui.timezone", "Local")
	v.SetDefault("ui.animations", true)
	v.SetDefault("theme.primary", "")
	v.SetDefault("theme.secondary", "")
	v.SetDefault("theme.success", "")
	v.SetDefault("theme.warning", "")
	v.SetDefault("theme.info", "")
	v.SetDefault("theme.error", "")
	v.SetDefault("theme.spacing", 1)
	v.SetDefault("library.default_sort", "date")
	v.SetDefault("library.default_direction", "desc")
	v.SetDefault("library.collation", "en")
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.task_ttl", "1h")
	v.SetDefault("generator.delay", "2s")
	v.SetDefault("log.path", "")
	v.SetDefault("log.level", "info")
}

// Load reads configuration from file and env. Env var overrides use prefix RANGMANCH_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("RANGMANCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func isNotExist(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || errors.Is(err, os.ErrNotExist)
}

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	if c.UI.CompactWidth <= 0 {
		return fmt.Errorf("%w: ui.compact_width must be positive, got %d", ErrInvalidConfig, c.UI.CompactWidth)
	}
	switch strings.ToLower(c.Library.DefaultSort) {
	case "date", "title", "views":
	default:
		return fmt.Errorf("%w: library.default_sort %q", ErrInvalidConfig, c.Library.DefaultSort)
	}
	switch strings.ToLower(c.Library.DefaultDirection) {
	case "asc", "desc":
	default:
		return fmt.Errorf("%w: library.default_direction %q", ErrInvalidConfig, c.Library.DefaultDirection)
	}
	if c.Generator.Delay < 0 {
		return fmt.Errorf("%w: generator.delay must not be negative", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.UI.Timezone); err != nil {
		return fmt.Errorf("%w: ui.timezone: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Location resolves the configured timezone, falling back to local time.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.UI.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Save writes the provided config to disk, creating the config directory if needed.
// The TUI uses this to persist layout preferences.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("ui.compact_width", cfg.UI.CompactWidth)
	v.Set("ui.keep_manual_panel", cfg.UI.KeepManualPanel)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.animations", cfg.UI.Animations)
	v.Set("theme.primary", cfg.Theme.Primary)
	v.Set("theme.secondary", cfg.Theme.Secondary)
	v.Set("theme.success", cfg.Theme.Success)
	v.Set("theme.warning", cfg.Theme.Warning)
	v.Set("theme.info", cfg.Theme.Info)
	v.Set("theme.error", cfg.Theme.Error)
	v.Set("theme.spacing", cfg.Theme.Spacing)
	v.Set("library.default_sort", cfg.Library.DefaultSort)
	v.Set("library.default_direction", cfg.Library.DefaultDirection)
	v.Set("library.collation", cfg.Library.Collation)
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("server.allow_origins", cfg.Server.AllowOrigins)
	v.Set("server.task_ttl", cfg.Server.TaskTTL.String())
	v.Set("generator.delay", cfg.Generator.Delay.String())
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
