package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Veraticus/budget-manager/internal/common"
)

// Configuration keys.
const (
	KeyDatabasePath   = "database.path"
	KeyLogLevel       = "logging.level"
	KeyLogFormat      = "logging.format"
	KeyCurrencySymbol = "report.currency_symbol"
)

// Defaults.
const (
	DefaultDatabasePath   = "~/.local/share/budget/budget.db"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
	DefaultCurrencySymbol = "$"
	EnvPrefix             = "BUDGET"
)

// Config is the resolved application configuration.
type Config struct {
	Database DatabaseConfig
	Logging  LoggingConfig
	Report   ReportConfig
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path string
}

// LoggingConfig selects the slog level and handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// ReportConfig controls terminal report formatting.
type ReportConfig struct {
	CurrencySymbol string
}

// SetDefaults registers defaults and environment binding on v.
// BUDGET_DATABASE_PATH overrides database.path and so on.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
	v.SetDefault(KeyCurrencySymbol, DefaultCurrencySymbol)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the typed configuration out of v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{Path: ExpandPath(v.GetString(KeyDatabasePath))},
		Logging: LoggingConfig{
			Level:  strings.ToLower(v.GetString(KeyLogLevel)),
			Format: strings.ToLower(v.GetString(KeyLogFormat)),
		},
		Report: ReportConfig{CurrencySymbol: v.GetString(KeyCurrencySymbol)},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("%w: %s is empty", common.ErrMissingConfig, KeyDatabasePath)
	}
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log format must be console or json, got %q", common.ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped and existing variables win.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(ExpandPath(path)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}
