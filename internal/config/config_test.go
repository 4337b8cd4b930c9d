package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budget-manager/internal/common"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".local/share/budget/budget.db"), cfg.Database.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "$", cfg.Report.CurrencySymbol)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("BUDGET_DATABASE_PATH", "/tmp/override.db")
	t.Setenv("BUDGET_LOGGING_LEVEL", "DEBUG")
	t.Setenv("BUDGET_REPORT_CURRENCY_SYMBOL", "€")

	cfg, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, "/tmp/override.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "€", cfg.Report.CurrencySymbol)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("database:\n  path: /data/budget.db\nlogging:\n  format: json\nreport:\n  currency_symbol: \"£\"\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	v := newViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/data/budget.db", cfg.Database.Path)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "£", cfg.Report.CurrencySymbol)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		wantErr error
		set     map[string]string
		name    string
	}{
		{
			name:    "unknown log level",
			set:     map[string]string{KeyLogLevel: "loud"},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "unknown log format",
			set:     map[string]string{KeyLogFormat: "xml"},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "empty database path",
			set:     map[string]string{KeyDatabasePath: " "},
			wantErr: common.ErrMissingConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := Load(v)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("BUDGET_TEST_DOTENV=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("BUDGET_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "from-file", os.Getenv("BUDGET_TEST_DOTENV"))
}

func TestLoadDotEnv_ExistingWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("BUDGET_TEST_DOTENV_KEEP=from-file\n"), 0o600))
	t.Setenv("BUDGET_TEST_DOTENV_KEEP", "from-env")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv("BUDGET_TEST_DOTENV_KEEP"))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("BUDGET_TEST_DIR", "/srv/budget")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "tilde only", in: "~", want: home},
		{name: "tilde prefix", in: "~/budget.db", want: filepath.Join(home, "budget.db")},
		{name: "env var", in: "$BUDGET_TEST_DIR/budget.db", want: "/srv/budget/budget.db"},
		{name: "absolute", in: "/var/budget.db", want: "/var/budget.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}
