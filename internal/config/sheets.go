package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/Veraticus/budget-manager/internal/sheets"
)

// LoadSheetsConfig loads Google Sheets configuration with this precedence:
// viper (config file or BUDGET_SHEETS_* env vars), then GOOGLE_SHEETS_* env vars,
// then defaults.
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	if s := v.GetString("sheets.service_account_path"); s != "" {
		cfg.ServiceAccountPath = ExpandPath(s)
	}
	if s := v.GetString("sheets.client_id"); s != "" {
		cfg.ClientID = s
	}
	if s := v.GetString("sheets.client_secret"); s != "" {
		cfg.ClientSecret = s
	}
	if s := v.GetString("sheets.refresh_token"); s != "" {
		cfg.RefreshToken = s
	}
	if s := v.GetString("sheets.spreadsheet_id"); s != "" {
		cfg.SpreadsheetID = s
	}
	if s := v.GetString("sheets.spreadsheet_name"); s != "" {
		cfg.SpreadsheetName = s
	}
	if s := v.GetString("sheets.time_zone"); s != "" {
		cfg.TimeZone = s
	}
	if s := v.GetString("sheets.currency_pattern"); s != "" {
		cfg.CurrencyPattern = s
	}

	if cfg.ServiceAccountPath == "" {
		cfg.ServiceAccountPath = ExpandPath(os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"))
	}
	if cfg.ClientID == "" {
		cfg.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if cfg.ClientSecret == "" {
		cfg.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if cfg.RefreshToken == "" {
		cfg.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	}
	if cfg.SpreadsheetID == "" {
		cfg.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")
	}
	if s := os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"); s != "" && v.GetString("sheets.spreadsheet_name") == "" {
		cfg.SpreadsheetName = s
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
