package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/Veraticus/spice-budget/internal/common"
	"github.com/Veraticus/spice-budget/internal/sheets"
)

// LoadSheetsConfig builds the Google Sheets configuration. Values under the
// sheets.* keys (config file or BUDGET_SHEETS_* variables) win over the
// GOOGLE_SHEETS_* variables, which win over the defaults.
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	config := sheets.DefaultConfig()
	if err := config.LoadFromEnv(); err != nil && !errors.Is(err, sheets.ErrNoAuth) {
		return nil, err
	}

	setIfPresent := func(dst *string, key string) {
		if s := v.GetString(key); s != "" {
			*dst = s
		}
	}
	setIfPresent(&config.ClientID, "sheets.client_id")
	setIfPresent(&config.ClientSecret, "sheets.client_secret")
	setIfPresent(&config.RefreshToken, "sheets.refresh_token")
	setIfPresent(&config.SpreadsheetID, "sheets.spreadsheet_id")
	setIfPresent(&config.SpreadsheetName, "sheets.spreadsheet_name")
	setIfPresent(&config.TimeZone, "sheets.timezone")
	setIfPresent(&config.CurrencyPattern, "sheets.currency_pattern")
	if p := v.GetString("sheets.service_account_path"); p != "" {
		config.ServiceAccountPath = p
	}
	config.ServiceAccountPath = ExpandPath(config.ServiceAccountPath)

	if err := config.Validate(); err != nil {
		if errors.Is(err, sheets.ErrNoAuth) {
			return nil, fmt.Errorf("%w: %w", common.ErrMissingConfig, err)
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return &config, nil
}
