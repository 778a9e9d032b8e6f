// Package sheets publishes the monthly budget report to a Google spreadsheet.
package sheets

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// DefaultSpreadsheetName names the spreadsheet created when no id is configured.
const DefaultSpreadsheetName = "Budget Report"

// ErrNoAuth is returned when neither OAuth2 nor service account credentials are set.
var ErrNoAuth = errors.New("no authentication method configured")

// AuthMethod is how the writer obtains Google credentials.
type AuthMethod int

// Authentication methods, detected from which Config fields are filled.
const (
	AuthNone AuthMethod = iota
	AuthOAuth
	AuthServiceAccount
	authBoth
)

// Config holds the configuration for the Google Sheets writer.
type Config struct {
	// OAuth2 client with a refresh token from "budget report sheets auth".
	ClientID     string
	ClientSecret string
	RefreshToken string
	// ServiceAccountPath is a JSON key file; exclusive with OAuth2.
	ServiceAccountPath string

	// SpreadsheetID targets an existing spreadsheet; empty creates one.
	SpreadsheetID   string
	SpreadsheetName string
	TimeZone        string
	// CurrencyPattern is the number format applied to money columns.
	CurrencyPattern string

	BatchSize        int
	RetryAttempts    int
	RetryDelay       time.Duration
	EnableFormatting bool
}

// DefaultConfig returns the writer defaults without credentials.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName:  DefaultSpreadsheetName,
		TimeZone:         "UTC",
		CurrencyPattern:  "#,##0.00",
		BatchSize:        1000,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
		EnableFormatting: true,
	}
}

// envKeys maps GOOGLE_SHEETS_* variables onto the fields they fill.
func (c *Config) envKeys() map[string]*string {
	return map[string]*string{
		"GOOGLE_SHEETS_CLIENT_ID":            &c.ClientID,
		"GOOGLE_SHEETS_CLIENT_SECRET":        &c.ClientSecret,
		"GOOGLE_SHEETS_REFRESH_TOKEN":        &c.RefreshToken,
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH": &c.ServiceAccountPath,
		"GOOGLE_SHEETS_SPREADSHEET_ID":       &c.SpreadsheetID,
		"GOOGLE_SHEETS_SPREADSHEET_NAME":     &c.SpreadsheetName,
	}
}

// LoadFromEnv fills credentials and spreadsheet settings from GOOGLE_SHEETS_*
// variables. It returns ErrNoAuth when no complete credential set results.
func (c *Config) LoadFromEnv() error {
	for key, dst := range c.envKeys() {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	if c.SpreadsheetName == "" {
		c.SpreadsheetName = DefaultSpreadsheetName
	}
	if c.Auth() == AuthNone {
		return fmt.Errorf("missing Google Sheets authentication: %w", ErrNoAuth)
	}
	return nil
}

// Auth reports which credential set is complete. Partial OAuth2 credentials
// count as none.
func (c Config) Auth() AuthMethod {
	oauth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	service := c.ServiceAccountPath != ""
	switch {
	case oauth && service:
		return authBoth
	case oauth:
		return AuthOAuth
	case service:
		return AuthServiceAccount
	}
	return AuthNone
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error
	switch c.Auth() {
	case AuthNone:
		errs = append(errs, ErrNoAuth)
	case authBoth:
		errs = append(errs, errors.New("multiple authentication methods configured; use either OAuth2 or service account"))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, errors.New("batch size must be positive"))
	}
	if c.RetryAttempts < 0 {
		errs = append(errs, errors.New("retry attempts cannot be negative"))
	}
	if c.RetryDelay < 0 {
		errs = append(errs, errors.New("retry delay cannot be negative"))
	}
	if c.TimeZone != "" {
		if _, err := time.LoadLocation(c.TimeZone); err != nil {
			errs = append(errs, fmt.Errorf("unknown time zone %q", c.TimeZone))
		}
	}
	return errors.Join(errs...)
}
