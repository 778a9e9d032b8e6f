package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oauthConfig() Config {
	c := DefaultConfig()
	c.ClientID, c.ClientSecret, c.RefreshToken = "client", "secret", "refresh"
	return c
}

func serviceConfig() Config {
	c := DefaultConfig()
	c.ServiceAccountPath = "/keys/budget.json"
	return c
}

func TestConfig_Auth(t *testing.T) {
	partial := DefaultConfig()
	partial.ClientID = "client"

	both := oauthConfig()
	both.ServiceAccountPath = "/keys/budget.json"

	assert.Equal(t, AuthNone, DefaultConfig().Auth())
	assert.Equal(t, AuthNone, partial.Auth())
	assert.Equal(t, AuthOAuth, oauthConfig().Auth())
	assert.Equal(t, AuthServiceAccount, serviceConfig().Auth())
	assert.Equal(t, authBoth, both.Auth())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		base   func() Config
		errMsg string
	}{
		{name: "oauth", base: oauthConfig},
		{name: "service account", base: serviceConfig},
		{name: "zero retry delay", base: serviceConfig, modify: func(c *Config) { c.RetryDelay = 0 }},
		{name: "no credentials", base: DefaultConfig, errMsg: "no authentication method configured"},
		{
			name:   "both credential sets",
			base:   oauthConfig,
			modify: func(c *Config) { c.ServiceAccountPath = "/keys/budget.json" },
			errMsg: "multiple authentication methods",
		},
		{name: "zero batch", base: serviceConfig, modify: func(c *Config) { c.BatchSize = 0 }, errMsg: "batch size must be positive"},
		{name: "negative retries", base: serviceConfig, modify: func(c *Config) { c.RetryAttempts = -1 }, errMsg: "retry attempts cannot be negative"},
		{name: "negative delay", base: serviceConfig, modify: func(c *Config) { c.RetryDelay = -time.Second }, errMsg: "retry delay cannot be negative"},
		{name: "bad time zone", base: serviceConfig, modify: func(c *Config) { c.TimeZone = "Mars/Olympus" }, errMsg: `unknown time zone "Mars/Olympus"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.base()
			if tt.modify != nil {
				tt.modify(&c)
			}
			err := c.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_ValidateReportsEveryProblem(t *testing.T) {
	c := DefaultConfig()
	c.BatchSize = 0
	err := c.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoAuth)
	assert.Contains(t, err.Error(), "batch size must be positive")
}

func TestConfig_LoadFromEnv(t *testing.T) {
	clearEnv := func(t *testing.T) {
		t.Helper()
		c := Config{}
		for key := range c.envKeys() {
			t.Setenv(key, "")
		}
	}

	t.Run("oauth credentials", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "client")
		t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "secret")
		t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "refresh")
		t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "sheet-1")
		t.Setenv("GOOGLE_SHEETS_SPREADSHEET_NAME", "Household")

		c := DefaultConfig()
		require.NoError(t, c.LoadFromEnv())
		assert.Equal(t, AuthOAuth, c.Auth())
		assert.Equal(t, "sheet-1", c.SpreadsheetID)
		assert.Equal(t, "Household", c.SpreadsheetName)
	})

	t.Run("service account keeps default name", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "/keys/budget.json")

		c := DefaultConfig()
		require.NoError(t, c.LoadFromEnv())
		assert.Equal(t, AuthServiceAccount, c.Auth())
		assert.Equal(t, DefaultSpreadsheetName, c.SpreadsheetName)
	})

	t.Run("nothing set", func(t *testing.T) {
		clearEnv(t)
		c := DefaultConfig()
		assert.ErrorIs(t, c.LoadFromEnv(), ErrNoAuth)
	})
}
