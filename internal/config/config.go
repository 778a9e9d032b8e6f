package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Veraticus/spice-budget/internal/api"
	"github.com/Veraticus/spice-budget/internal/common"
	"github.com/Veraticus/spice-budget/internal/notify"
	"github.com/Veraticus/spice-budget/internal/storage"
)

// EnvPrefix is prepended to every environment override, e.g. BUDGET_STORAGE_BACKEND.
const EnvPrefix = "BUDGET"

// AppName names the config and data directories.
const AppName = "budget"

// Config is the typed view of the viper settings.
type Config struct {
	Logging LoggingConfig
	AMQP    AMQPConfig
	API     APIConfig
	Storage storage.Config
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// AMQPConfig enables change notifications when URL is set.
type AMQPConfig struct {
	URL      string
	Exchange string
}

// Enabled reports whether notifications should be published.
func (c AMQPConfig) Enabled() bool {
	return c.URL != ""
}

// APIConfig configures the HTTP server.
type APIConfig struct {
	Addr string
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("storage.backend", storage.BackendSQLite)
	v.SetDefault("storage.path", filepath.Join(DataDir(), "budget.db"))
	v.SetDefault("storage.dir", filepath.Join(DataDir(), "snapshots"))
	v.SetDefault("storage.firestore.collection", "snapshots")
	v.SetDefault("amqp.exchange", notify.DefaultExchange)
	v.SetDefault("api.addr", api.DefaultAddr)
}

// Init points v at the config file and the environment. An explicit file
// must exist; the default location may be absent.
func Init(v *viper.Viper, file string) error {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(ExpandPath(file))
	} else {
		v.AddConfigPath(ExpandPath(ConfigDir()))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		path := ExpandPath(f)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// Load reads the typed configuration from v and validates it.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		AMQP: AMQPConfig{
			URL:      v.GetString("amqp.url"),
			Exchange: v.GetString("amqp.exchange"),
		},
		API: APIConfig{
			Addr: v.GetString("api.addr"),
		},
		Storage: storage.Config{
			Backend:             strings.ToLower(v.GetString("storage.backend")),
			Path:                ExpandPath(v.GetString("storage.path")),
			Dir:                 ExpandPath(v.GetString("storage.dir")),
			FirestoreProject:    v.GetString("storage.firestore.project"),
			FirestoreCollection: v.GetString("storage.firestore.collection"),
			DynamoDB: storage.DynamoConfig{
				Table:    v.GetString("storage.dynamodb.table"),
				Region:   v.GetString("storage.dynamodb.region"),
				Endpoint: v.GetString("storage.dynamodb.endpoint"),
			},
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	var errs []error
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf("%w: log format %q", common.ErrInvalidConfig, c.Logging.Format))
	}
	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err))
	}
	if c.AMQP.Enabled() && !strings.HasPrefix(c.AMQP.URL, "amqp://") && !strings.HasPrefix(c.AMQP.URL, "amqps://") {
		errs = append(errs, fmt.Errorf("%w: amqp.url must start with amqp:// or amqps://", common.ErrInvalidConfig))
	}
	if c.API.Addr == "" {
		errs = append(errs, fmt.Errorf("%w: api.addr is empty", common.ErrInvalidConfig))
	}
	return errors.Join(errs...)
}
