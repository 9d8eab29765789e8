package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	Dir      string `mapstructure:"dir" validate:"required"`
	Database string `mapstructure:"database" validate:"required"`
	Backend  string `mapstructure:"backend" validate:"oneof=sqlite memory"`
	Salt     string `mapstructure:"salt" validate:"required"`
	LogLevel string `mapstructure:"log_level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Currency string `mapstructure:"currency"`
}

// DatabasePath is where the SQLite ledger lives. Absolute Database values are
// used as they are.
func (c *Config) DatabasePath() string {
	if filepath.IsAbs(c.Database) {
		return c.Database
	}
	return filepath.Join(c.Dir, c.Database)
}

// Overrides carries values set on the command line. Empty fields are ignored.
type Overrides struct {
	Dir      string
	Backend  string
	LogLevel string
}

// Load reads configuration from, in rising priority: defaults, bookit.toml in
// the ledger directory, a .env file in the working directory, BOOKIT_*
// environment variables and command-line overrides.
func Load(o Overrides) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("bookit")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("dir", defaultDir())
	v.SetDefault("database", "bookit.db")
	v.SetDefault("backend", BackendSQLite)
	v.SetDefault("salt", "bookit")
	v.SetDefault("log_level", "info")
	v.SetDefault("currency", "")

	if o.Dir != "" {
		v.Set("dir", o.Dir)
	}
	if o.Backend != "" {
		v.Set("backend", o.Backend)
	}
	if o.LogLevel != "" {
		v.Set("log_level", o.LogLevel)
	}

	v.SetConfigName("bookit")
	v.SetConfigType("toml")
	v.AddConfigPath(v.GetString("dir"))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Backend = strings.ToLower(cfg.Backend)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = func() func(*Config) error {
	vd := validator.New(validator.WithRequiredStructEnabled())
	return func(cfg *Config) error {
		if err := vd.Struct(cfg); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				f := verrs[0]
				return fmt.Errorf("invalid config: %s=%q fails %q", strings.ToLower(f.Field()), f.Value(), f.Tag())
			}
			return fmt.Errorf("invalid config: %w", err)
		}
		return nil
	}
}()

func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bookit"
	}
	return filepath.Join(home, ".bookit")
}
