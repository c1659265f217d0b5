// Package config resolves ccgen settings from flags, environment and config files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/Veraticus/ccgen/internal/common"
	"github.com/Veraticus/ccgen/internal/engine"
	"github.com/Veraticus/ccgen/internal/formatter"
	"github.com/Veraticus/ccgen/internal/generator"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultBalance is the balance range the form starts with.
const DefaultBalance = "500-1000"

// Config holds the resolved application settings.
type Config struct {
	API      APIConfig
	Defaults FormDefaults
	Database DatabaseConfig
	Server   ServerConfig
}

// APIConfig configures the remote generation API client.
type APIConfig struct {
	BaseURL       string
	Timeout       time.Duration
	Retries       int
	RatePerSecond float64
}

// FormDefaults are the values the form starts with and resets to.
type FormDefaults struct {
	Format   formatter.Tag
	Balance  string
	Quantity int
}

// DatabaseConfig locates the history database.
type DatabaseConfig struct {
	Path string
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr    string
	CertDir string
	TLS     bool
}

// SetDefaults registers default values for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("database.path", "$HOME/.local/share/ccgen/ccgen.db")
	v.SetDefault("api.base_url", generator.DefaultBaseURL)
	v.SetDefault("api.timeout", generator.DefaultTimeout)
	v.SetDefault("api.retries", 1)
	v.SetDefault("api.rate_per_second", 2.0)
	v.SetDefault("defaults.quantity", engine.DefaultQuantity)
	v.SetDefault("defaults.format", string(formatter.Pipe))
	v.SetDefault("defaults.balance", DefaultBalance)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.tls", false)
	v.SetDefault("server.cert_dir", "$HOME/.config/ccgen/certs")
}

// Load resolves the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom resolves the configuration from v, applying defaults first.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		API: APIConfig{
			BaseURL:       v.GetString("api.base_url"),
			Timeout:       v.GetDuration("api.timeout"),
			Retries:       v.GetInt("api.retries"),
			RatePerSecond: v.GetFloat64("api.rate_per_second"),
		},
		Defaults: FormDefaults{
			Quantity: v.GetInt("defaults.quantity"),
			Format:   formatter.ParseTag(v.GetString("defaults.format")),
			Balance:  v.GetString("defaults.balance"),
		},
		Database: DatabaseConfig{
			Path: ExpandPath(v.GetString("database.path")),
		},
		Server: ServerConfig{
			Addr:    v.GetString("server.addr"),
			TLS:     v.GetBool("server.tls"),
			CertDir: ExpandPath(v.GetString("server.cert_dir")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings for values the application cannot run with.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url", common.ErrMissingConfig)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", common.ErrInvalidConfig)
	}
	if c.API.Retries < 1 {
		return fmt.Errorf("%w: api.retries must be at least 1", common.ErrInvalidConfig)
	}
	if c.API.RatePerSecond < 0 {
		return fmt.Errorf("%w: api.rate_per_second cannot be negative", common.ErrInvalidConfig)
	}
	if c.Defaults.Quantity < 1 || c.Defaults.Quantity > engine.MaxQuantity {
		return fmt.Errorf("%w: defaults.quantity must be between 1 and %d", common.ErrInvalidConfig, engine.MaxQuantity)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	return nil
}

// LoadDotEnv loads environment variables from the given .env files. Missing
// files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, file := range files {
		if err := godotenv.Load(ExpandPath(file)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
		slog.Debug("Loaded environment file", "path", file)
	}
	return nil
}
