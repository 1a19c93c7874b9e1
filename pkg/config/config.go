// Package config loads layered configuration for the ambient stack around
// the crypto key factory: logging, metrics, the audit trail, and the
// plugin's negotiation defaults. It never governs the wire-level or
// registry semantics fixed by the builtin profile itself.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the root configuration structure.
//
// Configuration sources read by Load (in order of precedence, highest
// to lowest):
//  1. Environment variables (DDSCRYPTO_*)
//  2. Configuration file (YAML)
//  3. Default values
//
// Load does not read command-line flags.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics" yaml:"metrics"`
	Audit    AuditConfig    `mapstructure:"audit" yaml:"audit"`
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
}

// LoggingConfig holds level, format, and output settings in the shape of
// logger.Config. No command applies it: ddscryptoctl configures its
// logger from the --log-level and --log-format flags.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=DEBUG INFO WARN ERROR"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
	Output string `mapstructure:"output" yaml:"output"`
}

// MetricsConfig controls the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`
}

// AuditConfig controls the GORM-backed audit trail.
type AuditConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	DSN     string `mapstructure:"dsn" yaml:"dsn"`
}

// DefaultsConfig holds negotiation defaults. They are loaded and
// validated with the rest of the configuration, but neither the registry
// nor the CLI reads them.
type DefaultsConfig struct {
	// KeySizeBits must be 128 or 256. The key size of any given
	// registration is always resolved from the caller-supplied property
	// list, never from this configuration.
	KeySizeBits                int  `mapstructure:"key_size_bits" yaml:"key_size_bits" validate:"oneof=128 256"`
	OriginAuthenticationDefault bool `mapstructure:"origin_authentication_default" yaml:"origin_authentication_default"`
}

// DefaultConfig returns the built-in configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "text",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled:    false,
			ListenAddr: ":9090",
		},
		Audit: AuditConfig{
			Enabled: false,
			DSN:     "file::memory:?cache=shared",
		},
		Defaults: DefaultsConfig{
			KeySizeBits:                 256,
			OriginAuthenticationDefault: false,
		},
	}
}

// Load loads configuration from file, environment, and defaults.
//
// Parameters:
//   - configPath: path to a YAML config file; empty string skips file
//     loading and uses environment/defaults only.
//
// Returns the loaded and validated configuration, or an error naming the
// offending field.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	cfg := DefaultConfig()

	if configPath != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %q: %w", configPath, err)
		}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	} else {
		// Even with no file, environment variables can still override
		// defaults via AutomaticEnv + explicit binding below.
		applyEnvOverrides(v, cfg)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("DDSCRYPTO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
	}
}

func applyEnvOverrides(v *viper.Viper, cfg *Config) {
	if val := v.GetString("logging.level"); val != "" {
		cfg.Logging.Level = val
	}
	if val := v.GetString("logging.format"); val != "" {
		cfg.Logging.Format = val
	}
	if val := v.GetString("logging.output"); val != "" {
		cfg.Logging.Output = val
	}
	if v.IsSet("metrics.enabled") {
		cfg.Metrics.Enabled = v.GetBool("metrics.enabled")
	}
	if val := v.GetString("metrics.listen_addr"); val != "" {
		cfg.Metrics.ListenAddr = val
	}
	if v.IsSet("audit.enabled") {
		cfg.Audit.Enabled = v.GetBool("audit.enabled")
	}
	if val := v.GetString("audit.dsn"); val != "" {
		cfg.Audit.DSN = val
	}
}

var validate = validator.New()

// Validate checks the configuration's struct tags and returns a wrapped
// validator error on failure.
func Validate(cfg *Config) error {
	return validate.Struct(cfg)
}
