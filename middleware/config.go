package middleware

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/conduit-lang/jsonapi"
)

// Config represents the transport-level jsonapi configuration
type Config struct {
	// BaseURL prefixes generated links, e.g. "https://api.example.com".
	BaseURL string `mapstructure:"base_url"`
	// APIPrefix is prepended to resource paths, e.g. "/api/v1".
	APIPrefix string `mapstructure:"api_prefix"`
	// MaxBodySize caps request bodies in bytes.
	MaxBodySize int64 `mapstructure:"max_body_size"`
	// Casing configures the wire and internal field separators.
	Casing CasingConfig `mapstructure:"casing"`
}

// CasingConfig represents field-name casing configuration
type CasingConfig struct {
	WireSep     string `mapstructure:"wire_sep"`
	InternalSep string `mapstructure:"internal_sep"`
}

// Caser builds the field-name transform from the configuration.
func (c *Config) Caser() jsonapi.Caser {
	return jsonapi.Caser{WireSep: c.Casing.WireSep, InternalSep: c.Casing.InternalSep}
}

// Load loads the configuration from jsonapi.yml or jsonapi.yaml
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("base_url", "")
	v.SetDefault("api_prefix", "")
	v.SetDefault("max_body_size", 1<<20)
	v.SetDefault("casing.wire_sep", "-")
	v.SetDefault("casing.internal_sep", "_")

	// Set config name and paths
	v.SetConfigName("jsonapi")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Enable environment variable support
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
