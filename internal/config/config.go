// Package config provides configuration loading for the querybridge CLI and
// embedding hosts.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	// DataSource is the remote engine connection record.
	DataSource DataSource `mapstructure:"datasource"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// DataSource is the immutable connection record for one remote engine.
// Host is the only required field; every other field has a default applied
// when absent.
type DataSource struct {
	Host     string `mapstructure:"host"`
	Protocol string `mapstructure:"protocol"`
	Port     int    `mapstructure:"port"`
	Schema   string `mapstructure:"schema"`
	Catalog  string `mapstructure:"catalog"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	// Source is the client identifier passed to the engine with each session.
	Source string `mapstructure:"source"`

	// BlacklistedTableSchemas is a comma-separated list of schema names to
	// discard during schema discovery, on top of the built-in system schemas.
	BlacklistedTableSchemas string `mapstructure:"blacklisted_table_schemas"`

	// UserImpersonation sends the calling principal's email address as the
	// engine username instead of the configured one.
	UserImpersonation bool `mapstructure:"user_impersonation"`
}

// LoggingConfig holds query logging configuration.
type LoggingConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Format  string `mapstructure:"format"`
}

// DataSource defaults. The host collaborator validates presence of Host
// before the core is ever invoked; everything else falls back to these.
const (
	DefaultProtocol = "http"
	DefaultPort     = 8080
	DefaultSchema   = "default"
	DefaultCatalog  = "hive"
	DefaultUsername = "redash"
	DefaultSource   = "pyhive"
)

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		DataSource: DataSource{
			Protocol: DefaultProtocol,
			Port:     DefaultPort,
			Schema:   DefaultSchema,
			Catalog:  DefaultCatalog,
			Username: DefaultUsername,
			Source:   DefaultSource,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Format:  "json",
		},
	}
}

// ApplyDefaults fills zero-valued optional fields with their defaults.
func (d *DataSource) ApplyDefaults() {
	if d.Protocol == "" {
		d.Protocol = DefaultProtocol
	}
	if d.Port == 0 {
		d.Port = DefaultPort
	}
	if d.Schema == "" {
		d.Schema = DefaultSchema
	}
	if d.Catalog == "" {
		d.Catalog = DefaultCatalog
	}
	if d.Username == "" {
		d.Username = DefaultUsername
	}
	if d.Source == "" {
		d.Source = DefaultSource
	}
}

// Validate checks the invariants the core assumes.
func (d *DataSource) Validate() error {
	if d.Host == "" {
		return fmt.Errorf("config: datasource host is required")
	}
	return nil
}

// Load loads configuration from file and environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".querybridge"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("QUERYBRIDGE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.DataSource.ApplyDefaults()

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("datasource.protocol", DefaultProtocol)
	v.SetDefault("datasource.port", DefaultPort)
	v.SetDefault("datasource.schema", DefaultSchema)
	v.SetDefault("datasource.catalog", DefaultCatalog)
	v.SetDefault("datasource.username", DefaultUsername)
	v.SetDefault("datasource.source", DefaultSource)
	v.SetDefault("datasource.user_impersonation", false)
	v.SetDefault("logging.enabled", true)
	v.SetDefault("logging.format", "json")
}
