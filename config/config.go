// Package config holds the kosyncd configuration, loaded with Viper from a
// TOML file and KOSYNCD_* environment variables.
package config

// Config represents the full kosyncd configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server" toml:"server"`
	Database     DatabaseConfig     `mapstructure:"database" toml:"database"`
	Registration RegistrationConfig `mapstructure:"registration" toml:"registration"`
	Log          LogConfig          `mapstructure:"log" toml:"log"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Port                int `mapstructure:"port" toml:"port"`
	ReadTimeoutSeconds  int `mapstructure:"read_timeout_seconds" toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" toml:"write_timeout_seconds"`
}

// DatabaseConfig configures the SQLite database
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path"`
}

// RegistrationConfig configures the /users/create policy.
// PerMinute is a per-client-IP rate limit; 0 disables limiting.
type RegistrationConfig struct {
	Disabled  bool `mapstructure:"disabled" toml:"disabled"`
	PerMinute int  `mapstructure:"per_minute" toml:"per_minute"`
}

// LogConfig configures log output
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json"`
}

// DefaultServerPort is the port the KOReader kosync plugin ships with for
// self-hosted servers.
const DefaultServerPort = 8437
