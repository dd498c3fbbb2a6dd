package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/kosyncd/errors"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.read_timeout_seconds", 10)
	v.SetDefault("server.write_timeout_seconds", 10)

	v.SetDefault("database.path", "kosyncd.db")

	v.SetDefault("registration.disabled", false)
	v.SetDefault("registration.per_minute", 6)

	v.SetDefault("log.json", false)
}

// Load reads the kosyncd configuration using Viper.
// Precedence (lowest to highest): defaults < config file < KOSYNCD_* env vars.
// The config file kosyncd.toml is searched in the working directory,
// ~/.kosyncd, and /etc/kosyncd. A missing file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("kosyncd")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".kosyncd"))
	}
	v.AddConfigPath("/etc/kosyncd")

	v.SetEnvPrefix("KOSYNCD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	return unmarshal(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Newf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeoutSeconds <= 0 {
		return errors.Newf("server.read_timeout_seconds must be > 0, got %d", c.Server.ReadTimeoutSeconds)
	}
	if c.Server.WriteTimeoutSeconds <= 0 {
		return errors.Newf("server.write_timeout_seconds must be > 0, got %d", c.Server.WriteTimeoutSeconds)
	}
	if c.Database.Path == "" {
		return errors.New("database.path cannot be empty")
	}
	if c.Registration.PerMinute < 0 {
		return errors.Newf("registration.per_minute must be >= 0, got %d", c.Registration.PerMinute)
	}
	return nil
}
