package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/kosyncd/errors"
)

// Default returns a Config populated with defaults
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                DefaultServerPort,
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 10,
		},
		Database: DatabaseConfig{
			Path: "kosyncd.db",
		},
		Registration: RegistrationConfig{
			Disabled:  false,
			PerMinute: 6,
		},
		Log: LogConfig{
			JSON: false,
		},
	}
}

// WriteFile persists the configuration as TOML at the given path, creating
// parent directories as needed. Refuses to overwrite an existing file.
func (c *Config) WriteFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf("config file already exists at %s", path)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create config directory %s", dir)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}
	return nil
}
