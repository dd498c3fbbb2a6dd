package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "kosyncd.db", cfg.Database.Path)
	assert.False(t, cfg.Registration.Disabled)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kosyncd.toml")
	content := `
[server]
port = 9000

[database]
path = "/var/lib/kosyncd/state.db"

[registration]
disabled = true
per_minute = 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/var/lib/kosyncd/state.db", cfg.Database.Path)
	assert.True(t, cfg.Registration.Disabled)
	assert.Equal(t, 2, cfg.Registration.PerMinute)
	// Unset sections keep defaults
	assert.Equal(t, 10, cfg.Server.ReadTimeoutSeconds)
	assert.False(t, cfg.Log.JSON)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("KOSYNCD_REGISTRATION_DISABLED", "true")
	t.Setenv("KOSYNCD_SERVER_PORT", "8888")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Registration.Disabled)
	assert.Equal(t, 8888, cfg.Server.Port)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"negative port", func(c *Config) { c.Server.Port = -1 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"empty db path", func(c *Config) { c.Database.Path = "" }},
		{"negative rate limit", func(c *Config) { c.Registration.PerMinute = -1 }},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeoutSeconds = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "kosyncd.toml")

	cfg := Default()
	cfg.Server.Port = 9999
	require.NoError(t, cfg.WriteFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, loaded.Server.Port)

	// Second write must refuse to clobber
	assert.Error(t, cfg.WriteFile(path))
}
