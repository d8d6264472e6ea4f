package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServer_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadServer(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultServer(), cfg)
}

func TestLoadServer_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 9090
log_level: debug
database:
  host: db.internal
  dbname: sheets
`), 0o644))

	cfg, err := LoadServer(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "sheets", cfg.Database.DBName)
	assert.Equal(t, "0.0.0.0", cfg.BindAddress, "untouched keys keep defaults")
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoadServer_EnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9090\n"), 0o644))

	t.Setenv("CHARSHEET_PORT", "7070")
	t.Setenv("CHARSHEET_DB_PASSWORD", "hunter2")

	cfg, err := LoadServer(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "hunter2", cfg.Database.Password)
}

func TestLoadServer_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [not a number"), 0o644))

	_, err := LoadServer(path)
	assert.Error(t, err)
}

func TestServer_Level(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"garbage", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := Server{LogLevel: tt.in}
		assert.Equal(t, tt.want, cfg.Level(), "level %q", tt.in)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "localhost", Port: 5432,
		User: "u", Password: "p", DBName: "sheets", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://u:p@localhost:5432/sheets?sslmode=disable", d.DSN())
}
