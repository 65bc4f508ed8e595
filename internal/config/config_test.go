package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	home := filepath.Join(t.TempDir(), "home")
	t.Setenv("HOME_DIR", home)

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:17995", c.HTTPAddr)
	require.Equal(t, "sqlite", c.DBDriver)
	require.Equal(t, filepath.Join(home, "paddlelabel.db"), c.DatabaseDSN)
	require.Equal(t, time.Hour, c.RunStatusTTL)
	require.Equal(t, 15*time.Second, c.ShutdownTimeout)
	require.DirExists(t, home)
	require.Same(t, c, Get())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOME_DIR", t.TempDir())
	t.Setenv("HTTP_ADDR", "0.0.0.0:9000")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("RUN_STATUS_TTL", "5m")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:9000", c.HTTPAddr)
	require.Equal(t, "json", c.LogFormat)
	require.Equal(t, 5*time.Minute, c.RunStatusTTL)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("HOME_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "loud")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_MySQLNeedsDSN(t *testing.T) {
	t.Setenv("HOME_DIR", t.TempDir())
	t.Setenv("DB_DRIVER", "mysql")
	_, err := Load()
	require.ErrorContains(t, err, "DATABASE_DSN")
}
