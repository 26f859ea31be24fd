package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/limbo/habitgrid/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("HABITGRID_TEST_ADDR=:8081\nHABITGRID_TEST_TTL=90s\n"), 0o600))
	t.Setenv("HABITGRID_TEST_ADDR", "")
	os.Unsetenv("HABITGRID_TEST_ADDR")
	t.Setenv("HABITGRID_TEST_TTL", "")
	os.Unsetenv("HABITGRID_TEST_TTL")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8081", cfg.GetString("HABITGRID_TEST_ADDR"))
	ttl, err := cfg.GetDuration("HABITGRID_TEST_TTL", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, ttl)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("HABITGRID_TEST_ADDR", ":9090")
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.GetString("HABITGRID_TEST_ADDR"))
}

func TestTypedGetters(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	t.Setenv("HABITGRID_TEST_TTL", "")
	d, err := cfg.GetDuration("HABITGRID_TEST_TTL", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)

	t.Setenv("HABITGRID_TEST_TTL", "soon")
	_, err = cfg.GetDuration("HABITGRID_TEST_TTL", time.Minute)
	assert.Error(t, err)

	t.Setenv("HABITGRID_TEST_TZ", "Europe/Berlin")
	loc, err := cfg.GetLocation("HABITGRID_TEST_TZ")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())

	t.Setenv("HABITGRID_TEST_TZ", "Mars/Olympus")
	_, err = cfg.GetLocation("HABITGRID_TEST_TZ")
	assert.Error(t, err)

	t.Setenv("HABITGRID_TEST_ADDR", "")
	assert.Equal(t, ":8080", cfg.GetStringOr("HABITGRID_TEST_ADDR", ":8080"))
}
