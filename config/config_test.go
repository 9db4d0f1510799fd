package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Read(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "UTC", cfg.TimeZone)
	assert.True(t, cfg.ProgressBar)
}

func TestRead_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "starql.yml")
	require.NoError(t, os.WriteFile(path, []byte("timezone: Europe/Warsaw\nprogressBar: false\ndebug: true\n"), 0644))

	cfg, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Warsaw", cfg.TimeZone)
	assert.False(t, cfg.ProgressBar)
	assert.True(t, cfg.Debug)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Warsaw", loc.String())
}

func TestRead_PartialFileKeepsRemainingDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "starql.yml")
	require.NoError(t, os.WriteFile(path, []byte("debug: true\n"), 0644))

	cfg, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "UTC", cfg.TimeZone)
	assert.True(t, cfg.Debug)
}

func TestRead_InvalidYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "starql.yml")
	require.NoError(t, os.WriteFile(path, []byte("timezone: [\n"), 0644))

	_, err := Read(path)
	require.Error(t, err)
}

func TestLocation_Unknown(t *testing.T) {
	cfg := &Config{TimeZone: "Mars/Olympus"}
	_, err := cfg.Location()
	require.Error(t, err)
}
