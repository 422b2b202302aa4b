package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "weakest", cfg.Ordering)
	assert.False(t, cfg.Transposition)
	assert.Equal(t, "http://ws.arg.tech/e/dom", cfg.ExtensionServiceURL)
	assert.Equal(t, 10*time.Second, cfg.ExtensionServiceTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "ordering: last\ntransposition: true\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "last", cfg.Ordering)
	assert.True(t, cfg.Transposition)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "http://ws.arg.tech/e/dom", cfg.ExtensionServiceURL, "unset keys keep their default")
}

func TestLoadFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ordering: last\n"), 0o644))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("ordering", "weakest", "")
	require.NoError(t, fs.Set("ordering", "weakest"))

	cfg, err := Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, "weakest", cfg.Ordering, "an explicitly set flag beats the config file")
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
}
