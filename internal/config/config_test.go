package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/cargo-manager/internal/registry"
	"github.com/ytget/cargo-manager/internal/search"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
[cargo]
path = "/opt/rust/bin/cargo"

[registry]
url = "https://registry.example.com"
name = "corp"
user_agent = "corp-tools"
timeout = "5s"

[search]
limit = 500
timeout = "1m"
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/rust/bin/cargo", c.Cargo.Path)
	assert.Equal(t, "https://registry.example.com", c.Registry.URL)
	assert.Equal(t, "corp", c.Registry.Name)
	assert.Equal(t, "corp-tools", c.Registry.UserAgent)
	assert.Equal(t, 5*time.Second, c.Registry.Timeout)
	assert.Equal(t, registry.MaxPageSize, c.Search.Limit, "limit is clamped")
	assert.Equal(t, time.Minute, c.Search.Timeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "[registry]\nname = \"corp\"\n")
	t.Setenv(EnvConfigPath, path)
	t.Setenv("CARGO_MANAGER_REGISTRY_NAME", "other")
	t.Setenv("CARGO_MANAGER_SEARCH_LIMIT", "10")
	t.Setenv("CARGO_MANAGER_CARGO_PATH", "/usr/local/bin/cargo")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "other", c.Registry.Name)
	assert.Equal(t, 10, c.Search.Limit)
	assert.Equal(t, "/usr/local/bin/cargo", c.Cargo.Path)
	assert.Equal(t, search.DefaultTimeout, c.Search.Timeout)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := writeConfig(t, "[registry\nurl = ")
	_, err := Load(path)
	assert.Error(t, err)
}
