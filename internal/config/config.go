package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ytget/cargo-manager/internal/platform"
	"github.com/ytget/cargo-manager/internal/registry"
	"github.com/ytget/cargo-manager/internal/search"
)

// Environment variables
const (
	EnvPrefix     = "CARGO_MANAGER"
	EnvConfigPath = "CARGO_MANAGER_CONFIG"
)

// Config holds settings that come from the config file and environment
// rather than the Options dialog.
type Config struct {
	Cargo    CargoConfig    `mapstructure:"cargo"`
	Registry RegistryConfig `mapstructure:"registry"`
	Search   SearchConfig   `mapstructure:"search"`
}

// CargoConfig holds cargo executable settings.
type CargoConfig struct {
	Path string `mapstructure:"path"`
}

// RegistryConfig holds package registry settings.
type RegistryConfig struct {
	URL       string        `mapstructure:"url"`
	Name      string        `mapstructure:"name"` // passed to cargo install --registry when set
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// SearchConfig holds search dispatcher settings.
type SearchConfig struct {
	Limit   int           `mapstructure:"limit"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultPath returns the config file used when neither a flag nor
// CARGO_MANAGER_CONFIG names one.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, platform.AppDirName, "config.toml")
}

// Load reads configuration from file and env. path overrides the file
// location; an explicitly named file must exist. Env var overrides use
// prefix CARGO_MANAGER_, e.g. CARGO_MANAGER_REGISTRY_URL.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("cargo.path", "cargo")
	v.SetDefault("registry.url", registry.DefaultBaseURL)
	v.SetDefault("registry.name", "")
	v.SetDefault("registry.user_agent", registry.DefaultUserAgent)
	v.SetDefault("registry.timeout", registry.DefaultTimeout)
	v.SetDefault("search.limit", search.DefaultLimit)
	v.SetDefault("search.timeout", search.DefaultTimeout)

	v.SetConfigType("toml")

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigPath)
		explicit = path != ""
	}
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if explicit || !missing {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.normalize()
	return c, nil
}

func (c *Config) normalize() {
	if strings.TrimSpace(c.Cargo.Path) == "" {
		c.Cargo.Path = "cargo"
	}
	if strings.TrimSpace(c.Registry.URL) == "" {
		c.Registry.URL = registry.DefaultBaseURL
	}
	c.Search.Limit = registry.ClampLimit(c.Search.Limit)
	if c.Search.Timeout < 0 {
		c.Search.Timeout = 0
	}
}

// Default returns the configuration used when nothing is configured
func Default() Config {
	c := Config{
		Cargo: CargoConfig{Path: "cargo"},
		Registry: RegistryConfig{
			URL:       registry.DefaultBaseURL,
			UserAgent: registry.DefaultUserAgent,
			Timeout:   registry.DefaultTimeout,
		},
		Search: SearchConfig{Limit: search.DefaultLimit, Timeout: search.DefaultTimeout},
	}
	return c
}
