// Package config handles sift's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/aidanlsb/sift/internal/query"
	"github.com/aidanlsb/sift/internal/schema"
)

// DefaultDatabase is the record store used when none is configured.
const DefaultDatabase = "sift.db"

// Config represents the sift configuration.
type Config struct {
	// Schema is the path of the entity catalog file.
	Schema string `toml:"schema"`

	// Database is the path of the SQLite record store.
	Database string `toml:"database"`

	// LogLevel is the zerolog level name; empty keeps logging at warn.
	LogLevel string `toml:"log_level"`

	Limits LimitsConfig `toml:"limits"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// LimitsConfig bounds page sizes handed to the query compiler.
type LimitsConfig struct {
	Default int `toml:"default"`
	Max     int `toml:"max"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered markdown code blocks.
	CodeTheme string `toml:"code_theme"`
}

// SchemaPath returns the configured catalog path, or schema.yaml.
func (c *Config) SchemaPath() string {
	if strings.TrimSpace(c.Schema) != "" {
		return expandHome(c.Schema)
	}
	return schema.DefaultFileName
}

// DatabasePath returns the configured store path, or sift.db.
func (c *Config) DatabasePath() string {
	if strings.TrimSpace(c.Database) != "" {
		return expandHome(c.Database)
	}
	return DefaultDatabase
}

// QueryLimits converts the [limits] table. Unset values fall back to
// query.DefaultLimits inside the compiler.
func (c *Config) QueryLimits() query.Limits {
	return query.Limits{Default: c.Limits.Default, Max: c.Limits.Max}
}

// Validate reports settings that would otherwise fail later.
func (c *Config) Validate() error {
	if c.Limits.Default < 0 || c.Limits.Max < 0 {
		return fmt.Errorf("limits must not be negative")
	}
	limitMax := c.Limits.Max
	if limitMax == 0 {
		limitMax = query.DefaultLimits.Max
	}
	if c.Limits.Default > limitMax {
		return fmt.Errorf("limits.default (%d) exceeds limits.max (%d)", c.Limits.Default, limitMax)
	}
	if lvl := strings.TrimSpace(c.LogLevel); lvl != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(lvl)); err != nil {
			return fmt.Errorf("invalid log_level %q", c.LogLevel)
		}
	}
	return nil
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	md, err := toml.DecodeFile(path, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in config %s", undecoded[0].String(), path)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path:
// $XDG_CONFIG_HOME/sift/config.toml, then the OS config directory.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sift", "config.toml")
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "sift", "config.toml")
	}
	return filepath.Join(".", "config.toml")
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
