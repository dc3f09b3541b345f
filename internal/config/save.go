package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/sift/internal/atomicfile"
)

type persistedConfig struct {
	Schema   *string                  `toml:"schema,omitempty"`
	Database *string                  `toml:"database,omitempty"`
	LogLevel *string                  `toml:"log_level,omitempty"`
	Limits   *persistedLimitsSettings `toml:"limits,omitempty"`
	UI       *persistedUISettings     `toml:"ui,omitempty"`
}

type persistedLimitsSettings struct {
	Default *int `toml:"default,omitempty"`
	Max     *int `toml:"max,omitempty"`
}

type persistedUISettings struct {
	Accent    *string `toml:"accent,omitempty"`
	CodeTheme *string `toml:"code_theme,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func positivePtr(value int) *int {
	if value <= 0 {
		return nil
	}
	return &value
}

// SaveTo writes the config to a specific path atomically. Empty settings
// are omitted.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	out := persistedConfig{
		Schema:   nonEmptyPtr(cfg.Schema),
		Database: nonEmptyPtr(cfg.Database),
		LogLevel: nonEmptyPtr(cfg.LogLevel),
	}

	def, max := positivePtr(cfg.Limits.Default), positivePtr(cfg.Limits.Max)
	if def != nil || max != nil {
		out.Limits = &persistedLimitsSettings{Default: def, Max: max}
	}

	accent := nonEmptyPtr(cfg.UI.Accent)
	codeTheme := nonEmptyPtr(cfg.UI.CodeTheme)
	if accent != nil || codeTheme != nil {
		out.UI = &persistedUISettings{
			Accent:    accent,
			CodeTheme: codeTheme,
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

const defaultConfig = `# sift configuration

# Entity catalog (YAML)
# schema = "schema.yaml"

# SQLite record store used by 'sift import' and 'sift ancestor find'
# database = "sift.db"

# debug, info, warn, error or disabled
# log_level = "warn"

# Page size bounds for 'sift compile'
# [limits]
# default = 12
# max = 100

# Optional UI accent color (ANSI 0-255 or #RRGGBB) and markdown code theme.
# [ui]
# accent = "39"
# code_theme = "monokai"
`

// CreateDefault writes a commented default config at path unless a file
// already exists there. It reports whether a file was written.
func CreateDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := atomicfile.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}
