// Package config loads mediaplan CLI configuration from config files and
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mediaplanschema/mediaplan-go/internal/schema"
)

// Configuration holds the mediaplan CLI settings.
type Configuration struct {
	// DefaultTargetVersion is the version migrate targets when --to is not
	// given. Empty means the current schema version.
	DefaultTargetVersion string `koanf:"default_target_version"`
	// StrictWarnings makes validation warnings fail the command.
	StrictWarnings bool   `koanf:"strict_warnings"`
	OutputFormat   string `koanf:"output_format" validate:"oneof=text json"`
	ShowProgress   bool   `koanf:"show_progress"`
	NoColor        bool   `koanf:"no_color"`
	// Indent is the number of spaces used when writing migrated documents.
	Indent int `koanf:"indent" validate:"min=0,max=8"`
}

// Load loads configuration from global, local, and environment sources.
// Priority: environment variables > local config > global config > defaults.
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		globalPath := filepath.Join(homeDir, ".mediaplan", "config.json")
		if _, err := os.Stat(globalPath); err == nil {
			if err := k.Load(file.Provider(globalPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load global config: %w", err)
			}
		}
	}

	if localConfigPath != "" {
		if _, err := os.Stat(localConfigPath); err == nil {
			if err := k.Load(file.Provider(localConfigPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load local config: %w", err)
			}
		}
	}

	k.Load(env.Provider("MEDIAPLAN_", ".", envTransform), nil)

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.DefaultTargetVersion != "" {
		if _, err := schema.ParseVersion(cfg.DefaultTargetVersion); err != nil {
			return nil, fmt.Errorf("invalid default_target_version: %w", err)
		}
	}

	// Honor the conventional NO_COLOR variable alongside the config key.
	if os.Getenv("NO_COLOR") != "" {
		cfg.NoColor = true
	}

	return &cfg, nil
}

// envTransform converts environment variable names to config keys.
// Example: MEDIAPLAN_STRICT_WARNINGS -> strict_warnings
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "MEDIAPLAN_"))
}
