package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadApples loads the apple game configuration.
// Search order: customPath -> ~/.arcade/configs/apples.yaml -> ./configs/apples.yaml -> embedded default
//
// Files are decoded on top of DefaultApplesConfig, so a file only needs the
// keys it changes.
func LoadApples(customPath string) (ApplesConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultApplesConfig(), fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := decodeApples(data)
		if err != nil {
			return DefaultApplesConfig(), fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("apples.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := decodeApples(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "apples.yaml")); err == nil {
		if cfg, err := decodeApples(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := decodeApples(defaultApplesYAML)
	if err != nil {
		return DefaultApplesConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// decodeApples parses YAML over the defaults and validates the result.
func decodeApples(data []byte) (ApplesConfig, error) {
	cfg := DefaultApplesConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}

// ApplyApplesPreset modifies the config based on a difficulty preset.
func ApplyApplesPreset(cfg *ApplesConfig, preset DifficultyPreset) {
	if IsFixedPreset(preset) {
		return
	}
	if limit, ok := TimeLimitForPreset(preset); ok {
		cfg.Rules.TimeLimit = limit
	}
}
