// Package config provides YAML-based game configuration loading and
// difficulty presets for the arcade platform.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Validate for configurations the game
// cannot be played with.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// ScorePolicy decides how many points a successful clear is worth.
type ScorePolicy string

const (
	// ScoreCleared awards one point per tile actually removed.
	ScoreCleared ScorePolicy = "cleared"
	// ScoreSelected awards one point per selected cell, empty ones included.
	ScoreSelected ScorePolicy = "selected"
)

// ApplesConfig contains all configuration for the apple game.
type ApplesConfig struct {
	Grid  ApplesGrid  `yaml:"grid"`
	Rules ApplesRules `yaml:"rules"`
	Timer ApplesTimer `yaml:"timer"`
}

// ApplesGrid defines the board dimensions and tile value range.
type ApplesGrid struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	MinValue int `yaml:"min_value"`
	MaxValue int `yaml:"max_value"`
}

// ApplesRules defines what counts as a match and how it is scored.
type ApplesRules struct {
	TargetSum   int         `yaml:"target_sum"`
	TimeLimit   int         `yaml:"time_limit"` // seconds
	ScorePolicy ScorePolicy `yaml:"score_policy"`
}

// ApplesTimer defines when the countdown is shown as urgent.
type ApplesTimer struct {
	WarningAt int `yaml:"warning_at"` // seconds remaining
	DangerAt  int `yaml:"danger_at"`  // seconds remaining
}

// TotalTiles returns the number of tiles on a fresh board.
func (c ApplesConfig) TotalTiles() int {
	return c.Grid.Width * c.Grid.Height
}

// Validate reports whether the configuration describes a playable game.
func (c ApplesConfig) Validate() error {
	switch {
	case c.Grid.Width <= 0 || c.Grid.Height <= 0:
		return fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", ErrInvalidConfig, c.Grid.Width, c.Grid.Height)
	case c.Grid.MinValue < 1 || c.Grid.MaxValue > 9 || c.Grid.MinValue > c.Grid.MaxValue:
		return fmt.Errorf("%w: tile values must satisfy 1 <= min <= max <= 9, got [%d,%d]", ErrInvalidConfig, c.Grid.MinValue, c.Grid.MaxValue)
	case c.Rules.TargetSum <= 0:
		return fmt.Errorf("%w: target sum must be positive", ErrInvalidConfig)
	case c.Rules.TimeLimit <= 0:
		return fmt.Errorf("%w: time limit must be positive", ErrInvalidConfig)
	}

	switch c.Rules.ScorePolicy {
	case ScoreCleared, ScoreSelected:
	default:
		return fmt.Errorf("%w: unknown score policy %q", ErrInvalidConfig, c.Rules.ScorePolicy)
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// TimeLimitForPreset returns the countdown length in seconds for a preset.
// The second result is false for presets that keep the configured limit.
func TimeLimitForPreset(preset DifficultyPreset) (int, bool) {
	switch preset {
	case DifficultyEasy:
		return 180, true
	case DifficultyNormal:
		return 120, true
	case DifficultyHard:
		return 90, true
	default:
		return 0, false
	}
}

// IsFixedPreset returns true if the preset leaves the config untouched.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
