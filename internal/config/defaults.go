package config

import (
	_ "embed"
)

//go:embed defaults/apples.yaml
var defaultApplesYAML []byte

// DefaultApplesConfig returns the built-in apple game configuration.
func DefaultApplesConfig() ApplesConfig {
	return ApplesConfig{
		Grid: ApplesGrid{
			Width:    17,
			Height:   10,
			MinValue: 1,
			MaxValue: 9,
		},
		Rules: ApplesRules{
			TargetSum:   10,
			TimeLimit:   120,
			ScorePolicy: ScoreCleared,
		},
		Timer: ApplesTimer{
			WarningAt: 30,
			DangerAt:  10,
		},
	}
}
