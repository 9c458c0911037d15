// Package config loads session settings from a TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user-tunable session settings.
type Config struct {
	Session SessionConfig `toml:"session"`
	Tempo   TempoConfig   `toml:"tempo"`
	Advance AdvanceConfig `toml:"advance"`
	Reward  RewardConfig  `toml:"reward"`
}

// SessionConfig shapes question presentation.
type SessionConfig struct {
	Signature       string `toml:"signature"`
	Level           int    `toml:"level"`
	AutoPlay        bool   `toml:"auto_play"`
	AutoPlayDelayMs int    `toml:"auto_play_delay_ms"`
}

// TempoConfig bounds the tempo adapter.
type TempoConfig struct {
	Start int `toml:"start"`
	Min   int `toml:"min"`
	Max   int `toml:"max"`
	Step  int `toml:"step"`
}

// AdvanceConfig sets the feedback delays before the next question.
type AdvanceConfig struct {
	CorrectMs   int `toml:"correct_ms"`
	IncorrectMs int `toml:"incorrect_ms"`
}

// RewardConfig sets the base XP amount.
type RewardConfig struct {
	Base int `toml:"base"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		Session: SessionConfig{
			Signature:       "4/4",
			Level:           1,
			AutoPlay:        true,
			AutoPlayDelayMs: 600,
		},
		Tempo: TempoConfig{
			Start: 80,
			Min:   60,
			Max:   160,
			Step:  5,
		},
		Advance: AdvanceConfig{
			CorrectMs:   1500,
			IncorrectMs: 2500,
		},
		Reward: RewardConfig{
			Base: 10,
		},
	}
}

// Load reads a TOML config from path, layered over the defaults. A missing
// file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("stat config: %w", err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// DefaultPath returns the XDG config file location.
func DefaultPath() string {
	return filepath.Join(xdgConfigHome(), "rhythmiz", "config.toml")
}

func xdgConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}
