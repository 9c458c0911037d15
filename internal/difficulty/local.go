package difficulty

import (
	"context"
	"fmt"

	"github.com/abhisek/rhythmiz/internal/store"
)

const (
	MinLevel = 1
	MaxLevel = 6

	// Adjust raises the level when recent accuracy is at or above
	// raiseAccuracy and the learner is answering briskly, and lowers it when
	// accuracy falls to lowerAccuracy or below.
	raiseAccuracy  = 0.85
	lowerAccuracy  = 0.4
	briskAnswerSec = 6.0
)

// Local is a store-backed Controller with simple accuracy-banded level
// moves.
type Local struct {
	repo store.DifficultyRepo
}

// NewLocal creates a local controller persisting its level per module.
func NewLocal(repo store.DifficultyRepo) *Local {
	return &Local{repo: repo}
}

func (l *Local) AdaptiveConfig(ctx context.Context, module string) (Config, error) {
	level := MinLevel
	if l.repo != nil {
		stored, ok, err := l.repo.Level(ctx, module)
		if err != nil {
			return Config{}, fmt.Errorf("load level: %w", err)
		}
		if ok {
			level = clampLevel(stored)
		}
	}
	return configForLevel(level), nil
}

func (l *Local) Adjust(ctx context.Context, module string, recentAccuracy float64, avgResponseTimeSec float64) error {
	if l.repo == nil {
		return nil
	}
	level := MinLevel
	if stored, ok, err := l.repo.Level(ctx, module); err != nil {
		return fmt.Errorf("load level: %w", err)
	} else if ok {
		level = clampLevel(stored)
	}

	next := level
	switch {
	case recentAccuracy >= raiseAccuracy && avgResponseTimeSec <= briskAnswerSec:
		next = clampLevel(level + 1)
	case recentAccuracy <= lowerAccuracy:
		next = clampLevel(level - 1)
	}
	if next == level {
		return nil
	}
	if err := l.repo.SaveLevel(ctx, module, next); err != nil {
		return fmt.Errorf("save level: %w", err)
	}
	return nil
}

func (l *Local) RecordPerformance(_ context.Context, _ string, _ float64, _ float64, _ int, _ map[string]any) error {
	// Cumulative performance feeds no local model; the activity event log
	// already captures per-evaluation detail.
	return nil
}

func configForLevel(level int) Config {
	cfg := Config{Level: level, OptionCount: 3}
	switch {
	case level <= 2:
		cfg.Label = "easy"
	case level <= 4:
		cfg.Label = "medium"
	default:
		cfg.Label = "hard"
	}
	if level == MinLevel {
		cfg.OptionCount = 2
	}
	return cfg
}

func clampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}
