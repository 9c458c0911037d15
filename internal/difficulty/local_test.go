package difficulty

import (
	"context"
	"errors"
	"testing"
)

type mockDifficultyRepo struct {
	levels map[string]int
	err    error
}

func newMockDifficultyRepo() *mockDifficultyRepo {
	return &mockDifficultyRepo{levels: make(map[string]int)}
}

func (m *mockDifficultyRepo) Level(_ context.Context, module string) (int, bool, error) {
	if m.err != nil {
		return 0, false, m.err
	}
	level, ok := m.levels[module]
	return level, ok, nil
}

func (m *mockDifficultyRepo) SaveLevel(_ context.Context, module string, level int) error {
	if m.err != nil {
		return m.err
	}
	m.levels[module] = level
	return nil
}

func TestAdaptiveConfigDefaultsToLevelOne(t *testing.T) {
	l := NewLocal(newMockDifficultyRepo())
	cfg, err := l.AdaptiveConfig(context.Background(), "rhythm")
	if err != nil {
		t.Fatalf("adaptive config: %v", err)
	}
	if cfg.Level != 1 || cfg.Label != "easy" || cfg.OptionCount != 2 {
		t.Errorf("config = %+v, want level 1 / easy / 2 options", cfg)
	}
}

func TestAdaptiveConfigLabels(t *testing.T) {
	repo := newMockDifficultyRepo()
	l := NewLocal(repo)
	ctx := context.Background()

	tests := []struct {
		level int
		label string
	}{
		{2, "easy"},
		{3, "medium"},
		{4, "medium"},
		{5, "hard"},
		{6, "hard"},
	}
	for _, tt := range tests {
		repo.levels["rhythm"] = tt.level
		cfg, err := l.AdaptiveConfig(ctx, "rhythm")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Label != tt.label || cfg.OptionCount != 3 {
			t.Errorf("level %d: config = %+v, want %s / 3 options", tt.level, cfg, tt.label)
		}
	}
}

func TestAdjustMovesLevel(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		start    int
		accuracy float64
		avgSec   float64
		want     int
	}{
		{"high accuracy raises", 2, 0.9, 3.0, 3},
		{"high accuracy but slow holds", 2, 0.9, 8.0, 2},
		{"middling accuracy holds", 2, 0.6, 3.0, 2},
		{"low accuracy lowers", 3, 0.3, 3.0, 2},
		{"raise clamps at max", 6, 1.0, 2.0, 6},
		{"lower clamps at min", 1, 0.0, 9.0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockDifficultyRepo()
			repo.levels["rhythm"] = tt.start
			l := NewLocal(repo)

			if err := l.Adjust(ctx, "rhythm", tt.accuracy, tt.avgSec); err != nil {
				t.Fatalf("adjust: %v", err)
			}
			if got := repo.levels["rhythm"]; got != tt.want {
				t.Errorf("level = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAdjustSurfacesStoreError(t *testing.T) {
	repo := newMockDifficultyRepo()
	repo.err = errors.New("db closed")
	l := NewLocal(repo)

	if err := l.Adjust(context.Background(), "rhythm", 1.0, 2.0); err == nil {
		t.Error("expected error from failing store")
	}
	if _, err := l.AdaptiveConfig(context.Background(), "rhythm"); err == nil {
		t.Error("expected error from failing store")
	}
}

func TestFallbackConfig(t *testing.T) {
	cfg := FallbackConfig()
	if cfg.Level != 1 || cfg.Label != "easy" {
		t.Errorf("fallback = %+v, want level 1 / easy", cfg)
	}
}
