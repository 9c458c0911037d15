// Package difficulty provides the adaptive difficulty contract consumed by
// the drill engine, plus a local store-backed controller.
package difficulty

import "context"

// Config is the adaptive configuration the engine refreshes on each pool
// rebuild.
type Config struct {
	Level       int
	Label       string
	OptionCount int
}

// Controller is the contract the drill engine consumes. AdaptiveConfig
// failures fall back to level 1 / easy in the caller; the other calls are
// fire-and-forget with errors logged only.
type Controller interface {
	AdaptiveConfig(ctx context.Context, module string) (Config, error)
	Adjust(ctx context.Context, module string, recentAccuracy float64, avgResponseTimeSec float64) error
	RecordPerformance(ctx context.Context, module string, cumulativeAccuracy float64, avgResponseTimeSec float64, correctCount int, context map[string]any) error
}

// FallbackConfig is what the engine uses when the controller is unreachable.
func FallbackConfig() Config {
	return Config{Level: 1, Label: "easy", OptionCount: 3}
}
