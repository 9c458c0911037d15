// Package pool builds weighted question pools and samples from them.
package pool

import "github.com/abhisek/rhythmiz/internal/catalog"

// Level bounds for pool filtering. Levels outside the range are clamped.
const (
	MinLevel = 1
	MaxLevel = 6
)

// Weight multipliers. Applied to a base weight of 1.0.
const (
	masteredFactor      = 0.3
	confusionFactor     = 0.5 // per recorded miss
	dueFactor           = 2.0
	highTempoFactor     = 1.2
	syncopationFactor   = 1.15
	highTempoThreshold  = 100
	syncopationMinLevel = 4
)

// Entry pairs a pattern with its selection weight.
type Entry struct {
	Pattern catalog.Pattern
	Weight  float64
}

// BuildInput carries the signals that shape the pool.
type BuildInput struct {
	Level     int
	Signature catalog.TimeSignature
	Tempo     int

	Mastered  map[string]bool
	Confusion map[string]int
	Due       map[string]bool
}

// ClampLevel restricts a level to the valid range.
func ClampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// eligible applies the per-level filter. The predicate relaxes monotonically:
// level 1 admits only easy non-syncopated patterns, level 6 the whole
// catalog for the signature.
func eligible(level int, p catalog.Pattern) bool {
	switch ClampLevel(level) {
	case 1:
		return p.Tier == catalog.TierEasy && !p.Syncopated
	case 2:
		return p.Tier != catalog.TierComplex && !p.Syncopated
	case 3:
		return p.Tier != catalog.TierComplex
	case 4:
		return p.Tier != catalog.TierComplex || !p.Syncopated
	default:
		return true
	}
}

// Build filters patterns by level and signature and assigns each survivor a
// weight. Entries with weight <= 0 are dropped, not zeroed. A nil or empty
// pattern set yields an empty pool; Build never fails.
func Build(patterns []catalog.Pattern, in BuildInput) []Entry {
	level := ClampLevel(in.Level)

	var entries []Entry
	for _, p := range patterns {
		if p.Signature != in.Signature {
			continue
		}
		if !eligible(level, p) {
			continue
		}

		w := 1.0
		if in.Mastered[p.ID] {
			w *= masteredFactor
		}
		if n := in.Confusion[p.ID]; n > 0 {
			w *= 1 + confusionFactor*float64(n)
		}
		if in.Due[p.ID] {
			w *= dueFactor
		}
		if in.Tempo > highTempoThreshold {
			w *= highTempoFactor
		}
		if p.Syncopated && level >= syncopationMinLevel {
			w *= syncopationFactor
		}

		if w <= 0 {
			continue
		}
		entries = append(entries, Entry{Pattern: p, Weight: w})
	}
	return entries
}
