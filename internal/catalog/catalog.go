// Package catalog holds the static rhythm pattern library.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// DurationKind identifies the duration of a single beat event.
type DurationKind string

const (
	// NoDuration marks an unfilled answer slot.
	NoDuration DurationKind = ""

	Quarter   DurationKind = "quarter"
	Eighth    DurationKind = "eighth"
	Sixteenth DurationKind = "sixteenth"
)

// AllDurations returns the answerable duration kinds in display order.
func AllDurations() []DurationKind {
	return []DurationKind{Quarter, Eighth, Sixteenth}
}

// Valid reports whether d is an answerable duration kind.
func (d DurationKind) Valid() bool {
	switch d {
	case Quarter, Eighth, Sixteenth:
		return true
	}
	return false
}

// DisplayName returns a human-readable label for the duration kind.
func (d DurationKind) DisplayName() string {
	switch d {
	case Quarter:
		return "Quarter"
	case Eighth:
		return "Eighth"
	case Sixteenth:
		return "Sixteenth"
	default:
		return "—"
	}
}

// Symbol returns the notation glyph for the duration kind.
func (d DurationKind) Symbol() string {
	switch d {
	case Quarter:
		return "♩"
	case Eighth:
		return "♪"
	case Sixteenth:
		return "♬"
	default:
		return "·"
	}
}

// SubdivisionOffsets returns the sub-tick positions within one beat window,
// as fractions of the beat duration.
func (d DurationKind) SubdivisionOffsets() []float64 {
	switch d {
	case Eighth:
		return []float64{0, 0.5}
	case Sixteenth:
		return []float64{0, 0.25, 0.5, 0.75}
	default:
		return []float64{0}
	}
}

// BeatEvent is one entry in a pattern's beat sequence.
type BeatEvent struct {
	Duration DurationKind
}

// TimeSignature is a meter such as 4/4 or 6/8.
type TimeSignature struct {
	Beats int // beats per bar
	Unit  int // note value carrying one beat
}

// Common signatures used by the built-in library.
var (
	FourFour  = TimeSignature{Beats: 4, Unit: 4}
	ThreeFour = TimeSignature{Beats: 3, Unit: 4}
	SixEight  = TimeSignature{Beats: 6, Unit: 8}
)

// ParseSignature parses a "beats/unit" string such as "4/4".
func ParseSignature(s string) (TimeSignature, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return TimeSignature{}, fmt.Errorf("invalid time signature %q", s)
	}
	beats, err := strconv.Atoi(parts[0])
	if err != nil || beats < 1 {
		return TimeSignature{}, fmt.Errorf("invalid time signature %q", s)
	}
	unit, err := strconv.Atoi(parts[1])
	if err != nil || unit < 1 {
		return TimeSignature{}, fmt.Errorf("invalid time signature %q", s)
	}
	return TimeSignature{Beats: beats, Unit: unit}, nil
}

// String formats the signature as "beats/unit".
func (ts TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", ts.Beats, ts.Unit)
}

// Tier classifies a pattern's intrinsic difficulty.
type Tier string

const (
	TierEasy    Tier = "easy"
	TierMedium  Tier = "medium"
	TierComplex Tier = "complex"
)

// Pattern is one drillable rhythm: an ordered beat-event sequence in a meter.
// Patterns are immutable reference data.
type Pattern struct {
	ID         string
	Name       string
	Events     []BeatEvent
	Signature  TimeSignature
	Tier       Tier
	Syncopated bool
}

// Durations returns the event durations in order. This is the target an
// answer is compared against; one answer slot per event.
func (p Pattern) Durations() []DurationKind {
	out := make([]DurationKind, len(p.Events))
	for i, ev := range p.Events {
		out[i] = ev.Duration
	}
	return out
}

// Catalog is an ordered, immutable set of patterns.
type Catalog struct {
	patterns []Pattern
	byID     map[string]Pattern
}

// New builds a catalog from the given patterns. Duplicate ids are rejected.
func New(patterns []Pattern) (*Catalog, error) {
	c := &Catalog{
		patterns: make([]Pattern, 0, len(patterns)),
		byID:     make(map[string]Pattern, len(patterns)),
	}
	for _, p := range patterns {
		if p.ID == "" {
			return nil, fmt.Errorf("pattern with empty id")
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate pattern id %q", p.ID)
		}
		if len(p.Events) == 0 {
			return nil, fmt.Errorf("pattern %q has no beat events", p.ID)
		}
		c.patterns = append(c.patterns, p)
		c.byID[p.ID] = p
	}
	return c, nil
}

// All returns every pattern in catalog order.
func (c *Catalog) All() []Pattern {
	out := make([]Pattern, len(c.patterns))
	copy(out, c.patterns)
	return out
}

// Get returns the pattern with the given id.
func (c *Catalog) Get(id string) (Pattern, error) {
	p, ok := c.byID[id]
	if !ok {
		return Pattern{}, fmt.Errorf("unknown pattern %q", id)
	}
	return p, nil
}

// BySignature returns the patterns in the given meter, in catalog order.
func (c *Catalog) BySignature(sig TimeSignature) []Pattern {
	var out []Pattern
	for _, p := range c.patterns {
		if p.Signature == sig {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of patterns.
func (c *Catalog) Len() int {
	return len(c.patterns)
}
