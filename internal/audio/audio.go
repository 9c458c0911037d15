// Package audio defines the playback contracts consumed by the drill engine
// and a terminal-friendly tick renderer.
package audio

import (
	"fmt"
	"io"

	"github.com/abhisek/rhythmiz/internal/catalog"
)

// PatternPlayer plays a whole pattern opaquely. When bound, the engine
// prefers it over tick-level scheduling.
type PatternPlayer interface {
	PlayPattern(pattern *catalog.Pattern, tempo int, signature catalog.TimeSignature) error
}

// TickPlayer renders one metronome tick. Driven by the playback scheduler
// when no PatternPlayer is bound.
type TickPlayer interface {
	PlayTick(accent bool, volume float64) error
}

// WriterTicker renders ticks as glyphs on a writer. It stands in for a
// synthesis engine in terminal sessions and tests.
type WriterTicker struct {
	w io.Writer
}

// NewWriterTicker creates a ticker writing to w.
func NewWriterTicker(w io.Writer) *WriterTicker {
	return &WriterTicker{w: w}
}

func (t *WriterTicker) PlayTick(accent bool, _ float64) error {
	glyph := "·"
	if accent {
		glyph = "●"
	}
	if _, err := fmt.Fprint(t.w, glyph); err != nil {
		return fmt.Errorf("write tick: %w", err)
	}
	return nil
}

// NopTicker discards every tick.
type NopTicker struct{}

func (NopTicker) PlayTick(bool, float64) error { return nil }
