package drill

import (
	"github.com/abhisek/rhythmiz/internal/catalog"
	"github.com/abhisek/rhythmiz/internal/playback"
)

// Event is a notification from the engine to its observers. Observers are
// invoked outside the engine lock; calling back into the engine is safe.
type Event interface{ event() }

// QuestionShown fires when a new question becomes active.
type QuestionShown struct {
	Pattern   catalog.Pattern
	SlotCount int
	Tempo     int
}

// AnswerEvaluated fires after every scored answer.
type AnswerEvaluated struct {
	Verdict        Verdict
	Reward         int
	ResponseTimeMs int
	Stats          SessionStats
}

// Mastered fires once per item, when it newly enters the mastered set.
type Mastered struct {
	ItemID string
}

// MixupsDetected fires when an item's miss count crosses the confusion
// threshold.
type MixupsDetected struct {
	ItemID string
	Count  int
}

// Stalled fires when the weighted pool resolves to zero eligible entries.
// The engine stays stalled until a level, signature, or tempo change yields
// a non-empty rebuild.
type Stalled struct {
	Level     int
	Signature catalog.TimeSignature
}

// TempoChanged fires on both adaptive and manual tempo changes.
type TempoChanged struct {
	Tempo int
}

// TickPlayed forwards playback ticks for visual metronome display.
type TickPlayed struct {
	Tick playback.Tick
}

// PlaybackFinished fires after the final beat window of a pattern elapses.
type PlaybackFinished struct{}

func (QuestionShown) event()    {}
func (AnswerEvaluated) event()  {}
func (Mastered) event()         {}
func (MixupsDetected) event()   {}
func (Stalled) event()          {}
func (TempoChanged) event()     {}
func (TickPlayed) event()       {}
func (PlaybackFinished) event() {}
