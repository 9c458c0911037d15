// Package playback expands a rhythm pattern into timed tick callbacks.
package playback

import (
	"sync"
	"time"

	"github.com/abhisek/rhythmiz/internal/catalog"
	"github.com/abhisek/rhythmiz/internal/clock"
)

// MinTempo is the floor applied to the tempo when computing beat duration.
const MinTempo = 30

const (
	accentVolume   = 1.0
	unaccentVolume = 0.6
)

// Tick is one scheduled metronome event.
type Tick struct {
	Beat   int  // beat index within the pattern
	Sub    int  // sub-tick index within the beat
	Accent bool // first sub-tick of a bar-aligned beat
	Volume float64
}

// TickFunc receives ticks as they fire.
type TickFunc func(Tick)

// Scheduler plays one pattern at a time, scheduling each beat's sub-ticks
// only after the previous beat has elapsed. Stop cancels all future ticks.
type Scheduler struct {
	clock clock.Clock

	mu       sync.Mutex
	playing  bool
	gen      int
	chain    clock.Timer
	subTicks []clock.Timer
	onDone   func()
}

// NewScheduler creates a playback scheduler on the given clock.
func NewScheduler(c clock.Clock) *Scheduler {
	if c == nil {
		c = clock.System()
	}
	return &Scheduler{clock: c}
}

// BeatDuration returns the duration of one beat at the given tempo.
func BeatDuration(tempo int) time.Duration {
	t := tempo
	if t < MinTempo {
		t = MinTempo
	}
	return time.Duration(60000/t) * time.Millisecond
}

// Playing reports whether a pattern is currently being played.
func (s *Scheduler) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Start begins playing the pattern. Invocation while already playing is a
// no-op; it reports whether playback was started. onDone, if non-nil, runs
// after the final beat window elapses (not on Stop).
func (s *Scheduler) Start(p catalog.Pattern, tempo, beatsPerBar int, tick TickFunc, onDone func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.playing {
		return false
	}
	if len(p.Events) == 0 || tick == nil {
		return false
	}
	if beatsPerBar < 1 {
		beatsPerBar = 1
	}

	s.playing = true
	s.gen++
	s.onDone = onDone
	s.scheduleBeatLocked(s.gen, p, 0, BeatDuration(tempo), beatsPerBar, tick)
	return true
}

// scheduleBeatLocked queues the sub-ticks for one beat and chains the next
// beat after the beat window. Caller holds s.mu.
func (s *Scheduler) scheduleBeatLocked(gen int, p catalog.Pattern, beat int, beatDur time.Duration, beatsPerBar int, tick TickFunc) {
	ev := p.Events[beat]
	offsets := ev.Duration.SubdivisionOffsets()
	barStart := beat%beatsPerBar == 0

	s.subTicks = s.subTicks[:0]
	for sub, frac := range offsets {
		accent := barStart && sub == 0
		t := Tick{
			Beat:   beat,
			Sub:    sub,
			Accent: accent,
			Volume: unaccentVolume,
		}
		if accent {
			t.Volume = accentVolume
		}
		delay := time.Duration(float64(beatDur) * frac)
		s.subTicks = append(s.subTicks, s.clock.AfterFunc(delay, func() {
			if s.current(gen) {
				tick(t)
			}
		}))
	}

	s.chain = s.clock.AfterFunc(beatDur, func() {
		s.advance(gen, p, beat+1, beatDur, beatsPerBar, tick)
	})
}

func (s *Scheduler) current(gen int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing && s.gen == gen
}

func (s *Scheduler) advance(gen int, p catalog.Pattern, beat int, beatDur time.Duration, beatsPerBar int, tick TickFunc) {
	s.mu.Lock()
	if !s.playing || s.gen != gen {
		s.mu.Unlock()
		return
	}
	if beat >= len(p.Events) {
		s.playing = false
		done := s.onDone
		s.onDone = nil
		s.mu.Unlock()
		if done != nil {
			done()
		}
		return
	}
	s.scheduleBeatLocked(gen, p, beat, beatDur, beatsPerBar, tick)
	s.mu.Unlock()
}

// Stop clears every pending timer and resets the playing flag. Safe to call
// when nothing is playing.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++ // invalidate any in-flight callbacks
	s.playing = false
	s.onDone = nil
	if s.chain != nil {
		s.chain.Stop()
		s.chain = nil
	}
	for _, t := range s.subTicks {
		t.Stop()
	}
	s.subTicks = nil
}
