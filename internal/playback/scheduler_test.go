package playback

import (
	"testing"
	"time"

	"github.com/abhisek/rhythmiz/internal/catalog"
	"github.com/abhisek/rhythmiz/internal/clock"
)

func testPattern(kinds ...catalog.DurationKind) catalog.Pattern {
	evs := make([]catalog.BeatEvent, len(kinds))
	for i, k := range kinds {
		evs[i] = catalog.BeatEvent{Duration: k}
	}
	return catalog.Pattern{ID: "test", Events: evs, Signature: catalog.FourFour}
}

func TestBeatDuration(t *testing.T) {
	if d := BeatDuration(120); d != 500*time.Millisecond {
		t.Errorf("BeatDuration(120) = %v, want 500ms", d)
	}
	if d := BeatDuration(60); d != time.Second {
		t.Errorf("BeatDuration(60) = %v, want 1s", d)
	}
	// Tempo below the floor is clamped to 30 BPM.
	if d := BeatDuration(10); d != 2*time.Second {
		t.Errorf("BeatDuration(10) = %v, want 2s", d)
	}
}

func TestStartExpandsSubTicks(t *testing.T) {
	fc := clock.NewFake()
	s := NewScheduler(fc)

	var ticks []Tick
	p := testPattern(catalog.Quarter, catalog.Quarter, catalog.Eighth, catalog.Eighth)

	done := false
	if !s.Start(p, 120, 4, func(tk Tick) { ticks = append(ticks, tk) }, func() { done = true }) {
		t.Fatal("Start returned false")
	}

	// 4 beats at 120 BPM = 2s total. quarter+quarter+eighth+eighth = 1+1+2+2 ticks.
	fc.Advance(2 * time.Second)

	if len(ticks) != 6 {
		t.Fatalf("got %d ticks, want 6", len(ticks))
	}
	if !done {
		t.Error("onDone not called after final beat window")
	}
	if s.Playing() {
		t.Error("still playing after pattern end")
	}

	// First sub-tick of beat 0 is accented (bar start); all others are not,
	// since only beat 0 is a multiple of beats-per-bar here.
	if !ticks[0].Accent {
		t.Error("first tick should be accented")
	}
	if ticks[0].Volume <= ticks[1].Volume {
		t.Error("accented tick should be louder")
	}
	for _, tk := range ticks[1:] {
		if tk.Accent {
			t.Errorf("tick beat=%d sub=%d unexpectedly accented", tk.Beat, tk.Sub)
		}
	}
}

func TestAccentRepeatsEveryBar(t *testing.T) {
	fc := clock.NewFake()
	s := NewScheduler(fc)

	var ticks []Tick
	p := testPattern(catalog.Quarter, catalog.Quarter, catalog.Quarter, catalog.Quarter)

	// beats-per-bar 2: beats 0 and 2 are bar starts.
	s.Start(p, 60, 2, func(tk Tick) { ticks = append(ticks, tk) }, nil)
	fc.Advance(4 * time.Second)

	if len(ticks) != 4 {
		t.Fatalf("got %d ticks, want 4", len(ticks))
	}
	wantAccents := []bool{true, false, true, false}
	for i, tk := range ticks {
		if tk.Accent != wantAccents[i] {
			t.Errorf("tick %d accent = %v, want %v", i, tk.Accent, wantAccents[i])
		}
	}
}

func TestStartWhilePlayingIsNoOp(t *testing.T) {
	fc := clock.NewFake()
	s := NewScheduler(fc)

	var ticks int
	p := testPattern(catalog.Quarter, catalog.Quarter)

	if !s.Start(p, 60, 4, func(Tick) { ticks++ }, nil) {
		t.Fatal("first Start returned false")
	}
	if s.Start(p, 60, 4, func(Tick) { ticks += 100 }, nil) {
		t.Error("second Start should be a no-op")
	}

	fc.Advance(2 * time.Second)
	if ticks != 2 {
		t.Errorf("ticks = %d, want 2", ticks)
	}
}

func TestStopCancelsFutureTicks(t *testing.T) {
	fc := clock.NewFake()
	s := NewScheduler(fc)

	var ticks int
	done := false
	p := testPattern(catalog.Quarter, catalog.Quarter, catalog.Quarter, catalog.Quarter)

	s.Start(p, 60, 4, func(Tick) { ticks++ }, func() { done = true })
	fc.Advance(1500 * time.Millisecond) // beats 0 and 1 fire
	s.Stop()
	fc.Advance(10 * time.Second)

	if ticks != 2 {
		t.Errorf("ticks = %d, want 2 (stop must halt the chain)", ticks)
	}
	if done {
		t.Error("onDone must not fire after Stop")
	}
	if s.Playing() {
		t.Error("Playing() after Stop")
	}
}

func TestStopWhenIdleIsSafe(t *testing.T) {
	s := NewScheduler(clock.NewFake())
	s.Stop()
	s.Stop()
}

func TestRestartAfterStop(t *testing.T) {
	fc := clock.NewFake()
	s := NewScheduler(fc)

	p := testPattern(catalog.Quarter, catalog.Quarter)
	var ticks int

	s.Start(p, 60, 4, func(Tick) { ticks++ }, nil)
	s.Stop()
	if !s.Start(p, 60, 4, func(Tick) { ticks++ }, nil) {
		t.Fatal("Start after Stop returned false")
	}
	fc.Advance(2 * time.Second)
	if ticks != 2 {
		t.Errorf("ticks = %d, want 2", ticks)
	}
}
