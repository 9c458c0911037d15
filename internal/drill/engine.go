// Package drill orchestrates one practice session: pool construction, item
// selection, the question lifecycle, scoring, and collaborator fan-out.
package drill

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/rhythmiz/internal/audio"
	"github.com/abhisek/rhythmiz/internal/catalog"
	"github.com/abhisek/rhythmiz/internal/clock"
	"github.com/abhisek/rhythmiz/internal/difficulty"
	"github.com/abhisek/rhythmiz/internal/gamify"
	"github.com/abhisek/rhythmiz/internal/playback"
	"github.com/abhisek/rhythmiz/internal/pool"
	"github.com/abhisek/rhythmiz/internal/reward"
	"github.com/abhisek/rhythmiz/internal/srs"
	"github.com/abhisek/rhythmiz/internal/telemetry"
	"github.com/abhisek/rhythmiz/internal/tempo"
	"github.com/abhisek/rhythmiz/internal/tracker"
)

// Phase is the session state machine position.
type Phase int

const (
	Idle Phase = iota
	Presenting
	Collecting
	Evaluated
	Advancing
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Presenting:
		return "presenting"
	case Collecting:
		return "collecting"
	case Evaluated:
		return "evaluated"
	case Advancing:
		return "advancing"
	default:
		return "unknown"
	}
}

var (
	// ErrIncompleteAnswer rejects evaluation with unfilled slots. No state
	// is mutated.
	ErrIncompleteAnswer = errors.New("answer has unfilled slots")

	// ErrPlaybackUnavailable is advisory: no audio collaborator is bound,
	// or playback was requested while already playing.
	ErrPlaybackUnavailable = errors.New("playback unavailable")

	// ErrStalled means the weighted pool has no eligible entries. The
	// engine stays stalled until a configuration change rebuilds the pool.
	ErrStalled = errors.New("no eligible patterns for current settings")

	// ErrNoQuestion rejects answer operations with no active question.
	ErrNoQuestion = errors.New("no active question")

	// ErrSlotOutOfRange rejects slot operations outside the answer row.
	ErrSlotOutOfRange = errors.New("slot index out of range")
)

// Config carries session tuning. Zero values fall back to defaults.
type Config struct {
	Module    string
	Signature catalog.TimeSignature
	Level     int
	Tempo     int
	TempoStep int
	TempoMin  int
	TempoMax  int

	AutoPlay      bool
	AutoPlayDelay time.Duration

	AdvanceCorrectDelay   time.Duration
	AdvanceIncorrectDelay time.Duration

	RewardBase int
	DueLimit   int
}

const (
	defaultModule                = "rhythm"
	defaultTempo                 = 80
	defaultAutoPlayDelay         = 600 * time.Millisecond
	defaultAdvanceCorrectDelay   = 1500 * time.Millisecond
	defaultAdvanceIncorrectDelay = 2500 * time.Millisecond
	defaultDueLimit              = 10
)

func (c *Config) applyDefaults() {
	if c.Module == "" {
		c.Module = defaultModule
	}
	if c.Signature == (catalog.TimeSignature{}) {
		c.Signature = catalog.FourFour
	}
	if c.Tempo == 0 {
		c.Tempo = defaultTempo
	}
	if c.TempoStep == 0 {
		c.TempoStep = tempo.DefaultStep
	}
	if c.TempoMin == 0 {
		c.TempoMin = tempo.DefaultMin
	}
	if c.TempoMax == 0 {
		c.TempoMax = tempo.DefaultMax
	}
	if c.AutoPlayDelay == 0 {
		c.AutoPlayDelay = defaultAutoPlayDelay
	}
	if c.AdvanceCorrectDelay == 0 {
		c.AdvanceCorrectDelay = defaultAdvanceCorrectDelay
	}
	if c.AdvanceIncorrectDelay == 0 {
		c.AdvanceIncorrectDelay = defaultAdvanceIncorrectDelay
	}
	if c.DueLimit == 0 {
		c.DueLimit = defaultDueLimit
	}
	c.Level = pool.ClampLevel(c.Level)
}

// Deps are the engine's collaborators. Catalog, Tracker, SRS, Difficulty,
// Ledger, and Telemetry are required; construction fails fast when one is
// missing. Audio is optional: a bound Pattern player is preferred, else a
// Ticker driven by the playback scheduler, else playback is skipped with an
// advisory.
type Deps struct {
	Catalog  *catalog.Catalog
	Tracker  *tracker.Tracker
	Clock    clock.Clock
	Selector *pool.Selector

	SRS        srs.Scheduler
	Difficulty difficulty.Controller
	Ledger     gamify.Ledger
	Awarder    gamify.PracticeAwarder
	Telemetry  telemetry.Sink

	Pattern audio.PatternPlayer
	Ticker  audio.TickPlayer
}

// Result reports one scored answer back to the caller.
type Result struct {
	Verdict        Verdict
	Reward         int
	ResponseTimeMs int
	Target         []catalog.DurationKind
	Stats          SessionStats
}

// Engine drives the practice session. All state mutation happens under one
// mutex; timer callbacks carry a generation token so a late callback cannot
// touch a retired question.
type Engine struct {
	cfg  Config
	deps Deps

	sessionID string
	clk       clock.Clock
	selector  *pool.Selector
	adapter   *tempo.Adapter
	calc      *reward.Calculator
	player    *playback.Scheduler

	mu       sync.Mutex
	gen      int
	phase    Phase
	question *QuestionState
	stats    SessionStats
	records  []PerformanceRecord
	history  map[string][]tracker.Sample

	level       int
	manualLevel bool
	signature   catalog.TimeSignature
	tempo       int
	adaptive    difficulty.Config

	entries   []pool.Entry
	poolDirty bool
	due       map[string]bool

	advanceTimer  clock.Timer
	autoplayTimer clock.Timer

	obsMu     sync.Mutex
	observers []func(Event)
}

// New validates the collaborators and returns an idle engine.
func New(cfg Config, deps Deps) (*Engine, error) {
	cfg.applyDefaults()

	switch {
	case deps.Catalog == nil:
		return nil, errors.New("drill: catalog is required")
	case deps.Tracker == nil:
		return nil, errors.New("drill: tracker is required")
	case deps.SRS == nil:
		return nil, errors.New("drill: srs scheduler is required")
	case deps.Difficulty == nil:
		return nil, errors.New("drill: difficulty controller is required")
	case deps.Ledger == nil:
		return nil, errors.New("drill: gamification ledger is required")
	case deps.Telemetry == nil:
		return nil, errors.New("drill: telemetry sink is required")
	}

	clk := deps.Clock
	if clk == nil {
		clk = clock.System()
	}
	sel := deps.Selector
	if sel == nil {
		sel = pool.NewSelector(nil)
	}

	return &Engine{
		cfg:       cfg,
		deps:      deps,
		sessionID: uuid.NewString(),
		clk:       clk,
		selector:  sel,
		adapter:   &tempo.Adapter{Step: cfg.TempoStep, Min: cfg.TempoMin, Max: cfg.TempoMax},
		calc:      &reward.Calculator{Base: cfg.RewardBase},
		player:    playback.NewScheduler(clk),
		phase:     Idle,
		history:   make(map[string][]tracker.Sample),
		level:     cfg.Level,
		signature: cfg.Signature,
		tempo:     cfg.Tempo,
		adaptive:  difficulty.FallbackConfig(),
		poolDirty: true,
		due:       make(map[string]bool),
	}, nil
}

// SessionID identifies this session in telemetry payloads.
func (e *Engine) SessionID() string { return e.sessionID }

// Subscribe registers an observer for engine events. Observers run outside
// the engine lock in registration order.
func (e *Engine) Subscribe(fn func(Event)) {
	if fn == nil {
		return
	}
	e.obsMu.Lock()
	e.observers = append(e.observers, fn)
	e.obsMu.Unlock()
}

func (e *Engine) emit(events ...Event) {
	if len(events) == 0 {
		return
	}
	e.obsMu.Lock()
	obs := make([]func(Event), len(e.observers))
	copy(obs, e.observers)
	e.obsMu.Unlock()
	for _, ev := range events {
		for _, fn := range obs {
			fn(ev)
		}
	}
}

// Phase returns the current state machine position.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Question returns a copy of the active question, or nil when idle.
func (e *Engine) Question() *QuestionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.question == nil {
		return nil
	}
	q := *e.question
	q.Slots = append([]catalog.DurationKind(nil), e.question.Slots...)
	return &q
}

// Stats returns the session statistics so far.
func (e *Engine) Stats() SessionStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Tempo returns the current tempo in BPM.
func (e *Engine) Tempo() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tempo
}

// Level returns the current difficulty level.
func (e *Engine) Level() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.level
}

// Signature returns the current time signature.
func (e *Engine) Signature() catalog.TimeSignature {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.signature
}

// Adaptive returns the last refreshed difficulty configuration.
func (e *Engine) Adaptive() difficulty.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.adaptive
}

// NextQuestion retires any active question and presents the next one.
// Pending advance and autoplay timers are cancelled and in-flight playback
// is stopped before the new question is constructed. Returns ErrStalled
// when the pool has no eligible entries.
func (e *Engine) NextQuestion(ctx context.Context) error {
	e.mu.Lock()

	e.gen++
	e.cancelTimersLocked()
	e.player.Stop()

	if e.poolDirty {
		e.refreshPoolLocked(ctx)
	}

	picked, ok := e.selector.Pick(e.entries)
	if !ok {
		e.phase = Idle
		e.question = nil
		level, sig := e.level, e.signature
		e.mu.Unlock()
		e.emit(Stalled{Level: level, Signature: sig})
		return ErrStalled
	}

	q := newQuestionState(picked, e.clk.Now())
	e.question = q
	e.phase = Presenting

	if e.cfg.AutoPlay {
		gen := e.gen
		e.autoplayTimer = e.clk.AfterFunc(e.cfg.AutoPlayDelay, func() {
			if e.currentGen(gen) {
				_ = e.Play()
			}
		})
	}

	shown := QuestionShown{Pattern: picked, SlotCount: len(q.Slots), Tempo: e.tempo}
	e.mu.Unlock()

	e.track(ctx, "question_shown", map[string]any{
		"session_id": e.sessionID,
		"item_id":    picked.ID,
		"tempo":      shown.Tempo,
	})
	e.emit(shown)
	return nil
}

// refreshPoolLocked re-reads the adaptive config and due set, then rebuilds
// the weighted pool. Collaborator failures fall back to level 1 / easy and
// an empty due set.
func (e *Engine) refreshPoolLocked(ctx context.Context) {
	cfg, err := e.deps.Difficulty.AdaptiveConfig(ctx, e.cfg.Module)
	if err != nil {
		logWarn("adaptive config unavailable: %v", err)
		cfg = difficulty.FallbackConfig()
	}
	e.adaptive = cfg
	if !e.manualLevel {
		e.level = pool.ClampLevel(cfg.Level)
	}

	due := make(map[string]bool)
	ids, err := e.deps.SRS.DueItems(ctx, e.cfg.Module, e.cfg.DueLimit)
	if err != nil {
		logWarn("due items unavailable: %v", err)
		ids = nil
	}
	for _, id := range ids {
		due[id] = true
	}
	e.due = due

	e.entries = pool.Build(e.deps.Catalog.All(), pool.BuildInput{
		Level:     e.level,
		Signature: e.signature,
		Tempo:     e.tempo,
		Mastered:  e.deps.Tracker.MasteredSet(),
		Confusion: e.deps.Tracker.ConfusionCounts(),
		Due:       due,
	})
	e.poolDirty = false
}

// FillSlot sets one answer slot. Allowed while presenting or collecting.
func (e *Engine) FillSlot(index int, kind catalog.DurationKind) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.question == nil || (e.phase != Presenting && e.phase != Collecting) {
		return ErrNoQuestion
	}
	if index < 0 || index >= len(e.question.Slots) {
		return ErrSlotOutOfRange
	}
	if !kind.Valid() || kind == catalog.NoDuration {
		return fmt.Errorf("invalid duration kind %q", kind)
	}
	e.question.Slots[index] = kind
	e.phase = Collecting
	return nil
}

// ClearSlot empties one answer slot.
func (e *Engine) ClearSlot(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.question == nil || (e.phase != Presenting && e.phase != Collecting) {
		return ErrNoQuestion
	}
	if index < 0 || index >= len(e.question.Slots) {
		return ErrSlotOutOfRange
	}
	e.question.Slots[index] = catalog.NoDuration
	return nil
}

// Hint reveals the correct duration for one slot and marks the hint used,
// which halves the eventual reward.
func (e *Engine) Hint(index int) (catalog.DurationKind, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.question == nil || (e.phase != Presenting && e.phase != Collecting) {
		return catalog.NoDuration, ErrNoQuestion
	}
	if index < 0 || index >= len(e.question.Slots) {
		return catalog.NoDuration, ErrSlotOutOfRange
	}
	e.question.HintUsed = true
	return e.question.Pattern.Events[index].Duration, nil
}

// Play sounds the active pattern. A bound pattern player is preferred; a
// tick player is driven beat by beat via the scheduler. Returns
// ErrPlaybackUnavailable when no audio collaborator is bound or playback is
// already running; the answer flow is unaffected either way.
func (e *Engine) Play() error {
	e.mu.Lock()
	if e.question == nil || e.phase == Idle || e.phase == Advancing {
		e.mu.Unlock()
		return ErrNoQuestion
	}
	q := e.question
	p := q.Pattern
	tempoNow := e.tempo
	sig := e.signature
	e.mu.Unlock()

	if e.deps.Pattern != nil {
		e.mu.Lock()
		if e.question == q {
			q.PlayCount++
			e.stopAdvanceLocked()
		}
		e.mu.Unlock()
		if err := e.deps.Pattern.PlayPattern(&p, tempoNow, sig); err != nil {
			logWarn("pattern playback failed: %v", err)
		}
		return nil
	}

	if e.deps.Ticker == nil {
		return ErrPlaybackUnavailable
	}

	started := e.player.Start(p, tempoNow, sig.Beats, func(t playback.Tick) {
		if err := e.deps.Ticker.PlayTick(t.Accent, t.Volume); err != nil {
			logWarn("tick playback failed: %v", err)
		}
		e.emit(TickPlayed{Tick: t})
	}, func() {
		e.emit(PlaybackFinished{})
	})
	if !started {
		return ErrPlaybackUnavailable
	}

	e.mu.Lock()
	if e.question == q {
		q.PlayCount++
		e.stopAdvanceLocked()
	}
	e.mu.Unlock()
	return nil
}

// StopPlayback cancels in-flight pattern playback, if any.
func (e *Engine) StopPlayback() {
	e.player.Stop()
}

// CheckAnswer scores the active question. Rejected with
// ErrIncompleteAnswer, mutating nothing, while any slot is empty. On
// success the local stats, confusion and mastery state, tempo, and reward
// are all settled before any collaborator is called; collaborator failures
// are logged and never roll back local state. An advance timer is scheduled
// to present the next question.
func (e *Engine) CheckAnswer(ctx context.Context) (Result, error) {
	e.mu.Lock()

	if e.question == nil || (e.phase != Presenting && e.phase != Collecting) {
		e.mu.Unlock()
		return Result{}, ErrNoQuestion
	}

	q := e.question
	target := q.Pattern.Durations()
	verdict := Evaluate(target, q.Slots)
	if verdict == Incomplete {
		e.mu.Unlock()
		return Result{Verdict: Incomplete}, ErrIncompleteAnswer
	}
	correct := verdict == Correct

	now := e.clk.Now()
	responseMs := int(now.Sub(q.ShownAt).Milliseconds())
	firstTry := q.PlayCount <= 1

	// Local state settles first. Collaborators see the settled outcome and
	// can never roll it back.
	prevTotalMs := e.stats.AverageResponseTimeMs * e.stats.TotalCount
	e.stats.TotalCount++
	if correct {
		e.stats.CorrectCount++
		e.stats.Streak++
		if firstTry && !q.HintUsed {
			e.stats.PerfectStreak++
		} else {
			e.stats.PerfectStreak = 0
		}
	} else {
		e.stats.Streak = 0
		e.stats.PerfectStreak = 0
	}
	e.stats.AverageResponseTimeMs = (prevTotalMs + responseMs) / e.stats.TotalCount

	rec := PerformanceRecord{
		ItemID:         q.Pattern.ID,
		Signature:      q.Pattern.Signature,
		Correct:        correct,
		ResponseTimeMs: responseMs,
		PlayCount:      q.PlayCount,
		UsedHint:       q.HintUsed,
		Tempo:          e.tempo,
		Timestamp:      now,
	}
	e.records = append(e.records, rec)
	if len(e.records) > maxRecords {
		e.records = e.records[len(e.records)-maxRecords:]
	}

	histKey := q.Pattern.ID + "|" + q.Pattern.Signature.String()
	hist := append(e.history[histKey], tracker.Sample{Correct: correct, ResponseTimeMs: responseMs})
	if len(hist) > tracker.MasteryWindow {
		hist = hist[len(hist)-tracker.MasteryWindow:]
	}
	e.history[histKey] = hist

	var pending []Event

	if correct {
		if e.deps.Tracker.CheckMastery(ctx, q.Pattern.ID, hist, e.tempo) {
			pending = append(pending, Mastered{ItemID: q.Pattern.ID})
		}
	} else {
		answer := append([]catalog.DurationKind(nil), q.Slots...)
		miss := e.deps.Tracker.RecordMiss(ctx, q.Pattern.ID, target, answer)
		if miss.MixupsDetected {
			pending = append(pending, MixupsDetected{
				ItemID: q.Pattern.ID,
				Count:  e.deps.Tracker.ConfusionCount(q.Pattern.ID),
			})
		}
		e.poolDirty = true
	}

	if next := e.adapter.Next(e.tempo, e.stats.TotalCount, e.recentOutcomesLocked()); next != e.tempo {
		e.tempo = next
		e.poolDirty = true
		pending = append(pending, TempoChanged{Tempo: next})
	}

	amount := e.calc.Compute(reward.Input{
		Correct:       correct,
		Tempo:         rec.Tempo,
		PlayCount:     q.PlayCount,
		UsedHint:      q.HintUsed,
		Level:         e.level,
		PerfectStreak: e.stats.PerfectStreak,
	})

	q.Revealed = true
	e.phase = Evaluated
	stats := e.stats
	answered := e.stats.TotalCount

	delay := e.cfg.AdvanceCorrectDelay
	if !correct {
		delay = e.cfg.AdvanceIncorrectDelay
	}
	e.gen++
	gen := e.gen
	e.advanceTimer = e.clk.AfterFunc(delay, func() {
		if !e.currentGen(gen) {
			return
		}
		e.mu.Lock()
		if e.phase == Evaluated {
			e.phase = Advancing
		}
		e.mu.Unlock()
		if err := e.NextQuestion(context.Background()); err != nil && !errors.Is(err, ErrStalled) {
			logWarn("auto advance failed: %v", err)
		}
	})
	e.mu.Unlock()

	amount = e.settleReward(ctx, correct, amount, rec)
	e.notifyCollaborators(ctx, rec, stats, answered)

	for _, ev := range pending {
		switch ev := ev.(type) {
		case Mastered:
			e.track(ctx, "mastery_unlocked", map[string]any{
				"session_id": e.sessionID,
				"item_id":    ev.ItemID,
			})
		case MixupsDetected:
			e.track(ctx, "mixups_detected", map[string]any{
				"session_id": e.sessionID,
				"item_id":    ev.ItemID,
				"count":      ev.Count,
			})
		}
	}

	result := Result{
		Verdict:        verdict,
		Reward:         amount,
		ResponseTimeMs: responseMs,
		Target:         target,
		Stats:          stats,
	}
	pending = append([]Event{AnswerEvaluated{
		Verdict:        verdict,
		Reward:         amount,
		ResponseTimeMs: responseMs,
		Stats:          stats,
	}}, pending...)
	e.emit(pending...)
	return result, nil
}

// settleReward applies the optional awarder override and books the XP.
func (e *Engine) settleReward(ctx context.Context, correct bool, amount int, rec PerformanceRecord) int {
	if e.deps.Awarder != nil {
		override, err := e.deps.Awarder.AwardPracticeXP(ctx, e.cfg.Module, correct, map[string]any{
			"item_id":          rec.ItemID,
			"response_time_ms": rec.ResponseTimeMs,
			"tempo":            rec.Tempo,
		})
		if err != nil {
			logWarn("practice xp override failed: %v", err)
		} else {
			amount = override
		}
	}

	reason := "practice_correct"
	if !correct {
		reason = "practice_participation"
	}
	if err := e.deps.Ledger.AddXP(ctx, e.cfg.Module, amount, reason); err != nil {
		logWarn("xp ledger failed: %v", err)
	}
	return amount
}

// notifyCollaborators fans the settled evaluation out to the SRS scheduler,
// difficulty controller, and telemetry sink. Every call is best-effort.
func (e *Engine) notifyCollaborators(ctx context.Context, rec PerformanceRecord, stats SessionStats, answered int) {
	quality := 2
	if rec.Correct {
		if rec.PlayCount <= 1 && !rec.UsedHint {
			quality = 5
		} else {
			quality = 4
		}
	}
	err := e.deps.SRS.RecordReview(ctx, e.cfg.Module, rec.ItemID, quality, rec.ResponseTimeMs, map[string]any{
		"session_id": e.sessionID,
		"tempo":      rec.Tempo,
	})
	if err != nil {
		logWarn("srs review failed: %v", err)
	}

	if answered%5 == 0 {
		acc, avgSec := e.recentPerformance(5)
		if err := e.deps.Difficulty.Adjust(ctx, e.cfg.Module, acc, avgSec); err != nil {
			logWarn("difficulty adjust failed: %v", err)
		} else {
			e.mu.Lock()
			e.poolDirty = true
			e.mu.Unlock()
		}
	}
	if answered%10 == 0 {
		avgSec := float64(stats.AverageResponseTimeMs) / 1000.0
		err := e.deps.Difficulty.RecordPerformance(ctx, e.cfg.Module, stats.Accuracy(), avgSec, stats.CorrectCount, map[string]any{
			"session_id": e.sessionID,
		})
		if err != nil {
			logWarn("performance record failed: %v", err)
		}
	}

	e.track(ctx, "evaluation", map[string]any{
		"session_id":       e.sessionID,
		"item_id":          rec.ItemID,
		"correct":          rec.Correct,
		"response_time_ms": rec.ResponseTimeMs,
		"used_hint":        rec.UsedHint,
		"play_count":       rec.PlayCount,
		"tempo":            rec.Tempo,
	})
}

// recentOutcomesLocked returns the correctness of the rolling log, oldest
// first. Caller holds e.mu.
func (e *Engine) recentOutcomesLocked() []bool {
	out := make([]bool, len(e.records))
	for i, r := range e.records {
		out[i] = r.Correct
	}
	return out
}

// recentPerformance returns accuracy and mean response seconds over the
// last n records.
func (e *Engine) recentPerformance(n int) (float64, float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	recs := e.records
	if len(recs) > n {
		recs = recs[len(recs)-n:]
	}
	if len(recs) == 0 {
		return 0, 0
	}
	correct, totalMs := 0, 0
	for _, r := range recs {
		if r.Correct {
			correct++
		}
		totalMs += r.ResponseTimeMs
	}
	return float64(correct) / float64(len(recs)), float64(totalMs) / float64(len(recs)) / 1000.0
}

// SetLevel changes the difficulty level and marks the pool for rebuild. If
// the engine was stalled, the caller should invoke NextQuestion to retry.
func (e *Engine) SetLevel(level int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	level = pool.ClampLevel(level)
	if level == e.level {
		return
	}
	e.level = level
	e.manualLevel = true
	e.poolDirty = true
}

// SetSignature changes the time signature and marks the pool for rebuild.
func (e *Engine) SetSignature(sig catalog.TimeSignature) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sig == e.signature {
		return
	}
	e.signature = sig
	e.poolDirty = true
}

// SetTempo changes the tempo manually, clamped to the adapter bounds.
func (e *Engine) SetTempo(t int) {
	e.mu.Lock()
	if t < e.adapter.Min {
		t = e.adapter.Min
	}
	if t > e.adapter.Max {
		t = e.adapter.Max
	}
	if t == e.tempo {
		e.mu.Unlock()
		return
	}
	e.tempo = t
	e.poolDirty = true
	e.mu.Unlock()
	e.emit(TempoChanged{Tempo: t})
}

// Records returns a copy of the rolling performance log.
func (e *Engine) Records() []PerformanceRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]PerformanceRecord(nil), e.records...)
}

// Close tears the session down: all timers are cancelled, playback stops,
// and the engine returns to Idle.
func (e *Engine) Close() {
	e.mu.Lock()
	e.gen++
	e.cancelTimersLocked()
	e.phase = Idle
	e.question = nil
	e.mu.Unlock()
	e.player.Stop()
}

// stopAdvanceLocked cancels a pending auto-advance so a replay requested
// during the feedback window is not cut short by the next question. The
// user moves on manually afterwards.
func (e *Engine) stopAdvanceLocked() {
	if e.advanceTimer != nil {
		e.advanceTimer.Stop()
		e.advanceTimer = nil
	}
}

func (e *Engine) cancelTimersLocked() {
	if e.advanceTimer != nil {
		e.advanceTimer.Stop()
		e.advanceTimer = nil
	}
	if e.autoplayTimer != nil {
		e.autoplayTimer.Stop()
		e.autoplayTimer = nil
	}
}

func (e *Engine) currentGen(gen int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen == gen
}

func (e *Engine) track(ctx context.Context, event string, payload map[string]any) {
	if err := e.deps.Telemetry.Track(ctx, e.cfg.Module, event, payload); err != nil {
		logWarn("telemetry failed: %v", err)
	}
}

func logWarn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}
