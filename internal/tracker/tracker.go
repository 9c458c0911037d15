// Package tracker maintains per-item confusion counts and the mastered set.
package tracker

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/abhisek/rhythmiz/internal/catalog"
	"github.com/abhisek/rhythmiz/internal/store"
)

const (
	// MixupThreshold is the per-item miss count that raises the one-time
	// "mixups detected" signal.
	MixupThreshold = 3

	// Mastery requires the last MasteryWindow records for the item and
	// signature, of which at least MasteryMinCorrect must be correct with a
	// mean response time under MasteryMaxMeanRTMs, while the current tempo
	// is at least MasteryMinTempo.
	MasteryWindow      = 10
	MasteryMinCorrect  = 9
	MasteryMaxMeanRTMs = 4500
	MasteryMinTempo    = 90
)

// Sample is one past evaluation outcome used for the mastery window.
type Sample struct {
	Correct        bool
	ResponseTimeMs int
}

// MissResult reports the side effects of recording a miss.
type MissResult struct {
	// MixupsDetected is true exactly when the item's miss count first
	// reaches MixupThreshold. It re-arms only if the counter is reset.
	MixupsDetected bool
}

// Tracker holds confusion and mastery state for one module and persists it
// after every mutation. Local state stays authoritative even when the store
// write fails.
type Tracker struct {
	module string
	repo   store.ProgressRepo

	mastered map[string]bool
	byItem   map[string]int
	byPair   map[string]int
}

// New creates an empty tracker. Call Load to hydrate it from the store.
func New(module string, repo store.ProgressRepo) *Tracker {
	return &Tracker{
		module:   module,
		repo:     repo,
		mastered: make(map[string]bool),
		byItem:   make(map[string]int),
		byPair:   make(map[string]int),
	}
}

// Load reads the persisted mastery and confusion records. Missing records
// leave the tracker empty.
func (t *Tracker) Load(ctx context.Context) error {
	if t.repo == nil {
		return nil
	}

	mastery, err := t.repo.Mastery(ctx, t.module)
	if err != nil {
		return fmt.Errorf("load mastery: %w", err)
	}
	for _, id := range mastery.Items {
		t.mastered[id] = true
	}

	confusion, err := t.repo.Confusion(ctx, t.module)
	if err != nil {
		return fmt.Errorf("load confusion: %w", err)
	}
	for id, n := range confusion.ByItem {
		t.byItem[id] = n
	}
	for pair, n := range confusion.ByPair {
		t.byPair[pair] = n
	}
	return nil
}

// RecordMiss registers an incorrect evaluation: the item's miss count and
// every mismatched position's expected:given pair are incremented, then the
// confusion record is persisted.
func (t *Tracker) RecordMiss(ctx context.Context, itemID string, target, answer []catalog.DurationKind) MissResult {
	before := t.byItem[itemID]
	t.byItem[itemID] = before + 1

	n := len(target)
	if len(answer) < n {
		n = len(answer)
	}
	for i := 0; i < n; i++ {
		if target[i] == answer[i] {
			continue
		}
		if target[i] == catalog.NoDuration || answer[i] == catalog.NoDuration {
			continue
		}
		t.byPair[PairKey(target[i], answer[i])]++
	}

	t.persistConfusion(ctx)

	return MissResult{MixupsDetected: before+1 == MixupThreshold}
}

// PairKey formats a confusion pair key as "expected:given".
func PairKey(expected, given catalog.DurationKind) string {
	return string(expected) + ":" + string(given)
}

// CheckMastery runs the mastery rule after a correct evaluation. window must
// hold the most recent records for this item and time signature, newest
// last. It reports true exactly when the item newly enters the mastered set.
func (t *Tracker) CheckMastery(ctx context.Context, itemID string, window []Sample, tempo int) bool {
	if t.mastered[itemID] {
		return false
	}
	if len(window) < MasteryWindow {
		return false // not enough history for a decision
	}
	if tempo < MasteryMinTempo {
		return false
	}

	recent := window[len(window)-MasteryWindow:]
	correct := 0
	totalRT := 0
	for _, s := range recent {
		if s.Correct {
			correct++
		}
		totalRT += s.ResponseTimeMs
	}
	if correct < MasteryMinCorrect {
		return false
	}
	if totalRT/MasteryWindow >= MasteryMaxMeanRTMs {
		return false
	}

	t.mastered[itemID] = true
	t.persistMastery(ctx)
	return true
}

// IsMastered reports whether the item is in the mastered set.
func (t *Tracker) IsMastered(itemID string) bool {
	return t.mastered[itemID]
}

// MasteredSet returns a copy of the mastered item set.
func (t *Tracker) MasteredSet() map[string]bool {
	out := make(map[string]bool, len(t.mastered))
	for id := range t.mastered {
		out[id] = true
	}
	return out
}

// ConfusionCounts returns a copy of the per-item miss counts.
func (t *Tracker) ConfusionCounts() map[string]int {
	out := make(map[string]int, len(t.byItem))
	for id, n := range t.byItem {
		out[id] = n
	}
	return out
}

// ConfusionCount returns the miss count for one item.
func (t *Tracker) ConfusionCount(itemID string) int {
	return t.byItem[itemID]
}

// PairCounts returns the confusion pairs sorted by descending count, for
// display.
func (t *Tracker) PairCounts() []PairCount {
	out := make([]PairCount, 0, len(t.byPair))
	for pair, n := range t.byPair {
		out = append(out, PairCount{Pair: pair, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Pair < out[j].Pair
	})
	return out
}

// PairCount is one confusion pair with its miss count.
type PairCount struct {
	Pair  string
	Count int
}

// ResetItem clears the miss count for one item, re-arming its mixups signal.
func (t *Tracker) ResetItem(ctx context.Context, itemID string) {
	delete(t.byItem, itemID)
	t.persistConfusion(ctx)
}

func (t *Tracker) persistConfusion(ctx context.Context) {
	if t.repo == nil {
		return
	}
	rec := &store.ConfusionRecord{ByItem: t.byItem, ByPair: t.byPair}
	if err := t.repo.SaveConfusion(ctx, t.module, rec); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to persist confusion state: %v\n", err)
	}
}

func (t *Tracker) persistMastery(ctx context.Context) {
	if t.repo == nil {
		return
	}
	items := make([]string, 0, len(t.mastered))
	for id := range t.mastered {
		items = append(items, id)
	}
	sort.Strings(items)
	if err := t.repo.SaveMastery(ctx, t.module, &store.MasteryRecord{Items: items}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to persist mastery set: %v\n", err)
	}
}
