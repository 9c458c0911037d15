// Package srs provides the spaced repetition scheduling contract consumed by
// the drill engine, plus a local store-backed implementation.
package srs

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/abhisek/rhythmiz/internal/clock"
	"github.com/abhisek/rhythmiz/internal/store"
)

// Scheduler is the contract the drill engine consumes. DueItems failures are
// treated as an empty due set by callers; RecordReview errors are logged
// only.
type Scheduler interface {
	DueItems(ctx context.Context, module string, limit int) ([]string, error)
	RecordReview(ctx context.Context, module, itemID string, quality int, responseTimeMs int, meta map[string]any) error
}

// BaseIntervals defines the expanding interval schedule in days.
// Stage 0 = first review after the item is introduced.
var BaseIntervals = []int{1, 3, 7, 14, 30, 60}

// GraduationHits is the consecutive-hit count at which an item graduates.
const GraduationHits = 6

// GraduatedIntervalDays is the review interval for graduated items.
const GraduatedIntervalDays = 90

// HitQuality is the minimum quality score counted as a successful review.
const HitQuality = 4

// Local is a store-backed Scheduler keeping review state in memory and
// persisting each mutation.
type Local struct {
	repo  store.SRSRepo
	clock clock.Clock

	reviews map[string]map[string]*reviewState // module -> item -> state
}

type reviewState struct {
	stage      int
	hits       int
	graduated  bool
	lastReview time.Time
	nextReview time.Time
}

// NewLocal creates a local scheduler. A nil clk uses the system clock.
func NewLocal(repo store.SRSRepo, clk clock.Clock) *Local {
	if clk == nil {
		clk = clock.System()
	}
	return &Local{
		repo:    repo,
		clock:   clk,
		reviews: make(map[string]map[string]*reviewState),
	}
}

// Load hydrates review state for a module from the store.
func (l *Local) Load(ctx context.Context, module string) error {
	if l.repo == nil {
		return nil
	}
	data, err := l.repo.Reviews(ctx, module)
	if err != nil {
		return fmt.Errorf("load reviews: %w", err)
	}
	states := make(map[string]*reviewState, len(data))
	for id, d := range data {
		states[id] = &reviewState{
			stage:      d.Stage,
			hits:       d.ConsecutiveHits,
			graduated:  d.Graduated,
			lastReview: d.LastReview,
			nextReview: d.NextReview,
		}
	}
	l.reviews[module] = states
	return nil
}

// DueItems returns up to limit item ids whose next review date has passed,
// most overdue first.
func (l *Local) DueItems(_ context.Context, module string, limit int) ([]string, error) {
	now := l.clock.Now()

	type dueItem struct {
		id      string
		overdue time.Duration
	}
	var due []dueItem
	for id, rs := range l.reviews[module] {
		if now.Before(rs.nextReview) {
			continue
		}
		due = append(due, dueItem{id: id, overdue: now.Sub(rs.nextReview)})
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].overdue != due[j].overdue {
			return due[i].overdue > due[j].overdue
		}
		return due[i].id < due[j].id
	})

	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	ids := make([]string, len(due))
	for i, d := range due {
		ids[i] = d.id
	}
	return ids, nil
}

// RecordReview updates the review schedule after an evaluation. Quality at
// or above HitQuality advances the stage; lower quality resets the hit
// streak and schedules a near-term retry.
func (l *Local) RecordReview(ctx context.Context, module, itemID string, quality int, _ int, _ map[string]any) error {
	states := l.reviews[module]
	if states == nil {
		states = make(map[string]*reviewState)
		l.reviews[module] = states
	}
	rs := states[itemID]
	if rs == nil {
		rs = &reviewState{}
		states[itemID] = rs
	}

	now := l.clock.Now()
	rs.lastReview = now

	if quality >= HitQuality {
		rs.hits++
		if !rs.graduated {
			rs.stage++
			if rs.hits >= GraduationHits {
				rs.graduated = true
			}
		}
		rs.nextReview = now.AddDate(0, 0, intervalDays(rs))
	} else {
		rs.hits = 0
		rs.nextReview = now.AddDate(0, 0, BaseIntervals[0])
	}

	if l.repo == nil {
		return nil
	}
	err := l.repo.SaveReview(ctx, module, store.SRSReviewData{
		ItemID:          itemID,
		Stage:           rs.stage,
		ConsecutiveHits: rs.hits,
		Graduated:       rs.graduated,
		LastReview:      rs.lastReview,
		NextReview:      rs.nextReview,
	})
	if err != nil {
		return fmt.Errorf("save review %s: %w", itemID, err)
	}
	return nil
}

func intervalDays(rs *reviewState) int {
	if rs.graduated {
		return GraduatedIntervalDays
	}
	if rs.stage >= len(BaseIntervals) {
		return BaseIntervals[len(BaseIntervals)-1]
	}
	return BaseIntervals[rs.stage]
}
