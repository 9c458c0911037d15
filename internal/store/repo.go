package store

import (
	"context"
	"time"
)

// MasteryRecord is the persisted set of mastered item ids for one module.
type MasteryRecord struct {
	Items []string
}

// ConfusionRecord is the persisted confusion state for one module.
// ByPair keys are "expected:given".
type ConfusionRecord struct {
	ByItem map[string]int
	ByPair map[string]int
}

// ProgressRepo persists mastery and confusion records. Both records are read
// once at startup and written after every mutating evaluation.
type ProgressRepo interface {
	Mastery(ctx context.Context, module string) (*MasteryRecord, error)
	SaveMastery(ctx context.Context, module string, rec *MasteryRecord) error

	Confusion(ctx context.Context, module string) (*ConfusionRecord, error)
	SaveConfusion(ctx context.Context, module string, rec *ConfusionRecord) error

	// Reset deletes all progress for a module. Confusion reset re-arms the
	// mixups signal; mastery reset is destructive and only used by the
	// reset command.
	Reset(ctx context.Context, module string) error
}

// XPEventData captures one XP award.
type XPEventData struct {
	Module string
	Amount int
	Reason string
}

// ActivityEventData captures one telemetry event.
type ActivityEventData struct {
	Module  string
	Event   string
	Payload map[string]any
}

// EventRepo provides append access to domain events and simple aggregates
// for the stats command.
type EventRepo interface {
	AppendXP(ctx context.Context, data XPEventData) error
	AppendActivity(ctx context.Context, data ActivityEventData) error

	XPTotal(ctx context.Context, module string) (int, error)
	ActivityCounts(ctx context.Context, module string) (map[string]int, error)
}

// SRSReviewData is the persisted review schedule for one item.
type SRSReviewData struct {
	ItemID          string
	Stage           int
	ConsecutiveHits int
	Graduated       bool
	LastReview      time.Time
	NextReview      time.Time
}

// SRSRepo persists spaced repetition review state.
type SRSRepo interface {
	Reviews(ctx context.Context, module string) (map[string]SRSReviewData, error)
	SaveReview(ctx context.Context, module string, data SRSReviewData) error
}

// DifficultyRepo persists the adaptive level per module.
type DifficultyRepo interface {
	// Level returns the stored level; ok is false when none is stored yet.
	Level(ctx context.Context, module string) (level int, ok bool, err error)
	SaveLevel(ctx context.Context, module string, level int) error
}
