// Package gamify provides the XP ledger contract consumed by the drill
// engine.
package gamify

import (
	"context"
	"fmt"

	"github.com/abhisek/rhythmiz/internal/store"
)

// Ledger records earned XP. Calls are fire-and-forget; errors are logged by
// the caller, never propagated into session state.
type Ledger interface {
	AddXP(ctx context.Context, module string, amount int, reason string) error
}

// PracticeAwarder is an optional override hook. When bound and returning
// without error, its amount replaces the locally computed reward for that
// evaluation.
type PracticeAwarder interface {
	AwardPracticeXP(ctx context.Context, module string, correct bool, context map[string]any) (int, error)
}

// StoreLedger appends XP events to the durable event log.
type StoreLedger struct {
	repo store.EventRepo
}

// NewStoreLedger creates a ledger backed by the event repo.
func NewStoreLedger(repo store.EventRepo) *StoreLedger {
	return &StoreLedger{repo: repo}
}

func (l *StoreLedger) AddXP(ctx context.Context, module string, amount int, reason string) error {
	if l.repo == nil {
		return nil
	}
	err := l.repo.AppendXP(ctx, store.XPEventData{Module: module, Amount: amount, Reason: reason})
	if err != nil {
		return fmt.Errorf("append xp: %w", err)
	}
	return nil
}

// Total returns the accumulated XP for a module.
func (l *StoreLedger) Total(ctx context.Context, module string) (int, error) {
	if l.repo == nil {
		return 0, nil
	}
	return l.repo.XPTotal(ctx, module)
}
