// Package telemetry provides the activity tracking contract consumed by the
// drill engine.
package telemetry

import (
	"context"
	"fmt"

	"github.com/abhisek/rhythmiz/internal/store"
)

// Sink receives activity events. Calls are fire-and-forget; errors are
// logged by the caller, never propagated into session state.
type Sink interface {
	Track(ctx context.Context, module, event string, payload map[string]any) error
}

// StoreSink appends activity events to the durable event log.
type StoreSink struct {
	repo store.EventRepo
}

// NewStoreSink creates a sink backed by the event repo.
func NewStoreSink(repo store.EventRepo) *StoreSink {
	return &StoreSink{repo: repo}
}

func (s *StoreSink) Track(ctx context.Context, module, event string, payload map[string]any) error {
	if s.repo == nil {
		return nil
	}
	err := s.repo.AppendActivity(ctx, store.ActivityEventData{Module: module, Event: event, Payload: payload})
	if err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}

// Nop discards every event.
type Nop struct{}

func (Nop) Track(context.Context, string, string, map[string]any) error { return nil }
