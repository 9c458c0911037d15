package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// eventRepo implements EventRepo on the SQLite store.
type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendXP(ctx context.Context, data XPEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO xp_events (module, amount, reason, created_at) VALUES (?, ?, ?, ?)`,
		data.Module, data.Amount, data.Reason, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("append xp event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendActivity(ctx context.Context, data ActivityEventData) error {
	payload := data.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal activity payload: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO activity_events (module, event, payload, created_at) VALUES (?, ?, ?, ?)`,
		data.Module, data.Event, string(raw), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("append activity event: %w", err)
	}
	return nil
}

func (r *eventRepo) XPTotal(ctx context.Context, module string) (int, error) {
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(amount) FROM xp_events WHERE module = ?`, module).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("query xp total: %w", err)
	}
	return int(total.Int64), nil
}

func (r *eventRepo) ActivityCounts(ctx context.Context, module string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT event, COUNT(*) FROM activity_events WHERE module = ? GROUP BY event`, module)
	if err != nil {
		return nil, fmt.Errorf("query activity counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var event string
		var n int
		if err := rows.Scan(&event, &n); err != nil {
			return nil, fmt.Errorf("scan activity count: %w", err)
		}
		counts[event] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity counts: %w", err)
	}
	return counts, nil
}
