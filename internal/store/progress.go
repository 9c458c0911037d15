package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// progressRepo implements ProgressRepo on the SQLite store.
type progressRepo struct {
	db *sql.DB
}

func (r *progressRepo) Mastery(ctx context.Context, module string) (*MasteryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id FROM mastery_items WHERE module = ? ORDER BY item_id`, module)
	if err != nil {
		return nil, fmt.Errorf("query mastery: %w", err)
	}
	defer rows.Close()

	rec := &MasteryRecord{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan mastery: %w", err)
		}
		rec.Items = append(rec.Items, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mastery: %w", err)
	}
	return rec, nil
}

func (r *progressRepo) SaveMastery(ctx context.Context, module string, rec *MasteryRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin mastery tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, id := range rec.Items {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO mastery_items (module, item_id, mastered_at) VALUES (?, ?, ?)`,
			module, id, now)
		if err != nil {
			return fmt.Errorf("insert mastery %s: %w", id, err)
		}
	}
	return tx.Commit()
}

func (r *progressRepo) Confusion(ctx context.Context, module string) (*ConfusionRecord, error) {
	rec := &ConfusionRecord{
		ByItem: make(map[string]int),
		ByPair: make(map[string]int),
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id, count FROM confusion_items WHERE module = ?`, module)
	if err != nil {
		return nil, fmt.Errorf("query confusion items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("scan confusion item: %w", err)
		}
		rec.ByItem[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate confusion items: %w", err)
	}

	pairRows, err := r.db.QueryContext(ctx,
		`SELECT pair, count FROM confusion_pairs WHERE module = ?`, module)
	if err != nil {
		return nil, fmt.Errorf("query confusion pairs: %w", err)
	}
	defer pairRows.Close()
	for pairRows.Next() {
		var pair string
		var count int
		if err := pairRows.Scan(&pair, &count); err != nil {
			return nil, fmt.Errorf("scan confusion pair: %w", err)
		}
		rec.ByPair[pair] = count
	}
	if err := pairRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate confusion pairs: %w", err)
	}

	return rec, nil
}

func (r *progressRepo) SaveConfusion(ctx context.Context, module string, rec *ConfusionRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin confusion tx: %w", err)
	}
	defer tx.Rollback()

	for id, count := range rec.ByItem {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO confusion_items (module, item_id, count) VALUES (?, ?, ?)
			 ON CONFLICT (module, item_id) DO UPDATE SET count = excluded.count`,
			module, id, count)
		if err != nil {
			return fmt.Errorf("upsert confusion item %s: %w", id, err)
		}
	}
	for pair, count := range rec.ByPair {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO confusion_pairs (module, pair, count) VALUES (?, ?, ?)
			 ON CONFLICT (module, pair) DO UPDATE SET count = excluded.count`,
			module, pair, count)
		if err != nil {
			return fmt.Errorf("upsert confusion pair %s: %w", pair, err)
		}
	}
	return tx.Commit()
}

func (r *progressRepo) Reset(ctx context.Context, module string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"mastery_items", "confusion_items", "confusion_pairs", "srs_reviews"} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE module = ?`, table), module); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return tx.Commit()
}
