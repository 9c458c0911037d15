package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// srsRepo implements SRSRepo on the SQLite store.
type srsRepo struct {
	db *sql.DB
}

func (r *srsRepo) Reviews(ctx context.Context, module string) (map[string]SRSReviewData, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id, stage, consecutive_hits, graduated, last_review, next_review
		 FROM srs_reviews WHERE module = ?`, module)
	if err != nil {
		return nil, fmt.Errorf("query srs reviews: %w", err)
	}
	defer rows.Close()

	out := make(map[string]SRSReviewData)
	for rows.Next() {
		var d SRSReviewData
		var graduated int
		var last, next string
		if err := rows.Scan(&d.ItemID, &d.Stage, &d.ConsecutiveHits, &graduated, &last, &next); err != nil {
			return nil, fmt.Errorf("scan srs review: %w", err)
		}
		d.Graduated = graduated != 0
		if d.LastReview, err = time.Parse(time.RFC3339, last); err != nil {
			continue
		}
		if d.NextReview, err = time.Parse(time.RFC3339, next); err != nil {
			continue
		}
		out[d.ItemID] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate srs reviews: %w", err)
	}
	return out, nil
}

func (r *srsRepo) SaveReview(ctx context.Context, module string, data SRSReviewData) error {
	graduated := 0
	if data.Graduated {
		graduated = 1
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO srs_reviews (module, item_id, stage, consecutive_hits, graduated, last_review, next_review)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (module, item_id) DO UPDATE SET
			stage = excluded.stage,
			consecutive_hits = excluded.consecutive_hits,
			graduated = excluded.graduated,
			last_review = excluded.last_review,
			next_review = excluded.next_review`,
		module, data.ItemID, data.Stage, data.ConsecutiveHits, graduated,
		data.LastReview.UTC().Format(time.RFC3339), data.NextReview.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save srs review %s: %w", data.ItemID, err)
	}
	return nil
}
