package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMasteryRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	rec, err := repo.Mastery(ctx, "rhythm")
	if err != nil {
		t.Fatalf("mastery (empty): %v", err)
	}
	if len(rec.Items) != 0 {
		t.Fatalf("expected empty mastery record, got %v", rec.Items)
	}

	if err := repo.SaveMastery(ctx, "rhythm", &MasteryRecord{Items: []string{"44-gallop", "34-waltz"}}); err != nil {
		t.Fatalf("save mastery: %v", err)
	}
	// Saving the same items again must not duplicate them.
	if err := repo.SaveMastery(ctx, "rhythm", &MasteryRecord{Items: []string{"44-gallop"}}); err != nil {
		t.Fatalf("save mastery again: %v", err)
	}

	rec, err = repo.Mastery(ctx, "rhythm")
	if err != nil {
		t.Fatalf("mastery: %v", err)
	}
	if len(rec.Items) != 2 {
		t.Errorf("items = %v, want 2 entries", rec.Items)
	}
}

func TestConfusionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	in := &ConfusionRecord{
		ByItem: map[string]int{"44-gallop": 3, "68-jig": 1},
		ByPair: map[string]int{"quarter:eighth": 2, "eighth:sixteenth": 1},
	}
	if err := repo.SaveConfusion(ctx, "rhythm", in); err != nil {
		t.Fatalf("save confusion: %v", err)
	}

	out, err := repo.Confusion(ctx, "rhythm")
	if err != nil {
		t.Fatalf("load confusion: %v", err)
	}
	if len(out.ByItem) != len(in.ByItem) || len(out.ByPair) != len(in.ByPair) {
		t.Fatalf("round trip lost entries: %+v", out)
	}
	for k, v := range in.ByItem {
		if out.ByItem[k] != v {
			t.Errorf("byItem[%s] = %d, want %d", k, out.ByItem[k], v)
		}
	}
	for k, v := range in.ByPair {
		if out.ByPair[k] != v {
			t.Errorf("byPair[%s] = %d, want %d", k, out.ByPair[k], v)
		}
	}
}

func TestConfusionIsolatedByModule(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	if err := repo.SaveConfusion(ctx, "rhythm", &ConfusionRecord{
		ByItem: map[string]int{"x": 1}, ByPair: map[string]int{},
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	other, err := repo.Confusion(ctx, "intervals")
	if err != nil {
		t.Fatalf("load other module: %v", err)
	}
	if len(other.ByItem) != 0 {
		t.Errorf("module isolation broken: %+v", other)
	}
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	if err := repo.SaveMastery(ctx, "rhythm", &MasteryRecord{Items: []string{"a"}}); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveConfusion(ctx, "rhythm", &ConfusionRecord{
		ByItem: map[string]int{"a": 5}, ByPair: map[string]int{"quarter:eighth": 5},
	}); err != nil {
		t.Fatal(err)
	}

	if err := repo.Reset(ctx, "rhythm"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	rec, _ := repo.Mastery(ctx, "rhythm")
	if len(rec.Items) != 0 {
		t.Errorf("mastery survived reset: %v", rec.Items)
	}
	conf, _ := repo.Confusion(ctx, "rhythm")
	if len(conf.ByItem) != 0 || len(conf.ByPair) != 0 {
		t.Errorf("confusion survived reset: %+v", conf)
	}
}

func TestEventRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendXP(ctx, XPEventData{Module: "rhythm", Amount: 14, Reason: "correct answer"}); err != nil {
		t.Fatalf("append xp: %v", err)
	}
	if err := repo.AppendXP(ctx, XPEventData{Module: "rhythm", Amount: 3, Reason: "participation"}); err != nil {
		t.Fatalf("append xp: %v", err)
	}

	total, err := repo.XPTotal(ctx, "rhythm")
	if err != nil {
		t.Fatalf("xp total: %v", err)
	}
	if total != 17 {
		t.Errorf("xp total = %d, want 17", total)
	}

	if err := repo.AppendActivity(ctx, ActivityEventData{
		Module: "rhythm", Event: "evaluation",
		Payload: map[string]any{"correct": true},
	}); err != nil {
		t.Fatalf("append activity: %v", err)
	}
	if err := repo.AppendActivity(ctx, ActivityEventData{Module: "rhythm", Event: "evaluation"}); err != nil {
		t.Fatalf("append activity nil payload: %v", err)
	}

	counts, err := repo.ActivityCounts(ctx, "rhythm")
	if err != nil {
		t.Fatalf("activity counts: %v", err)
	}
	if counts["evaluation"] != 2 {
		t.Errorf("evaluation count = %d, want 2", counts["evaluation"])
	}
}

func TestSRSRepoRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.SRSRepo()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	data := SRSReviewData{
		ItemID:          "44-gallop",
		Stage:           2,
		ConsecutiveHits: 3,
		Graduated:       false,
		LastReview:      now,
		NextReview:      now.AddDate(0, 0, 7),
	}
	if err := repo.SaveReview(ctx, "rhythm", data); err != nil {
		t.Fatalf("save review: %v", err)
	}

	// Upsert replaces, not duplicates.
	data.Stage = 3
	if err := repo.SaveReview(ctx, "rhythm", data); err != nil {
		t.Fatalf("save review again: %v", err)
	}

	reviews, err := repo.Reviews(ctx, "rhythm")
	if err != nil {
		t.Fatalf("load reviews: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("reviews = %d, want 1", len(reviews))
	}
	got := reviews["44-gallop"]
	if got.Stage != 3 || got.ConsecutiveHits != 3 {
		t.Errorf("review = %+v", got)
	}
	if !got.NextReview.Equal(data.NextReview) {
		t.Errorf("next review = %v, want %v", got.NextReview, data.NextReview)
	}
}

func TestDifficultyRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.DifficultyRepo()
	ctx := context.Background()

	_, ok, err := repo.Level(ctx, "rhythm")
	if err != nil {
		t.Fatalf("level (empty): %v", err)
	}
	if ok {
		t.Error("expected ok=false with no stored level")
	}

	if err := repo.SaveLevel(ctx, "rhythm", 4); err != nil {
		t.Fatalf("save level: %v", err)
	}
	level, ok, err := repo.Level(ctx, "rhythm")
	if err != nil || !ok || level != 4 {
		t.Errorf("level = %d ok=%v err=%v, want 4/true/nil", level, ok, err)
	}
}
