package coordinator

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE adjustment_state (
			id                    INTEGER PRIMARY KEY CHECK (id = 1),
			brightness_adjustment INTEGER NOT NULL DEFAULT 0,
			warmth_adjustment     INTEGER NOT NULL DEFAULT 0,
			active_scene          TEXT NOT NULL DEFAULT 'automatic',
			paused                INTEGER NOT NULL DEFAULT 0,
			updated_at            TEXT NOT NULL
		);
		CREATE TABLE tick_runs (
			id             TEXT PRIMARY KEY,
			started_at     TEXT NOT NULL,
			completed_at   TEXT NOT NULL,
			duration_ms    INTEGER NOT NULL,
			trigger_type   TEXT NOT NULL,
			zones_touched  INTEGER NOT NULL,
			zones_skipped  INTEGER NOT NULL,
			zones_failed   INTEGER NOT NULL,
			active_scene   TEXT NOT NULL,
			snapshot_json  TEXT NOT NULL
		);`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating schema: %v", err)
	}
	return db
}

func TestAdjustmentRepositoryRoundTrip(t *testing.T) {
	repo := NewSQLiteAdjustmentRepository(setupTestDB(t))
	ctx := context.Background()

	// Empty table: zero values, no error.
	s, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if s.Brightness != 0 || s.ActiveScene != "" {
		t.Errorf("empty load = %+v", s)
	}

	want := adjustmentSnapshot{Brightness: 15, Warmth: -200, ActiveScene: "relax", Paused: true}
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Brightness != 15 || got.Warmth != -200 || got.ActiveScene != "relax" || !got.Paused {
		t.Errorf("round trip = %+v", got)
	}

	// Temporary offsets save as zero; a restart must not resume a nudge.
	temp := adjustmentSnapshot{Brightness: 20, Warmth: 100, Temporary: true, ActiveScene: "relax"}
	if err := repo.Save(ctx, temp); err != nil {
		t.Fatalf("Save temporary: %v", err)
	}
	got, _ = repo.Load(ctx)
	if got.Brightness != 0 || got.Warmth != 0 {
		t.Errorf("temporary offsets persisted: %+v", got)
	}
	if got.ActiveScene != "relax" {
		t.Errorf("scene lost on temporary save: %+v", got)
	}
}

func TestTickRepositoryInsertRecentPrune(t *testing.T) {
	repo := NewSQLiteTickRepository(setupTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		snap := &TickSnapshot{
			ID:          string(rune('a' + i)),
			Trigger:     TriggerInterval,
			StartedAt:   base.Add(time.Duration(i) * time.Minute),
			CompletedAt: base.Add(time.Duration(i)*time.Minute + time.Second),
			DurationMS:  1000,
			ActiveScene: "automatic",
			Touched:     2,
		}
		if err := repo.Insert(ctx, snap); err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
	}

	recent, err := repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "e" || recent[1].ID != "d" {
		t.Errorf("Recent = %+v, want newest first [e d]", recent)
	}

	if err := repo.Prune(ctx, 3); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	all, _ := repo.Recent(ctx, 10)
	if len(all) != 3 || all[len(all)-1].ID != "c" {
		t.Errorf("after prune = %d rows, oldest %s; want 3 rows oldest c", len(all), all[len(all)-1].ID)
	}
}

func TestTickRepositoryOrdersSubSecond(t *testing.T) {
	repo := NewSQLiteTickRepository(setupTestDB(t))
	ctx := context.Background()

	// Trailing-zero fractions must not sort after longer ones.
	base := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	older := base.Add(500 * time.Millisecond)
	newer := base.Add(512300 * time.Microsecond)
	for _, snap := range []*TickSnapshot{
		{ID: "older", Trigger: TriggerInterval, StartedAt: older, CompletedAt: older, ActiveScene: "automatic"},
		{ID: "newer", Trigger: TriggerInterval, StartedAt: newer, CompletedAt: newer, ActiveScene: "automatic"},
	} {
		if err := repo.Insert(ctx, snap); err != nil {
			t.Fatalf("Insert %s: %v", snap.ID, err)
		}
	}

	recent, err := repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent returned %d rows, want 2", len(recent))
	}
	if recent[0].ID != "newer" || recent[1].ID != "older" {
		t.Errorf("Recent = [%s %s], want [newer older]", recent[0].ID, recent[1].ID)
	}

	if err := repo.Prune(ctx, 1); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	left, _ := repo.Recent(ctx, 2)
	if len(left) != 1 || left[0].ID != "newer" {
		t.Errorf("after prune kept %+v, want newer only", left)
	}
}
