package zone

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/lumen-home/lumen-core/internal/boundary"

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
		CREATE TABLE zones (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL,
			brightness_min  INTEGER NOT NULL,
			brightness_max  INTEGER NOT NULL,
			color_temp_min  INTEGER NOT NULL,
			color_temp_max  INTEGER NOT NULL,
			enabled         INTEGER NOT NULL DEFAULT 1,
			environmental   INTEGER NOT NULL DEFAULT 1,
			sunset          INTEGER NOT NULL DEFAULT 1,
			wake            INTEGER NOT NULL DEFAULT 0,
			manual_timeout  INTEGER NOT NULL DEFAULT 0,
			updated_at      TEXT NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating schema: %v", err)
	}
	return db
}

func TestUpsertAndList(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	z := &Zone{
		ID: "living-room", Name: "Living Room",
		Brightness:    boundary.Range{Min: 20, Max: 100},
		ColorTemp:     boundary.Range{Min: 2000, Max: 6500},
		Enabled:       true,
		Environmental: true,
		Sunset:        true,
		ManualTimeout: 45 * time.Minute,
	}
	if err := repo.Upsert(ctx, z); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	// Upsert again with changed values: still one row, new values win.
	z.Name = "Lounge"
	z.Brightness.Min = 25
	if err := repo.Upsert(ctx, z); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	zones, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(zones) != 1 {
		t.Fatalf("List returned %d rows, want 1", len(zones))
	}
	got := zones[0]
	if got.Name != "Lounge" || got.Brightness.Min != 25 {
		t.Errorf("upsert did not refresh: %+v", got)
	}
	if got.ManualTimeout != 45*time.Minute {
		t.Errorf("manual timeout = %v, want 45m", got.ManualTimeout)
	}
	if !got.Enabled || !got.Environmental || !got.Sunset || got.Wake {
		t.Errorf("flags round-trip wrong: %+v", got)
	}
}

func TestPrune(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		z := &Zone{
			ID: id, Name: id,
			Brightness: boundary.Range{Min: 0, Max: 100},
			ColorTemp:  boundary.Range{Min: 2000, Max: 6500},
		}
		if err := repo.Upsert(ctx, z); err != nil {
			t.Fatalf("Upsert %s: %v", id, err)
		}
	}

	if err := repo.Prune(ctx, []string{"a", "c"}); err != nil {
		t.Fatalf("Prune: %v", err)
	}

	zones, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(zones) != 2 {
		t.Fatalf("after prune %d rows, want 2", len(zones))
	}
	for _, z := range zones {
		if z.ID == "b" {
			t.Error("pruned zone still present")
		}
	}

	// Empty keep removes everything.
	if err := repo.Prune(ctx, nil); err != nil {
		t.Fatalf("Prune all: %v", err)
	}
	zones, _ = repo.List(ctx)
	if len(zones) != 0 {
		t.Errorf("after full prune %d rows, want 0", len(zones))
	}
}
