package coordinator

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// AdjustmentRepository persists the process-wide adjustment row.
type AdjustmentRepository interface {
	// Load reads the persisted adjustment state, returning zero values
	// and no error when none has been saved yet.
	Load(ctx context.Context) (adjustmentSnapshot, error)

	// Save upserts the adjustment state. Only persistent offsets are
	// worth saving; callers decide when.
	Save(ctx context.Context, s adjustmentSnapshot) error
}

// TickRepository persists the calculation-pass history.
type TickRepository interface {
	// Insert records one completed pass.
	Insert(ctx context.Context, snap *TickSnapshot) error

	// Recent returns the most recent passes, newest first.
	Recent(ctx context.Context, limit int) ([]TickSnapshot, error)

	// Prune deletes all but the newest keep rows.
	Prune(ctx context.Context, keep int) error
}

// SQLiteAdjustmentRepository implements AdjustmentRepository using SQLite.
type SQLiteAdjustmentRepository struct {
	db *sql.DB
}

// NewSQLiteAdjustmentRepository creates a new SQLite-backed adjustment repository.
func NewSQLiteAdjustmentRepository(db *sql.DB) *SQLiteAdjustmentRepository {
	return &SQLiteAdjustmentRepository{db: db}
}

// Load reads the single adjustment row.
func (r *SQLiteAdjustmentRepository) Load(ctx context.Context) (adjustmentSnapshot, error) {
	var s adjustmentSnapshot
	var paused int
	err := r.db.QueryRowContext(ctx, `
		SELECT brightness_adjustment, warmth_adjustment, active_scene, paused
		FROM adjustment_state WHERE id = 1`,
	).Scan(&s.Brightness, &s.Warmth, &s.ActiveScene, &paused)
	if err == sql.ErrNoRows {
		return adjustmentSnapshot{}, nil
	}
	if err != nil {
		return adjustmentSnapshot{}, fmt.Errorf("loading adjustment state: %w", err)
	}
	s.Paused = paused != 0
	return s, nil
}

// Save upserts the single adjustment row. Temporary nudge offsets are
// stored as zero so a restart never resumes a stale nudge.
func (r *SQLiteAdjustmentRepository) Save(ctx context.Context, s adjustmentSnapshot) error {
	brightness, warmth := s.Brightness, s.Warmth
	if s.Temporary {
		brightness, warmth = 0, 0
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO adjustment_state (id, brightness_adjustment, warmth_adjustment, active_scene, paused, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			brightness_adjustment = excluded.brightness_adjustment,
			warmth_adjustment = excluded.warmth_adjustment,
			active_scene = excluded.active_scene,
			paused = excluded.paused,
			updated_at = excluded.updated_at`,
		brightness, warmth, s.ActiveScene, boolToInt(s.Paused),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving adjustment state: %w", err)
	}
	return nil
}

// tickTimeLayout is fixed-width, unlike RFC3339Nano which drops
// trailing fractional zeros, so the lexicographic ORDER BY on the
// stored text matches chronological order.
const tickTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteTickRepository implements TickRepository using SQLite.
type SQLiteTickRepository struct {
	db *sql.DB
}

// NewSQLiteTickRepository creates a new SQLite-backed tick repository.
func NewSQLiteTickRepository(db *sql.DB) *SQLiteTickRepository {
	return &SQLiteTickRepository{db: db}
}

// Insert records one completed pass.
func (r *SQLiteTickRepository) Insert(ctx context.Context, snap *TickSnapshot) error {
	blob, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshalling tick snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO tick_runs (
			id, started_at, completed_at, duration_ms, trigger_type,
			zones_touched, zones_skipped, zones_failed,
			active_scene, snapshot_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID,
		snap.StartedAt.UTC().Format(tickTimeLayout),
		snap.CompletedAt.UTC().Format(tickTimeLayout),
		snap.DurationMS, snap.Trigger,
		snap.Touched, snap.Skipped, snap.Failed,
		snap.ActiveScene, string(blob),
	)
	if err != nil {
		return fmt.Errorf("inserting tick run %s: %w", snap.ID, err)
	}
	return nil
}

// Recent returns the most recent passes, newest first.
func (r *SQLiteTickRepository) Recent(ctx context.Context, limit int) ([]TickSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT snapshot_json FROM tick_runs
		ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing tick runs: %w", err)
	}
	defer rows.Close()

	var out []TickSnapshot
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scanning tick run: %w", err)
		}
		var snap TickSnapshot
		if err := json.Unmarshal([]byte(blob), &snap); err != nil {
			return nil, fmt.Errorf("unmarshalling tick run: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Prune deletes all but the newest keep rows.
func (r *SQLiteTickRepository) Prune(ctx context.Context, keep int) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM tick_runs WHERE id NOT IN (
			SELECT id FROM tick_runs ORDER BY started_at DESC LIMIT ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("pruning tick runs: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
