package zone

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository defines the persistence operations for the zone mirror.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	// Upsert writes or refreshes the mirror row for a zone.
	Upsert(ctx context.Context, z *Zone) error

	// List retrieves all mirrored zones.
	List(ctx context.Context) ([]Zone, error)

	// Prune removes mirror rows whose ids are not in keep. Called at
	// startup so rows for zones deleted from configuration do not
	// linger.
	Prune(ctx context.Context, keep []string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed zone repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert writes or refreshes the mirror row for a zone.
func (r *SQLiteRepository) Upsert(ctx context.Context, z *Zone) error {
	query := `
		INSERT INTO zones (
			id, name, brightness_min, brightness_max,
			color_temp_min, color_temp_max,
			enabled, environmental, sunset, wake,
			manual_timeout, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			brightness_min = excluded.brightness_min,
			brightness_max = excluded.brightness_max,
			color_temp_min = excluded.color_temp_min,
			color_temp_max = excluded.color_temp_max,
			enabled = excluded.enabled,
			environmental = excluded.environmental,
			sunset = excluded.sunset,
			wake = excluded.wake,
			manual_timeout = excluded.manual_timeout,
			updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		z.ID, z.Name,
		z.Brightness.Min, z.Brightness.Max,
		z.ColorTemp.Min, z.ColorTemp.Max,
		boolToInt(z.Enabled), boolToInt(z.Environmental),
		boolToInt(z.Sunset), boolToInt(z.Wake),
		int64(z.ManualTimeout/time.Minute),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting zone %s: %w", z.ID, err)
	}
	return nil
}

// List retrieves all mirrored zones ordered by id.
func (r *SQLiteRepository) List(ctx context.Context) ([]Zone, error) {
	query := `
		SELECT id, name, brightness_min, brightness_max,
		       color_temp_min, color_temp_max,
		       enabled, environmental, sunset, wake, manual_timeout
		FROM zones ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing zones: %w", err)
	}
	defer rows.Close()

	var zones []Zone
	for rows.Next() {
		var z Zone
		var enabled, environmental, sunset, wake int
		var timeoutMinutes int64
		if err := rows.Scan(
			&z.ID, &z.Name,
			&z.Brightness.Min, &z.Brightness.Max,
			&z.ColorTemp.Min, &z.ColorTemp.Max,
			&enabled, &environmental, &sunset, &wake,
			&timeoutMinutes,
		); err != nil {
			return nil, fmt.Errorf("scanning zone: %w", err)
		}
		z.Enabled = enabled != 0
		z.Environmental = environmental != 0
		z.Sunset = sunset != 0
		z.Wake = wake != 0
		z.ManualTimeout = time.Duration(timeoutMinutes) * time.Minute
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

// Prune removes mirror rows whose ids are not in keep.
func (r *SQLiteRepository) Prune(ctx context.Context, keep []string) error {
	if len(keep) == 0 {
		_, err := r.db.ExecContext(ctx, `DELETE FROM zones`)
		if err != nil {
			return fmt.Errorf("pruning zones: %w", err)
		}
		return nil
	}

	query := `DELETE FROM zones WHERE id NOT IN (?` +
		repeatPlaceholder(len(keep)-1) + `)`
	args := make([]any, len(keep))
	for i, id := range keep {
		args[i] = id
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("pruning zones: %w", err)
	}
	return nil
}

func repeatPlaceholder(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += ", ?"
	}
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
