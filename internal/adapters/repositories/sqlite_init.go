package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Initialize the SQLite audit log schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// requested_at is stored as unix microseconds (UTC).
	createPredictionLogQuery := `
	CREATE TABLE IF NOT EXISTS prediction_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		requested_at INTEGER NOT NULL,
		distance_km REAL NOT NULL,
		weather TEXT NOT NULL,
		traffic_level TEXT NOT NULL,
		time_of_day TEXT NOT NULL,
		vehicle_type TEXT NOT NULL,
		preparation_time_min REAL NOT NULL,
		courier_experience_yrs REAL NOT NULL,
		prep_to_deliv_ratio REAL NOT NULL,
		speed_km_per_min REAL NOT NULL,
		experience_level TEXT NOT NULL,
		predicted_minutes REAL,
		error TEXT NOT NULL DEFAULT '',
		model_version TEXT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_prediction_log_requested_at
	ON prediction_log(requested_at);
	`

	statements := []string{
		createPredictionLogQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Initialize the PostgreSQL audit log schema.
func InitPostgresSchema(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init postgres schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`
		CREATE TABLE IF NOT EXISTS prediction_log (
			id BIGSERIAL PRIMARY KEY,
			requested_at TIMESTAMPTZ NOT NULL,
			distance_km DOUBLE PRECISION NOT NULL,
			weather TEXT NOT NULL,
			traffic_level TEXT NOT NULL,
			time_of_day TEXT NOT NULL,
			vehicle_type TEXT NOT NULL,
			preparation_time_min DOUBLE PRECISION NOT NULL,
			courier_experience_yrs DOUBLE PRECISION NOT NULL,
			prep_to_deliv_ratio DOUBLE PRECISION NOT NULL,
			speed_km_per_min DOUBLE PRECISION NOT NULL,
			experience_level TEXT NOT NULL,
			predicted_minutes DOUBLE PRECISION,
			error TEXT NOT NULL DEFAULT '',
			model_version TEXT NOT NULL
		);
		`,
		`
		CREATE INDEX IF NOT EXISTS idx_prediction_log_requested_at
		ON prediction_log(requested_at);
		`,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init postgres schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init postgres schema: commit tx: %w", err)
	}

	return nil
}
