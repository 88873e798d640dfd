package repositories

import (
	"context"
	"delivery-time-service/internal/domain"
	"delivery-time-service/internal/platform/obs"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLPredictionLog is a PostgreSQL-backed PredictionLog.
type SQLPredictionLog struct {
	DB *sqlx.DB
}

func NewSQLPredictionLog(db *sqlx.DB) *SQLPredictionLog {
	return &SQLPredictionLog{DB: db}
}

func (s *SQLPredictionLog) Record(ctx context.Context, entry domain.PredictionLogEntry) (err error) {
	defer obs.Time(ctx, "prediction.log.Record")(&err)

	if s.DB == nil {
		return errors.New("prediction log: db is nil")
	}

	const query = `
	INSERT INTO prediction_log (
		requested_at, distance_km, weather, traffic_level, time_of_day, vehicle_type,
		preparation_time_min, courier_experience_yrs, prep_to_deliv_ratio,
		speed_km_per_min, experience_level, predicted_minutes, error, model_version
	) VALUES (
		:requested_at, :distance_km, :weather, :traffic_level, :time_of_day, :vehicle_type,
		:preparation_time_min, :courier_experience_yrs, :prep_to_deliv_ratio,
		:speed_km_per_min, :experience_level, :predicted_minutes, :error, :model_version
	);
	`
	if _, err := s.DB.NamedExecContext(ctx, query, rowFromEntry(entry)); err != nil {
		return fmt.Errorf("record prediction: insert prediction_log: %w", err)
	}
	return nil
}

func (s *SQLPredictionLog) ListRecent(ctx context.Context, limit int) (_ []domain.PredictionLogEntry, err error) {
	defer obs.Time(ctx, "prediction.log.ListRecent")(&err)

	if s.DB == nil {
		return nil, errors.New("prediction log: db is nil")
	}
	if limit <= 0 {
		return []domain.PredictionLogEntry{}, nil
	}

	var rows []predictionRow
	const query = `
	SELECT id, requested_at, distance_km, weather, traffic_level, time_of_day, vehicle_type,
		preparation_time_min, courier_experience_yrs, prep_to_deliv_ratio,
		speed_km_per_min, experience_level, predicted_minutes, error, model_version
	FROM prediction_log
	ORDER BY requested_at DESC, id DESC
	LIMIT $1;
	`
	if err := s.DB.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list predictions: select prediction_log: %w", err)
	}

	out := make([]domain.PredictionLogEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.entry())
	}
	return out, nil
}

func (s *SQLPredictionLog) Prune(ctx context.Context, cutoff time.Time) (_ int64, err error) {
	defer obs.Time(ctx, "prediction.log.Prune")(&err)

	if s.DB == nil {
		return 0, errors.New("prediction log: db is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM prediction_log WHERE requested_at < $1;`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune predictions: delete: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune predictions: rows affected: %w", err)
	}
	return n, nil
}
