package repositories

import (
	"context"
	"database/sql"
	"delivery-time-service/internal/domain"
	"delivery-time-service/internal/platform/obs"
	"errors"
	"fmt"
	"time"
)

// SQLite-backed implementation of the PredictionLog port.
type SqlitePredictionLog struct{ DB *sql.DB }

func NewSqlitePredictionLog(db *sql.DB) *SqlitePredictionLog {
	return &SqlitePredictionLog{DB: db}
}

// Append one prediction attempt.
func (s *SqlitePredictionLog) Record(ctx context.Context, entry domain.PredictionLogEntry) (err error) {
	defer obs.Time(ctx, "prediction.log.Record")(&err)

	if s.DB == nil {
		return errors.New("sqlite prediction log: DB is nil")
	}

	r := rowFromEntry(entry)
	query := `
	INSERT INTO prediction_log (
		requested_at,
		distance_km,
		weather,
		traffic_level,
		time_of_day,
		vehicle_type,
		preparation_time_min,
		courier_experience_yrs,
		prep_to_deliv_ratio,
		speed_km_per_min,
		experience_level,
		predicted_minutes,
		error,
		model_version
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err = s.DB.ExecContext(ctx, query,
		r.RequestedAt.UnixMicro(),
		r.DistanceKm, r.Weather, r.TrafficLevel, r.TimeOfDay, r.VehicleType,
		r.PreparationTimeMin, r.CourierExperienceYrs,
		r.PrepToDelivRatio, r.SpeedKmPerMin, r.ExperienceLevel,
		r.PredictedMinutes, r.Error, r.ModelVersion,
	)
	if err != nil {
		return fmt.Errorf("record prediction: insert prediction_log: %w", err)
	}
	return nil
}

// Return up to limit entries, newest first.
func (s *SqlitePredictionLog) ListRecent(ctx context.Context, limit int) (_ []domain.PredictionLogEntry, err error) {
	defer obs.Time(ctx, "prediction.log.ListRecent")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite prediction log: DB is nil")
	}
	if limit <= 0 {
		return []domain.PredictionLogEntry{}, nil
	}

	query := `
	SELECT
		id,
		requested_at,
		distance_km,
		weather,
		traffic_level,
		time_of_day,
		vehicle_type,
		preparation_time_min,
		courier_experience_yrs,
		prep_to_deliv_ratio,
		speed_km_per_min,
		experience_level,
		predicted_minutes,
		error,
		model_version
	FROM prediction_log
	ORDER BY requested_at DESC, id DESC
	LIMIT ?;
	`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list predictions: query prediction_log table: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.PredictionLogEntry, 0, limit)
	for rows.Next() {
		var r predictionRow
		var micros int64
		err := rows.Scan(
			&r.ID, &micros,
			&r.DistanceKm, &r.Weather, &r.TrafficLevel, &r.TimeOfDay, &r.VehicleType,
			&r.PreparationTimeMin, &r.CourierExperienceYrs,
			&r.PrepToDelivRatio, &r.SpeedKmPerMin, &r.ExperienceLevel,
			&r.PredictedMinutes, &r.Error, &r.ModelVersion,
		)
		if err != nil {
			return nil, fmt.Errorf("list predictions: scan row: %w", err)
		}
		r.RequestedAt = time.UnixMicro(micros).UTC()
		entries = append(entries, r.entry())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list predictions: row iteration: %w", err)
	}

	return entries, nil
}

// Delete entries requested before cutoff.
func (s *SqlitePredictionLog) Prune(ctx context.Context, cutoff time.Time) (_ int64, err error) {
	defer obs.Time(ctx, "prediction.log.Prune")(&err)

	if s.DB == nil {
		return 0, errors.New("sqlite prediction log: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM prediction_log WHERE requested_at < ?;`, cutoff.UTC().UnixMicro())
	if err != nil {
		return 0, fmt.Errorf("prune predictions: delete: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune predictions: rows affected: %w", err)
	}
	return n, nil
}
