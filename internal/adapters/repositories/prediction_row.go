package repositories

import (
	"database/sql"
	"delivery-time-service/internal/domain"
	"time"
)

// Flat prediction_log row shared by both SQL backends.
type predictionRow struct {
	ID                   int64           `db:"id"`
	RequestedAt          time.Time       `db:"requested_at"`
	DistanceKm           float64         `db:"distance_km"`
	Weather              string          `db:"weather"`
	TrafficLevel         string          `db:"traffic_level"`
	TimeOfDay            string          `db:"time_of_day"`
	VehicleType          string          `db:"vehicle_type"`
	PreparationTimeMin   float64         `db:"preparation_time_min"`
	CourierExperienceYrs float64         `db:"courier_experience_yrs"`
	PrepToDelivRatio     float64         `db:"prep_to_deliv_ratio"`
	SpeedKmPerMin        float64         `db:"speed_km_per_min"`
	ExperienceLevel      string          `db:"experience_level"`
	PredictedMinutes     sql.NullFloat64 `db:"predicted_minutes"`
	Error                string          `db:"error"`
	ModelVersion         string          `db:"model_version"`
}

func rowFromEntry(e domain.PredictionLogEntry) predictionRow {
	r := predictionRow{
		ID:                   e.ID,
		RequestedAt:          e.RequestedAt.UTC(),
		DistanceKm:           e.Record.DistanceKm,
		Weather:              string(e.Record.Weather),
		TrafficLevel:         string(e.Record.TrafficLevel),
		TimeOfDay:            string(e.Record.TimeOfDay),
		VehicleType:          string(e.Record.VehicleType),
		PreparationTimeMin:   e.Record.PreparationTimeMin,
		CourierExperienceYrs: e.Record.CourierExperienceYrs,
		PrepToDelivRatio:     e.Record.PrepToDelivRatio,
		SpeedKmPerMin:        e.Record.SpeedKmPerMin,
		ExperienceLevel:      string(e.Record.ExperienceLevel),
		Error:                e.Error,
		ModelVersion:         e.ModelVersion,
	}
	if e.Minutes != nil {
		r.PredictedMinutes = sql.NullFloat64{Float64: *e.Minutes, Valid: true}
	}
	return r
}

func (r predictionRow) entry() domain.PredictionLogEntry {
	e := domain.PredictionLogEntry{
		ID: r.ID,
		Record: domain.AugmentedRecord{
			DeliveryRequest: domain.DeliveryRequest{
				DistanceKm:           r.DistanceKm,
				Weather:              domain.Weather(r.Weather),
				TrafficLevel:         domain.TrafficLevel(r.TrafficLevel),
				TimeOfDay:            domain.TimeOfDay(r.TimeOfDay),
				VehicleType:          domain.VehicleType(r.VehicleType),
				PreparationTimeMin:   r.PreparationTimeMin,
				CourierExperienceYrs: r.CourierExperienceYrs,
			},
			PrepToDelivRatio: r.PrepToDelivRatio,
			SpeedKmPerMin:    r.SpeedKmPerMin,
			ExperienceLevel:  domain.ExperienceLevel(r.ExperienceLevel),
		},
		Error:        r.Error,
		ModelVersion: r.ModelVersion,
		RequestedAt:  r.RequestedAt,
	}
	if r.PredictedMinutes.Valid {
		m := r.PredictedMinutes.Float64
		e.Minutes = &m
	}
	return e
}
