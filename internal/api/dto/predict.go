package dto

import "time"

// PredictRequest is the JSON body of POST /api/predict.
type PredictRequest struct {
	DistanceKm           float64 `json:"distance_km"`
	Weather              string  `json:"weather"`
	TrafficLevel         string  `json:"traffic_level"`
	TimeOfDay            string  `json:"time_of_day"`
	VehicleType          string  `json:"vehicle_type"`
	PreparationTimeMin   float64 `json:"preparation_time_min"`
	CourierExperienceYrs float64 `json:"courier_experience_yrs"`
}

// RecordResponse is the augmented record the model was given.
type RecordResponse struct {
	DistanceKm           float64 `json:"distance_km"`
	Weather              string  `json:"weather"`
	TrafficLevel         string  `json:"traffic_level"`
	TimeOfDay            string  `json:"time_of_day"`
	VehicleType          string  `json:"vehicle_type"`
	PreparationTimeMin   float64 `json:"preparation_time_min"`
	CourierExperienceYrs float64 `json:"courier_experience_yrs"`
	PrepToDelivRatio     float64 `json:"prep_to_deliv_ratio"`
	SpeedKmPerMin        float64 `json:"speed_km_per_min"`
	ExperienceLevel      string  `json:"experience_level"`
}

type PredictResponse struct {
	Record           RecordResponse `json:"record"`
	EstimatedMinutes float64        `json:"estimated_minutes"`
	Display          string         `json:"display"`
	ModelVersion     string         `json:"model_version"`
	Cached           bool           `json:"cached"`
	PredictedAt      time.Time      `json:"predicted_at"`
}

type PredictionLogEntryResponse struct {
	ID               int64          `json:"id"`
	Record           RecordResponse `json:"record"`
	EstimatedMinutes *float64       `json:"estimated_minutes"`
	Error            string         `json:"error,omitempty"`
	ModelVersion     string         `json:"model_version"`
	RequestedAt      time.Time      `json:"requested_at"`
}

type ListPredictionsResponse struct {
	Predictions []PredictionLogEntryResponse `json:"predictions"`
}
