package ports

import (
	"context"
	"delivery-time-service/internal/domain"
)

// Port: a boundary around the trained delivery-time model.
type Predictor interface {
	// Return the estimated delivery time in minutes for one record.
	Predict(ctx context.Context, rec domain.AugmentedRecord) (float64, error)
	// Identify the loaded model, used in cache keys and the audit log.
	Version() string
}
