package ports

import (
	"context"
	"delivery-time-service/internal/domain"
	"time"
)

// Port: append-only audit trail of prediction attempts.
type PredictionLog interface {
	Record(ctx context.Context, entry domain.PredictionLogEntry) error
	// Return the newest entries first.
	ListRecent(ctx context.Context, limit int) ([]domain.PredictionLogEntry, error)
	// Delete entries requested before cutoff and report how many were removed.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}
