package ports

import (
	"context"
	"delivery-time-service/internal/domain"
)

// Contract for memoizing model outputs per record.
// A miss is reported as ok=false with a nil error.
type PredictionCache interface {
	Get(ctx context.Context, version string, rec domain.AugmentedRecord) (minutes float64, ok bool, err error)
	Put(ctx context.Context, version string, rec domain.AugmentedRecord, minutes float64) error
}
