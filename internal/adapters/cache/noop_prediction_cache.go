package cache

import (
	"context"
	"delivery-time-service/internal/domain"
)

// NoopPredictionCache never stores anything. Used when no Redis address is configured.
type NoopPredictionCache struct{}

func (NoopPredictionCache) Get(context.Context, string, domain.AugmentedRecord) (float64, bool, error) {
	return 0, false, nil
}

func (NoopPredictionCache) Put(context.Context, string, domain.AugmentedRecord, float64) error {
	return nil
}
