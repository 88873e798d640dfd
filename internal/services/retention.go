package services

import (
	"context"
	"delivery-time-service/internal/ports"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron"
)

// Retention deletes audit log entries older than MaxAge.
type Retention struct {
	Log    ports.PredictionLog
	MaxAge time.Duration
	Now    func() time.Time
}

// PruneOnce removes expired entries and reports how many were deleted.
func (r *Retention) PruneOnce(ctx context.Context) (int64, error) {
	if r.Log == nil {
		return 0, errors.New("retention: prediction log is nil")
	}
	if r.MaxAge <= 0 {
		return 0, nil
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	n, err := r.Log.Prune(ctx, now().Add(-r.MaxAge))
	if err != nil {
		return 0, fmt.Errorf("retention: %w", err)
	}
	return n, nil
}

// Schedule runs PruneOnce on the cron spec (for example "@every 1h").
// The caller must Stop the returned scheduler.
func (r *Retention) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New()
	err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := r.PruneOnce(ctx)
		if err != nil {
			log.Printf("prediction log prune failed: %v", err)
			return
		}
		log.Printf("prediction log pruned rows=%d max_age=%s", n, r.MaxAge)
	})
	if err != nil {
		return nil, fmt.Errorf("retention: schedule %q: %w", spec, err)
	}

	c.Start()
	return c, nil
}
