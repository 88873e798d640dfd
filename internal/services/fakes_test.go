package services

import (
	"context"
	"delivery-time-service/internal/domain"
	"errors"
	"sync"
	"time"

	"github.com/go-gota/gota/dataframe"
)

type fakePredictor struct {
	minutes float64
	err     error
	version string
	calls   int
}

func (f *fakePredictor) Predict(ctx context.Context, rec domain.AugmentedRecord) (float64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.minutes, nil
}

func (f *fakePredictor) Version() string { return f.version }

type fakeCache struct {
	entries map[string]float64
	getErr  error
	putErr  error
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[string]float64{}} }

func (c *fakeCache) key(version string, rec domain.AugmentedRecord) string {
	return version + "|" + rec.String()
}

func (c *fakeCache) Get(_ context.Context, version string, rec domain.AugmentedRecord) (float64, bool, error) {
	if c.getErr != nil {
		return 0, false, c.getErr
	}
	v, ok := c.entries[c.key(version, rec)]
	return v, ok, nil
}

func (c *fakeCache) Put(_ context.Context, version string, rec domain.AugmentedRecord, minutes float64) error {
	if c.putErr != nil {
		return c.putErr
	}
	c.entries[c.key(version, rec)] = minutes
	return nil
}

type fakeLog struct {
	mu        sync.Mutex
	entries   []domain.PredictionLogEntry
	err       error
	prunedAt  time.Time
	pruneRows int64
}

func (l *fakeLog) Record(_ context.Context, e domain.PredictionLogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.entries = append(l.entries, e)
	return nil
}

func (l *fakeLog) ListRecent(_ context.Context, limit int) ([]domain.PredictionLogEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	n := min(limit, len(l.entries))
	return l.entries[len(l.entries)-n:], nil
}

func (l *fakeLog) Prune(_ context.Context, cutoff time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return 0, l.err
	}
	l.prunedAt = cutoff
	return l.pruneRows, nil
}

type frameSource struct{ df dataframe.DataFrame }

func (s frameSource) Frame() dataframe.DataFrame { return s.df }

var errBoom = errors.New("boom")
