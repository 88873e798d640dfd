package model

import (
	"context"
	"delivery-time-service/internal/domain"
	"sync"
)

// LazyModel defers reading the artifact until the first prediction. The
// first load result, model or error, is kept for the life of the process.
type LazyModel struct {
	path string
	load func() (*Model, error)
}

func NewLazyModel(path string) *LazyModel {
	return newLazyModel(path, func() (*Model, error) { return LoadFile(path) })
}

func newLazyModel(path string, loader func() (*Model, error)) *LazyModel {
	return &LazyModel{path: path, load: sync.OnceValues(loader)}
}

// Model returns the loaded model, loading it on first call.
func (l *LazyModel) Model() (*Model, error) {
	return l.load()
}

func (l *LazyModel) Predict(ctx context.Context, rec domain.AugmentedRecord) (float64, error) {
	m, err := l.load()
	if err != nil {
		return 0, err
	}
	return m.Predict(ctx, rec)
}

// Version reports "unavailable" when the artifact could not be loaded.
func (l *LazyModel) Version() string {
	m, err := l.load()
	if err != nil {
		return "unavailable"
	}
	return m.Version()
}

func (l *LazyModel) Path() string { return l.path }
