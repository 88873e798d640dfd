package services

import (
	"context"
	"delivery-time-service/internal/domain"
	"delivery-time-service/internal/platform/obs"
	"delivery-time-service/internal/ports"
	"errors"
	"log"
	"time"
)

// PredictDeps are the collaborators of PredictDeliveryTime. Cache and Log
// are optional.
type PredictDeps struct {
	Predictor ports.Predictor
	Cache     ports.PredictionCache
	Log       ports.PredictionLog
	Now       func() time.Time
}

// PredictDeliveryTime derives the model features for req and returns the
// model's estimate in minutes. Every model failure is returned as a
// *domain.InferenceError. Cache and audit log failures are logged and
// never fail the prediction.
func PredictDeliveryTime(
	ctx context.Context,
	req domain.DeliveryRequest,
	deps PredictDeps,
) (_ *domain.Prediction, err error) {
	defer obs.Time(ctx, "services.PredictDeliveryTime")(&err)

	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	requestedAt := now().UTC()

	rec := domain.Derive(req)

	if deps.Predictor == nil {
		ierr := &domain.InferenceError{Op: "predict", Err: errors.New("no model configured")}
		recordAttempt(ctx, deps.Log, domain.PredictionLogEntry{Record: rec, Error: ierr.Error(), RequestedAt: requestedAt})
		return nil, ierr
	}
	version := deps.Predictor.Version()

	if deps.Cache != nil {
		minutes, ok, cerr := deps.Cache.Get(ctx, version, rec)
		switch {
		case cerr != nil:
			log.Printf("req_id=%s prediction cache get failed: %v", obs.RequestID(ctx), cerr)
		case ok:
			p := &domain.Prediction{Record: rec, Minutes: minutes, ModelVersion: version, PredictedAt: requestedAt, Cached: true}
			recordAttempt(ctx, deps.Log, entryFor(p))
			return p, nil
		}
	}

	minutes, perr := deps.Predictor.Predict(ctx, rec)
	if perr != nil {
		ierr := &domain.InferenceError{Op: "predict", Err: perr}
		recordAttempt(ctx, deps.Log, domain.PredictionLogEntry{
			Record:       rec,
			Error:        ierr.Error(),
			ModelVersion: version,
			RequestedAt:  requestedAt,
		})
		return nil, ierr
	}

	p := &domain.Prediction{Record: rec, Minutes: minutes, ModelVersion: version, PredictedAt: requestedAt}

	if deps.Cache != nil {
		if cerr := deps.Cache.Put(ctx, version, rec, minutes); cerr != nil {
			log.Printf("req_id=%s prediction cache put failed: %v", obs.RequestID(ctx), cerr)
		}
	}
	recordAttempt(ctx, deps.Log, entryFor(p))

	return p, nil
}

func entryFor(p *domain.Prediction) domain.PredictionLogEntry {
	minutes := p.Minutes
	return domain.PredictionLogEntry{
		Record:       p.Record,
		Minutes:      &minutes,
		ModelVersion: p.ModelVersion,
		RequestedAt:  p.PredictedAt,
	}
}

func recordAttempt(ctx context.Context, pl ports.PredictionLog, e domain.PredictionLogEntry) {
	if pl == nil {
		return
	}
	if err := pl.Record(ctx, e); err != nil {
		log.Printf("req_id=%s prediction log write failed: %v", obs.RequestID(ctx), err)
	}
}
