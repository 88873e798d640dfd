package handlers

import (
	"delivery-time-service/internal/api/dto"
	"delivery-time-service/internal/domain"
	"delivery-time-service/internal/services"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// PredictHandler serves the JSON prediction API.
type PredictHandler struct {
	Deps services.PredictDeps
}

func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PredictRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	dreq := toDomainRequest(req)
	if err := dreq.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	p, err := services.PredictDeliveryTime(r.Context(), dreq, h.Deps)
	if err != nil {
		var ierr *domain.InferenceError
		if errors.As(err, &ierr) {
			writeError(w, r, http.StatusUnprocessableEntity, ierr.Error())
			return
		}
		log.Printf("predict failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.PredictResponse{
		Record:           toRecordResponse(p.Record),
		EstimatedMinutes: p.Minutes,
		Display:          p.Display(),
		ModelVersion:     p.ModelVersion,
		Cached:           p.Cached,
		PredictedAt:      p.PredictedAt,
	})
}

// List returns the most recent audit log entries.
func (h *PredictHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if h.Deps.Log == nil {
		writeError(w, r, http.StatusNotFound, "prediction log is disabled")
		return
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxListLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	entries, err := h.Deps.Log.ListRecent(r.Context(), limit)
	if err != nil {
		log.Printf("list predictions failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListPredictionsResponse{
		Predictions: make([]dto.PredictionLogEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		res.Predictions = append(res.Predictions, dto.PredictionLogEntryResponse{
			ID:               e.ID,
			Record:           toRecordResponse(e.Record),
			EstimatedMinutes: e.Minutes,
			Error:            e.Error,
			ModelVersion:     e.ModelVersion,
			RequestedAt:      e.RequestedAt,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
