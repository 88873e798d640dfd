package api

import (
	"delivery-time-service/internal/api/handlers"
	"delivery-time-service/internal/ports"
	"delivery-time-service/internal/services"
	"net/http"
)

// RouterDeps are the collaborators the HTTP layer needs.
type RouterDeps struct {
	Predict services.PredictDeps
	EDA     *services.EDA
	Dataset ports.DatasetSource
	Locale  string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()

	predictHandler := &handlers.PredictHandler{Deps: d.Predict}
	edaHandler := &handlers.EDAHandler{EDA: d.EDA, Dataset: d.Dataset}
	dashboard := &handlers.DashboardHandler{
		Predict: d.Predict,
		EDA:     d.EDA,
		Locale:  d.Locale,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/{$}", dashboard.Show)
	mux.HandleFunc("/predict", dashboard.Submit)
	mux.HandleFunc("/api/predict", predictHandler.Predict)
	mux.HandleFunc("/api/predictions", predictHandler.List)
	mux.HandleFunc("/api/eda", edaHandler.Summary)
	mux.HandleFunc("/api/eda/export.xlsx", edaHandler.Export)
	mux.HandleFunc("/charts/{file}", edaHandler.Chart)

	return requestIDMiddleware(loggingMiddleware(mux))
}
