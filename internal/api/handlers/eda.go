package handlers

import (
	"bytes"
	"delivery-time-service/internal/adapters/charts"
	"delivery-time-service/internal/adapters/export"
	"delivery-time-service/internal/domain"
	"delivery-time-service/internal/ports"
	"delivery-time-service/internal/services"
	"io"
	"log"
	"net/http"
	"strings"
)

// Chart names served under /charts/{name}.png.
const (
	ChartDeliveryTime    = "delivery_time"
	ChartDistance        = "distance"
	ChartPreparationTime = "preparation_time"
	ChartWeather         = "weather"
	ChartTrafficLevel    = "traffic_level"
	ChartTimeOfDay       = "time_of_day"
	ChartExperienceTrend = "experience_trend"
)

var ChartNames = []string{
	ChartDeliveryTime,
	ChartDistance,
	ChartPreparationTime,
	ChartWeather,
	ChartTrafficLevel,
	ChartTimeOfDay,
	ChartExperienceTrend,
}

// EDAHandler serves dataset statistics, charts and the XLSX export.
type EDAHandler struct {
	EDA     *services.EDA
	Dataset ports.DatasetSource
}

func (h *EDAHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s, err := h.EDA.Summary(r.Context())
	if err != nil {
		log.Printf("eda summary failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, s)
}

// Chart renders one named chart as PNG.
func (h *EDAHandler) Chart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	name, ok := strings.CutSuffix(r.PathValue("file"), ".png")
	if !ok {
		writeError(w, r, http.StatusNotFound, "unknown chart")
		return
	}

	render, ok := chartRenderers[name]
	if !ok {
		writeError(w, r, http.StatusNotFound, "unknown chart")
		return
	}

	s, err := h.EDA.Summary(r.Context())
	if err != nil {
		log.Printf("eda summary failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	// Render into a buffer so a failure can still produce a JSON error.
	var buf bytes.Buffer
	if err := render(&buf, s); err != nil {
		log.Printf("render chart failed: chart=%s err=%v", name, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("write chart failed: chart=%s err=%v", name, err)
	}
}

var chartRenderers = map[string]func(io.Writer, *domain.EDASummary) error{
	ChartDeliveryTime: func(w io.Writer, s *domain.EDASummary) error {
		return charts.Histogram(w, "Delivery time (min)", s.DeliveryTime)
	},
	ChartDistance: func(w io.Writer, s *domain.EDASummary) error {
		return charts.Histogram(w, "Distance (km)", s.Distance)
	},
	ChartPreparationTime: func(w io.Writer, s *domain.EDASummary) error {
		return charts.Histogram(w, "Preparation time (min)", s.PreparationTime)
	},
	ChartWeather: func(w io.Writer, s *domain.EDASummary) error {
		return charts.Medians(w, "Median delivery time by weather", s.ByWeather)
	},
	ChartTrafficLevel: func(w io.Writer, s *domain.EDASummary) error {
		return charts.Medians(w, "Median delivery time by traffic level", s.ByTrafficLevel)
	},
	ChartTimeOfDay: func(w io.Writer, s *domain.EDASummary) error {
		return charts.GroupMeans(w, "Mean delivery time by time of day", s.ByTimeOfDay)
	},
	ChartExperienceTrend: func(w io.Writer, s *domain.EDASummary) error {
		return charts.Trend(w, "Courier experience vs delivery time", s.ExperienceScatter, s.ExperienceTrend)
	},
}

// Export streams the summary and dataset as an XLSX workbook.
func (h *EDAHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s, err := h.EDA.Summary(r.Context())
	if err != nil {
		log.Printf("eda summary failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteEDA(&buf, s, h.Dataset.Frame()); err != nil {
		log.Printf("export eda failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="delivery_time_eda.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("write export failed: %v", err)
	}
}
