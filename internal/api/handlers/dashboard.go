package handlers

import (
	"bytes"
	"context"
	"delivery-time-service/internal/domain"
	"delivery-time-service/internal/services"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

const recentOnDashboard = 10

// DashboardHandler renders the HTML dashboard and handles its form.
type DashboardHandler struct {
	Predict services.PredictDeps
	EDA     *services.EDA
	Locale  string
}

type dashboardForm struct {
	DistanceKm           string
	Weather              string
	TrafficLevel         string
	TimeOfDay            string
	VehicleType          string
	PreparationTimeMin   string
	CourierExperienceYrs string
}

type dashboardResult struct {
	Minutes      string
	Record       domain.AugmentedRecord
	ModelVersion string
	Cached       bool
}

type dashboardRecent struct {
	RequestedAt string
	Request     string
	Outcome     string
	Failed      bool
}

type dashboardView struct {
	Form       dashboardForm
	Weather    []string
	Traffic    []string
	TimeOfDay  []string
	Vehicles   []string
	Result     *dashboardResult
	Error      string
	Overview   *domain.DatasetOverview
	ByTime     []domain.GroupMean
	Trend      *domain.Trendline
	Charts     []string
	Recent     []dashboardRecent
	StatsError string
}

// Show renders the dashboard with the default form values.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	view := h.baseView(r.Context(), formFromRequest(domain.DefaultRequest()))
	h.render(w, r, http.StatusOK, view)
}

// Submit handles the prediction form and re-renders the dashboard with
// the estimate or the failure message.
func (h *DashboardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid form body")
		return
	}

	form := dashboardForm{
		DistanceKm:           r.PostForm.Get("distance_km"),
		Weather:              r.PostForm.Get("weather"),
		TrafficLevel:         r.PostForm.Get("traffic_level"),
		TimeOfDay:            r.PostForm.Get("time_of_day"),
		VehicleType:          r.PostForm.Get("vehicle_type"),
		PreparationTimeMin:   r.PostForm.Get("preparation_time_min"),
		CourierExperienceYrs: r.PostForm.Get("courier_experience_yrs"),
	}

	req, err := parseForm(form)
	if err == nil {
		err = req.Validate()
	}
	if err != nil {
		view := h.baseView(r.Context(), form)
		view.Error = err.Error()
		h.render(w, r, http.StatusBadRequest, view)
		return
	}

	status := http.StatusOK
	var result *dashboardResult
	var failure string

	p, err := services.PredictDeliveryTime(r.Context(), req, h.Predict)
	if err != nil {
		var ierr *domain.InferenceError
		if !errors.As(err, &ierr) {
			log.Printf("dashboard predict failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
		status = http.StatusUnprocessableEntity
		failure = ierr.Error()
	} else {
		result = &dashboardResult{
			Minutes:      h.formatMinutes(p.Minutes),
			Record:       p.Record,
			ModelVersion: p.ModelVersion,
			Cached:       p.Cached,
		}
	}

	// Recent entries are read after the attempt so it shows up in the list.
	view := h.baseView(r.Context(), form)
	view.Result = result
	view.Error = failure
	h.render(w, r, status, view)
}

func (h *DashboardHandler) baseView(ctx context.Context, form dashboardForm) dashboardView {
	view := dashboardView{
		Form:      form,
		Weather:   toStrings(domain.WeatherChoices),
		Traffic:   toStrings(domain.TrafficChoices),
		TimeOfDay: toStrings(domain.TimeOfDayChoices),
		Vehicles:  toStrings(domain.VehicleChoices),
		Charts:    ChartNames,
	}

	if h.EDA != nil {
		s, err := h.EDA.Summary(ctx)
		if err != nil {
			log.Printf("dashboard eda summary failed: %v", err)
			view.StatsError = "dataset statistics are unavailable"
		} else {
			view.Overview = &s.Overview
			view.ByTime = s.ByTimeOfDay
			view.Trend = &s.ExperienceTrend
		}
	}

	if h.Predict.Log != nil {
		entries, err := h.Predict.Log.ListRecent(ctx, recentOnDashboard)
		if err != nil {
			log.Printf("dashboard list predictions failed: %v", err)
		}
		for _, e := range entries {
			rec := dashboardRecent{
				RequestedAt: e.RequestedAt.Format("2006-01-02 15:04:05"),
				Request:     e.Record.DeliveryRequest.String(),
			}
			if e.Minutes != nil {
				rec.Outcome = h.formatMinutes(*e.Minutes) + " min"
			} else {
				rec.Outcome = e.Error
				rec.Failed = true
			}
			view.Recent = append(view.Recent, rec)
		}
	}

	return view
}

func (h *DashboardHandler) render(w http.ResponseWriter, r *http.Request, status int, view dashboardView) {
	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, view); err != nil {
		log.Printf("render dashboard failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("write dashboard failed: %v", err)
	}
}

// Format minutes with two decimals using the configured locale's separators.
func (h *DashboardHandler) formatMinutes(m float64) string {
	tag, err := language.Parse(h.Locale)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag).Sprintf("%.2f", m)
}

func formFromRequest(r domain.DeliveryRequest) dashboardForm {
	return dashboardForm{
		DistanceKm:           strconv.FormatFloat(r.DistanceKm, 'f', -1, 64),
		Weather:              string(r.Weather),
		TrafficLevel:         string(r.TrafficLevel),
		TimeOfDay:            string(r.TimeOfDay),
		VehicleType:          string(r.VehicleType),
		PreparationTimeMin:   strconv.FormatFloat(r.PreparationTimeMin, 'f', -1, 64),
		CourierExperienceYrs: strconv.FormatFloat(r.CourierExperienceYrs, 'f', -1, 64),
	}
}

func parseForm(f dashboardForm) (domain.DeliveryRequest, error) {
	num := func(field, raw string) (float64, error) {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return 0, &domain.ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a number", raw)}
		}
		return v, nil
	}

	distance, err := num(domain.ColDistanceKm, f.DistanceKm)
	if err != nil {
		return domain.DeliveryRequest{}, err
	}
	prep, err := num(domain.ColPreparationTimeMin, f.PreparationTimeMin)
	if err != nil {
		return domain.DeliveryRequest{}, err
	}
	exp, err := num(domain.ColCourierExperienceYrs, f.CourierExperienceYrs)
	if err != nil {
		return domain.DeliveryRequest{}, err
	}

	return domain.DeliveryRequest{
		DistanceKm:           distance,
		Weather:              domain.Weather(f.Weather),
		TrafficLevel:         domain.TrafficLevel(f.TrafficLevel),
		TimeOfDay:            domain.TimeOfDay(f.TimeOfDay),
		VehicleType:          domain.VehicleType(f.VehicleType),
		PreparationTimeMin:   prep,
		CourierExperienceYrs: exp,
	}, nil
}

func toStrings[T ~string](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}
