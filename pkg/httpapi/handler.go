// Package httpapi exposes the derived views of one user as read-only JSON.
package httpapi

import (
	"context"
	"net/http"
	"strings"

	"cycle-insights/pkg/calculator"
	"cycle-insights/pkg/models"
	"cycle-insights/pkg/risk"

	"github.com/go-chi/chi/v5"
)

// SourceFactory returns the stores of userID.
type SourceFactory func(userID string) calculator.Sources

type Handler struct {
	sources SourceFactory
	base    models.Config

	// Ready backs /readyz; nil means always ready.
	Ready func(ctx context.Context) error
}

// NewHandler serves reports built with base; UserID and Today are set per request.
func NewHandler(sources SourceFactory, base models.Config) *Handler {
	base.Progress = false
	return &Handler{sources: sources, base: base}
}

type cycleResponse struct {
	models.CycleOverview
	Regularity *int `json:"regularity"`
}

type trendsResponse struct {
	Series   []models.DailyHealthData `json:"series"`
	Averages models.SeriesAverages    `json:"averages"`
	BMI      models.BMIResult         `json:"bmi"`
}

type riskResponse struct {
	Analysis models.RiskAnalysis     `json:"analysis"`
	Summary  models.NarrativeSummary `json:"summary"`
}

// build runs the report pipeline for the request's user and ?today= day.
func (h *Handler) build(w http.ResponseWriter, r *http.Request) (models.Report, calculator.Sources, bool) {
	reqID := requestIDFromContext(r.Context())
	userID := strings.TrimSpace(chi.URLParam(r, "userID"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "missing user id", reqID)
		return models.Report{}, nil, false
	}

	cfg := h.base
	cfg.UserID = userID
	if raw := r.URL.Query().Get("today"); raw != "" {
		today, err := models.ParseDay(raw)
		if err != nil {
			status, code, msg := mapDomainError(err)
			writeError(w, status, code, msg, reqID)
			return models.Report{}, nil, false
		}
		cfg.Today = today
	}

	src := h.sources(userID)
	report, err := calculator.Run(r.Context(), src, cfg)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg, reqID)
		return models.Report{}, nil, false
	}
	return report, src, true
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	if report, _, ok := h.build(w, r); ok {
		writeSuccess(w, http.StatusOK, "", report)
	}
}

func (h *Handler) cycle(w http.ResponseWriter, r *http.Request) {
	if report, _, ok := h.build(w, r); ok {
		writeSuccess(w, http.StatusOK, "", cycleResponse{CycleOverview: report.Cycle, Regularity: report.Regularity})
	}
}

func (h *Handler) trends(w http.ResponseWriter, r *http.Request) {
	if report, _, ok := h.build(w, r); ok {
		writeSuccess(w, http.StatusOK, "", trendsResponse{Series: report.Series, Averages: report.Averages, BMI: report.BMI})
	}
}

func (h *Handler) insights(w http.ResponseWriter, r *http.Request) {
	if report, _, ok := h.build(w, r); ok {
		writeSuccess(w, http.StatusOK, "", map[string][]string{"insights": report.Insights})
	}
}

func (h *Handler) risk(w http.ResponseWriter, r *http.Request) {
	report, src, ok := h.build(w, r)
	if !ok {
		return
	}
	reqID := requestIDFromContext(r.Context())
	if report.Risk == nil {
		status, code, msg := mapDomainError(models.ErrNotFound)
		writeError(w, status, code, msg, reqID)
		return
	}
	profile, err := src.Profile(r.Context())
	if err == nil && profile == nil {
		err = models.ErrNotFound
	}
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg, reqID)
		return
	}
	writeSuccess(w, http.StatusOK, "", riskResponse{Analysis: *report.Risk, Summary: risk.Summarize(*profile, *report.Risk)})
}

func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	if h.Ready != nil {
		if err := h.Ready(r.Context()); err != nil {
			status, code, msg := mapDomainError(err)
			writeError(w, status, code, msg, requestIDFromContext(r.Context()))
			return
		}
	}
	writeSuccess(w, http.StatusOK, "ready", nil)
}
