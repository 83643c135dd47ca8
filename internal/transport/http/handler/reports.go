package handler

import (
	"net/http"

	"github.com/internhub-api/internal/application/report"
)

// ReportHandler serves the admin dashboard figures.
type ReportHandler struct {
	svc report.Service
}

func NewReportHandler(svc report.Service) *ReportHandler { return &ReportHandler{svc: svc} }

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.DashboardStats(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Timeline accepts range=week|month|quarter|year; anything else gets the default window.
func (h *ReportHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	series, err := h.svc.TimelineSeries(r.Context(), r.URL.Query().Get("range"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (h *ReportHandler) Trends(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Trends(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
