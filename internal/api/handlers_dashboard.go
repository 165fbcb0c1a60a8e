package api

import (
	"net/http"

	"github.com/readraise/insights/internal/analytics"
	"github.com/readraise/insights/internal/api/respond"
	"github.com/readraise/insights/internal/model"
	"github.com/readraise/insights/internal/services"
)

// DashboardHandler serves the population-wide dashboard endpoints.
type DashboardHandler struct {
	svc *services.DashboardService
}

func NewDashboardHandler(svc *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// parseWindow reads the days query parameter ("", "all" or a positive count).
func parseWindow(r *http.Request) (int, error) {
	return analytics.ParseWindowDays(r.URL.Query().Get("days"))
}

func parseFilter(r *http.Request) model.ActivityFilter {
	q := r.URL.Query()
	return model.ActivityFilter{
		SchoolID:    q.Get("schoolId"),
		ClassroomID: q.Get("classroomId"),
	}
}

func (h *DashboardHandler) Activity(w http.ResponseWriter, r *http.Request) {
	days, err := parseWindow(r)
	if err != nil {
		respond.WriteBadRequest(w, "invalid days parameter")
		return
	}
	out, err := h.svc.ActivityReport(r.Context(), days, parseFilter(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func (h *DashboardHandler) Cards(w http.ResponseWriter, r *http.Request) {
	days, err := parseWindow(r)
	if err != nil {
		respond.WriteBadRequest(w, "invalid days parameter")
		return
	}
	out, err := h.svc.MetricsCards(r.Context(), days, parseFilter(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func (h *DashboardHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	days, err := parseWindow(r)
	if err != nil {
		respond.WriteBadRequest(w, "invalid days parameter")
		return
	}
	out, err := h.svc.Heatmap(r.Context(), days, parseFilter(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func (h *DashboardHandler) Assignments(w http.ResponseWriter, r *http.Request) {
	days, err := parseWindow(r)
	if err != nil {
		respond.WriteBadRequest(w, "invalid days parameter")
		return
	}
	out, err := h.svc.Assignments(r.Context(), days)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	days, err := parseWindow(r)
	if err != nil {
		respond.WriteBadRequest(w, "invalid days parameter")
		return
	}
	out, err := h.svc.Summary(r.Context(), days, parseFilter(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
