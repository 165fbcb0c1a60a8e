package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/readraise/insights/internal/api/respond"
	"github.com/readraise/insights/internal/services"
)

// InsightsHandler serves the per-user analytics endpoints.
type InsightsHandler struct {
	velocity   *services.VelocityService
	engagement *services.EngagementService
}

func NewInsightsHandler(v *services.VelocityService, e *services.EngagementService) *InsightsHandler {
	return &InsightsHandler{velocity: v, engagement: e}
}

func (h *InsightsHandler) GetVelocity(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		respond.WriteBadRequest(w, "userId required")
		return
	}
	out, err := h.velocity.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func (h *InsightsHandler) GetGenres(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		respond.WriteBadRequest(w, "userId required")
		return
	}
	out, err := h.engagement.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
