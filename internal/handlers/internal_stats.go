package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/services"
)

// InternalHandlers serves endpoints invoked by Cloud Scheduler. Authentication is applied
// by the router's internal middleware chain.
type InternalHandlers struct {
	stats services.StatsService
}

// NewInternalHandlers constructs the internal handlers.
func NewInternalHandlers(stats services.StatsService) *InternalHandlers {
	return &InternalHandlers{stats: stats}
}

// Routes registers the /internal endpoints.
func (h *InternalHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/stats/snapshot", h.refreshStats)
}

func (h *InternalHandlers) refreshStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.stats == nil {
		writeServiceUnavailable(ctx, w, "stats")
		return
	}
	stats, err := h.stats.Refresh(ctx)
	if err != nil {
		writeStatsError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildDashboardStatsPayload(stats))
}
