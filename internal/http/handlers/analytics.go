package handlers

import (
	"net/http"

	"github.com/lenilani/lenilani-ai/internal/analytics"
)

// AnalyticsHandler serves the dashboard read model.
type AnalyticsHandler struct {
	tracker *analytics.Tracker
}

// NewAnalyticsHandler creates the analytics handler.
func NewAnalyticsHandler(tracker *analytics.Tracker) *AnalyticsHandler {
	return &AnalyticsHandler{tracker: tracker}
}

// Dashboard handles GET /api/analytics.
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tracker.Snapshot())
}
