package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"autosales-dashboard/internal/errors"
	"autosales-dashboard/internal/observability"
	"autosales-dashboard/internal/services"
)

type APIHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewAPIHandlers(dashboard *services.Dashboard, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

// HandleStatistics returns the view for the selector state in the query.
// Data is null for an unknown statistics value.
func (h *APIHandlers) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	sel, err := querySelection(r)
	if err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "invalid year"), observability.GetRequestID(r.Context()))
		return
	}

	view, ok := h.dashboard.View(r.Context(), sel.Statistics, int(sel.Year))
	if !ok {
		errors.WriteSuccess(w, nil)
		return
	}

	headers := map[string]string{
		"Cache-Control": cacheMaxAge,
	}

	errors.WriteSuccessWithHeaders(w, view, headers)
}

func (h *APIHandlers) HandleYears(w http.ResponseWriter, r *http.Request) {
	defaultYear, _ := h.dashboard.DefaultYear()

	data := map[string]any{
		"years":        h.dashboard.Years(),
		"default_year": defaultYear,
	}

	headers := map[string]string{
		"Cache-Control": cacheMaxAge,
	}

	errors.WriteSuccessWithHeaders(w, data, headers)
}

func (h *APIHandlers) HandleYearSelector(w http.ResponseWriter, r *http.Request) {
	statistics := r.URL.Query().Get("statistics")

	errors.WriteSuccess(w, map[string]any{
		"statistics": statistics,
		"disabled":   services.YearSelectorDisabled(statistics),
	})
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {

	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {

	stats := h.dashboard.Stats()

	errors.WriteSuccess(w, stats)
}
