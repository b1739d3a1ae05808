package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"autosales-dashboard/internal/services"
)

type SSEHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewSSEHandlers(dashboard *services.Dashboard, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

// readSelection decodes the page signals. A request without signals is
// treated as an empty selection, which renders nothing.
func (h *SSEHandlers) readSelection(r *http.Request) selection {
	var sel selection
	if err := datastar.ReadSignals(r, &sel); err != nil {
		h.logger.Debug("read signals", "error", err)
		return selection{}
	}
	return sel
}

func (h *SSEHandlers) patchYearDisabled(sse *datastar.ServerSentEventGenerator, statistics string) {
	signals, err := json.Marshal(map[string]bool{
		"yearDisabled": services.YearSelectorDisabled(statistics),
	})
	if err != nil {
		h.logger.Error("marshal year selector signal", "error", err)
		return
	}
	if err := sse.PatchSignals(signals); err != nil {
		h.logger.Warn("patch year selector signal", "error", err)
	}
}

func (h *SSEHandlers) patchOutput(sse *datastar.ServerSentEventGenerator, r *http.Request, sel selection) {
	html, err := renderOutput(r.Context(), h.dashboard, sel)
	if err != nil {
		h.logger.Error("render output container", "error", err, "statistics", sel.Statistics)
		return
	}
	if err := sse.PatchElements(html); err != nil {
		h.logger.Warn("patch output container", "error", err)
	}
}

// HandleYearSelector enables or disables the year control for the selected
// statistics.
func (h *SSEHandlers) HandleYearSelector(w http.ResponseWriter, r *http.Request) {
	sel := h.readSelection(r)
	sse := datastar.NewSSE(w, r)

	h.patchYearDisabled(sse, sel.Statistics)
}

// HandleOutput replaces the output container with the charts for the
// selected statistics and year.
func (h *SSEHandlers) HandleOutput(w http.ResponseWriter, r *http.Request) {
	sel := h.readSelection(r)
	sse := datastar.NewSSE(w, r)

	h.patchOutput(sse, r, sel)
}

// HandleStatistics is fired by the statistics selector and updates both the
// year control and the output container in one stream.
func (h *SSEHandlers) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	sel := h.readSelection(r)
	sse := datastar.NewSSE(w, r)

	h.patchYearDisabled(sse, sel.Statistics)
	h.patchOutput(sse, r, sel)
}
