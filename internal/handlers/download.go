package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"autosales-dashboard/internal/charts"
	"autosales-dashboard/internal/errors"
	"autosales-dashboard/internal/export"
	"autosales-dashboard/internal/models"
	"autosales-dashboard/internal/observability"
	"autosales-dashboard/internal/services"
)

// DownloadHandlers serve single charts as SVG and whole views as xlsx.
type DownloadHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewDownloadHandlers(dashboard *services.Dashboard, logger *slog.Logger) *DownloadHandlers {
	return &DownloadHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

func (h *DownloadHandlers) view(w http.ResponseWriter, r *http.Request) (models.View, bool) {
	requestID := observability.GetRequestID(r.Context())

	sel, err := querySelection(r)
	if err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "invalid year"), requestID)
		return models.View{}, false
	}

	view, ok := h.dashboard.View(r.Context(), sel.Statistics, int(sel.Year))
	if !ok {
		errors.WriteError(w, h.logger, errors.UnknownMode(sel.Statistics), requestID)
		return models.View{}, false
	}
	return view, true
}

// HandleChartSVG serves /charts/{file} where file is "<chart id>.svg".
func (h *DownloadHandlers) HandleChartSVG(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	id, ok := strings.CutSuffix(r.PathValue("file"), ".svg")
	if !ok {
		errors.WriteError(w, h.logger, errors.NotFound("charts are served as .svg"), requestID)
		return
	}

	view, ok := h.view(w, r)
	if !ok {
		return
	}

	c, ok := view.Chart(id)
	if !ok {
		errors.WriteError(w, h.logger, errors.UnknownChart(id), requestID)
		return
	}

	var buf bytes.Buffer
	if err := charts.Render(&buf, c, charts.DefaultOptions()); err != nil {
		errors.WriteError(w, h.logger, errors.RenderFailed(err, "chart "+id), requestID)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", cacheMaxAge)
	w.Write(buf.Bytes())
}

// HandleExport serves the selected view as an xlsx workbook.
func (h *DownloadHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, view); err != nil {
		errors.WriteError(w, h.logger, errors.RenderFailed(err, "workbook"), observability.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename(view)+`"`)
	w.Write(buf.Bytes())
}

func exportFilename(view models.View) string {
	if view.Mode == models.ModeRecession {
		return "automobile-sales-recession.xlsx"
	}
	return "automobile-sales-" + strconv.Itoa(view.Year) + ".xlsx"
}
