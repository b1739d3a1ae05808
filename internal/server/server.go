package server

import (
	"log/slog"
	"net/http"

	"autosales-dashboard/internal/handlers"
	"autosales-dashboard/internal/services"
)

type Server struct {
	dashboard        *services.Dashboard
	mux              *http.ServeMux
	logger           *slog.Logger
	apiHandlers      *handlers.APIHandlers
	sseHandlers      *handlers.SSEHandlers
	downloadHandlers *handlers.DownloadHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(dashboard *services.Dashboard, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		dashboard:        dashboard,
		mux:              http.NewServeMux(),
		logger:           logger,
		apiHandlers:      handlers.NewAPIHandlers(dashboard, logger),
		sseHandlers:      handlers.NewSSEHandlers(dashboard, logger),
		downloadHandlers: handlers.NewDownloadHandlers(dashboard, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/statistics", s.apiHandlers.HandleStatistics)
	s.mux.HandleFunc("GET /api/years", s.apiHandlers.HandleYears)
	s.mux.HandleFunc("GET /api/year-selector", s.apiHandlers.HandleYearSelector)

	// Downloads
	s.mux.HandleFunc("GET /charts/{file}", s.downloadHandlers.HandleChartSVG)
	s.mux.HandleFunc("GET /export.xlsx", s.downloadHandlers.HandleExport)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/year-selector", s.sseHandlers.HandleYearSelector)
	s.mux.HandleFunc("GET /sse/output", s.sseHandlers.HandleOutput)
	s.mux.HandleFunc("GET /sse/statistics", s.sseHandlers.HandleStatistics)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
