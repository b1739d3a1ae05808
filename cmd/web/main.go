package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"autosales-dashboard/internal/config"
	"autosales-dashboard/internal/dataset"
	"autosales-dashboard/internal/middleware"
	"autosales-dashboard/internal/models"
	"autosales-dashboard/internal/observability"
	"autosales-dashboard/internal/server"
	"autosales-dashboard/internal/services"
	"autosales-dashboard/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	cacheMaxAge   = "public, max-age=300"
)

// dashboardPage serves the page in its initial state: the first mode
// selected and the first year of the dataset.
func dashboardPage(dashboard *services.Dashboard) http.HandlerFunc {
	modes := make([]string, 0, len(models.Modes))
	for _, m := range models.Modes {
		modes = append(modes, string(m))
	}
	year, _ := dashboard.DefaultYear()

	page := templates.Page{
		Modes:        modes,
		Years:        dashboard.Years(),
		Statistics:   modes[0],
		Year:         year,
		YearDisabled: services.YearSelectorDisabled(modes[0]),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", cacheMaxAge)
		if err := templates.Dashboard(page).Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"addr", cfg.Address(),
		"debug", cfg.Server.Debug,
		"data_source", cfg.Data.Source,
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Data.FetchTimeout)
	defer cancel()

	start := time.Now()
	data, err := dataset.NewLoader(cfg.Data, logger).Load(ctx)
	if err != nil {
		logger.Error("failed to load sales data", "error", err, "source", cfg.Data.Source)
		os.Exit(1)
	}
	logger.Info("sales data loaded successfully",
		"duration", time.Since(start),
		"records", data.Len(),
	)

	dashboard := services.NewDashboard(data, logger)

	templateHandlers := &server.TemplateHandlers{
		Dashboard: dashboardPage(dashboard),
	}

	srv := server.NewServer(dashboard, logger, templateHandlers)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	compression, err := middleware.Compression(cfg.Compression)
	if err != nil {
		logger.Error("failed to configure compression", "error", err)
		os.Exit(1)
	}

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
		compression,
	)

	handler := middlewareChain(srv)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("releasing sales dataset", "records", data.Len())
		return nil
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
