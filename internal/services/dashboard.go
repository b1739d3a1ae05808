package services

import (
	"context"
	"log/slog"
	"strconv"

	"autosales-dashboard/internal/dataset"
	"autosales-dashboard/internal/models"
	"autosales-dashboard/internal/observability"
)

// Render computes the output container content for a mode. For the yearly
// mode a zero year selects the dataset's first year. Unknown modes render an
// empty view with no charts. Render has no side effects and reads ds only.
func Render(ds *dataset.Dataset, mode models.Mode, year int) models.View {
	switch mode {
	case models.ModeRecession:
		return models.View{Mode: mode, Charts: RecessionCharts(ds.Records())}
	case models.ModeYearly:
		if year == 0 {
			year, _ = ds.DefaultYear()
		}
		return models.View{Mode: mode, Year: year, Charts: YearlyCharts(ds.Records(), year)}
	default:
		return models.View{}
	}
}

// Dashboard binds Render to the dataset loaded at startup.
type Dashboard struct {
	data   *dataset.Dataset
	logger *slog.Logger
}

func NewDashboard(data *dataset.Dataset, logger *slog.Logger) *Dashboard {
	return &Dashboard{
		data:   data,
		logger: logger,
	}
}

// View renders the charts for a raw statistics selector value. Unknown
// values produce no view and ok is false.
func (d *Dashboard) View(ctx context.Context, statistics string, year int) (models.View, bool) {
	mode, ok := models.ParseMode(statistics)
	if !ok {
		d.logger.Debug("unknown statistics mode", "statistics", statistics)
		return models.View{}, false
	}

	_, span := observability.StartSpan(ctx, "dashboard.render")
	defer span.End(d.logger)
	span.SetTag("mode", string(mode))
	if mode == models.ModeYearly {
		span.SetTag("year", strconv.Itoa(year))
	}

	return Render(d.data, mode, year), true
}

func (d *Dashboard) Years() []int {
	return d.data.Years()
}

func (d *Dashboard) DefaultYear() (int, bool) {
	return d.data.DefaultYear()
}

func (d *Dashboard) Stats() map[string]any {
	recession := 0
	vehicleTypes := make(map[string]bool)
	for _, r := range d.data.Records() {
		if r.Recession {
			recession++
		}
		vehicleTypes[r.VehicleType] = true
	}

	return map[string]any{
		"record_count":      d.data.Len(),
		"recession_records": recession,
		"years":             len(d.data.Years()),
		"vehicle_types":     len(vehicleTypes),
		"source":            d.data.Source(),
		"loaded_at":         d.data.LoadedAt(),
	}
}
