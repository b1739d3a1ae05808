package services

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autosales-dashboard/internal/dataset"
	"autosales-dashboard/internal/models"
)

func scenarioRecords() []models.SalesRecord {
	return []models.SalesRecord{
		{Year: 2019, Month: "Jan", VehicleType: "SUV", AutomobileSales: 100, AdvertisingExpenditure: 10, UnemploymentRate: 5.0},
		{Year: 2019, Month: "Feb", VehicleType: "SUV", AutomobileSales: 200, AdvertisingExpenditure: 10, UnemploymentRate: 5.0},
		{Year: 2020, Month: "Jan", VehicleType: "SUV", AutomobileSales: 150, AdvertisingExpenditure: 20, UnemploymentRate: 4.0, Recession: true},
	}
}

func mixedRecords() []models.SalesRecord {
	return []models.SalesRecord{
		{Year: 1980, Month: "Mar", VehicleType: "Sports", AutomobileSales: 40, AdvertisingExpenditure: 1200, UnemploymentRate: 5.4, Recession: true},
		{Year: 1980, Month: "Jan", VehicleType: "Supperminicar", AutomobileSales: 456, AdvertisingExpenditure: 1558, UnemploymentRate: 5.4, Recession: true},
		{Year: 1980, Month: "Jan", VehicleType: "Sports", AutomobileSales: 60, AdvertisingExpenditure: 800, UnemploymentRate: 4.8, Recession: true},
		{Year: 1981, Month: "Dec", VehicleType: "Executivecar", AutomobileSales: 300, AdvertisingExpenditure: 2100, UnemploymentRate: 3.1},
		{Year: 1981, Month: "Feb", VehicleType: "Sports", AutomobileSales: 120, AdvertisingExpenditure: 1750, UnemploymentRate: 3.1},
		{Year: 1981, Month: "Feb", VehicleType: "Executivecar", AutomobileSales: 280, AdvertisingExpenditure: 1900, UnemploymentRate: 3.3},
		{Year: 1982, Month: "Jul", VehicleType: "Supperminicar", AutomobileSales: 510, AdvertisingExpenditure: 3000, UnemploymentRate: 6.1, Recession: true},
		{Year: 1982, Month: "Jul", VehicleType: "Sports", AutomobileSales: 70, AdvertisingExpenditure: 900, UnemploymentRate: 6.1, Recession: true},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func chartByID(t *testing.T, charts []models.Chart, id string) models.Chart {
	t.Helper()
	for _, c := range charts {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("chart %q not found", id)
	return models.Chart{}
}

func onlySeries(t *testing.T, c models.Chart) []models.Point {
	t.Helper()
	require.Len(t, c.Series, 1, "chart %s should have a single series", c.ID)
	return c.Series[0].Points
}

func TestScenario_Yearly2019(t *testing.T) {
	charts := YearlyCharts(scenarioRecords(), 2019)
	require.Len(t, charts, 4)

	monthly := onlySeries(t, chartByID(t, charts, ChartYearlyMonthlySales))
	assert.Equal(t, []models.Point{{Label: "Jan", Value: 100}, {Label: "Feb", Value: 200}}, monthly)

	byType := onlySeries(t, chartByID(t, charts, ChartYearlySalesByType))
	assert.Equal(t, []models.Point{{Label: "SUV", Value: 150}}, byType)

	adv := onlySeries(t, chartByID(t, charts, ChartYearlyAdvertisingByType))
	assert.Equal(t, []models.Point{{Label: "SUV", Value: 20}}, adv)
}

func TestScenario_Recession(t *testing.T) {
	charts := RecessionCharts(scenarioRecords())
	require.Len(t, charts, 4)

	byYear := onlySeries(t, chartByID(t, charts, ChartRecessionSalesByYear))
	assert.Equal(t, []models.Point{{Label: "2020", Value: 150}}, byYear)

	unemployment := chartByID(t, charts, ChartRecessionUnemployment)
	assert.Equal(t, []models.Series{{Name: "SUV", Points: []models.Point{{Label: "4", Value: 150}}}}, unemployment.Series)
}

func TestYearlyCharts_TrendIgnoresSelectedYear(t *testing.T) {
	charts := YearlyCharts(mixedRecords(), 1981)
	trend := onlySeries(t, chartByID(t, charts, ChartYearlySalesTrend))

	require.Len(t, trend, 3)
	assert.Equal(t, "1980", trend[0].Label)
	assert.InDelta(t, (40.0+456+60)/3, trend[0].Value, 1e-9)
	assert.Equal(t, "1981", trend[1].Label)
	assert.InDelta(t, (300.0+120+280)/3, trend[1].Value, 1e-9)
	assert.Equal(t, "1982", trend[2].Label)
}

func TestYearlyCharts_MeanSalesByTypeMatchesRecords(t *testing.T) {
	records := mixedRecords()
	for _, year := range []int{1980, 1981, 1982} {
		want := make(map[string][]float64)
		for _, r := range records {
			if r.Year == year {
				want[r.VehicleType] = append(want[r.VehicleType], r.AutomobileSales)
			}
		}

		got := onlySeries(t, chartByID(t, YearlyCharts(records, year), ChartYearlySalesByType))
		require.Len(t, got, len(want), "year %d", year)
		for _, p := range got {
			vals := want[p.Label]
			sum := 0.0
			for _, v := range vals {
				sum += v
			}
			assert.InDelta(t, sum/float64(len(vals)), p.Value, 1e-9, "year %d type %s", year, p.Label)
		}
	}
}

func TestYearlyCharts_SingleTypeMeanEqualsYearMean(t *testing.T) {
	records := scenarioRecords()
	for _, year := range []int{2019, 2020} {
		sum, n := 0.0, 0
		for _, r := range records {
			if r.Year == year {
				sum += r.AutomobileSales
				n++
			}
		}
		got := onlySeries(t, chartByID(t, YearlyCharts(records, year), ChartYearlySalesByType))
		require.Len(t, got, 1)
		assert.InDelta(t, sum/float64(n), got[0].Value, 1e-9)
	}
}

func TestYearlyCharts_MonthsInCalendarOrder(t *testing.T) {
	records := []models.SalesRecord{
		{Year: 2000, Month: "Dec", VehicleType: "A", AutomobileSales: 1},
		{Year: 2000, Month: "Apr", VehicleType: "A", AutomobileSales: 2},
		{Year: 2000, Month: "Aug", VehicleType: "A", AutomobileSales: 3},
		{Year: 2000, Month: "Jan", VehicleType: "A", AutomobileSales: 4},
		{Year: 2000, Month: "Jan", VehicleType: "B", AutomobileSales: 5},
	}

	monthly := onlySeries(t, chartByID(t, YearlyCharts(records, 2000), ChartYearlyMonthlySales))
	labels := make([]string, 0, len(monthly))
	for _, p := range monthly {
		labels = append(labels, p.Label)
	}
	assert.Equal(t, []string{"Jan", "Apr", "Aug", "Dec"}, labels)
	assert.Equal(t, 9.0, monthly[0].Value)
}

func TestYearlyCharts_UnknownYearIsEmpty(t *testing.T) {
	charts := YearlyCharts(mixedRecords(), 1999)
	require.Len(t, charts, 4)

	assert.False(t, chartByID(t, charts, ChartYearlySalesTrend).Empty())
	assert.True(t, chartByID(t, charts, ChartYearlyMonthlySales).Empty())
	assert.True(t, chartByID(t, charts, ChartYearlySalesByType).Empty())
	assert.True(t, chartByID(t, charts, ChartYearlyAdvertisingByType).Empty())
	assert.Equal(t, "Average Vehicles Sold by Type in 1999", chartByID(t, charts, ChartYearlySalesByType).Title)
}

func TestRecessionCharts_PieSumsToRecessionAdvertising(t *testing.T) {
	records := mixedRecords()
	total := 0.0
	for _, r := range records {
		if r.Recession {
			total += r.AdvertisingExpenditure
		}
	}

	pie := chartByID(t, RecessionCharts(records), ChartRecessionAdvertising)
	assert.Equal(t, models.ChartPie, pie.Kind)

	sum := 0.0
	for _, p := range onlySeries(t, pie) {
		sum += p.Value
	}
	assert.InDelta(t, total, sum, 1e-6)
}

func TestRecessionCharts_UnemploymentSeriesPerType(t *testing.T) {
	chart := chartByID(t, RecessionCharts(mixedRecords()), ChartRecessionUnemployment)
	assert.Equal(t, models.ChartGroupedBar, chart.Kind)
	assert.Equal(t, "Unemployment Rate", chart.XLabel)
	assert.Equal(t, "Average Sales", chart.YLabel)

	assert.Equal(t, []models.Series{
		{Name: "Sports", Points: []models.Point{
			{Label: "4.8", Value: 60},
			{Label: "5.4", Value: 40},
			{Label: "6.1", Value: 70},
		}},
		{Name: "Supperminicar", Points: []models.Point{
			{Label: "5.4", Value: 456},
			{Label: "6.1", Value: 510},
		}},
	}, chart.Series)
}

func TestRecessionCharts_NoRecessionRecords(t *testing.T) {
	records := []models.SalesRecord{
		{Year: 2019, Month: "Jan", VehicleType: "SUV", AutomobileSales: 100},
	}

	charts := RecessionCharts(records)
	require.Len(t, charts, 4)
	for _, c := range charts {
		assert.True(t, c.Empty(), "chart %s should be empty", c.ID)
		assert.NotNil(t, c.Series, "chart %s should carry a non-nil series list", c.ID)
	}
}

func TestRecessionCharts_NoNaN(t *testing.T) {
	for _, c := range RecessionCharts(mixedRecords()) {
		for _, s := range c.Series {
			for _, p := range s.Points {
				assert.False(t, math.IsNaN(p.Value), "chart %s", c.ID)
			}
		}
	}
}

func TestRender_Idempotent(t *testing.T) {
	ds := dataset.New(mixedRecords())

	for _, mode := range models.Modes {
		first := Render(ds, mode, 1981)
		second := Render(ds, mode, 1981)
		assert.Equal(t, first, second, "mode %s", mode)
	}
}

func TestRender_DefaultsToFirstYear(t *testing.T) {
	ds := dataset.New(mixedRecords())

	view := Render(ds, models.ModeYearly, 0)
	assert.Equal(t, 1980, view.Year)
	assert.Equal(t, "Average Vehicles Sold by Type in 1980", view.Charts[2].Title)
}

func TestRender_RecessionIgnoresYear(t *testing.T) {
	ds := dataset.New(mixedRecords())

	assert.Equal(t, Render(ds, models.ModeRecession, 0), Render(ds, models.ModeRecession, 1981))
	assert.Zero(t, Render(ds, models.ModeRecession, 1981).Year)
}

func TestRender_UnknownModeIsEmpty(t *testing.T) {
	ds := dataset.New(mixedRecords())

	for _, mode := range []models.Mode{"Weekly", "", "yearly statistics"} {
		view := Render(ds, mode, 0)
		assert.Empty(t, view.Charts, "mode %q", mode)
		assert.Zero(t, view.Year, "mode %q", mode)
	}
}

func TestDashboard_View(t *testing.T) {
	d := NewDashboard(dataset.New(mixedRecords()), testLogger())

	view, ok := d.View(context.Background(), "Yearly Statistics", 1982)
	require.True(t, ok)
	assert.Equal(t, models.ModeYearly, view.Mode)
	assert.Equal(t, 1982, view.Year)
	assert.Len(t, view.Charts, 4)

	view, ok = d.View(context.Background(), "Recession Period Statistics", 0)
	require.True(t, ok)
	assert.Equal(t, models.ModeRecession, view.Mode)

	_, ok = d.View(context.Background(), "Monthly Statistics", 1982)
	assert.False(t, ok)
	_, ok = d.View(context.Background(), "", 0)
	assert.False(t, ok)
}

func TestDashboard_Stats(t *testing.T) {
	d := NewDashboard(dataset.New(mixedRecords()), testLogger())
	stats := d.Stats()

	assert.Equal(t, 8, stats["record_count"])
	assert.Equal(t, 5, stats["recession_records"])
	assert.Equal(t, 3, stats["years"])
	assert.Equal(t, 3, stats["vehicle_types"])
}

func TestYearSelectorDisabled(t *testing.T) {
	tests := []struct {
		statistics string
		want       bool
	}{
		{"Recession Period Statistics", true},
		{"Yearly Statistics", false},
		{"", false},
		{"recession period statistics", false},
	}

	for _, tt := range tests {
		t.Run(tt.statistics, func(t *testing.T) {
			assert.Equal(t, tt.want, YearSelectorDisabled(tt.statistics))
		})
	}
}
