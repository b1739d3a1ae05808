package services

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"autosales-dashboard/internal/models"
)

// Chart ids, stable across renders. They double as export sheet names and
// SVG endpoint paths.
const (
	ChartRecessionSalesByYear    = "recession-sales-by-year"
	ChartRecessionSalesByType    = "recession-sales-by-type"
	ChartRecessionAdvertising    = "recession-advertising-share"
	ChartRecessionUnemployment   = "recession-unemployment-effect"
	ChartYearlySalesTrend        = "yearly-sales-trend"
	ChartYearlyMonthlySales      = "yearly-monthly-sales"
	ChartYearlySalesByType       = "yearly-sales-by-type"
	ChartYearlyAdvertisingByType = "yearly-advertising-by-type"
)

const (
	labelYear         = "Year"
	labelMonth        = "Month"
	labelVehicleType  = "Vehicle Type"
	labelUnemployment = "Unemployment Rate"
	labelSales        = "Automobile Sales"
	labelAvgSales     = "Average Sales"
	labelAdvertising  = "Advertising Expenditure"
)

type reduction int

const (
	reduceSum reduction = iota
	reduceMean
)

type accumulator struct {
	sum   float64
	count int
}

func (a accumulator) value(r reduction) float64 {
	if r == reduceMean {
		return a.sum / float64(a.count)
	}
	return a.sum
}

type group[K comparable] struct {
	key K
	acc accumulator
}

// groupBy folds records into one accumulator per key. Keys come back in
// first-seen order and the caller sorts them; sums follow record order so
// repeated runs produce identical floats.
func groupBy[K comparable](records []models.SalesRecord, key func(models.SalesRecord) K, metric func(models.SalesRecord) float64) []group[K] {
	index := make(map[K]int)
	var groups []group[K]
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, group[K]{key: k})
		}
		groups[i].acc.sum += metric(r)
		groups[i].acc.count++
	}
	return groups
}

func points[K comparable](groups []group[K], r reduction, label func(K) string) []models.Point {
	pts := make([]models.Point, 0, len(groups))
	for _, g := range groups {
		pts = append(pts, models.Point{Label: label(g.key), Value: g.acc.value(r)})
	}
	return pts
}

func filter(records []models.SalesRecord, keep func(models.SalesRecord) bool) []models.SalesRecord {
	var out []models.SalesRecord
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func byYear(r models.SalesRecord) int           { return r.Year }
func byMonth(r models.SalesRecord) string       { return r.Month }
func byVehicleType(r models.SalesRecord) string { return r.VehicleType }
func sales(r models.SalesRecord) float64        { return r.AutomobileSales }
func advertising(r models.SalesRecord) float64  { return r.AdvertisingExpenditure }

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func singleSeries(name string, pts []models.Point) []models.Series {
	return []models.Series{{Name: name, Points: pts}}
}

func salesByYear(records []models.SalesRecord) []models.Point {
	groups := groupBy(records, byYear, sales)
	slices.SortFunc(groups, func(a, b group[int]) int { return cmp.Compare(a.key, b.key) })
	return points(groups, reduceMean, strconv.Itoa)
}

func byVehicle(records []models.SalesRecord, metric func(models.SalesRecord) float64, r reduction) []models.Point {
	groups := groupBy(records, byVehicleType, metric)
	slices.SortFunc(groups, func(a, b group[string]) int { return cmp.Compare(a.key, b.key) })
	return points(groups, r, func(s string) string { return s })
}

func salesByMonth(records []models.SalesRecord) []models.Point {
	groups := groupBy(records, byMonth, sales)
	slices.SortFunc(groups, func(a, b group[string]) int { return models.CompareMonths(a.key, b.key) })
	return points(groups, reduceSum, func(s string) string { return s })
}

type rateType struct {
	rate        float64
	vehicleType string
}

// salesByUnemployment averages sales per (unemployment rate, vehicle type)
// and emits one series per vehicle type holding only the rates at which that
// type has records.
func salesByUnemployment(records []models.SalesRecord) []models.Series {
	groups := groupBy(records, func(r models.SalesRecord) rateType {
		return rateType{rate: r.UnemploymentRate, vehicleType: r.VehicleType}
	}, sales)
	slices.SortFunc(groups, func(a, b group[rateType]) int {
		if c := cmp.Compare(a.key.vehicleType, b.key.vehicleType); c != 0 {
			return c
		}
		return cmp.Compare(a.key.rate, b.key.rate)
	})

	var series []models.Series
	for _, g := range groups {
		if len(series) == 0 || series[len(series)-1].Name != g.key.vehicleType {
			series = append(series, models.Series{Name: g.key.vehicleType, Points: []models.Point{}})
		}
		last := &series[len(series)-1]
		last.Points = append(last.Points, models.Point{
			Label: formatRate(g.key.rate),
			Value: g.acc.value(reduceMean),
		})
	}
	if series == nil {
		series = []models.Series{}
	}
	return series
}

// RecessionCharts builds the four recession-period charts. Only records
// flagged as recession contribute.
func RecessionCharts(records []models.SalesRecord) []models.Chart {
	recession := filter(records, func(r models.SalesRecord) bool { return r.Recession })

	return []models.Chart{
		{
			ID:     ChartRecessionSalesByYear,
			Title:  "Average Automobile Sales Fluctuation During Recession",
			Kind:   models.ChartLine,
			XLabel: labelYear,
			YLabel: labelSales,
			Series: singleSeries(labelSales, salesByYear(recession)),
		},
		{
			ID:     ChartRecessionSalesByType,
			Title:  "Average Vehicles Sold by Type During Recession",
			Kind:   models.ChartBar,
			XLabel: labelVehicleType,
			YLabel: labelSales,
			Series: singleSeries(labelSales, byVehicle(recession, sales, reduceMean)),
		},
		{
			ID:     ChartRecessionAdvertising,
			Title:  "Advertising Expenditure Share During Recession",
			Kind:   models.ChartPie,
			XLabel: labelVehicleType,
			YLabel: labelAdvertising,
			Series: singleSeries(labelAdvertising, byVehicle(recession, advertising, reduceSum)),
		},
		{
			ID:     ChartRecessionUnemployment,
			Title:  "Effect of Unemployment Rate on Vehicle Type Sales",
			Kind:   models.ChartGroupedBar,
			XLabel: labelUnemployment,
			YLabel: labelAvgSales,
			Series: salesByUnemployment(recession),
		},
	}
}

// YearlyCharts builds the four yearly charts for year. The first chart is
// the trend over every year in records regardless of year; the other three
// only see records of that year.
func YearlyCharts(records []models.SalesRecord, year int) []models.Chart {
	inYear := filter(records, func(r models.SalesRecord) bool { return r.Year == year })

	return []models.Chart{
		{
			ID:     ChartYearlySalesTrend,
			Title:  "Yearly Automobile Sales",
			Kind:   models.ChartLine,
			XLabel: labelYear,
			YLabel: labelSales,
			Series: singleSeries(labelSales, salesByYear(records)),
		},
		{
			ID:     ChartYearlyMonthlySales,
			Title:  "Total Monthly Automobile Sales",
			Kind:   models.ChartLine,
			XLabel: labelMonth,
			YLabel: labelSales,
			Series: singleSeries(labelSales, salesByMonth(inYear)),
		},
		{
			ID:     ChartYearlySalesByType,
			Title:  fmt.Sprintf("Average Vehicles Sold by Type in %d", year),
			Kind:   models.ChartBar,
			XLabel: labelVehicleType,
			YLabel: labelSales,
			Series: singleSeries(labelSales, byVehicle(inYear, sales, reduceMean)),
		},
		{
			ID:     ChartYearlyAdvertisingByType,
			Title:  fmt.Sprintf("Advertising Expenditure by Vehicle Type in %d", year),
			Kind:   models.ChartPie,
			XLabel: labelVehicleType,
			YLabel: labelAdvertising,
			Series: singleSeries(labelAdvertising, byVehicle(inYear, advertising, reduceSum)),
		},
	}
}

// YearSelectorDisabled reports whether the year selector is disabled for the
// given statistics selector value.
func YearSelectorDisabled(statistics string) bool {
	return statistics == string(models.ModeRecession)
}
