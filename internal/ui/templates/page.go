// Package templates holds the dashboard page and the output fragment
// patched into it.
package templates

import (
	"encoding/json"
	"strconv"
)

// Page is the state the dashboard is first served with.
type Page struct {
	Modes        []string
	Years        []int
	Statistics   string
	Year         int
	YearDisabled bool
}

// ChartItem is one rendered chart of the output container.
type ChartItem struct {
	ID    string
	Title string
	SVG   string
}

type pageSignals struct {
	Statistics   string `json:"statistics"`
	Year         string `json:"year"`
	YearDisabled bool   `json:"yearDisabled"`
}

// Signals returns the initial data-signals object. The year is a string
// because that is what the bound select writes back.
func (p Page) Signals() string {
	s := pageSignals{
		Statistics:   p.Statistics,
		YearDisabled: p.YearDisabled,
	}
	if p.Year != 0 {
		s.Year = strconv.Itoa(p.Year)
	}
	b, _ := json.Marshal(s)
	return string(b)
}

// chartRows lays charts out two per row.
func chartRows(items []ChartItem) [][]ChartItem {
	var rows [][]ChartItem
	for len(items) > 0 {
		n := min(2, len(items))
		rows = append(rows, items[:n])
		items = items[n:]
	}
	return rows
}
