package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"autosales-dashboard/internal/charts"
	"autosales-dashboard/internal/models"
	"autosales-dashboard/internal/services"
	"autosales-dashboard/internal/ui/templates"
)

const cacheMaxAge = "public, max-age=300"

// selection is the selector state sent by the page as Datastar signals.
type selection struct {
	Statistics string     `json:"statistics"`
	Year       yearSignal `json:"year"`
}

// yearSignal accepts the year as a JSON number or string. The bound select
// sends strings; anything that is not an integer counts as unset.
type yearSignal int

func (y *yearSignal) UnmarshalJSON(b []byte) error {
	n, err := strconv.Atoi(strings.Trim(string(b), `"`))
	if err != nil {
		*y = 0
		return nil
	}
	*y = yearSignal(n)
	return nil
}

// querySelection reads statistics and year from the query string. An empty
// year is unset; a non-integer year is an error.
func querySelection(r *http.Request) (selection, error) {
	q := r.URL.Query()
	sel := selection{Statistics: q.Get("statistics")}

	if raw := q.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return sel, fmt.Errorf("year %q is not an integer", raw)
		}
		sel.Year = yearSignal(year)
	}
	return sel, nil
}

// renderOutput renders the output container for sel. Unknown modes give an
// empty container.
func renderOutput(ctx context.Context, dashboard *services.Dashboard, sel selection) (string, error) {
	var items []templates.ChartItem
	if view, ok := dashboard.View(ctx, sel.Statistics, int(sel.Year)); ok {
		var err error
		if items, err = chartItems(view); err != nil {
			return "", err
		}
	}

	var buf bytes.Buffer
	if err := templates.Output(items).Render(ctx, &buf); err != nil {
		return "", fmt.Errorf("render output: %w", err)
	}
	return buf.String(), nil
}

func chartItems(view models.View) ([]templates.ChartItem, error) {
	items := make([]templates.ChartItem, 0, len(view.Charts))
	for _, c := range view.Charts {
		svg, err := charts.SVG(c)
		if err != nil {
			return nil, fmt.Errorf("chart %s: %w", c.ID, err)
		}
		items = append(items, templates.ChartItem{ID: c.ID, Title: c.Title, SVG: svg})
	}
	return items, nil
}
