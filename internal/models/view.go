package models

// Mode is the value of the statistics selector.
type Mode string

const (
	ModeYearly    Mode = "Yearly Statistics"
	ModeRecession Mode = "Recession Period Statistics"
)

// Modes lists the selector options in display order.
var Modes = []Mode{ModeYearly, ModeRecession}

func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeYearly:
		return ModeYearly, true
	case ModeRecession:
		return ModeRecession, true
	}
	return "", false
}

type ChartKind string

const (
	ChartLine       ChartKind = "line"
	ChartBar        ChartKind = "bar"
	ChartPie        ChartKind = "pie"
	ChartGroupedBar ChartKind = "grouped-bar"
)

type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

type Chart struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Kind   ChartKind `json:"kind"`
	XLabel string    `json:"x_label"`
	YLabel string    `json:"y_label"`
	Series []Series  `json:"series"`
}

// Empty reports whether the chart has no data points at all.
func (c Chart) Empty() bool {
	for _, s := range c.Series {
		if len(s.Points) > 0 {
			return false
		}
	}
	return true
}

// View is the content of the output container for one selector state.
type View struct {
	Mode   Mode    `json:"mode"`
	Year   int     `json:"year,omitempty"`
	Charts []Chart `json:"charts"`
}

// Chart returns the chart with the given id.
func (v View) Chart(id string) (Chart, bool) {
	for _, c := range v.Charts {
		if c.ID == id {
			return c, true
		}
	}
	return Chart{}, false
}
