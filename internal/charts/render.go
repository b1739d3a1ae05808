// Package charts turns chart specs into standalone SVG documents.
package charts

import (
	"bytes"
	"cmp"
	"fmt"
	"html"
	"io"
	"math"
	"slices"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"autosales-dashboard/internal/models"
)

var palette = []string{
	"4F46E5", "10B981", "F59E0B", "EF4444", "8B5CF6",
	"06B6D4", "EC4899", "84CC16", "F97316", "6366F1",
}

type Options struct {
	Width  int
	Height int
}

func DefaultOptions() Options {
	return Options{Width: 560, Height: 360}
}

func color(i int) drawing.Color {
	return drawing.ColorFromHex(palette[i%len(palette)])
}

// SVG renders c with the default options.
func SVG(c models.Chart) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, c, DefaultOptions()); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render writes c as SVG. Charts without drawable data get a placeholder
// instead of an error.
func Render(w io.Writer, c models.Chart, opts Options) error {
	if opts.Width == 0 || opts.Height == 0 {
		opts = DefaultOptions()
	}
	if c.Empty() {
		return writeEmpty(w, opts, "No data available")
	}

	switch c.Kind {
	case models.ChartLine:
		return renderLine(w, c, opts)
	case models.ChartBar:
		return renderBar(w, c, barsFromSeries(c.Series), false, opts)
	case models.ChartGroupedBar:
		return renderBar(w, c, groupedBars(c.Series), true, opts)
	case models.ChartPie:
		return renderPie(w, c, opts)
	default:
		return fmt.Errorf("unsupported chart kind %q", c.Kind)
	}
}

// upperBound pads the largest value so the top point is not drawn on the
// frame. An all-zero chart still gets a non-empty range.
func upperBound(values []float64) float64 {
	top := 0.0
	for _, v := range values {
		top = math.Max(top, v)
	}
	if top == 0 {
		return 1
	}
	return top * 1.1
}

// categoryLabels returns the distinct point labels of all series in order of
// first appearance.
func categoryLabels(series []models.Series) []string {
	var labels []string
	for _, s := range series {
		for _, p := range s.Points {
			if !slices.Contains(labels, p.Label) {
				labels = append(labels, p.Label)
			}
		}
	}
	return labels
}

func renderLine(w io.Writer, c models.Chart, opts Options) error {
	labels := categoryLabels(c.Series)
	position := make(map[string]float64, len(labels))

	// go-chart derives the x range from the outermost ticks; the unlabelled
	// half-step ticks keep a single category from collapsing it to zero
	ticks := make([]chart.Tick, 0, len(labels)+2)
	ticks = append(ticks, chart.Tick{Value: -0.5})
	for i, l := range labels {
		position[l] = float64(i)
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: l})
	}
	ticks = append(ticks, chart.Tick{Value: float64(len(labels)) - 0.5})

	var all []float64
	series := make([]chart.Series, 0, len(c.Series))
	for i, s := range c.Series {
		xs := make([]float64, 0, len(s.Points))
		ys := make([]float64, 0, len(s.Points))
		for _, p := range s.Points {
			xs = append(xs, position[p.Label])
			ys = append(ys, p.Value)
		}
		all = append(all, ys...)
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: color(i),
				StrokeWidth: 2,
				DotColor:    color(i),
				DotWidth:    3,
			},
		})
	}

	graph := chart.Chart{
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name:  c.XLabel,
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(labels)) - 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  c.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: upperBound(all)},
		},
		Series: series,
	}

	return graph.Render(chart.SVG, w)
}

func barsFromSeries(series []models.Series) []chart.Value {
	var bars []chart.Value
	for i, s := range series {
		for _, p := range s.Points {
			bars = append(bars, chart.Value{
				Label: p.Label,
				Value: p.Value,
				Style: chart.Style{FillColor: color(i), StrokeColor: color(i)},
			})
		}
	}
	return bars
}

// groupedBars lays bars out category by category, one bar per series that
// has a point in the category, coloured by series.
func groupedBars(series []models.Series) []chart.Value {
	labels := categoryLabels(series)
	slices.SortStableFunc(labels, compareNumericLabels)

	var bars []chart.Value
	for _, label := range labels {
		for i, s := range series {
			for _, p := range s.Points {
				if p.Label != label {
					continue
				}
				bars = append(bars, chart.Value{
					Label: label + " " + s.Name,
					Value: p.Value,
					Style: chart.Style{FillColor: color(i), StrokeColor: color(i)},
				})
			}
		}
	}
	return bars
}

func compareNumericLabels(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA != nil || errB != nil {
		return 0
	}
	return cmp.Compare(fa, fb)
}

// bar charts leave room below and left of the plot for the axis titles and
// above it for the legend
const (
	titleGutter  = 28
	legendHeight = 22
)

func renderBar(w io.Writer, c models.Chart, bars []chart.Value, legend bool, opts Options) error {
	values := make([]float64, 0, len(bars))
	for _, b := range bars {
		values = append(values, b.Value)
	}

	barWidth := (opts.Width - 100) * 2 / (len(bars) * 3)
	barWidth = max(4, min(48, barWidth))

	top := 20
	if legend {
		top += legendHeight
	}

	graph := chart.BarChart{
		Width:    opts.Width,
		Height:   opts.Height,
		BarWidth: barWidth,
		Background: chart.Style{
			Padding: chart.Box{Top: top, Left: titleGutter, Bottom: titleGutter},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: upperBound(values)},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.SVG, &buf); err != nil {
		return err
	}

	var extra bytes.Buffer
	writeAxisTitles(&extra, c, opts)
	if legend {
		writeLegend(&extra, c.Series)
	}
	return spliceBeforeClose(w, buf.Bytes(), extra.Bytes())
}

func writeAxisTitles(w io.Writer, c models.Chart, opts Options) {
	if c.XLabel != "" {
		fmt.Fprintf(w,
			`<text class="axis-title" x="%d" y="%d" font-family="sans-serif" font-size="12" fill="#334155" text-anchor="middle">%s</text>`,
			opts.Width/2, opts.Height-8, html.EscapeString(c.XLabel))
	}
	if c.YLabel != "" {
		fmt.Fprintf(w,
			`<text class="axis-title" x="14" y="%d" font-family="sans-serif" font-size="12" fill="#334155" text-anchor="middle" transform="rotate(-90 14 %d)">%s</text>`,
			opts.Height/2, opts.Height/2, html.EscapeString(c.YLabel))
	}
}

// writeLegend draws one swatch per series, coloured like its bars.
func writeLegend(w io.Writer, series []models.Series) {
	io.WriteString(w, `<g class="legend" font-family="sans-serif" font-size="12" fill="#334155">`)
	x := titleGutter + 10
	for i, s := range series {
		fmt.Fprintf(w, `<rect x="%d" y="8" width="10" height="10" fill="#%s"/>`, x, palette[i%len(palette)])
		fmt.Fprintf(w, `<text x="%d" y="17">%s</text>`, x+14, html.EscapeString(s.Name))
		x += 14 + 7*len(s.Name) + 16
	}
	io.WriteString(w, `</g>`)
}

// spliceBeforeClose writes svg with extra inserted before the closing tag.
func spliceBeforeClose(w io.Writer, svg, extra []byte) error {
	i := bytes.LastIndex(svg, []byte("</svg>"))
	if i < 0 {
		return fmt.Errorf("rendered chart is not an svg document")
	}
	if _, err := w.Write(svg[:i]); err != nil {
		return err
	}
	if _, err := w.Write(extra); err != nil {
		return err
	}
	_, err := w.Write(svg[i:])
	return err
}

func renderPie(w io.Writer, c models.Chart, opts Options) error {
	var values []chart.Value
	total := 0.0
	for _, s := range c.Series {
		for i, p := range s.Points {
			total += p.Value
			values = append(values, chart.Value{
				Label: p.Label,
				Value: p.Value,
				Style: chart.Style{FillColor: color(i), StrokeColor: drawing.ColorWhite},
			})
		}
	}
	if total <= 0 {
		return writeEmpty(w, opts, "No data available")
	}

	graph := chart.PieChart{
		Width:  opts.Width,
		Height: opts.Height,
		Values: values,
	}

	return graph.Render(chart.SVG, w)
}

func writeEmpty(w io.Writer, opts Options, message string) error {
	_, err := fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
			`<rect width="100%%" height="100%%" fill="#ffffff"/>`+
			`<text x="%d" y="%d" font-family="sans-serif" font-size="14" fill="#94a3b8" text-anchor="middle">%s</text>`+
			`</svg>`,
		opts.Width, opts.Height, opts.Width, opts.Height,
		opts.Width/2, opts.Height/2, html.EscapeString(message))
	return err
}
