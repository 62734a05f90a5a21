package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	coreagg "github.com/salesboard/salesboard/internal/core/aggregation"
	chart "github.com/wcharczuk/go-chart/v2"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no data to chart")

// Chart kinds.
const (
	KindBar  = "bar"
	KindLine = "line"
	KindPie  = "pie"
)

const (
	defaultWidth  = 1024
	defaultHeight = 512
)

// PNG draws rows as a chart of the given kind and writes the image to w.
// Null rows have no value to draw and are left out.
func PNG(w io.Writer, kind, title string, rows []coreagg.KeyValue) error {
	rows = definedRows(rows)
	if len(rows) == 0 {
		return ErrNoData
	}

	switch kind {
	case KindBar, "":
		return barChart(title, rows).Render(chart.PNG, w)
	case KindLine:
		return lineChart(title, rows).Render(chart.PNG, w)
	case KindPie:
		pie, err := pieChart(title, rows)
		if err != nil {
			return err
		}
		return pie.Render(chart.PNG, w)
	}
	return fmt.Errorf("unsupported chart kind %q", kind)
}

func definedRows(rows []coreagg.KeyValue) []coreagg.KeyValue {
	out := make([]coreagg.KeyValue, 0, len(rows))
	for _, r := range rows {
		if !r.Null {
			out = append(out, r)
		}
	}
	return out
}

func barChart(title string, rows []coreagg.KeyValue) chart.BarChart {
	bars := make([]chart.Value, 0, len(rows))
	maxY := 0.0
	for _, r := range rows {
		v, _ := r.Value.Float64()
		if v > maxY {
			maxY = v
		}
		bars = append(bars, chart.Value{Label: r.Key, Value: v})
	}
	// Baseline at 0 with a minimal positive height
	if maxY <= 0 {
		maxY = 1
	}

	return chart.BarChart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}},
		Width:      defaultWidth,
		Height:     defaultHeight,
		BarWidth:   barWidth(len(bars)),
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: maxY}},
		Bars:       bars,
	}
}

func barWidth(n int) int {
	w := (defaultWidth - 100) / (n * 2)
	if w < 4 {
		return 4
	}
	if w > 60 {
		return 60
	}
	return w
}

// lineChart plots rows in order. Numeric keys become x values; otherwise the
// row position is used.
func lineChart(title string, rows []coreagg.KeyValue) chart.Chart {
	xs := make([]float64, 0, len(rows))
	ys := make([]float64, 0, len(rows))
	numeric := true
	for _, r := range rows {
		if _, err := strconv.ParseFloat(r.Key, 64); err != nil {
			numeric = false
			break
		}
	}
	for i, r := range rows {
		x := float64(i)
		if numeric {
			x, _ = strconv.ParseFloat(r.Key, 64)
		}
		y, _ := r.Value.Float64()
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) == 1 {
		xs = append(xs, xs[0]+1)
		ys = append(ys, ys[0])
	}

	minY, maxY := 0.0, ys[0]
	for _, y := range ys {
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}
	if maxY <= minY {
		maxY = minY + 1
	}

	return chart.Chart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}},
		Width:      defaultWidth,
		Height:     defaultHeight,
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: minY, Max: maxY}},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: title, XValues: xs, YValues: ys},
		},
	}
}

func pieChart(title string, rows []coreagg.KeyValue) (chart.PieChart, error) {
	values := make([]chart.Value, 0, len(rows))
	total := 0.0
	for _, r := range rows {
		v, _ := r.Value.Float64()
		if v <= 0 {
			continue
		}
		total += v
		values = append(values, chart.Value{Label: r.Key, Value: v})
	}
	if total == 0 {
		return chart.PieChart{}, ErrNoData
	}

	return chart.PieChart{
		Title:  title,
		Width:  defaultHeight,
		Height: defaultHeight,
		Values: values,
	}, nil
}
