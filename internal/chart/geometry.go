// Package chart turns aggregated series into plot coordinates, gridlines
// and axis labels. It knows nothing about the surface that draws them.
package chart

import (
	"fmt"
	"math"
	"strconv"

	"bookkeeping/internal/core"
	"bookkeeping/internal/stats"
)

const (
	// DefaultMaxValue stands in for the data maximum when every value is 0.
	DefaultMaxValue = 100.0
	// Headroom scales the data maximum up to the axis ceiling.
	Headroom = 1.2
	// GridlineCount is the number of horizontal gridlines, 0 and the
	// ceiling included.
	GridlineCount = 5
	// DenseLabelLimit is the largest domain that shows every X label.
	DenseLabelLimit = 7
	// labelDivisions sets the thinning step to floor(N/labelDivisions).
	labelDivisions = 5
)

type Point struct {
	Label string
	Value float64
}

type Series struct {
	Name   string
	Points []Point
}

// Frame is the plot area in abstract units. Y grows downwards, so the
// bottom edge is Top+Height.
type Frame struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

func (f Frame) Bottom() float64 { return f.Top + f.Height }

type Coord struct {
	X, Y  float64
	Value float64
}

type PlottedSeries struct {
	Name   string
	Points []Coord
}

type Gridline struct {
	Value float64
	Y     float64
	Label string
}

type AxisLabel struct {
	Index int
	X     float64
	Text  string
}

// Geometry is everything a renderer needs to draw the chart.
type Geometry struct {
	Ceiling   float64
	Series    []PlottedSeries
	Gridlines []Gridline
	Labels    []AxisLabel
}

// Build lays out one or more series sharing the same label domain inside
// frame. X labels are taken from the first series.
func Build(series []Series, frame Frame) (Geometry, error) {
	if len(series) == 0 {
		return Geometry{}, fmt.Errorf("%w: no series to plot", core.ErrInvalidArgument)
	}
	if frame.Width <= 0 || frame.Height <= 0 {
		return Geometry{}, fmt.Errorf("%w: frame %gx%g must have positive size", core.ErrInvalidArgument, frame.Width, frame.Height)
	}
	n := len(series[0].Points)
	if n == 0 {
		return Geometry{}, fmt.Errorf("%w: series %q has no points", core.ErrInvalidArgument, series[0].Name)
	}

	maxValue := 0.0
	for _, s := range series {
		if len(s.Points) != n {
			return Geometry{}, fmt.Errorf("%w: series %q has %d points, want %d",
				core.ErrInvalidArgument, s.Name, len(s.Points), n)
		}
		for _, p := range s.Points {
			if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
				return Geometry{}, fmt.Errorf("%w: series %q has non-finite value at %q",
					core.ErrInvalidArgument, s.Name, p.Label)
			}
			maxValue = math.Max(maxValue, p.Value)
		}
	}
	if maxValue == 0 {
		maxValue = DefaultMaxValue
	}
	ceiling := maxValue * Headroom

	step := frame.Width / float64(max(n-1, 1))
	x := func(i int) float64 { return frame.Left + float64(i)*step }
	y := func(v float64) float64 { return frame.Bottom() - v/ceiling*frame.Height }

	g := Geometry{
		Ceiling: ceiling,
		Series:  make([]PlottedSeries, len(series)),
	}
	for si, s := range series {
		coords := make([]Coord, n)
		for i, p := range s.Points {
			coords[i] = Coord{X: x(i), Y: y(p.Value), Value: p.Value}
		}
		g.Series[si] = PlottedSeries{Name: s.Name, Points: coords}
	}

	g.Gridlines = make([]Gridline, GridlineCount)
	for i := range g.Gridlines {
		v := ceiling * float64(i) / float64(GridlineCount-1)
		g.Gridlines[i] = Gridline{
			Value: v,
			Y:     y(v),
			Label: strconv.FormatInt(int64(math.Round(v)), 10),
		}
	}

	for _, i := range VisibleLabels(n) {
		g.Labels = append(g.Labels, AxisLabel{Index: i, X: x(i), Text: series[0].Points[i].Label})
	}
	return g, nil
}

// VisibleLabels returns the indexes of the X labels to show for a domain of
// n points: all of them up to DenseLabelLimit, otherwise every
// floor(n/5)-th starting at 0. The tail spacing can be uneven.
func VisibleLabels(n int) []int {
	step := 1
	if n > DenseLabelLimit {
		step = n / labelDivisions
	}
	var idx []int
	for i := 0; i < n; i += step {
		idx = append(idx, i)
	}
	return idx
}

// FromDaily converts aggregated days into an income and an expense series,
// labelled with layout (e.g. "01-02").
func FromDaily(s stats.DailySeries, layout string) []Series {
	labels := s.Labels(layout)
	income := Series{Name: "income", Points: make([]Point, s.Len())}
	expense := Series{Name: "expense", Points: make([]Point, s.Len())}
	for i := range labels {
		income.Points[i] = Point{Label: labels[i], Value: s.Income[i].InexactFloat64()}
		expense.Points[i] = Point{Label: labels[i], Value: s.Expense[i].InexactFloat64()}
	}
	return []Series{income, expense}
}
