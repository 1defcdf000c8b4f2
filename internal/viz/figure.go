package viz

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	ErrEmptyFigure   = errors.New("viz: figure has no series")
	ErrSeriesLength  = errors.New("viz: series x and y lengths differ")
	ErrUnknownFormat = errors.New("viz: unsupported figure format")
)

// Formats lists the file formats SaveFigure accepts.
var Formats = []string{"eps", "png", "svg", "pdf"}

// Marker selects how a series is drawn.
type Marker int

const (
	Line Marker = iota
	Crosses
)

// Series is one named curve of a figure.
type Series struct {
	Name   string
	X      []float64
	Y      []float64
	Marker Marker
}

// Figure is a titled set of series sharing axes.
type Figure struct {
	Name   string
	Title  string
	XLabel string
	YLabel string
	Series []Series
}

// NewFigure returns an empty figure. Name is used as the file stem.
func NewFigure(name, title, xlabel, ylabel string) *Figure {
	return &Figure{Name: name, Title: title, XLabel: xlabel, YLabel: ylabel}
}

// Add appends a line series.
func (f *Figure) Add(name string, x, y []float64) *Figure {
	f.Series = append(f.Series, Series{Name: name, X: x, Y: y})
	return f
}

// AddPoints appends a series drawn as unconnected crosses.
func (f *Figure) AddPoints(name string, x, y []float64) *Figure {
	f.Series = append(f.Series, Series{Name: name, X: x, Y: y, Marker: Crosses})
	return f
}

// Validate checks that the figure can be drawn.
func (f *Figure) Validate() error {
	if len(f.Series) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyFigure, f.Name)
	}
	for _, s := range f.Series {
		if len(s.X) != len(s.Y) {
			return fmt.Errorf("%w: %s/%s has %d x, %d y", ErrSeriesLength, f.Name, s.Name, len(s.X), len(s.Y))
		}
	}
	return nil
}

// Finite returns s without the points where x or y is NaN or infinite.
// It returns s itself when every point is finite.
func (s Series) Finite() Series {
	n := min(len(s.X), len(s.Y))
	keep := 0
	for i := 0; i < n; i++ {
		if isFinite(s.X[i]) && isFinite(s.Y[i]) {
			keep++
		}
	}
	if keep == len(s.X) && keep == len(s.Y) {
		return s
	}

	out := Series{Name: s.Name, Marker: s.Marker, X: make([]float64, 0, keep), Y: make([]float64, 0, keep)}
	for i := 0; i < n; i++ {
		if isFinite(s.X[i]) && isFinite(s.Y[i]) {
			out.X = append(out.X, s.X[i])
			out.Y = append(out.Y, s.Y[i])
		}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func xys(s Series) plotter.XYs {
	pts := make(plotter.XYs, len(s.X))
	for i := range s.X {
		pts[i].X = s.X[i]
		pts[i].Y = s.Y[i]
	}
	return pts
}

// Plot builds the gonum plot for f.
func (f *Figure) Plot() (*plot.Plot, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = f.Title
	p.X.Label.Text = f.XLabel
	p.Y.Label.Text = f.YLabel
	p.Add(plotter.NewGrid())

	for i, s := range f.Series {
		// gonum/plot rejects NaN and Inf, e.g. residuals once the exact
		// solution underflows to zero.
		s = s.Finite()
		if len(s.X) == 0 {
			continue
		}
		switch s.Marker {
		case Crosses:
			sc, err := plotter.NewScatter(xys(s))
			if err != nil {
				return nil, fmt.Errorf("viz: %s/%s: %w", f.Name, s.Name, err)
			}
			sc.GlyphStyle.Shape = draw.CrossGlyph{}
			sc.GlyphStyle.Radius = vg.Points(3)
			p.Add(sc)
			if s.Name != "" {
				p.Legend.Add(s.Name, sc)
			}
		default:
			l, err := plotter.NewLine(xys(s))
			if err != nil {
				return nil, fmt.Errorf("viz: %s/%s: %w", f.Name, s.Name, err)
			}
			l.Color = plotutil.Color(i)
			p.Add(l)
			if s.Name != "" {
				p.Legend.Add(s.Name, l)
			}
		}
	}
	return p, nil
}

// SaveFigure writes f to dir/<name>.<format> and returns the path.
func SaveFigure(f *Figure, dir, format string) (string, error) {
	format = strings.ToLower(format)
	if !validFormat(format) {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	p, err := f.Plot()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, f.Name+"."+format)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return "", fmt.Errorf("viz: save %s: %w", path, err)
	}
	return path, nil
}

func validFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}
