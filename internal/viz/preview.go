package viz

import (
	"math"
	"sort"

	"github.com/guptarohit/asciigraph"
)

// Preview renders the line series of f as a terminal chart. Every series is
// resampled onto a shared x axis so that curves with different grids line up.
// Point series are skipped.
func Preview(f *Figure, width, height int) string {
	lo, hi := math.Inf(1), math.Inf(-1)
	var lines []Series
	for _, s := range f.Series {
		if s.Marker != Line || len(s.X) != len(s.Y) {
			continue
		}
		if s = s.Finite(); len(s.X) == 0 {
			continue
		}
		lines = append(lines, s)
		lo = math.Min(lo, s.X[0])
		hi = math.Max(hi, s.X[len(s.X)-1])
	}
	if len(lines) == 0 || width < 2 {
		return ""
	}

	data := make([][]float64, len(lines))
	for i, s := range lines {
		data[i] = resample(s, lo, hi, width)
	}

	caption := f.Title
	if f.XLabel != "" {
		caption += " (x: " + f.XLabel + ")"
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(previewColors(len(data))...),
	)
}

var palette = []asciigraph.AnsiColor{
	asciigraph.Blue, asciigraph.Red, asciigraph.Green, asciigraph.Yellow, asciigraph.Cyan,
}

func previewColors(n int) []asciigraph.AnsiColor {
	out := make([]asciigraph.AnsiColor, n)
	for i := range out {
		out[i] = palette[i%len(palette)]
	}
	return out
}

// resample linearly interpolates s at n evenly spaced points on [lo, hi].
// Outside its own range a series holds its end value. X must be ascending.
func resample(s Series, lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	last := len(s.X) - 1
	for i := range out {
		x := lo + (hi-lo)*float64(i)/float64(n-1)
		j := sort.SearchFloat64s(s.X, x)
		switch {
		case j == 0:
			out[i] = s.Y[0]
		case j > last:
			out[i] = s.Y[last]
		default:
			x0, x1 := s.X[j-1], s.X[j]
			w := (x - x0) / (x1 - x0)
			out[i] = s.Y[j-1] + w*(s.Y[j]-s.Y[j-1])
		}
	}
	return out
}
