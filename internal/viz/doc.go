// Package viz draws study results.
//
// A [Figure] is a named set of series. [SaveFigure] renders it to a file
// through gonum/plot (eps, png, svg or pdf, picked by extension), and
// [Preview] renders its line series as an asciigraph chart for the terminal.
// The lipgloss styles in this package format the console reports.
package viz
