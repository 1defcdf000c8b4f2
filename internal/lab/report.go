package lab

import (
	"fmt"
	"sort"

	"github.com/san-kum/numlab/internal/viz"
)

// Section is a titled block of preformatted report lines.
type Section struct {
	Title string
	Lines []string
}

func (s *Section) addf(format string, args ...any) {
	s.Lines = append(s.Lines, fmt.Sprintf(format, args...))
}

func (s *Section) metric(label string, value any) {
	s.Lines = append(s.Lines, viz.Metric(label, value))
}

func (s *Section) check(ok bool, msg string) {
	s.Lines = append(s.Lines, viz.Check(ok, msg))
}

func (s *Section) block(text string) {
	s.Lines = append(s.Lines, viz.Block.Render(text))
}

// Report is everything a study produced.
type Report struct {
	Study    string
	Sections []*Section
	Summary  map[string]float64
	Figures  []*viz.Figure
}

func newReport(study string) *Report {
	return &Report{Study: study, Summary: make(map[string]float64)}
}

func (r *Report) section(title string) *Section {
	s := &Section{Title: title}
	r.Sections = append(r.Sections, s)
	return s
}

func (r *Report) figure(f *viz.Figure) {
	r.Figures = append(r.Figures, f)
}

// Figure returns the named figure or nil.
func (r *Report) Figure(name string) *viz.Figure {
	for _, f := range r.Figures {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// SummaryKeys returns the summary names in order.
func (r *Report) SummaryKeys() []string {
	keys := make([]string, 0, len(r.Summary))
	for k := range r.Summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
