package lab

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/numlab/internal/viz"
)

// RenderOptions controls console output of a report.
type RenderOptions struct {
	Preview bool
	Width   int
	Height  int
}

// Render writes r to w as styled text, with terminal charts of its figures
// when opts.Preview is set.
func Render(w io.Writer, r *Report, opts RenderOptions) error {
	var sb strings.Builder

	sb.WriteString(viz.TitleStyle.Render(strings.ToUpper(r.Study)))
	if desc := Describe(r.Study); desc != "" {
		sb.WriteString("  " + viz.Subtle.Render(desc))
	}
	sb.WriteString("\n\n")

	for _, s := range r.Sections {
		sb.WriteString(viz.HeaderStyle.Render(s.Title) + "\n")
		for _, line := range s.Lines {
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n")
	}

	if !opts.Preview {
		for _, f := range r.Figures {
			sb.WriteString(viz.HeaderStyle.Render(f.Title) + "\n")
			sb.WriteString(trends(f, opts.Width))
			sb.WriteString("\n")
		}
	}

	if opts.Preview {
		for _, f := range r.Figures {
			chart := viz.Preview(f, opts.Width, opts.Height)
			if chart == "" {
				continue
			}
			sb.WriteString(viz.HeaderStyle.Render(f.Title) + "\n")
			sb.WriteString(legend(f) + "\n")
			sb.WriteString(chart + "\n\n")
		}
	}

	sb.WriteString(viz.Separator(48) + "\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// trends lists the line series of f, one sparkline each.
func trends(f *viz.Figure, width int) string {
	var sb strings.Builder
	for _, s := range f.Series {
		if s.Marker != viz.Line {
			continue
		}
		s = s.Finite()
		sb.WriteString(viz.Metric(s.Name, viz.Sparkline(s.Y, width)) + "\n")
	}
	return sb.String()
}

func legend(f *viz.Figure) string {
	names := make([]string, 0, len(f.Series))
	for _, s := range f.Series {
		if s.Marker == viz.Line {
			names = append(names, s.Name)
		}
	}
	return viz.Subtle.Render(fmt.Sprintf("series: %s", strings.Join(names, ", ")))
}
