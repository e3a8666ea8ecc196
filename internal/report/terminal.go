package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/plague/internal/plague"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff"))

	costStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff69b4")).
			Bold(true)
)

// Terminal plots the three curves as ascii charts.
type Terminal struct {
	W      io.Writer
	Width  int
	Height int
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{W: w, Width: 80, Height: 10}
}

func (t *Terminal) Report(h plague.History, steadyState int, cost float64) error {
	if err := check(h, steadyState); err != nil {
		return err
	}
	_, err := io.WriteString(t.W, t.Render(h, steadyState, cost))
	return err
}

// Render returns the chart text without writing it.
func (t *Terminal) Render(h plague.History, steadyState int, cost float64) string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render(fmt.Sprintf("plague: %d steps, %.1f days", h.Len()-1, plague.Day(h.Len()-1))))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("steady state: step %d (day %.1f)  ", steadyState, plague.Day(steadyState)))
	sb.WriteString(costStyle.Render(fmt.Sprintf("cost = %.2f", cost)))
	sb.WriteString("\n\n")

	for _, c := range curves(h) {
		sb.WriteString(Plot(c.values, t.Width, t.Height, c.title))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// Plot draws one curve. A single sample is widened to a flat line since
// asciigraph needs at least two points to scale the x axis. Curves holding
// NaN or Inf cannot be scaled and yield only the caption.
func Plot(values []float64, width, height int, caption string) string {
	if len(values) == 0 {
		return ""
	}
	if i := firstNonFinite(values); i >= 0 {
		return fmt.Sprintf("%s: not plotted, day %.1f is %v", caption, plague.Day(i), values[i])
	}
	data := values
	if len(data) == 1 {
		data = []float64{values[0], values[0]}
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
