package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/plague/internal/plague"
)

const (
	curveColor  = "#ff0000"
	afterColor  = "#32CD32"
	markerColor = "#0000ff"
	fillColor   = "#FF69B4"

	panelHeight = 260
	marginLeft  = 70
	marginRight = 30
	marginTop   = 40
	marginBot   = 40
)

// SVG saves a three-panel chart to Dir/Name.svg. The part of each curve
// before the steady-state index is drawn solid, the rest dashed.
type SVG struct {
	Dir   string
	Name  string
	Width int
}

func NewSVG(dir, name string) *SVG {
	return &SVG{Dir: dir, Name: name, Width: 1200}
}

// Path is the file Report writes.
func (s *SVG) Path() string {
	return filepath.Join(s.Dir, s.Name+".svg")
}

func (s *SVG) Report(h plague.History, steadyState int, cost float64) error {
	if err := check(h, steadyState); err != nil {
		return err
	}
	if s.Dir != "" {
		if err := os.MkdirAll(s.Dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.Path(), []byte(s.Render(h, steadyState, cost)), 0644)
}

func (s *SVG) Render(h plague.History, steadyState int, cost float64) string {
	width := s.Width
	if width <= 0 {
		width = 1200
	}
	cs := curves(h)
	height := panelHeight * len(cs)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, width, height, width, height))

	for i, c := range cs {
		p := newPanel(c.values, width, i*panelHeight, i != 2)
		p.write(&sb, c, steadyState)

		// rate panel: shade the cost region and label it
		if i == 1 {
			p.fill(&sb, c.values[:steadyState+1])
			x, y := p.point(math.Min(1.5, p.xMax/2), 0.01)
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="18" text-anchor="middle">cost = %.2f</text>
`, x, y-4, cost))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

type panel struct {
	x0, y0     float64
	w, h       float64
	xMax       float64
	yMin, yMax float64
	n          int
}

func newPanel(values []float64, width, top int, floorZero bool) *panel {
	yMin, yMax := values[0], values[0]
	for _, v := range values {
		yMin = math.Min(yMin, v)
		yMax = math.Max(yMax, v)
	}
	if floorZero {
		yMin = math.Min(0, yMin)
	}
	if yMax-yMin == 0 {
		yMax = yMin + 1
	}

	xMax := plague.Day(len(values) - 1)
	if xMax == 0 {
		xMax = plague.Dt
	}

	return &panel{
		x0:   marginLeft,
		y0:   float64(top + marginTop),
		w:    float64(width - marginLeft - marginRight),
		h:    float64(panelHeight - marginTop - marginBot),
		xMax: xMax,
		yMin: yMin,
		yMax: yMax,
		n:    len(values),
	}
}

func (p *panel) point(day, v float64) (float64, float64) {
	x := p.x0 + day/p.xMax*p.w
	y := p.y0 + p.h - (v-p.yMin)/(p.yMax-p.yMin)*p.h
	return x, y
}

func (p *panel) path(values []float64, offset int) string {
	var sb strings.Builder
	for i, v := range values {
		x, y := p.point(plague.Day(offset+i), v)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	return sb.String()
}

func (p *panel) write(sb *strings.Builder, c curve, ss int) {
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="18">%s</text>
`, p.x0, p.y0-12, c.title))
	sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#bfbfbf"/>
`, p.x0, p.y0, p.w, p.h))

	// day ticks every 10 steps
	for i := 0; i < p.n; i += 10 {
		x, _ := p.point(plague.Day(i), p.yMin)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#bfbfbf" stroke-dasharray="4,4"/>
<text x="%.1f" y="%.1f" font-size="11" text-anchor="middle">%.0f</text>
`, x, p.y0, x, p.y0+p.h, x, p.y0+p.h+28, plague.Day(i)))
	}
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="13" text-anchor="end">%.2f</text>
<text x="%.1f" y="%.1f" font-size="13" text-anchor="end">%.2f</text>
`, p.x0-6, p.y0+p.h, p.yMin, p.x0-6, p.y0+10, p.yMax))
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="13" text-anchor="end">day</text>
`, p.x0+p.w, p.y0+p.h+28))

	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="3" d="%s"/>
`, curveColor, p.path(c.values[:ss+1], 0)))
	if ss < len(c.values)-1 {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="3" stroke-dasharray="10,6" d="%s"/>
`, afterColor, p.path(c.values[ss:], ss)))
	}

	x, yBase := p.point(plague.Day(ss), p.yMin)
	_, yVal := p.point(plague.Day(ss), c.values[ss])
	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="3" stroke-dasharray="10,6"/>
<text x="%.1f" y="%.1f" font-size="13" fill="%s" text-anchor="middle">%.1f</text>
`, x, yBase, x, yVal, markerColor, x, p.y0+p.h+16, markerColor, plague.Day(ss)))
}

func (p *panel) fill(sb *strings.Builder, values []float64) {
	if len(values) < 2 {
		return
	}
	x0, yBase := p.point(0, 0)
	xEnd, _ := p.point(plague.Day(len(values)-1), 0)
	sb.WriteString(fmt.Sprintf(`<path fill="%s" fill-opacity="0.7" stroke="none" d="M%.1f,%.1f %s L%.1f,%.1f Z"/>
`, fillColor, x0, yBase, strings.Replace(p.path(values, 0), "M", "L", 1), xEnd, yBase))
}
