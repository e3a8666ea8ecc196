package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/plague/internal/control"
	"github.com/san-kum/plague/internal/plague"
	"github.com/san-kum/plague/internal/report"
	"github.com/san-kum/plague/internal/sim"
)

const (
	graphWidth  = 70
	graphHeight = 8
	manualPush  = 0.05
)

type TickMsg time.Time

// Model is the bubbletea model of a live run.
type Model struct {
	newController func() control.Controller
	cfg           sim.Config
	name          string
	runner        *sim.Runner
	running       bool
	fps           int
	paramKeys     []string
	selected      int
	showHelp      bool
}

// NewModel builds a live view. newController is called again on restart
// so every run starts from a fresh controller and a fresh model.
func NewModel(newController func() control.Controller, cfg sim.Config, name string, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	m := Model{
		newController: newController,
		cfg:           cfg,
		name:          name,
		running:       true,
		fps:           fps,
	}
	m.restart()
	return m
}

func (m *Model) restart() {
	m.runner = sim.New(m.newController(), m.cfg)
	m.paramKeys = nil
	m.selected = 0
	if c, ok := m.runner.Controller().(control.Configurable); ok {
		for k := range c.GetParams() {
			m.paramKeys = append(m.paramKeys, k)
		}
		sort.Strings(m.paramKeys)
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Done reports whether the configured number of steps has been taken.
func (m Model) Done() bool {
	return m.runner.Model().Len()-1 >= m.cfg.Steps
}

func (m Model) Runner() *sim.Runner { return m.runner }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.restart()
		case "tab":
			if len(m.paramKeys) > 0 {
				m.selected = (m.selected + 1) % len(m.paramKeys)
			}
		case "up", "k":
			m.adjust(1)
		case "down", "j":
			m.adjust(-1)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && !m.Done() {
			m.runner.Step()
		}
		return m, m.tick()
	}
	return m, nil
}

// adjust pushes the rate for a manual controller, otherwise nudges the
// selected parameter by 5% (or 0.01 when it is zero).
func (m *Model) adjust(dir float64) {
	ctrl := m.runner.Controller()
	if manual, ok := ctrl.(*control.Manual); ok {
		manual.Push(dir * manualPush)
		return
	}

	c, ok := ctrl.(control.Configurable)
	if !ok || len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	val := c.GetParams()[key]
	delta := 0.05 * val
	if delta < 0 {
		delta = -delta
	}
	if delta == 0 {
		delta = 0.01
	}
	c.SetParam(key, val+dir*delta)
}

func (m Model) View() string {
	res := m.runner.Result()
	h := res.History
	last := h.Len() - 1
	p, eff := m.runner.Model().Status()

	status := statusRunning.Render("RUNNING")
	switch {
	case m.Done():
		status = statusDone.Render("DONE")
	case !m.running:
		status = statusPaused.Render("PAUSED")
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("plague live: %s", m.name)))
	sb.WriteString("\n")

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("status", status)
	row("day", fmt.Sprintf("%.1f / %.1f", plague.Day(last), plague.Day(m.cfg.Steps)))
	row("infected", fmt.Sprintf("%s %.4f", ProgressBar(p, 30), p))
	row("rate", fmt.Sprintf("%.4f (effective %.4f)", h.Rates[last], eff))
	row("control", fmt.Sprintf("%+.4f  %s", h.Controls[last], Sparkline(h.Controls, 30)))
	row("steady state", fmt.Sprintf("day %.1f", res.SteadyStateDay()))
	row("cost", fmt.Sprintf("%.2f", res.Cost))

	if c, ok := m.runner.Controller().(control.Configurable); ok {
		params := c.GetParams()
		for i, k := range m.paramKeys {
			label := labelStyle.Render(k)
			if i == m.selected {
				label = activeParamStyle.Width(14).Render("> " + k)
			}
			sb.WriteString(label + valueStyle.Render(fmt.Sprintf("%.4f", params[k])) + "\n")
		}
	}
	if manual, ok := m.runner.Controller().(*control.Manual); ok {
		row("pending", fmt.Sprintf("%+.2f", manual.Pending()))
	}

	window := func(v []float64) []float64 {
		if len(v) > graphWidth {
			return v[len(v)-graphWidth:]
		}
		return v
	}
	sb.WriteString(graphStyle.Render(report.Plot(window(h.Percentages), graphWidth, graphHeight, "infected percentage")))
	sb.WriteString("\n")
	sb.WriteString(graphStyle.Render(report.Plot(window(h.Rates), graphWidth, graphHeight, "infection rate")))
	sb.WriteString("\n")

	help := "space pause · r restart · tab param · ↑/↓ adjust · ? help · q quit"
	if m.showHelp {
		help += "\nmanual controller: ↑/↓ push the rate by ±0.05 per key press"
	}
	sb.WriteString(helpStyle.Render(help))
	return sb.String()
}
