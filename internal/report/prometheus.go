package report

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/san-kum/plague/internal/plague"
)

// Prometheus writes a text-format snapshot of the run, suitable for the
// node_exporter textfile collector. Labels are attached to every sample.
type Prometheus struct {
	W      io.Writer
	Labels map[string]string
}

func NewPrometheus(w io.Writer, labels map[string]string) *Prometheus {
	return &Prometheus{W: w, Labels: labels}
}

func (p *Prometheus) Report(h plague.History, steadyState int, cost float64) error {
	if err := check(h, steadyState); err != nil {
		return err
	}
	for _, mf := range p.Families(h, steadyState, cost) {
		if _, err := expfmt.MetricFamilyToText(p.W, mf); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes the snapshot to path, creating parent directories.
func (p *Prometheus) WriteFile(path string, h plague.History, steadyState int, cost float64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	out := &Prometheus{W: f, Labels: p.Labels}
	if err := out.Report(h, steadyState, cost); err != nil {
		return err
	}
	return f.Close()
}

func (p *Prometheus) Families(h plague.History, steadyState int, cost float64) []*dto.MetricFamily {
	last := h.Len() - 1
	peak := h.Percentages[0]
	for _, v := range h.Percentages {
		if v > peak {
			peak = v
		}
	}

	return []*dto.MetricFamily{
		p.gauge("plague_infected_percentage", "Latest infected population fraction.", h.Percentages[last]),
		p.gauge("plague_infected_percentage_peak", "Highest infected population fraction of the run.", peak),
		p.gauge("plague_infection_rate", "Latest nominal infection rate per day.", h.Rates[last]),
		p.gauge("plague_applied_control", "Latest applied control increment.", h.Controls[last]),
		p.gauge("plague_steady_state_day", "Simulated day at which the run reached steady state.", plague.Day(steadyState)),
		p.gauge("plague_cost", "Integrated infection rate up to the steady state.", cost),
		p.counter("plague_steps_total", "Number of simulation steps taken.", float64(last)),
	}
}

func (p *Prometheus) gauge(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   ptr(name),
		Help:   ptr(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{{Label: p.labels(), Gauge: &dto.Gauge{Value: ptr(v)}}},
	}
}

func (p *Prometheus) counter(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   ptr(name),
		Help:   ptr(help),
		Type:   dto.MetricType_COUNTER.Enum(),
		Metric: []*dto.Metric{{Label: p.labels(), Counter: &dto.Counter{Value: ptr(v)}}},
	}
}

func (p *Prometheus) labels() []*dto.LabelPair {
	names := make([]string, 0, len(p.Labels))
	for k := range p.Labels {
		names = append(names, k)
	}
	sort.Strings(names)

	pairs := make([]*dto.LabelPair, 0, len(names))
	for _, k := range names {
		pairs = append(pairs, &dto.LabelPair{Name: ptr(k), Value: ptr(p.Labels[k])})
	}
	return pairs
}

func ptr[T any](v T) *T { return &v }
