package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/plague/internal/control"
	"github.com/san-kum/plague/internal/metrics"
	"github.com/san-kum/plague/internal/plague"
)

type countingObserver struct {
	steps   int
	lastIdx int
}

func (c *countingObserver) OnStep(s plague.Step, index int) {
	c.steps++
	c.lastIdx = index
}

type recordingReporter struct {
	h     plague.History
	ss    int
	cost  float64
	fail  bool
	calls int
}

func (r *recordingReporter) Report(h plague.History, steadyState int, cost float64) error {
	r.calls++
	r.h, r.ss, r.cost = h, steadyState, cost
	if r.fail {
		return errors.New("boom")
	}
	return nil
}

func TestRunnerRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Steps = 400

	r := New(control.NewPID(1, 0, 1, 0.3), cfg)
	obs := &countingObserver{}
	r.AddObserver(obs)
	for _, m := range metrics.Defaults() {
		r.AddMetric(m)
	}

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if res.History.Len() != 401 {
		t.Errorf("expected 401 samples, got %d", res.History.Len())
	}
	if obs.steps != 400 || obs.lastIdx != 400 {
		t.Errorf("expected 400 observations ending at 400, got %d/%d", obs.steps, obs.lastIdx)
	}

	if res.SteadyState <= 0 || res.SteadyState >= 400 {
		t.Errorf("expected steady state inside the run, got %d", res.SteadyState)
	}
	if expected := metrics.InfectionCost(res.History.Rates, res.SteadyState); res.Cost != expected {
		t.Errorf("expected cost %f, got %f", expected, res.Cost)
	}

	if peak, ok := res.Metrics["peak_percentage"]; !ok || peak < 0.29 {
		t.Errorf("unexpected peak metric: %v", res.Metrics)
	}
	if math.Abs(res.SteadyStateDay()-plague.Day(res.SteadyState)) > 1e-12 {
		t.Error("steady state day mismatch")
	}
}

func TestRunnerScheduleMatchesModel(t *testing.T) {
	deltas := []float64{0.6, 0.0, -10.0}
	cfg := DefaultConfig()
	cfg.Steps = len(deltas)

	res, err := New(control.NewSchedule(deltas), cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	m := plague.New()
	for _, d := range deltas {
		m.Spread(d)
	}

	want := m.History()
	for i := range want.Percentages {
		if res.History.Percentages[i] != want.Percentages[i] ||
			res.History.Rates[i] != want.Rates[i] ||
			res.History.Controls[i] != want.Controls[i] {
			t.Fatalf("sample %d differs from direct model", i)
		}
	}
}

func TestRunnerControlEffort(t *testing.T) {
	deltas := []float64{0.2, -0.4, 0.1}
	cfg := DefaultConfig()
	cfg.Steps = len(deltas)

	r := New(control.NewSchedule(deltas), cfg)
	r.AddMetric(metrics.NewControlEffort())
	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if got := res.Metrics["control_effort"]; math.Abs(got-0.7/3) > 1e-12 {
		t.Errorf("expected mean effort over 3 applied steps %f, got %f", 0.7/3, got)
	}
}

func TestRunnerInvalidConfig(t *testing.T) {
	tests := []struct {
		name  string
		ctrl  control.Controller
		steps int
		want  error
	}{
		{"zero steps", control.NewNone(), 0, ErrInvalidSteps},
		{"negative steps", control.NewNone(), -5, ErrInvalidSteps},
		{"too many steps", control.NewNone(), MaxSteps + 1, ErrInvalidSteps},
		{"no controller", nil, 10, ErrNoController},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Steps = tt.steps
			_, err := New(tt.ctrl, cfg).Run(context.Background())
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRunnerCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(control.NewNone(), DefaultConfig()).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	var runErr *RunError
	if !errors.As(err, &runErr) || runErr.Step != 0 {
		t.Errorf("expected RunError at step 0, got %v", err)
	}
	if res == nil || res.History.Len() != 1 {
		t.Error("expected partial result with the initial sample")
	}
}

func TestReport(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Steps = 20
	res, err := New(control.NewSchedule([]float64{0.2}), cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	ok := &recordingReporter{}
	bad := &recordingReporter{fail: true}

	err = Report(res, ok, bad)
	if err == nil {
		t.Error("expected joined error from failing reporter")
	}
	if ok.calls != 1 || bad.calls != 1 {
		t.Errorf("expected each reporter called once, got %d/%d", ok.calls, bad.calls)
	}
	if ok.ss != res.SteadyState || ok.cost != res.Cost || ok.h.Len() != 21 {
		t.Error("reporter received wrong arguments")
	}
}

func TestRunErrorMessage(t *testing.T) {
	err := &RunError{Step: 15, Wrapped: context.Canceled}
	expected := "step 15 (day 1.5): context canceled"
	if err.Error() != expected {
		t.Errorf("RunError.Error() = %q, want %q", err.Error(), expected)
	}
}
