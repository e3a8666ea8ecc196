package sim

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/san-kum/plague/internal/control"
	"github.com/san-kum/plague/internal/metrics"
	"github.com/san-kum/plague/internal/plague"
)

const MaxSteps = 1_000_000

// Observer is notified after every step with the step just appended.
type Observer interface {
	OnStep(s plague.Step, index int)
}

type Config struct {
	Steps     int
	Tolerance float64
	Window    int
}

func DefaultConfig() Config {
	return Config{
		Steps:     300,
		Tolerance: metrics.DefaultTolerance,
		Window:    metrics.DefaultWindow,
	}
}

type Result struct {
	History     plague.History
	SteadyState int
	Cost        float64
	Metrics     map[string]float64
}

// SteadyStateDay is the simulated day of the steady-state index.
func (r *Result) SteadyStateDay() float64 {
	return plague.Day(r.SteadyState)
}

// Runner owns one model and drives it with a controller.
type Runner struct {
	model      *plague.Model
	controller control.Controller
	cfg        Config
	metrics    []metrics.Metric
	observers  []Observer
}

func New(controller control.Controller, cfg Config) *Runner {
	return &Runner{
		model:      plague.New(),
		controller: controller,
		cfg:        cfg,
		metrics:    make([]metrics.Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m metrics.Metric) { r.metrics = append(r.metrics, m) }

func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Model exposes the owned model for status reads.
func (r *Runner) Model() *plague.Model { return r.model }

func (r *Runner) Controller() control.Controller { return r.controller }

// Step advances the model once and returns the appended step.
func (r *Runner) Step() plague.Step {
	i := r.model.Len() - 1
	p, rate := r.model.Status()
	u := r.controller.Compute(p, rate, i)

	r.model.Spread(u)

	s := r.model.Last()
	for _, m := range r.metrics {
		m.Observe(s, i+1)
	}
	for _, obs := range r.observers {
		obs.OnStep(s, i+1)
	}
	return s
}

// Run advances the model cfg.Steps times. On cancellation the partial
// result is returned together with the error.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	for _, m := range r.metrics {
		m.Reset()
	}
	for _, m := range r.metrics {
		m.Observe(r.model.Last(), r.model.Len()-1)
	}

	for i := 0; i < r.cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return r.Result(), &RunError{Step: r.model.Len() - 1, Wrapped: ctx.Err()}
		default:
		}
		r.Step()
	}

	res := r.Result()
	log.WithFields(log.Fields{
		"steps":        res.History.Len() - 1,
		"steady_state": res.SteadyState,
		"cost":         res.Cost,
	}).Debug("run complete")

	return res, nil
}

// Result snapshots the current history with its steady state and cost.
func (r *Runner) Result() *Result {
	h := r.model.History()
	ss := metrics.SteadyState(h.Percentages, r.cfg.Tolerance, r.cfg.Window)

	res := &Result{
		History:     h,
		SteadyState: ss,
		Cost:        metrics.InfectionCost(h.Rates, ss),
		Metrics:     make(map[string]float64, len(r.metrics)),
	}
	for _, m := range r.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	return res
}

func (r *Runner) validate() error {
	if r.controller == nil {
		return ErrNoController
	}
	if r.cfg.Steps <= 0 || r.cfg.Steps > MaxSteps {
		return fmt.Errorf("%w: %d (must be in 1..%d)", ErrInvalidSteps, r.cfg.Steps, MaxSteps)
	}
	return nil
}

// Reporter consumes a finished history. Implementations live in
// package report.
type Reporter interface {
	Report(h plague.History, steadyState int, cost float64) error
}

// Report hands the result to every reporter and joins their errors.
func Report(res *Result, reporters ...Reporter) error {
	var errs []error
	for _, rep := range reporters {
		if err := rep.Report(res.History, res.SteadyState, res.Cost); err != nil {
			log.WithFields(log.Fields{
				"reporter": fmt.Sprintf("%T", rep),
				"err":      err,
			}).Warn("report failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
