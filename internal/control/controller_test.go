package control

import (
	"math"
	"testing"

	"github.com/san-kum/plague/internal/plague"
)

func run(ctrl Controller, steps int) *plague.Model {
	m := plague.New()
	for i := 0; i < steps; i++ {
		p, r := m.Status()
		m.Spread(ctrl.Compute(p, r, i))
	}
	return m
}

func TestNone(t *testing.T) {
	ctrl := NewNone()
	if u := ctrl.Compute(0.5, 0.1, 3); u != 0 {
		t.Errorf("expected zero control, got %f", u)
	}
}

func TestPID(t *testing.T) {
	ctrl := NewPID(1.0, 0.0, 1.0, 0.3)

	if u := ctrl.Compute(0.0, 0.0, 0); u <= 0 {
		t.Errorf("PID should push the rate up below target, got %f", u)
	}
	if u := ctrl.Compute(0.6, 0.0, 1); u >= 0 {
		t.Errorf("PID should push the rate down above target, got %f", u)
	}
}

func TestPIDSettles(t *testing.T) {
	m := run(NewPID(1.0, 0.0, 1.0, 0.3), 400)

	p, r := m.Status()
	if math.Abs(p-0.3) > 1e-3 {
		t.Errorf("expected percentage near 0.3, got %f", p)
	}
	if math.Abs(r) > 1e-3 {
		t.Errorf("expected effective rate near 0, got %f", r)
	}
}

func TestPIDParams(t *testing.T) {
	ctrl := NewPID(1, 2, 3, 0.4)

	params := ctrl.GetParams()
	if params["Kp"] != 1 || params["Ki"] != 2 || params["Kd"] != 3 || params["Target"] != 0.4 {
		t.Errorf("unexpected params: %v", params)
	}

	ctrl.SetParam("Target", 0.1)
	ctrl.SetParam("bogus", 9)
	if ctrl.Target != 0.1 {
		t.Errorf("expected target 0.1, got %f", ctrl.Target)
	}

	ctrl.Compute(0, 0, 0)
	if ctrl.integral == 0 {
		t.Error("expected integral to accumulate")
	}
	ctrl.Reset()
	if ctrl.integral != 0 {
		t.Error("expected integral cleared after reset")
	}
}

func TestLQR(t *testing.T) {
	ctrl := NewDefaultLQR(0.3)

	if u := ctrl.Compute(0.3, 0, 0); u != 0 {
		t.Errorf("expected zero control at target, got %f", u)
	}
	if u := ctrl.Compute(0.1, 0, 0); u <= 0 {
		t.Errorf("expected positive control below target, got %f", u)
	}

	m := run(ctrl, 400)
	if p, _ := m.Status(); math.Abs(p-0.3) > 1e-3 {
		t.Errorf("expected LQR to settle near 0.3, got %f", p)
	}
}

func TestBangBang(t *testing.T) {
	ctrl := NewBangBang(0.05, 0.3, 0.01)

	tests := []struct {
		p        float64
		expected float64
	}{
		{0.1, 0.05},
		{0.5, -0.05},
		{0.305, 0},
	}

	for _, tt := range tests {
		if got := ctrl.Compute(tt.p, 0, 0); got != tt.expected {
			t.Errorf("Compute(%v) = %v, want %v", tt.p, got, tt.expected)
		}
	}
}

func TestSchedule(t *testing.T) {
	deltas := []float64{0.6, 0, -10}
	ctrl := NewSchedule(deltas)
	deltas[0] = 99

	for i, expected := range []float64{0.6, 0, -10, 0, 0} {
		if got := ctrl.Compute(0, 0, i); got != expected {
			t.Errorf("step %d: expected %f, got %f", i, expected, got)
		}
	}

	m := run(ctrl, 2)
	if p := m.Last().Percentage; math.Abs(p-0.11982) > 1e-12 {
		t.Errorf("expected percentage 0.11982, got %f", p)
	}
}

func TestManual(t *testing.T) {
	ctrl := NewManual()
	ctrl.Push(0.1)
	ctrl.Push(0.05)

	if got := ctrl.Compute(0, 0, 0); math.Abs(got-0.15) > 1e-12 {
		t.Errorf("expected 0.15, got %f", got)
	}
	if got := ctrl.Compute(0, 0, 1); got != 0 {
		t.Errorf("expected pending cleared, got %f", got)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	for _, name := range r.List() {
		if _, err := r.Get(name, Params{Target: 0.3}); err != nil {
			t.Errorf("get %s: %v", name, err)
		}
	}

	if _, err := r.Get("nonexistent", Params{}); err == nil {
		t.Error("expected error for unknown controller")
	}

	ctrl, err := r.Get("pid", Params{Kp: 2, Target: 0.2})
	if err != nil {
		t.Fatalf("get pid: %v", err)
	}
	if pid, ok := ctrl.(*PID); !ok || pid.Kp != 2 || pid.Target != 0.2 {
		t.Errorf("unexpected pid: %#v", ctrl)
	}
}

func TestRegistryLQRGains(t *testing.T) {
	r := NewRegistry()

	ctrl, err := r.Get("lqr", Params{Target: 0.2, K0: 2, K1: 0.5})
	if err != nil {
		t.Fatalf("get lqr: %v", err)
	}
	lqr, ok := ctrl.(*LQR)
	if !ok || lqr.K != [2]float64{2, 0.5} || lqr.Target != 0.2 {
		t.Errorf("unexpected lqr: %#v", ctrl)
	}

	ctrl, err = r.Get("lqr", Params{Target: 0.3})
	if err != nil {
		t.Fatalf("get lqr: %v", err)
	}
	if lqr := ctrl.(*LQR); lqr.K != defaultGains {
		t.Errorf("expected default gains for zero params, got %v", lqr.K)
	}
}
