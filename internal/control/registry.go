package control

import (
	"fmt"
	"sort"
)

// Params carries the tunables for every controller kind; each
// constructor reads the fields it needs.
type Params struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Target   float64
	Step     float64
	Deadband float64
	Deltas   []float64
	// LQR gains; both zero selects the default gains.
	K0       float64
	K1       float64
}

type Registry struct {
	controllers map[string]func(Params) Controller
}

func NewRegistry() *Registry {
	r := &Registry{
		controllers: make(map[string]func(Params) Controller),
	}

	r.controllers["none"] = func(p Params) Controller { return NewNone() }
	r.controllers["pid"] = func(p Params) Controller {
		return NewPID(p.Kp, p.Ki, p.Kd, p.Target)
	}
	r.controllers["lqr"] = func(p Params) Controller {
		if p.K0 == 0 && p.K1 == 0 {
			return NewDefaultLQR(p.Target)
		}
		return NewLQR([2]float64{p.K0, p.K1}, p.Target)
	}
	r.controllers["bangbang"] = func(p Params) Controller {
		return NewBangBang(p.Step, p.Target, p.Deadband)
	}
	r.controllers["schedule"] = func(p Params) Controller {
		return NewSchedule(p.Deltas)
	}
	r.controllers["manual"] = func(p Params) Controller { return NewManual() }

	return r
}

// Register adds or replaces a controller constructor.
func (r *Registry) Register(name string, fn func(Params) Controller) {
	r.controllers[name] = fn
}

func (r *Registry) Get(name string, params Params) (Controller, error) {
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s (available: %v)", name, r.List())
	}
	return fn(params), nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
