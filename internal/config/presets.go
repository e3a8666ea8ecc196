package config

import "sort"

var Presets = map[string]*Config{
	"hold": {
		Controller: "pid", Steps: 300,
		ControllerParams: ControllerConfig{Kp: 1.0, Kd: 1.0, Target: 0.3},
	},
	"flatten": {
		Controller: "pid", Steps: 400,
		ControllerParams: ControllerConfig{Kp: 1.0, Kd: 1.0, Target: 0.1},
	},
	"lqr": {
		Controller: "lqr", Steps: 300,
		ControllerParams: ControllerConfig{Target: 0.3, K0: 1.0, K1: 1.0},
	},
	"bangbang": {
		Controller: "bangbang", Steps: 400,
		ControllerParams: ControllerConfig{Target: 0.3, Step: 0.02, Deadband: 0.01},
	},
	"surge": {
		Controller: "schedule", Steps: 200,
		ControllerParams: ControllerConfig{Deltas: []float64{0.6}},
	},
	"uncontrolled": {
		Controller: "none", Steps: 100,
	},
}

// GetPreset returns a copy of the named preset filled in over the
// defaults, or nil if it does not exist.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Controller = p.Controller
	cfg.Steps = p.Steps
	cfg.ControllerParams = p.ControllerParams
	if p.ControllerParams.Deltas != nil {
		cfg.ControllerParams.Deltas = append([]float64(nil), p.ControllerParams.Deltas...)
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
