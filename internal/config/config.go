package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/plague/internal/control"
	"github.com/san-kum/plague/internal/metrics"
	"github.com/san-kum/plague/internal/sim"
)

const (
	DefaultSteps      = 300
	DefaultController = "pid"
	DefaultKp         = 1.0
	DefaultKi         = 0.0
	DefaultKd         = 1.0
	DefaultTarget     = 0.3
	DefaultStep       = 0.05
	DefaultDeadband   = 0.01
	DefaultK0         = 1.0
	DefaultK1         = 1.0
)

type Config struct {
	Controller       string           `yaml:"controller"`
	Steps            int              `yaml:"steps"`
	Tolerance        float64          `yaml:"tolerance"`
	Window           int              `yaml:"window"`
	ControllerParams ControllerConfig `yaml:"controller_params"`
	Output           OutputConfig     `yaml:"output"`
}

type ControllerConfig struct {
	Kp       float64   `yaml:"kp"`
	Ki       float64   `yaml:"ki"`
	Kd       float64   `yaml:"kd"`
	Target   float64   `yaml:"target"`
	Step     float64   `yaml:"step"`
	Deadband float64   `yaml:"deadband"`
	Deltas   []float64 `yaml:"deltas,omitempty"`
	K0       float64   `yaml:"k0"`
	K1       float64   `yaml:"k1"`
}

type OutputConfig struct {
	SVGDir     string `yaml:"svg_dir,omitempty"`
	Prometheus string `yaml:"prometheus,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Controller: DefaultController,
		Steps:      DefaultSteps,
		Tolerance:  metrics.DefaultTolerance,
		Window:     metrics.DefaultWindow,
		ControllerParams: ControllerConfig{
			Kp:       DefaultKp,
			Ki:       DefaultKi,
			Kd:       DefaultKd,
			Target:   DefaultTarget,
			Step:     DefaultStep,
			Deadband: DefaultDeadband,
			K0:       DefaultK0,
			K1:       DefaultK1,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Steps <= 0 || c.Steps > sim.MaxSteps {
		return fmt.Errorf("%w: %d", sim.ErrInvalidSteps, c.Steps)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %g", c.Tolerance)
	}
	if c.Window < 1 {
		return fmt.Errorf("window must be at least 1, got %d", c.Window)
	}
	return nil
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Steps:     c.Steps,
		Tolerance: c.Tolerance,
		Window:    c.Window,
	}
}

func (c *Config) GetControllerParams() control.Params {
	p := c.ControllerParams
	return control.Params{
		Kp:       p.Kp,
		Ki:       p.Ki,
		Kd:       p.Kd,
		Target:   p.Target,
		Step:     p.Step,
		Deadband: p.Deadband,
		Deltas:   p.Deltas,
		K0:       p.K0,
		K1:       p.K1,
	}
}

// ParamMap flattens the scalar controller parameters for run metadata.
func (c *Config) ParamMap() map[string]float64 {
	p := c.ControllerParams
	return map[string]float64{
		"kp":       p.Kp,
		"ki":       p.Ki,
		"kd":       p.Kd,
		"target":   p.Target,
		"step":     p.Step,
		"deadband": p.Deadband,
		"k0":       p.K0,
		"k1":       p.K1,
	}
}
