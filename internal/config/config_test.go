package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/plague/internal/control"
	"github.com/san-kum/plague/internal/sim"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Controller != "pid" {
		t.Errorf("expected controller pid, got %s", cfg.Controller)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if cfg.ControllerParams.Target != DefaultTarget {
		t.Errorf("expected target %f, got %f", DefaultTarget, cfg.ControllerParams.Target)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	content := `controller: schedule
steps: 50
controller_params:
  deltas: [0.6, 0.0, -10]
output:
  svg_dir: charts
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Controller != "schedule" || cfg.Steps != 50 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if len(cfg.ControllerParams.Deltas) != 3 || cfg.ControllerParams.Deltas[2] != -10 {
		t.Errorf("unexpected deltas: %v", cfg.ControllerParams.Deltas)
	}
	if cfg.Output.SVGDir != "charts" {
		t.Errorf("expected svg dir charts, got %q", cfg.Output.SVGDir)
	}
	// unset fields keep their defaults
	if cfg.Tolerance != DefaultConfig().Tolerance || cfg.ControllerParams.Kp != DefaultKp {
		t.Errorf("defaults not preserved: %+v", cfg)
	}
}

func TestLoadLQRGains(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lqr.yaml")
	content := `controller: lqr
controller_params:
  k0: 2.5
  k1: 0.75
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	ctrl, err := control.NewRegistry().Get(cfg.Controller, cfg.GetControllerParams())
	if err != nil {
		t.Fatalf("get controller: %v", err)
	}
	lqr, ok := ctrl.(*control.LQR)
	if !ok || lqr.K != [2]float64{2.5, 0.75} {
		t.Errorf("expected gains from config, got %#v", ctrl)
	}
	if p := cfg.ParamMap(); p["k0"] != 2.5 || p["k1"] != 0.75 {
		t.Errorf("gains missing from param map: %v", p)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("steps: [oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := GetPreset("surge")

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Controller != "schedule" || loaded.Steps != cfg.Steps || len(loaded.ControllerParams.Deltas) != 1 {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero steps", func(c *Config) { c.Steps = 0 }},
		{"too many steps", func(c *Config) { c.Steps = sim.MaxSteps + 1 }},
		{"zero tolerance", func(c *Config) { c.Tolerance = 0 }},
		{"zero window", func(c *Config) { c.Window = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Steps = -1
	if err := cfg.Validate(); !errors.Is(err, sim.ErrInvalidSteps) {
		t.Errorf("expected ErrInvalidSteps, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("flatten")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.ControllerParams.Target != 0.1 {
		t.Errorf("expected target 0.1, got %f", cfg.ControllerParams.Target)
	}
	if cfg.Tolerance <= 0 || cfg.Window <= 0 {
		t.Error("preset should inherit defaults")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestGetPresetIsCopy(t *testing.T) {
	cfg := GetPreset("surge")
	cfg.ControllerParams.Deltas[0] = 99
	cfg.Steps = 1

	again := GetPreset("surge")
	if again.ControllerParams.Deltas[0] != 0.6 || again.Steps != 200 {
		t.Error("preset mutated through returned config")
	}
}

func TestPresetsResolve(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}

	registry := control.NewRegistry()
	for _, name := range names {
		cfg := GetPreset(name)
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
		if _, err := registry.Get(cfg.Controller, cfg.GetControllerParams()); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestSimConfig(t *testing.T) {
	cfg := DefaultConfig()
	sc := cfg.SimConfig()
	if sc.Steps != cfg.Steps || sc.Tolerance != cfg.Tolerance || sc.Window != cfg.Window {
		t.Errorf("sim config mismatch: %+v", sc)
	}
	if pm := cfg.ParamMap(); pm["kp"] != DefaultKp || pm["target"] != DefaultTarget {
		t.Errorf("unexpected param map: %v", pm)
	}
}
