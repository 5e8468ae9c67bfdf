package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Plant != "dcmotor" {
		t.Errorf("expected plant dcmotor, got %s", cfg.Plant)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if cfg.Output.Min >= cfg.Output.Max {
		t.Error("output bounds inverted")
	}
	if cfg.Integrator != nil {
		t.Error("default config should derive integrator bounds")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Plant = "heater"
	cfg.Gains.Kd = 0.25
	cfg.Integrator = &RangeConfig{Min: 0, Max: 100}
	cfg.Setpoint = SetpointConfig{Value: 60, StepAt: 5, StepTo: 40}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Plant != "heater" || loaded.Gains.Kd != 0.25 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
	if loaded.Integrator == nil || loaded.Integrator.Max != 100 {
		t.Errorf("round trip lost integrator bounds: %+v", loaded.Integrator)
	}
	if loaded.Setpoint.StepTo != 40 {
		t.Errorf("round trip lost setpoint schedule: %+v", loaded.Setpoint)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("dcmotor", "crisp")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Gains.Kp != 0.05 {
		t.Errorf("expected kp 0.05, got %f", cfg.Gains.Kp)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("dcmotor", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "crisp"); cfg != nil {
		t.Error("expected nil for nonexistent plant")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("dcmotor")
	if len(presets) == 0 {
		t.Error("expected presets for dcmotor")
	}

	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent plant")
	}
}

func TestPresets_Valid(t *testing.T) {
	for plant, byName := range Presets {
		for name, cfg := range byName {
			if cfg.Plant != plant {
				t.Errorf("preset %s/%s names plant %q", plant, name, cfg.Plant)
			}
			if cfg.Dt <= 0 || cfg.Duration <= 0 {
				t.Errorf("preset %s/%s has invalid timing", plant, name)
			}
			if cfg.Output.Min >= cfg.Output.Max {
				t.Errorf("preset %s/%s has inverted output bounds", plant, name)
			}
			if cfg.Integrator != nil && cfg.Integrator.Min >= cfg.Integrator.Max {
				t.Errorf("preset %s/%s has inverted integrator bounds", plant, name)
			}
		}
	}
}
