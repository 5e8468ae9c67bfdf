package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultSetpoint = 15.0
	DefaultKp       = 0.02
	DefaultKi       = 0.5
	DefaultKd       = 0.0
)

type Config struct {
	Plant    string  `yaml:"plant"`
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	Seed     int64   `yaml:"seed"`

	Gains  GainsConfig `yaml:"gains"`
	Output RangeConfig `yaml:"output"`
	// Integrator bounds; omitted means derived from output bounds and ki.
	Integrator *RangeConfig `yaml:"integrator,omitempty"`
	// Filter is the derivative smoothing coefficient in [0, 1].
	Filter float64 `yaml:"derivative_filter"`

	Setpoint SetpointConfig `yaml:"setpoint"`
	// Noise is the measurement noise standard deviation.
	Noise float64 `yaml:"noise"`
}

type GainsConfig struct {
	Kp float64 `yaml:"kp"`
	Ki float64 `yaml:"ki"`
	Kd float64 `yaml:"kd"`
}

type RangeConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type SetpointConfig struct {
	Value float64 `yaml:"value"`
	// A non-zero StepAt switches the setpoint from Value to StepTo at that
	// time, for step-response experiments.
	StepAt float64 `yaml:"step_at"`
	StepTo float64 `yaml:"step_to"`
}

func DefaultConfig() *Config {
	return &Config{
		Plant:    "dcmotor",
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Gains: GainsConfig{
			Kp: DefaultKp,
			Ki: DefaultKi,
			Kd: DefaultKd,
		},
		Output:   RangeConfig{Min: -1.0, Max: 1.0},
		Setpoint: SetpointConfig{Value: DefaultSetpoint},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
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
