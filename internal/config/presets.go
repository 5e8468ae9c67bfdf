package config

var Presets = map[string]map[string]*Config{
	"dcmotor": {
		"crisp": {
			Plant: "dcmotor", Dt: 0.01, Duration: 10.0,
			Gains:    GainsConfig{Kp: 0.05, Ki: 0.8, Kd: 0.002},
			Output:   RangeConfig{Min: -1.0, Max: 1.0},
			Setpoint: SetpointConfig{Value: 15.0},
		},
		"soft": {
			Plant: "dcmotor", Dt: 0.01, Duration: 15.0,
			Gains:    GainsConfig{Kp: 0.01, Ki: 0.3},
			Output:   RangeConfig{Min: -1.0, Max: 1.0},
			Setpoint: SetpointConfig{Value: 15.0},
		},
		"noisy": {
			Plant: "dcmotor", Dt: 0.01, Duration: 10.0,
			Gains:    GainsConfig{Kp: 0.04, Ki: 0.6, Kd: 0.005},
			Output:   RangeConfig{Min: -1.0, Max: 1.0},
			Filter:   0.7,
			Setpoint: SetpointConfig{Value: 15.0},
			Noise:    0.5,
			Seed:     42,
		},
		"reversal": {
			Plant: "dcmotor", Dt: 0.01, Duration: 20.0,
			Gains:    GainsConfig{Kp: 0.05, Ki: 0.8, Kd: 0.002},
			Output:   RangeConfig{Min: -1.0, Max: 1.0},
			Setpoint: SetpointConfig{Value: 15.0, StepAt: 10.0, StepTo: -15.0},
		},
	},
	"heater": {
		"gentle": {
			Plant: "heater", Dt: 0.1, Duration: 300.0,
			Gains:      GainsConfig{Kp: 0.02, Ki: 0.002},
			Output:     RangeConfig{Min: 0.0, Max: 1.0},
			Integrator: &RangeConfig{Min: 0.0, Max: 400.0},
			Setpoint:   SetpointConfig{Value: 60.0},
		},
		"fast": {
			Plant: "heater", Dt: 0.1, Duration: 200.0,
			Gains:      GainsConfig{Kp: 0.08, Ki: 0.005, Kd: 0.5},
			Output:     RangeConfig{Min: 0.0, Max: 1.0},
			Integrator: &RangeConfig{Min: 0.0, Max: 250.0},
			Filter:     0.5,
			Setpoint:   SetpointConfig{Value: 60.0},
		},
	},
}

func GetPreset(plant, preset string) *Config {
	plantPresets, ok := Presets[plant]
	if !ok {
		return nil
	}
	cfg, ok := plantPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(plant string) []string {
	plantPresets, ok := Presets[plant]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(plantPresets))
	for name := range plantPresets {
		names = append(names, name)
	}
	return names
}
