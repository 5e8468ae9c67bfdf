// Package lab assembles full closed-loop experiments from configuration:
// plant lookup, controller construction, setpoint schedule, and the
// standard metric set.
package lab

import (
	"fmt"
	"sort"

	"github.com/motorlab/motorlab/internal/config"
	"github.com/motorlab/motorlab/internal/loop"
	"github.com/motorlab/motorlab/internal/metrics"
	"github.com/motorlab/motorlab/internal/pid"
	"github.com/motorlab/motorlab/internal/plant"
)

// NoisyPlant is a Plant whose measurement can carry seeded sensor noise.
type NoisyPlant interface {
	loop.Plant
	SetNoise(level float64, seed int64)
}

type Registry struct {
	plants map[string]func() NoisyPlant
}

func NewRegistry() *Registry {
	r := &Registry{
		plants: make(map[string]func() NoisyPlant),
	}

	r.plants["dcmotor"] = func() NoisyPlant { return plant.NewDCMotor() }
	r.plants["heater"] = func() NoisyPlant { return plant.NewHeater() }

	return r
}

func (r *Registry) GetPlant(name string) (NoisyPlant, error) {
	fn, ok := r.plants[name]
	if !ok {
		return nil, fmt.Errorf("unknown plant: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListPlants() []string {
	names := make([]string, 0, len(r.plants))
	for name := range r.plants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildController constructs the controller described by cfg. Explicit
// integrator bounds or a non-zero derivative filter select the advanced
// constructor; otherwise the bounds are derived from the output range.
func BuildController(cfg *config.Config) (*pid.Controller, error) {
	g := cfg.Gains
	o := cfg.Output

	if cfg.Integrator != nil {
		return pid.NewAdvanced(g.Kp, g.Ki, g.Kd, cfg.Dt, o.Min, o.Max,
			cfg.Integrator.Min, cfg.Integrator.Max, cfg.Filter)
	}
	if cfg.Filter > 0 {
		integMin, integMax := o.Min, o.Max
		if g.Ki != 0 {
			integMin = o.Min / g.Ki
			integMax = o.Max / g.Ki
		}
		return pid.NewAdvanced(g.Kp, g.Ki, g.Kd, cfg.Dt, o.Min, o.Max,
			integMin, integMax, cfg.Filter)
	}
	return pid.New(g.Kp, g.Ki, g.Kd, cfg.Dt, o.Min, o.Max)
}

// Build wires a complete runner from cfg: plant, controller, setpoint
// schedule, and the default metrics.
func (r *Registry) Build(cfg *config.Config) (*loop.Runner, error) {
	p, err := r.GetPlant(cfg.Plant)
	if err != nil {
		return nil, err
	}
	if cfg.Noise > 0 {
		p.SetNoise(cfg.Noise, cfg.Seed)
	}

	ctrl, err := BuildController(cfg)
	if err != nil {
		return nil, fmt.Errorf("building controller: %w", err)
	}

	runner := loop.New(ctrl, p, setpointSchedule(cfg))
	for _, m := range DefaultMetrics(cfg) {
		runner.AddMetric(m)
	}
	return runner, nil
}

// LoopConfig translates the experiment timing into the runner's config.
func LoopConfig(cfg *config.Config) loop.Config {
	return loop.Config{Dt: cfg.Dt, Duration: cfg.Duration}
}

func setpointSchedule(cfg *config.Config) loop.Setpoint {
	sp := cfg.Setpoint
	if sp.StepAt > 0 {
		return loop.Step(sp.StepAt, sp.Value, sp.StepTo)
	}
	return loop.Constant(sp.Value)
}

// DefaultMetrics returns the standard evaluation set for a run.
func DefaultMetrics(cfg *config.Config) []loop.Metric {
	return []loop.Metric{
		metrics.NewOvershoot(),
		metrics.NewSettlingTime(0.02),
		metrics.NewRiseTime(),
		metrics.NewSteadyStateError(),
		metrics.NewControlEffort(),
		metrics.NewSaturationTime(cfg.Output.Min, cfg.Output.Max, cfg.Dt),
	}
}
