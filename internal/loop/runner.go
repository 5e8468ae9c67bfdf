package loop

import (
	"context"
	"fmt"
	"math"

	"github.com/motorlab/motorlab/internal/pid"
)

// Runner drives a controller and a plant at a fixed timestep: measure,
// compute, actuate, once per interval. It is the external scheduler the
// controller core expects.
type Runner struct {
	ctrl      *pid.Controller
	plant     Plant
	setpoint  Setpoint
	metrics   []Metric
	observers []Observer
}

func New(ctrl *pid.Controller, plant Plant, setpoint Setpoint) *Runner {
	return &Runner{
		ctrl:     ctrl,
		plant:    plant,
		setpoint: setpoint,
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Controller exposes the underlying controller, for live tuning.
func (r *Runner) Controller() *pid.Controller { return r.ctrl }

// Run executes the closed loop for cfg.Duration and returns the recorded
// series. The configured dt must match the controller's sample interval;
// the integral and derivative scaling of the core depend on it.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := r.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Times:        make([]float64, 0, steps),
		Setpoints:    make([]float64, 0, steps),
		Measurements: make([]float64, 0, steps),
		Outputs:      make([]float64, 0, steps),
		Metrics:      make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	t := 0.0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		sp := r.setpoint(t)
		y := r.plant.Measure()
		u := r.ctrl.Compute(sp, y)

		for _, m := range r.metrics {
			m.Observe(sp, y, u, t)
		}
		for _, obs := range r.observers {
			obs.OnStep(sp, y, u, t)
		}

		result.Times = append(result.Times, t)
		result.Setpoints = append(result.Setpoints, sp)
		result.Measurements = append(result.Measurements, y)
		result.Outputs = append(result.Outputs, u)

		r.plant.Apply(u, cfg.Dt)
		t += cfg.Dt
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (r *Runner) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if rel := math.Abs(cfg.Dt-r.ctrl.Dt()) / r.ctrl.Dt(); rel > 1e-9 {
		return fmt.Errorf("loop dt %f does not match controller sample interval %f", cfg.Dt, r.ctrl.Dt())
	}
	return nil
}

// RunWithCallback steps the loop until cfg.Duration elapses or the callback
// returns false. Used by the live view, which renders between steps.
func (r *Runner) RunWithCallback(ctx context.Context, cfg Config, callback func(setpoint, measurement, output, t float64) bool) error {
	if err := r.validateConfig(cfg); err != nil {
		return err
	}

	t := 0.0
	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sp := r.setpoint(t)
		y := r.plant.Measure()
		u := r.ctrl.Compute(sp, y)

		if !callback(sp, y, u, t) {
			return nil
		}

		r.plant.Apply(u, cfg.Dt)
		t += cfg.Dt
	}

	return nil
}
