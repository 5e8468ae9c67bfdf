package pid

import "fmt"

// Controller holds the configuration and state of a single PID loop.
// Create one with New or NewAdvanced; the zero value is not usable.
type Controller struct {
	kp float64
	ki float64
	kd float64
	dt float64

	outMin float64
	outMax float64

	integMin float64
	integMax float64

	// filter is the exponential smoothing coefficient for the derivative
	// term, in [0, 1]. Zero disables filtering.
	filter float64

	integrator float64
	// prevError is carried across calls for parity with earlier firmware
	// revisions; Compute differentiates the measurement, not the error.
	prevError       float64
	prevMeasurement float64
	filteredDeriv   float64
}

// New returns a controller with automatically derived integrator bounds.
// The integrator is clamped to [outMin/ki, outMax/ki] so that the integral
// term alone can never exceed the output range; when ki is zero the bounds
// fall back to the output bounds (their value is then irrelevant, but must
// not come from a division by zero).
func New(kp, ki, kd, dt, outMin, outMax float64) (*Controller, error) {
	integMin, integMax := outMin, outMax
	if ki != 0 {
		integMin = outMin / ki
		integMax = outMax / ki
	}
	return NewAdvanced(kp, ki, kd, dt, outMin, outMax, integMin, integMax, 0)
}

// NewAdvanced returns a controller with explicit integrator bounds and a
// derivative filter coefficient. Use it when the automatic bounds of New
// are unsuitable (asymmetric output ranges) or when the measurement is
// noisy enough to need derivative smoothing. The filter coefficient is
// clamped into [0, 1] rather than rejected.
func NewAdvanced(kp, ki, kd, dt, outMin, outMax, integMin, integMax, filter float64) (*Controller, error) {
	if kp < 0 || ki < 0 || kd < 0 {
		return nil, fmt.Errorf("gains must be non-negative, got kp=%g ki=%g kd=%g", kp, ki, kd)
	}
	if dt <= 0 {
		return nil, fmt.Errorf("sample interval must be positive, got %g", dt)
	}
	if outMin >= outMax {
		return nil, fmt.Errorf("output bounds inverted: [%g, %g]", outMin, outMax)
	}
	if integMin >= integMax {
		return nil, fmt.Errorf("integrator bounds inverted: [%g, %g]", integMin, integMax)
	}
	return &Controller{
		kp:       kp,
		ki:       ki,
		kd:       kd,
		dt:       dt,
		outMin:   outMin,
		outMax:   outMax,
		integMin: integMin,
		integMax: integMax,
		filter:   clamp(filter, 0, 1),
	}, nil
}

// Compute performs one control step and returns the output, clamped into
// the configured output bounds. It mutates the controller state and must be
// called once per sample interval.
func (c *Controller) Compute(setpoint, measurement float64) float64 {
	err := setpoint - measurement

	p := c.kp * err

	c.integrator = clamp(c.integrator+err*c.dt, c.integMin, c.integMax)
	i := c.ki * c.integrator

	// Differentiate the measurement with a negated sign so the term always
	// opposes measurement motion, regardless of setpoint changes.
	deriv := -(measurement - c.prevMeasurement) / c.dt
	if c.filter > 0 {
		c.filteredDeriv = c.filteredDeriv*c.filter + deriv*(1-c.filter)
		deriv = c.filteredDeriv
	}
	d := c.kd * deriv

	out := clamp(p+i+d, c.outMin, c.outMax)

	c.prevError = err
	c.prevMeasurement = measurement

	return out
}

// Reset zeroes all transient state while leaving the configuration intact.
// Call it after an idle period, a large setpoint jump, or a mode switch,
// where stale integral and derivative history would cause a bad transient.
func (c *Controller) Reset() {
	c.integrator = 0
	c.prevError = 0
	c.prevMeasurement = 0
	c.filteredDeriv = 0
}

// Gains returns the current proportional, integral and derivative gains.
func (c *Controller) Gains() (kp, ki, kd float64) {
	return c.kp, c.ki, c.kd
}

// SetGains replaces the gains, for live tuning. Integrator bounds are left
// unchanged. The caller is responsible for synchronization if Compute runs
// on another goroutine.
func (c *Controller) SetGains(kp, ki, kd float64) error {
	if kp < 0 || ki < 0 || kd < 0 {
		return fmt.Errorf("gains must be non-negative, got kp=%g ki=%g kd=%g", kp, ki, kd)
	}
	c.kp, c.ki, c.kd = kp, ki, kd
	return nil
}

// Dt returns the configured sample interval.
func (c *Controller) Dt() float64 { return c.dt }

// OutputBounds returns the configured output range.
func (c *Controller) OutputBounds() (min, max float64) { return c.outMin, c.outMax }

// IntegratorBounds returns the anti-windup clamp range.
func (c *Controller) IntegratorBounds() (min, max float64) { return c.integMin, c.integMax }

// Integrator returns the accumulated integral value, for inspection.
func (c *Controller) Integrator() float64 { return c.integrator }

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
