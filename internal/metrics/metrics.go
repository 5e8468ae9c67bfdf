// Package metrics provides scalar summaries of a closed-loop run: the
// numbers a tuning session cares about (overshoot, settling, control
// effort, actuator saturation). Each metric implements the loop.Metric
// interface and accumulates during the run.
package metrics

import "math"

// Overshoot reports the peak excursion beyond the setpoint as a percentage
// of the setpoint, zero if the measurement never exceeds it.
type Overshoot struct {
	peak     float64
	setpoint float64
	seen     bool
}

func NewOvershoot() *Overshoot { return &Overshoot{} }

func (o *Overshoot) Name() string { return "overshoot_pct" }

func (o *Overshoot) Observe(sp, y, u, t float64) {
	if !o.seen || y > o.peak {
		o.peak = y
	}
	o.setpoint = sp
	o.seen = true
}

func (o *Overshoot) Value() float64 {
	if !o.seen || o.setpoint == 0 || o.peak <= o.setpoint {
		return 0
	}
	return (o.peak - o.setpoint) / o.setpoint * 100
}

func (o *Overshoot) Reset() {
	o.peak = 0
	o.setpoint = 0
	o.seen = false
}

// SettlingTime reports the time of the last sample outside a relative band
// around the setpoint. Zero means the response never left the band;
// +Inf means it was still outside at the final sample.
type SettlingTime struct {
	band        float64
	lastOutside float64
	outsideNow  bool
	seen        bool
}

// NewSettlingTime uses a relative band, e.g. 0.05 for the conventional 5%.
func NewSettlingTime(band float64) *SettlingTime {
	return &SettlingTime{band: band}
}

func (s *SettlingTime) Name() string { return "settling_time" }

func (s *SettlingTime) Observe(sp, y, u, t float64) {
	tol := math.Abs(sp) * s.band
	if math.Abs(sp-y) > tol {
		s.lastOutside = t
		s.outsideNow = true
	} else {
		s.outsideNow = false
	}
	s.seen = true
}

func (s *SettlingTime) Value() float64 {
	if !s.seen {
		return 0
	}
	if s.outsideNow {
		return math.Inf(1)
	}
	return s.lastOutside
}

func (s *SettlingTime) Reset() {
	s.lastOutside = 0
	s.outsideNow = false
	s.seen = false
}

// RiseTime reports the first time the measurement reaches 90% of the
// setpoint, +Inf if it never does.
type RiseTime struct {
	risen float64
	found bool
}

func NewRiseTime() *RiseTime { return &RiseTime{} }

func (r *RiseTime) Name() string { return "rise_time" }

func (r *RiseTime) Observe(sp, y, u, t float64) {
	if r.found || sp == 0 {
		return
	}
	if math.Abs(sp-y) <= 0.1*math.Abs(sp) {
		r.risen = t
		r.found = true
	}
}

func (r *RiseTime) Value() float64 {
	if !r.found {
		return math.Inf(1)
	}
	return r.risen
}

func (r *RiseTime) Reset() {
	r.risen = 0
	r.found = false
}

// SteadyStateError reports the tracking error at the final sample.
type SteadyStateError struct {
	err float64
}

func NewSteadyStateError() *SteadyStateError { return &SteadyStateError{} }

func (s *SteadyStateError) Name() string { return "steady_state_error" }

func (s *SteadyStateError) Observe(sp, y, u, t float64) { s.err = sp - y }

func (s *SteadyStateError) Value() float64 { return s.err }

func (s *SteadyStateError) Reset() { s.err = 0 }

// ControlEffort reports the mean absolute control output.
type ControlEffort struct {
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort { return &ControlEffort{} }

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(sp, y, u, t float64) {
	c.sum += math.Abs(u)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// SaturationTime reports the total time the output spent pinned within 1%
// of either output bound. Long saturation stretches are the situation the
// controller's integrator clamp exists for.
type SaturationTime struct {
	min, max float64
	dt       float64
	samples  int
}

func NewSaturationTime(outMin, outMax, dt float64) *SaturationTime {
	return &SaturationTime{min: outMin, max: outMax, dt: dt}
}

func (s *SaturationTime) Name() string { return "saturation_time" }

func (s *SaturationTime) Observe(sp, y, u, t float64) {
	margin := 0.01 * (s.max - s.min)
	if u >= s.max-margin || u <= s.min+margin {
		s.samples++
	}
}

func (s *SaturationTime) Value() float64 { return float64(s.samples) * s.dt }

func (s *SaturationTime) Reset() { s.samples = 0 }
