package loop

// Plant is the controlled process: a measurement source and an actuation
// sink. Implementations own their state explicitly; nothing in this package
// assumes a single global plant, so independent simulations can run side by
// side.
type Plant interface {
	// Measure returns the current process variable, in the same units as
	// the setpoint.
	Measure() float64
	// Apply drives the plant with control input u for one interval dt.
	Apply(u, dt float64)
}

// Setpoint yields the target value at simulation time t.
type Setpoint func(t float64) float64

// Constant returns a setpoint fixed at v.
func Constant(v float64) Setpoint {
	return func(float64) float64 { return v }
}

// Step returns a setpoint that switches from before to after at time at.
func Step(at, before, after float64) Setpoint {
	return func(t float64) float64 {
		if t < at {
			return before
		}
		return after
	}
}

// Metric accumulates a scalar summary of a run.
type Metric interface {
	Name() string
	Observe(setpoint, measurement, output, t float64)
	Value() float64
	Reset()
}

// Observer is called once per control step, after the controller has
// computed its output and before the plant advances.
type Observer interface {
	OnStep(setpoint, measurement, output, t float64)
}

// Config holds the timing of a closed-loop run.
type Config struct {
	Dt       float64
	Duration float64
}

// Result holds the recorded series of a run, one entry per control step.
type Result struct {
	Times        []float64
	Setpoints    []float64
	Measurements []float64
	Outputs      []float64
	Metrics      map[string]float64
}
