package plant

import "math/rand"

const (
	DefaultMotorGain         = 30.0
	DefaultMotorTimeConstant = 0.4
)

// DCMotor models a DC motor's speed response to a drive input (duty cycle
// in [-1, 1]) as a first-order lag:
//
//	tau * domega/dt = gain*u - omega
//
// The steady-state speed for a constant drive u is gain*u; tau is the time
// the motor takes to cover ~63% of a speed change.
type DCMotor struct {
	Gain         float64
	TimeConstant float64

	omega float64
	noise float64
	rng   *rand.Rand
}

func NewDCMotor() *DCMotor {
	return &DCMotor{
		Gain:         DefaultMotorGain,
		TimeConstant: DefaultMotorTimeConstant,
	}
}

// SetNoise adds zero-mean Gaussian noise of the given standard deviation to
// every measurement, seeded for reproducible runs. A zero level disables it.
func (m *DCMotor) SetNoise(level float64, seed int64) {
	m.noise = level
	m.rng = rand.New(rand.NewSource(seed))
}

func (m *DCMotor) Measure() float64 {
	if m.noise > 0 && m.rng != nil {
		return m.omega + m.rng.NormFloat64()*m.noise
	}
	return m.omega
}

func (m *DCMotor) Apply(u, dt float64) {
	m.omega = rk4Step(func(w float64) float64 {
		return (m.Gain*u - w) / m.TimeConstant
	}, m.omega, dt)
}

// Speed returns the true (noise-free) motor speed.
func (m *DCMotor) Speed() float64 { return m.omega }

// Reset returns the motor to standstill.
func (m *DCMotor) Reset() { m.omega = 0 }
