package plant

import "math/rand"

const (
	DefaultHeaterGain = 8.0
	DefaultHeaterLoss = 0.05
	DefaultAmbient    = 20.0
)

// Heater models a heated vessel: power input raises the temperature while
// heat dissipates toward ambient.
//
//	dT/dt = gain*u - loss*(T - ambient)
//
// The drive input u is expected in [0, 1]. Unlike the motor, the heater can
// only push in one direction, which makes it the asymmetric-output case the
// advanced controller constructor exists for.
type Heater struct {
	Gain    float64
	Loss    float64
	Ambient float64

	temp  float64
	noise float64
	rng   *rand.Rand
}

func NewHeater() *Heater {
	return &Heater{
		Gain:    DefaultHeaterGain,
		Loss:    DefaultHeaterLoss,
		Ambient: DefaultAmbient,
		temp:    DefaultAmbient,
	}
}

// SetNoise adds zero-mean Gaussian measurement noise, seeded for
// reproducible runs.
func (h *Heater) SetNoise(level float64, seed int64) {
	h.noise = level
	h.rng = rand.New(rand.NewSource(seed))
}

func (h *Heater) Measure() float64 {
	if h.noise > 0 && h.rng != nil {
		return h.temp + h.rng.NormFloat64()*h.noise
	}
	return h.temp
}

func (h *Heater) Apply(u, dt float64) {
	if u < 0 {
		u = 0
	}
	h.temp = rk4Step(func(temp float64) float64 {
		return h.Gain*u - h.Loss*(temp-h.Ambient)
	}, h.temp, dt)
}

// Temperature returns the true (noise-free) vessel temperature.
func (h *Heater) Temperature() float64 { return h.temp }

// Reset cools the vessel back to ambient.
func (h *Heater) Reset() { h.temp = h.Ambient }
