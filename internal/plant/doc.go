// Package plant provides simulated process models for closed-loop testing.
//
// Each plant implements the [loop.Plant] interface and owns its state as an
// explicit struct, so multiple simulated plants can coexist and tests run
// in isolation without shared fixtures:
//
//   - [DCMotor]: first-order DC motor speed model
//   - [Heater]: first-order thermal plant with ambient dissipation
//
// Plants advance with a classical RK4 step; for these first-order linear
// models that keeps the discrete response accurate even at coarse
// timesteps.
package plant
