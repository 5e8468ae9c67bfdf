// Package pid implements a fixed-timestep PID controller for single-loop
// feedback control.
//
// The controller is a pure, stateful numeric function: each call to
// [Controller.Compute] takes a setpoint and a measurement and returns a
// bounded control output, updating the accumulated integral and the
// derivative history along the way.
//
// Two details distinguish it from a textbook PID:
//
//   - The integral accumulator is clamped to its own bounds, independently
//     of the output clamp. This is the anti-windup mechanism: during
//     actuator saturation the integral cannot run away, so recovery after
//     the error changes sign is fast.
//   - The derivative is computed on the measurement, not the error, with a
//     negated sign. A step change in setpoint therefore produces no
//     derivative transient ("derivative kick").
//
// # Usage
//
//	c, err := pid.New(2.0, 0.5, 0.1, 0.01, -1.0, 1.0)
//	if err != nil { ... }
//	// once per 10ms:
//	u := c.Compute(target, sensor.Read())
//
// Compute must be invoked at a cadence matching the configured sample
// interval. A single Controller is not safe for concurrent use; independent
// instances share no state and may run on separate goroutines.
package pid
