package plant

// rk4Step advances a scalar ODE y' = f(y) by one step of size dt using the
// classical fourth-order Runge-Kutta scheme. The control input is held
// constant over the step, captured inside f.
func rk4Step(f func(y float64) float64, y, dt float64) float64 {
	k1 := f(y)
	k2 := f(y + dt*0.5*k1)
	k3 := f(y + dt*0.5*k2)
	k4 := f(y + dt*k3)
	return y + dt/6.0*(k1+2*k2+2*k3+k4)
}
