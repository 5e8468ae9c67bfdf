package lab

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlab/motorlab/internal/config"
)

func TestRegistry_GetPlant(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"dcmotor", "heater"} {
		p, err := r.GetPlant(name)
		require.NoError(t, err)
		require.NotNil(t, p)
	}

	_, err := r.GetPlant("fusionreactor")
	assert.Error(t, err)
}

func TestRegistry_ListPlants(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"dcmotor", "heater"}, r.ListPlants())
}

func TestBuildController_Basic(t *testing.T) {
	cfg := config.DefaultConfig()

	ctrl, err := BuildController(cfg)
	require.NoError(t, err)

	// Bounds derive from the output range scaled by ki
	min, max := ctrl.IntegratorBounds()
	assert.InDelta(t, cfg.Output.Min/cfg.Gains.Ki, min, 1e-12)
	assert.InDelta(t, cfg.Output.Max/cfg.Gains.Ki, max, 1e-12)
}

func TestBuildController_ExplicitIntegratorBounds(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Integrator = &config.RangeConfig{Min: -0.5, Max: 0.5}

	ctrl, err := BuildController(cfg)
	require.NoError(t, err)

	min, max := ctrl.IntegratorBounds()
	assert.Equal(t, -0.5, min)
	assert.Equal(t, 0.5, max)
}

func TestBuildController_FilterSelectsAdvanced(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Filter = 0.7

	ctrl, err := BuildController(cfg)
	require.NoError(t, err)

	// Derived bounds survive the advanced path
	min, max := ctrl.IntegratorBounds()
	assert.InDelta(t, cfg.Output.Min/cfg.Gains.Ki, min, 1e-12)
	assert.InDelta(t, cfg.Output.Max/cfg.Gains.Ki, max, 1e-12)
}

func TestBuildController_InvalidGains(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Gains.Kp = -1

	_, err := BuildController(cfg)
	assert.Error(t, err)
}

// Closed-loop integration test: the default motor configuration must
// drive the speed to the setpoint and hold it there.
func TestBuild_MotorReachesSetpoint(t *testing.T) {
	cfg := config.DefaultConfig()

	runner, err := NewRegistry().Build(cfg)
	require.NoError(t, err)

	result, err := runner.Run(context.Background(), LoopConfig(cfg))
	require.NoError(t, err)

	final := result.Measurements[len(result.Measurements)-1]
	assert.InDeltaf(t, cfg.Setpoint.Value, final, 0.5,
		"expected final speed near setpoint %.2f, got %.2f", cfg.Setpoint.Value, final)

	assert.InDelta(t, 0, result.Metrics["steady_state_error"], 0.5)
}

func TestBuild_HeaterPreset(t *testing.T) {
	cfg := config.GetPreset("heater", "gentle")
	require.NotNil(t, cfg)

	runner, err := NewRegistry().Build(cfg)
	require.NoError(t, err)

	result, err := runner.Run(context.Background(), LoopConfig(cfg))
	require.NoError(t, err)

	final := result.Measurements[len(result.Measurements)-1]
	assert.Greater(t, final, 20.0, "heater should have warmed above ambient")
}

func TestBuild_SetpointStepSchedule(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Setpoint.StepAt = 5.0
	cfg.Setpoint.StepTo = 25.0

	runner, err := NewRegistry().Build(cfg)
	require.NoError(t, err)

	result, err := runner.Run(context.Background(), LoopConfig(cfg))
	require.NoError(t, err)

	// Before the step the loop tracks the initial value, after it the new one
	midIdx := len(result.Setpoints) / 4
	assert.Equal(t, 15.0, result.Setpoints[midIdx])
	assert.Equal(t, 25.0, result.Setpoints[len(result.Setpoints)-1])

	final := result.Measurements[len(result.Measurements)-1]
	assert.InDelta(t, 25.0, final, 1.0)
}

func TestBuild_NoisySeedIsReproducible(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Noise = 0.2
	cfg.Seed = 42

	run := func() []float64 {
		runner, err := NewRegistry().Build(cfg)
		require.NoError(t, err)
		result, err := runner.Run(context.Background(), LoopConfig(cfg))
		require.NoError(t, err)
		return result.Measurements
	}

	assert.Equal(t, run(), run())
}

func TestDefaultMetrics_Names(t *testing.T) {
	cfg := config.DefaultConfig()

	names := make([]string, 0)
	for _, m := range DefaultMetrics(cfg) {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{
		"overshoot_pct", "settling_time", "rise_time",
		"steady_state_error", "control_effort", "saturation_time",
	}, names)
}
