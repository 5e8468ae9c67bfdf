package metrics

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/motorlab/motorlab/internal/loop"
)

// OutputStats returns the mean and standard deviation of the control
// output series.
func OutputStats(res *loop.Result) (mean, stddev float64, err error) {
	mean, err = stats.Mean(res.Outputs)
	if err != nil {
		return 0, 0, err
	}
	stddev, err = stats.StandardDeviation(res.Outputs)
	if err != nil {
		return 0, 0, err
	}
	return mean, stddev, nil
}

// Summarize returns the series statistics of a run, keyed like the
// step-response metrics so callers can report both in one block.
func Summarize(res *loop.Result) map[string]float64 {
	out := map[string]float64{"tracking_rmse": TrackingRMSE(res)}
	if mean, stddev, err := OutputStats(res); err == nil {
		out["output_mean"] = mean
		out["output_stddev"] = stddev
	}
	return out
}

// TrackingRMSE returns the root-mean-square tracking error of a run.
func TrackingRMSE(res *loop.Result) float64 {
	if len(res.Measurements) == 0 {
		return 0
	}
	sum := 0.0
	for i := range res.Measurements {
		e := res.Setpoints[i] - res.Measurements[i]
		sum += e * e
	}
	return math.Sqrt(sum / float64(len(res.Measurements)))
}
