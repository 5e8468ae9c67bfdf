// Package tune searches gain combinations against a simulated plant. It is
// the offline half of a tuning workflow: sweep, pick the best score, then
// verify with a full run and the live view.
package tune

import (
	"context"
	"math"

	"github.com/motorlab/motorlab/internal/loop"
)

// GridSearch exhaustively evaluates the cartesian product of the given
// parameter ranges, minimizing a named metric of the resulting runs.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search builds and runs one closed loop per parameter combination and
// returns the combination with the lowest value of metricName. Builds or
// runs that fail are skipped; a cancelled context ends the sweep early with
// the best result so far.
func (g *GridSearch) Search(
	ctx context.Context,
	build func(params map[string]float64) (*loop.Runner, loop.Config, error),
	metricName string,
) (map[string]float64, float64, error) {

	best := math.Inf(1)
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), build, metricName, &best, &bestParams)

	return bestParams, best, ctx.Err()
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build func(map[string]float64) (*loop.Runner, loop.Config, error),
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) {
	if ctx.Err() != nil {
		return
	}

	if depth == len(g.paramNames) {
		runner, cfg, err := build(current)
		if err != nil {
			return
		}

		result, err := runner.Run(ctx, cfg)
		if err != nil {
			return
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return
		}
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, build, metricName, best, bestParams)
	}
}

// Span returns n values evenly spaced over [min, max], inclusive. A single
// point collapses to min.
func Span(min, max float64, n int) []float64 {
	if n <= 1 {
		return []float64{min}
	}
	vals := make([]float64, n)
	step := (max - min) / float64(n-1)
	for i := range vals {
		vals[i] = min + float64(i)*step
	}
	return vals
}
