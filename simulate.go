package basket

import (
	"cmp"
	"slices"
)

// Simulate compounds the weekly returns of a fixed weight basket into a value trajectory.
//
// value[0] is investment, and for every later week
//
//	value[t] = value[t-1] * (1 + sum(weight[k] * return[k][t]))
//
// The first row of the matrix is the baseline week, its return is not applied.
// Weights are never rebalanced (buy and hold), missing observations are zero
// returns. The trajectory has one value per row of returns; returns is only read.
func Simulate(returns *ReturnsMatrix, weights map[string]float64, investment float64) []float64 {
	n := returns.Len()
	if n == 0 {
		return nil
	}
	// iterate tickers in a fixed order: the result is bit identical across calls.
	tickers := make([]string, 0, len(weights))
	for t := range weights {
		tickers = append(tickers, t)
	}
	slices.SortFunc(tickers, cmp.Compare[string])

	values := make([]float64, n)
	values[0] = investment
	for t := 1; t < n; t++ {
		var weekly float64
		for _, ticker := range tickers {
			weekly += weights[ticker] * returns.Return(ticker, t)
		}
		values[t] = values[t-1] * (1 + weekly)
	}
	return values
}
