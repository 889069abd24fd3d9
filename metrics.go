package basket

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// WeeksPerYear is the annualization factor of weekly statistics.
//
// It assumes the weekly cadence of the returns matrix. It is not a parameter:
// a matrix with another cadence gives wrong annual figures.
const WeeksPerYear = 52

// Metrics summarizes a value trajectory.
type Metrics struct {
	WeeklyReturns []float64 // fractional change between consecutive values
	AnnualReturn  Percent   // ((1 + mean weekly)^52 - 1) * 100
	Volatility    Percent   // sample stdev of weekly returns * sqrt(52) * 100
	Ratio         float64   // AnnualReturn / Volatility, 0 when Volatility is 0
}

// WeeklyReturns returns the percent change of values, the first point dropped.
// A basket worth 0 stays there: the change from a 0 value is 0.
func WeeklyReturns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	res := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] != 0 {
			res[i-1] = values[i]/values[i-1] - 1
		}
	}
	return res
}

// Measure computes annualized return, volatility and ratio of a weekly value trajectory.
//
// With no weekly return the annual return is 0, with fewer than two the
// volatility is 0 (the sample standard deviation is undefined). A zero
// volatility gives a zero ratio, that does not mean the basket has no risk.
func Measure(values []float64) Metrics {
	m := Metrics{WeeklyReturns: WeeklyReturns(values)}
	if len(m.WeeklyReturns) > 0 {
		mean := stat.Mean(m.WeeklyReturns, nil)
		m.AnnualReturn = Percent((math.Pow(1+mean, WeeksPerYear) - 1) * 100)
	}
	if len(m.WeeklyReturns) > 1 {
		// stat.StdDev is the unbiased (N-1) estimator.
		m.Volatility = Percent(stat.StdDev(m.WeeklyReturns, nil) * math.Sqrt(WeeksPerYear) * 100)
	}
	if m.Volatility != 0 {
		m.Ratio = float64(m.AnnualReturn) / float64(m.Volatility)
	}
	return m
}
