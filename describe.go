package basket

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics of the observed returns of one asset.
type Summary struct {
	Ticker string  `json:"ticker"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"` // sample standard deviation, 0 with fewer than 2 observations
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// Describe summarizes every column of the matrix, in universe order.
//
// Missing observations are not counted. Quantiles linearly interpolate the
// empirical distribution (stat.LinInterp).
func Describe(m *ReturnsMatrix) []Summary {
	res := make([]Summary, 0, len(m.tickers))
	for _, t := range m.tickers {
		x := m.Column(t)
		s := Summary{Ticker: t, Count: len(x)}
		if len(x) > 0 {
			slices.Sort(x)
			s.Mean = stat.Mean(x, nil)
			s.Min, s.Max = x[0], x[len(x)-1]
			s.Q25 = stat.Quantile(0.25, stat.LinInterp, x, nil)
			s.Median = stat.Quantile(0.5, stat.LinInterp, x, nil)
			s.Q75 = stat.Quantile(0.75, stat.LinInterp, x, nil)
		}
		if len(x) > 1 {
			s.Std = stat.StdDev(x, nil)
		}
		res = append(res, s)
	}
	return res
}
