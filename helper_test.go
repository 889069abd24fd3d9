package basket

import (
	"math"
	"testing"

	"github.com/etnz/basket/date"
)

// scenarioRatings is the five assets rating table used across tests.
func scenarioRatings() Ratings {
	return MustRatings(
		AssetRating{Ticker: "A", Name: "Alpha", Category: "Action", Rating: 9},
		AssetRating{Ticker: "B", Name: "Beta", Category: "ETF", Rating: 8},
		AssetRating{Ticker: "C", Name: "Gamma", Category: "Action", Rating: 7},
		AssetRating{Ticker: "D", Name: "Delta", Category: "Obligation", Rating: 6},
		AssetRating{Ticker: "E", Name: "Epsilon", Category: "ETF", Rating: 5},
	)
}

// weeks returns n consecutive Mondays starting 2023-01-02.
func weeks(n int) []date.Date {
	res := make([]date.Date, n)
	for i := range res {
		res[i] = date.New(2023, 1, 2+7*i)
	}
	return res
}

// column is a ticker and its returns, NaN for a missing observation.
type column struct {
	ticker string
	values []float64
}

// newMatrix builds a weekly matrix from columns of the same length.
func newMatrix(t *testing.T, cols ...column) *ReturnsMatrix {
	t.Helper()
	n := 0
	if len(cols) > 0 {
		n = len(cols[0].values)
	}
	m, err := NewReturnsMatrix(weeks(n))
	if err != nil {
		t.Fatalf("NewReturnsMatrix() error = %v", err)
	}
	for _, c := range cols {
		if err := m.AddColumn(c.ticker, c.values); err != nil {
			t.Fatalf("AddColumn(%q) error = %v", c.ticker, err)
		}
	}
	return m
}

// scenarioMatrix is a matrix with a baseline week and three weeks of returns for A and B,
// and flat returns for the other assets.
func scenarioMatrix(t *testing.T) *ReturnsMatrix {
	t.Helper()
	return newMatrix(t,
		column{"A", []float64{0, 0.1, -0.05, 0.02}},
		column{"B", []float64{0, 0.0, 0.1, 0.0}},
		column{"C", []float64{0, 0.01, 0.01, math.NaN()}},
		column{"D", []float64{0, -0.02, 0.03, 0.01}},
		column{"E", []float64{0, 0.05, 0.05, 0.05}},
	)
}

func almostEqual(a, b, tolerance float64) bool { return math.Abs(a-b) <= tolerance }
