package renderer

import (
	"math"

	"github.com/etnz/basket"
	"github.com/etnz/basket/date"
)

// Portfolio is the view of a simulated basket.
type Portfolio struct {
	MinRating    float64
	Size         int
	Investment   basket.Money
	Final        basket.Money
	TotalReturn  basket.Percent
	AnnualReturn basket.Percent
	Volatility   basket.Percent
	Ratio        float64
	Rating       float64 // weighted rating of the basket
	From, To     date.Date
	Weeks        int
	Allocations  []basket.Allocation
	Values       []Point // sampled monthly
}

// Point is a value of the basket on a date.
type Point struct {
	On     date.Date
	Value  basket.Money
	Change basket.Percent // since the investment
}

// NewPortfolio returns the view of r, built from req.
func NewPortfolio(ratings basket.Ratings, req basket.Request, r basket.Result, currency string) *Portfolio {
	p := &Portfolio{
		MinRating:    req.MinRating,
		Size:         req.Size,
		Investment:   basket.M(req.Investment, currency),
		Final:        basket.M(r.Final(), currency),
		TotalReturn:  r.TotalReturn(),
		AnnualReturn: r.AnnualReturn,
		Volatility:   r.Volatility,
		Ratio:        r.Ratio,
		Rating:       r.Rating,
		Weeks:        len(r.Dates),
		Allocations:  basket.Breakdown(ratings, r, currency),
	}
	if len(r.Dates) > 0 {
		p.From, p.To = r.Dates[0], r.Dates[len(r.Dates)-1]
	}
	for _, i := range monthly(r.Dates) {
		var change basket.Percent
		if r.Values[0] != 0 {
			change = basket.Percent(100 * (r.Values[i]/r.Values[0] - 1))
		}
		p.Values = append(p.Values, Point{On: r.Dates[i], Value: basket.M(r.Values[i], currency), Change: change})
	}
	return p
}

// HasMinRating reports whether the threshold is set.
func (p *Portfolio) HasMinRating() bool { return !math.IsNaN(p.MinRating) }

// monthly returns the index of the first date of every month, and the last date.
func monthly(dates []date.Date) []int {
	var idx []int
	for i, d := range dates {
		if i == 0 || d.Month() != dates[i-1].Month() || d.Year() != dates[i-1].Year() {
			idx = append(idx, i)
		}
	}
	if last := len(dates) - 1; last > 0 && idx[len(idx)-1] != last {
		idx = append(idx, last)
	}
	return idx
}

// Stats is the view of the returns statistics.
type Stats struct {
	Assets    int
	LowRating float64
	HiRating  float64
	From, To  date.Date
	Weeks     int
	Summaries []basket.Summary
}

// NewStats returns the view of the returns statistics of a snapshot.
func NewStats(ratings basket.Ratings, returns *basket.ReturnsMatrix) *Stats {
	s := &Stats{Assets: ratings.Len()}
	s.LowRating, s.HiRating, _ = ratings.Bounds()
	if returns != nil {
		dates := returns.Dates()
		s.Weeks = len(dates)
		if len(dates) > 0 {
			s.From, s.To = dates[0], dates[len(dates)-1]
		}
		s.Summaries = basket.Describe(returns)
	}
	return s
}

// Eligible is the view of the assets eligible for a threshold.
type Eligible struct {
	MinRating float64
	Assets    []basket.AssetRating
	Universe  int
}

// NewEligible returns the view of the eligible tickers.
func NewEligible(ratings basket.Ratings, minRating float64, eligible []string, universe int) *Eligible {
	e := &Eligible{MinRating: minRating, Universe: universe}
	for _, t := range eligible {
		row, ok := ratings.Lookup(t)
		if !ok {
			row = basket.AssetRating{Ticker: t}
		}
		e.Assets = append(e.Assets, row)
	}
	return e
}
