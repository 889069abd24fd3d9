package basket

import (
	"fmt"
	"math"

	"github.com/etnz/basket/date"
)

// Request describes the basket to build.
//
// Construct checks every candidate against MinRating. A NaN MinRating skips
// the check, for candidates chosen without a threshold. The zero value is a
// threshold of 0: a candidate rated below 0 makes the request invalid.
type Request struct {
	Investment float64  `json:"investment"` // amount invested on the first week, > 0
	MinRating  float64  `json:"min_rating"` // threshold the candidates were filtered with, NaN for none
	Size       int      `json:"size"`       // number of assets in the basket, > 0
	Candidates []string `json:"candidates"` // eligible tickers, see Eligible
}

// Result is a simulated basket.
type Result struct {
	Selected      []string           `json:"selected"` // by descending rating
	Weights       map[string]float64 `json:"weights"`
	Dates         []date.Date        `json:"dates"`
	Values        []float64          `json:"values"` // one per date, Values[0] is the investment
	WeeklyReturns []float64          `json:"weekly_returns"`
	AnnualReturn  Percent            `json:"annual_return"`
	Volatility    Percent            `json:"volatility"`
	Ratio         float64            `json:"ratio"`
	Rating        float64            `json:"rating"` // weight averaged rating of the basket
}

// Validate checks the request fields that do not depend on the tables.
func (r Request) Validate() error {
	if math.IsNaN(r.Investment) || math.IsInf(r.Investment, 0) || r.Investment <= 0 {
		return &InvalidRequestError{Field: "investment", Reason: fmt.Sprintf("must be a positive amount, got %v", r.Investment)}
	}
	if r.Size <= 0 {
		return &InvalidRequestError{Field: "size", Reason: fmt.Sprintf("must be positive, got %d", r.Size)}
	}
	if len(r.Candidates) == 0 {
		return &InvalidRequestError{Field: "candidates", Reason: "is empty"}
	}
	seen := make(map[string]bool, len(r.Candidates))
	for _, c := range r.Candidates {
		if seen[c] {
			return &InvalidRequestError{Field: "candidates", Reason: fmt.Sprintf("lists %q twice", c)}
		}
		seen[c] = true
	}
	return nil
}

// Construct selects, weighs and simulates the basket described by req.
//
// It is a pure function of its inputs: ratings and returns are only read, and
// two calls with the same inputs return the same result. Every expected
// failure is returned as one of the typed errors of this package and no
// partial result is returned.
func Construct(ratings Ratings, returns *ReturnsMatrix, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	if returns == nil || returns.Len() == 0 {
		return Result{}, &InvalidRequestError{Field: "returns", Reason: "has no week"}
	}
	if len(req.Candidates) < req.Size {
		return Result{}, &InsufficientCandidatesError{Want: req.Size, Got: len(req.Candidates)}
	}
	if !math.IsNaN(req.MinRating) {
		for _, c := range req.Candidates {
			row, ok := ratings.Lookup(c)
			if !ok {
				return Result{}, &MissingRatingError{Ticker: c}
			}
			if row.Rating < req.MinRating {
				return Result{}, &InvalidRequestError{Field: "candidates", Reason: fmt.Sprintf("%q is rated %v below %v", c, row.Rating, req.MinRating)}
			}
		}
	}

	selected, err := Select(ratings, req.Candidates, req.Size)
	if err != nil {
		return Result{}, err
	}
	for _, t := range selected {
		if !returns.Has(t) {
			return Result{}, &MissingReturnsError{Ticker: t}
		}
	}
	weights, err := Weigh(ratings, selected)
	if err != nil {
		return Result{}, err
	}

	values := Simulate(returns, weights, req.Investment)
	m := Measure(values)

	var rating float64
	for _, t := range selected {
		row, _ := ratings.Lookup(t)
		rating += weights[t] * row.Rating
	}

	return Result{
		Selected:      selected,
		Weights:       weights,
		Dates:         returns.Dates(),
		Values:        values,
		WeeklyReturns: m.WeeklyReturns,
		AnnualReturn:  m.AnnualReturn,
		Volatility:    m.Volatility,
		Ratio:         m.Ratio,
		Rating:        rating,
	}, nil
}
