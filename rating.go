package basket

import (
	"fmt"
	"math"
	"slices"
)

// AssetRating is one row of the rating table.
type AssetRating struct {
	Ticker   string  `json:"ticker"`
	Name     string  `json:"name,omitempty"`
	Category string  `json:"category,omitempty"`
	Rating   float64 `json:"rating"`
}

// Ratings is an immutable table of asset ratings, one row per ticker, in load order.
type Ratings struct {
	rows  []AssetRating
	index map[string]int
}

// NewRatings validates rows and returns a Ratings table.
//
// Tickers must be non empty and unique, ratings must be finite numbers.
func NewRatings(rows []AssetRating) (Ratings, error) {
	r := Ratings{
		rows:  slices.Clone(rows),
		index: make(map[string]int, len(rows)),
	}
	for i, row := range r.rows {
		if row.Ticker == "" {
			return Ratings{}, fmt.Errorf("rating row %d has no ticker", i)
		}
		if math.IsNaN(row.Rating) || math.IsInf(row.Rating, 0) {
			return Ratings{}, fmt.Errorf("rating of %q is not a finite number: %v", row.Ticker, row.Rating)
		}
		if j, dup := r.index[row.Ticker]; dup {
			return Ratings{}, fmt.Errorf("duplicate ticker %q in rating rows %d and %d", row.Ticker, j, i)
		}
		r.index[row.Ticker] = i
	}
	return r, nil
}

// MustRatings is like NewRatings but panics on error.
func MustRatings(rows ...AssetRating) Ratings {
	r, err := NewRatings(rows)
	if err != nil {
		panic(err.Error())
	}
	return r
}

// Len returns the number of rows.
func (r Ratings) Len() int { return len(r.rows) }

// Lookup returns the row for ticker.
func (r Ratings) Lookup(ticker string) (AssetRating, bool) {
	i, ok := r.index[ticker]
	if !ok {
		return AssetRating{}, false
	}
	return r.rows[i], true
}

// Rows returns a copy of all rows in load order.
func (r Ratings) Rows() []AssetRating { return slices.Clone(r.rows) }

// Tickers returns all tickers in load order.
func (r Ratings) Tickers() []string {
	tickers := make([]string, len(r.rows))
	for i, row := range r.rows {
		tickers[i] = row.Ticker
	}
	return tickers
}

// Bounds returns the lowest and highest rating. It returns false on an empty table.
func (r Ratings) Bounds() (lo, hi float64, ok bool) {
	if len(r.rows) == 0 {
		return 0, 0, false
	}
	lo, hi = r.rows[0].Rating, r.rows[0].Rating
	for _, row := range r.rows[1:] {
		lo = math.Min(lo, row.Rating)
		hi = math.Max(hi, row.Rating)
	}
	return lo, hi, true
}
