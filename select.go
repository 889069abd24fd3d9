package basket

import (
	"cmp"
	"slices"
)

// Eligible returns the tickers of universe rated at least minRating, in universe order.
//
// A universe ticker without a rating fails with a *MissingRatingError. Fewer
// eligible tickers than size fails with an *InsufficientCandidatesError: a
// basket must not be built on a partial candidate set.
func Eligible(ratings Ratings, minRating float64, universe []string, size int) ([]string, error) {
	var candidates []string
	for _, ticker := range universe {
		row, ok := ratings.Lookup(ticker)
		if !ok {
			return nil, &MissingRatingError{Ticker: ticker}
		}
		if row.Rating >= minRating {
			candidates = append(candidates, ticker)
		}
	}
	if len(candidates) < size {
		return nil, &InsufficientCandidatesError{Want: size, Got: len(candidates)}
	}
	return candidates, nil
}

// Select picks the size best rated candidates.
//
// Candidates are sorted by descending rating, ties keep their input order.
// A candidate without rating fails with a *MissingRatingError.
func Select(ratings Ratings, candidates []string, size int) ([]string, error) {
	if len(candidates) < size {
		return nil, &InsufficientCandidatesError{Want: size, Got: len(candidates)}
	}
	rows := make([]AssetRating, 0, len(candidates))
	for _, ticker := range candidates {
		row, ok := ratings.Lookup(ticker)
		if !ok {
			return nil, &MissingRatingError{Ticker: ticker}
		}
		rows = append(rows, row)
	}
	slices.SortStableFunc(rows, func(a, b AssetRating) int { return cmp.Compare(b.Rating, a.Rating) })

	selected := make([]string, size)
	for i := range selected {
		selected[i] = rows[i].Ticker
	}
	return selected, nil
}
