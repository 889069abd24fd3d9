package basket

import "gonum.org/v1/gonum/floats"

// Weigh returns rating proportional weights for the selected tickers.
//
// weight(t) = rating(t) / sum of selected ratings. The weights sum to 1.
// A sum of ratings that is zero or negative fails with a *NonPositiveRatingsError.
func Weigh(ratings Ratings, selected []string) (map[string]float64, error) {
	values := make([]float64, len(selected))
	for i, ticker := range selected {
		row, ok := ratings.Lookup(ticker)
		if !ok {
			return nil, &MissingRatingError{Ticker: ticker}
		}
		values[i] = row.Rating
	}
	sum := floats.Sum(values)
	if !(sum > 0) {
		return nil, &NonPositiveRatingsError{Sum: sum}
	}
	weights := make(map[string]float64, len(selected))
	for i, ticker := range selected {
		weights[ticker] = values[i] / sum
	}
	return weights, nil
}
