// Package basket builds a basket of assets filtered by a non financial rating,
// simulates its weekly value over a historical window and reports its
// annualized return, volatility and return to volatility ratio.
//
// The engine is a set of pure functions over two read-only snapshots:
//   - Ratings: one AssetRating (ticker, rating, name, category) per asset.
//   - ReturnsMatrix: the fractional weekly return of every asset, one row per week.
//
// A basket is built in steps that can also be called on their own:
//
//	candidates, err := basket.Eligible(ratings, minRating, returns.Tickers(), size)
//	result, err := basket.Construct(ratings, returns, basket.Request{
//		Investment: 10000,
//		MinRating:  minRating,
//		Size:       size,
//		Candidates: candidates,
//	})
//
// Construct selects the best rated candidates (Select), weighs them in
// proportion to their rating (Weigh), compounds the weekly returns with those
// fixed weights (Simulate) and reduces the trajectory to annual figures
// (Measure). Weights are never rebalanced.
//
// Expected failures are typed errors matching a sentinel with errors.Is, see
// ErrInsufficientCandidates, ErrMissingRating, ErrMissingReturns,
// ErrInvalidRequest and ErrNonPositiveRatings.
//
// Loading and caching the two tables is done by the store and eodhd packages.
package basket
