package basket

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per expected failure of a construction request.
// Every typed error below matches its sentinel with errors.Is.
var (
	ErrInsufficientCandidates = errors.New("insufficient candidates")
	ErrMissingRating          = errors.New("missing rating")
	ErrMissingReturns         = errors.New("missing returns")
	ErrInvalidRequest         = errors.New("invalid request")
	ErrNonPositiveRatings     = errors.New("non positive ratings")
)

// InsufficientCandidatesError reports fewer eligible assets than the basket size.
type InsufficientCandidatesError struct {
	Want, Got int
}

func (e *InsufficientCandidatesError) Error() string {
	return fmt.Sprintf("%v: %d assets requested but only %d eligible", ErrInsufficientCandidates, e.Want, e.Got)
}

func (e *InsufficientCandidatesError) Is(target error) bool { return target == ErrInsufficientCandidates }

// MissingRatingError reports a ticker absent from the rating table.
type MissingRatingError struct {
	Ticker string
}

func (e *MissingRatingError) Error() string {
	return fmt.Sprintf("%v: no rating for %q", ErrMissingRating, e.Ticker)
}

func (e *MissingRatingError) Is(target error) bool { return target == ErrMissingRating }

// MissingReturnsError reports a selected ticker that has no column in the returns matrix.
type MissingReturnsError struct {
	Ticker string
}

func (e *MissingReturnsError) Error() string {
	return fmt.Sprintf("%v: no returns column for %q", ErrMissingReturns, e.Ticker)
}

func (e *MissingReturnsError) Is(target error) bool { return target == ErrMissingReturns }

// InvalidRequestError reports a request field that cannot be used.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrInvalidRequest, e.Field, e.Reason)
}

func (e *InvalidRequestError) Is(target error) bool { return target == ErrInvalidRequest }

// NonPositiveRatingsError reports a selection whose ratings do not sum to a positive number.
type NonPositiveRatingsError struct {
	Sum float64
}

func (e *NonPositiveRatingsError) Error() string {
	return fmt.Sprintf("%v: selected ratings sum to %v, weights are undefined", ErrNonPositiveRatings, e.Sum)
}

func (e *NonPositiveRatingsError) Is(target error) bool { return target == ErrNonPositiveRatings }

// Kind returns a short stable name for the expected failure carried by err,
// or "" for any other error.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientCandidates):
		return "insufficient_candidates"
	case errors.Is(err, ErrMissingRating):
		return "missing_rating"
	case errors.Is(err, ErrMissingReturns):
		return "missing_returns"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrNonPositiveRatings):
		return "non_positive_ratings"
	default:
		return ""
	}
}
