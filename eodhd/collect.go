package eodhd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/basket"
	"github.com/etnz/basket/date"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultWindow is the historical window of the simulation.
var DefaultWindow = date.Range{From: date.New(2022, time.January, 1), To: date.New(2024, time.December, 31)}

// Fetcher is the part of the Client used by Collect.
type Fetcher interface {
	FetchWeekly(ctx context.Context, ticker string, r date.Range) (*date.History[float64], error)
	FetchGeneral(ctx context.Context, ticker string) (General, error)
}

// CollectOptions tunes Collect.
type CollectOptions struct {
	Window      date.Range    // DefaultWindow when zero
	Parallelism int           // concurrent downloads, 1 when <= 0
	Delay       time.Duration // minimum time between two request starts
	Names       bool          // fill missing names and categories from the fundamentals
	Log         zerolog.Logger
}

// Failure is a ticker that could not be collected.
type Failure struct {
	Ticker string
	Err    error
}

// Collection is the outcome of an update cycle.
type Collection struct {
	Ratings   basket.Ratings        // input ratings, without the dropped tickers
	Returns   *basket.ReturnsMatrix // one column per available ticker
	Available []string              // tickers with returns, in ratings order
	Dropped   []Failure             // tickers without returns, in ratings order
}

// ErrNothingCollected is returned when no ticker could be collected.
var ErrNothingCollected = errors.New("no returns collected")

// Collect downloads the weekly prices of every rated asset and computes their weekly returns.
//
// The first week of every series is a zero return. Series are outer joined
// on dates. A ticker whose download fails is dropped and reported in the
// Collection, it never fails the whole cycle, unless all of them fail.
func Collect(ctx context.Context, f Fetcher, ratings basket.Ratings, opts CollectOptions) (Collection, error) {
	window := opts.Window
	if window.From.IsZero() && window.To.IsZero() {
		window = DefaultWindow
	}
	log := opts.Log.With().Str("component", "collect").Logger()
	rows := ratings.Rows()

	// results are stored by row index, to keep the ratings order.
	type outcome struct {
		returns *date.History[float64]
		general General
		err     error
	}
	results := make([]outcome, len(rows))

	var throttle <-chan time.Time
	if opts.Delay > 0 {
		ticker := time.NewTicker(opts.Delay)
		defer ticker.Stop()
		throttle = ticker.C
	}
	wait := func(ctx context.Context) error {
		if throttle == nil {
			return ctx.Err()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-throttle:
			return nil
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.Parallelism))
	for i, row := range rows {
		if err := wait(gctx); err != nil {
			break
		}
		g.Go(func() error {
			prices, err := f.FetchWeekly(gctx, row.Ticker, window)
			if err == nil && prices.Len() == 0 {
				err = fmt.Errorf("no prices for %s in %v", row.Ticker, window)
			}
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Warn().Err(err).Str("ticker", row.Ticker).Msg("dropped")
				results[i].err = err
				return nil
			}
			results[i].returns = prices.Changes()
			log.Debug().Str("ticker", row.Ticker).Int("weeks", prices.Len()).Msg("collected")

			if opts.Names && (row.Name == "" || row.Category == "") {
				general, err := f.FetchGeneral(gctx, row.Ticker)
				if err != nil {
					log.Warn().Err(err).Str("ticker", row.Ticker).Msg("no fundamentals")
				}
				results[i].general = general
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Collection{}, err
	}
	if err := ctx.Err(); err != nil {
		return Collection{}, err
	}

	var c Collection
	series := make(map[string]*date.History[float64])
	kept := make([]basket.AssetRating, 0, len(rows))
	for i, row := range rows {
		res := results[i]
		if res.returns == nil {
			err := res.err
			if err == nil {
				err = errors.New("not collected")
			}
			c.Dropped = append(c.Dropped, Failure{Ticker: row.Ticker, Err: err})
			continue
		}
		if row.Name == "" {
			row.Name = res.general.Name
		}
		if row.Category == "" {
			row.Category = res.general.Category
		}
		kept = append(kept, row)
		c.Available = append(c.Available, row.Ticker)
		series[row.Ticker] = res.returns
	}
	if len(c.Available) == 0 {
		return c, ErrNothingCollected
	}

	var err error
	if c.Ratings, err = basket.NewRatings(kept); err != nil {
		return c, err
	}
	if c.Returns, err = basket.JoinReturns(c.Available, series); err != nil {
		return c, err
	}
	log.Info().Int("available", len(c.Available)).Int("dropped", len(c.Dropped)).Int("weeks", c.Returns.Len()).Msg("update done")
	return c, nil
}
