package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/etnz/basket"
	"github.com/etnz/basket/renderer"
	"github.com/google/subcommands"
)

type buildCmd struct {
	investment float64
	minRating  float64
	size       int
	currency   string
	chartDir   string
	json       bool
}

func (*buildCmd) Name() string { return "build" }
func (*buildCmd) Synopsis() string {
	return "builds a rating weighted basket and simulates its value"
}
func (*buildCmd) Usage() string {
	return `bsk build [-investment <amount>] [-min <rating>] [-size <n>] [<ticker>...]

  Selects the <n> best rated assets among the candidates, weighs them by
  rating, and simulates the value of the investment over the weeks of the
  snapshot. Prints the annualized return and volatility, their ratio, and the
  breakdown of the basket.

  Candidates are the tickers given as arguments, or the assets rated at least
  -min when there is none.

Usage Examples:
# Basket of the 5 best rated assets rated 7 or more.
$ bsk build -min 7 -size 5

# Write the value and allocation charts as PNG files.
$ bsk build -min 7 -size 5 -chart-dir charts
`
}

func (c *buildCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.investment, "investment", 10000, "Amount invested on the first week.")
	f.Float64Var(&c.minRating, "min", math.NaN(), "Minimum rating of the candidates, inclusive. Defaults to the lowest rating.")
	f.IntVar(&c.size, "size", 5, "Number of assets in the basket.")
	f.StringVar(&c.currency, "currency", "EUR", "Currency of the investment, for display only.")
	f.StringVar(&c.chartDir, "chart-dir", "", "Folder to write value.png and allocation.png to.")
	f.BoolVar(&c.json, "json", false, "Print the result as JSON.")
}

func (c *buildCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, snap, err := loadSnapshot(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	req := basket.Request{Investment: c.investment, MinRating: c.minRating, Size: c.size, Candidates: f.Args()}
	if len(req.Candidates) == 0 {
		req.MinRating = threshold(snap.Ratings, c.minRating)
		req.Candidates, err = basket.Eligible(snap.Ratings, req.MinRating, snap.Returns.Tickers(), req.Size)
		if err != nil {
			printError(err)
			return subcommands.ExitFailure
		}
	}
	r, err := basket.Construct(snap.Ratings, snap.Returns, req)
	if err != nil {
		printError(err)
		return subcommands.ExitFailure
	}
	view := renderer.NewPortfolio(snap.Ratings, req, r, c.currency)

	if c.chartDir != "" {
		if err := writeCharts(c.chartDir, view, r); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if c.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RenderPortfolio(view))
	return subcommands.ExitSuccess
}

// writeCharts writes the PNG charts of a basket into dir.
func writeCharts(dir string, view *renderer.Portfolio, r basket.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	value, err := renderer.ValueChart(view, r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "value.png"), value, 0o644); err != nil {
		return err
	}
	alloc, err := renderer.AllocationChart(view)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "allocation.png"), alloc, 0o644)
}

// printError prints a basket error with a hint of how to fix it.
func printError(err error) {
	var (
		insufficient *basket.InsufficientCandidatesError
		rating       *basket.MissingRatingError
		returns      *basket.MissingReturnsError
	)
	switch {
	case errors.As(err, &insufficient):
		fmt.Fprintf(os.Stderr, "Error: only %d candidates for a basket of %d assets, lower -min or -size.\n", insufficient.Got, insufficient.Want)
	case errors.As(err, &rating):
		fmt.Fprintf(os.Stderr, "Error: %s is not in the rating table.\n", rating.Ticker)
	case errors.As(err, &returns):
		fmt.Fprintf(os.Stderr, "Error: %s has no returns, run 'bsk update' again.\n", returns.Ticker)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
