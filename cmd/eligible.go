package cmd

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/etnz/basket"
	"github.com/etnz/basket/renderer"
	"github.com/google/subcommands"
)

type eligibleCmd struct {
	minRating float64
}

func (*eligibleCmd) Name() string     { return "eligible" }
func (*eligibleCmd) Synopsis() string { return "lists the assets rated above a threshold" }
func (*eligibleCmd) Usage() string {
	return `bsk eligible [-min <rating>]

  Lists the assets of the snapshot with returns and rated at least <rating>,
  in the order of the returns table. Without -min, all assets are eligible.
`
}

func (c *eligibleCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.minRating, "min", math.NaN(), "Minimum rating, inclusive. Defaults to the lowest rating.")
}

func (c *eligibleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, snap, err := loadSnapshot(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	minRating := threshold(snap.Ratings, c.minRating)
	universe := snap.Returns.Tickers()
	tickers, err := basket.Eligible(snap.Ratings, minRating, universe, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderEligible(renderer.NewEligible(snap.Ratings, minRating, tickers, len(universe))))
	return subcommands.ExitSuccess
}

// threshold returns minRating, or the lowest rating if it is NaN.
func threshold(ratings basket.Ratings, minRating float64) float64 {
	if !math.IsNaN(minRating) {
		return minRating
	}
	lo, _, _ := ratings.Bounds()
	return lo
}
