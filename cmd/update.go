package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/basket/date"
	"github.com/etnz/basket/eodhd"
	"github.com/etnz/basket/store"
	"github.com/google/subcommands"
)

type updateCmd struct {
	ratings  string
	from, to string
	parallel int
	delay    time.Duration
	names    bool
}

func (*updateCmd) Name() string { return "update" }
func (*updateCmd) Synopsis() string {
	return "downloads the weekly returns of the rated assets and saves the snapshot"
}
func (*updateCmd) Usage() string {
	return `bsk update [-ratings <file.csv>] [-from <date>] [-to <date>]

  Reads the rating table, downloads the weekly adjusted closes of every asset
  from eodhd.com and computes their weekly returns. Assets without prices are
  dropped from the snapshot and reported.

  The snapshot (ratings and returns) is saved in the data dir, it is the input
  of every other command.

  Requires the EODHD_API_KEY environment variable to be set or passed as a flag.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ratings, "ratings", "ratings.csv", "Rating table to collect the returns of.")
	f.StringVar(&c.from, "from", eodhd.DefaultWindow.From.String(), "First day of the historical window.")
	f.StringVar(&c.to, "to", eodhd.DefaultWindow.To.String(), "Last day of the historical window.")
	f.IntVar(&c.parallel, "parallel", 2, "Number of concurrent downloads.")
	f.DurationVar(&c.delay, "delay", 200*time.Millisecond, "Minimum delay between two downloads.")
	f.BoolVar(&c.names, "names", true, "Fill missing names and types from the fundamentals API.")
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	log := newLogger(cfg.LogLevel)

	window, err := date.ParseRange(c.from, c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid window: %v\n", err)
		return subcommands.ExitUsageError
	}
	input := &store.CSV{RatingsPath: c.ratings, Schema: cfg.Schema}
	ratings, err := input.LoadRatings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load ratings: %v\n", err)
		return subcommands.ExitFailure
	}

	client, err := newClient(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	log.Info().Int("assets", ratings.Len()).Str("window", window.String()).Msg("collecting weekly returns")
	collection, err := eodhd.Collect(ctx, client, ratings, eodhd.CollectOptions{
		Window:      window,
		Parallelism: c.parallel,
		Delay:       c.delay,
		Names:       c.names,
		Log:         log,
	})
	for _, d := range collection.Dropped {
		fmt.Fprintf(os.Stderr, "Warning: %s dropped: %v\n", d.Ticker, d.Err)
	}
	if errors.Is(err, eodhd.ErrNothingCollected) {
		fmt.Fprintf(os.Stderr, "Error: no asset could be collected, the snapshot is unchanged.\n")
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	s, closeStore, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()
	if err := s.Save(ctx, store.Snapshot{Ratings: collection.Ratings, Returns: collection.Returns}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not save the snapshot: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Collected %d assets over %d weeks, %d dropped.\n", len(collection.Available), collection.Returns.Len(), len(collection.Dropped))
	return subcommands.ExitSuccess
}
