package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type searchCmd struct{}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "searches for assets on EODHD" }
func (*searchCmd) Usage() string {
	return `bsk search <search term>

  Searches for assets via EOD Historical Data API and prints their tickers,
  ready to be added to the rating table.

  Requires the EODHD_API_KEY environment variable to be set or passed as a flag.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: a search term is required.")
		return subcommands.ExitUsageError
	}
	term := strings.Join(f.Args(), " ")

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	client, err := newClient(cfg, newLogger(cfg.LogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	results, err := client.Search(ctx, term)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error searching assets: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(results) == 0 {
		fmt.Printf("No results found for '%s'.\n", term)
		return subcommands.ExitSuccess
	}

	fmt.Printf("Found %d results for '%s':\n\n", len(results), term)
	for _, item := range results {
		fmt.Printf("➡️   Name   : %s\n", item.Name)
		fmt.Printf("    Ticker : %s\n", item.Ticker())
		fmt.Printf("    Type   : %s, Country: %s, Currency: %s, ISIN: %s\n\n", item.Type, item.Country, item.Currency, item.ISIN)
	}
	return subcommands.ExitSuccess
}
