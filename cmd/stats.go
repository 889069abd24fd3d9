package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/basket"
	"github.com/etnz/basket/renderer"
	"github.com/google/subcommands"
)

type statsCmd struct {
	json bool
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "describes the weekly returns of the snapshot" }
func (*statsCmd) Usage() string {
	return `bsk stats [-json]

  Prints, for every asset of the snapshot, the count, mean, standard
  deviation, min, quartiles and max of its weekly returns.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print the statistics as JSON.")
}

func (c *statsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, snap, err := loadSnapshot(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(basket.Describe(snap.Returns)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RenderStats(renderer.NewStats(snap.Ratings, snap.Returns)))
	return subcommands.ExitSuccess
}
