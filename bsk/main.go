package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/basket/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes bsk for shell completion, run 'COMP_INSTALL=1 bsk' to install it.
var completion = &complete.Command{
	Flags: map[string]complete.Predictor{
		"data-dir":      predict.Dirs("*"),
		"store":         predict.Set{"csv", "sqlite"},
		"schema":        predict.Set{"default", "english"},
		"log-level":     predict.Set{"debug", "info", "warn", "error"},
		"eodhd-api-key": predict.Something,
	},
	Sub: map[string]*complete.Command{
		"update": {Flags: map[string]complete.Predictor{
			"ratings":  predict.Files("*.csv"),
			"from":     predict.Something,
			"to":       predict.Something,
			"parallel": predict.Something,
			"delay":    predict.Something,
			"names":    predict.Nothing,
		}},
		"search": {Args: predict.Something},
		"stats":  {Flags: map[string]complete.Predictor{"json": predict.Nothing}},
		"eligible": {Flags: map[string]complete.Predictor{
			"min": predict.Something,
		}},
		"build": {Flags: map[string]complete.Predictor{
			"investment": predict.Something,
			"min":        predict.Something,
			"size":       predict.Something,
			"currency":   predict.Set{"EUR", "USD", "GBP", "CHF"},
			"chart-dir":  predict.Dirs("*"),
			"json":       predict.Nothing,
		}},
		"serve": {Flags: map[string]complete.Predictor{
			"addr":     predict.Something,
			"currency": predict.Set{"EUR", "USD", "GBP", "CHF"},
		}},
		"topic": {
			Flags: map[string]complete.Predictor{"list": predict.Nothing},
			Args:  predict.Set{"ratings", "update", "build", "api", "*"},
		},
		"help":     {},
		"flags":    {},
		"commands": {},
	},
}

func main() {
	completion.Complete(path.Base(os.Args[0]))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
