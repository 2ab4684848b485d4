package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/cryptofolio/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the command line for shell completion.
// Install it with `COMP_INSTALL=1 cfo`.
func completion() *complete.Command {
	pair := map[string]complete.Predictor{
		"asset":    predict.Set{"BTC", "ETH", "SOL", "DOGE"},
		"currency": predict.Set{"USD", "EUR", "GBP"},
	}
	with := func(flags map[string]complete.Predictor) map[string]complete.Predictor {
		m := map[string]complete.Predictor{}
		for k, v := range pair {
			m[k] = v
		}
		for k, v := range flags {
			m[k] = v
		}
		return m
	}
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"show-price":      {Flags: with(nil)},
			"get-value":       {Flags: with(map[string]complete.Predictor{"detail": predict.Nothing})},
			"add-transaction": {Flags: with(map[string]complete.Predictor{"amount": predict.Something, "sell": predict.Nothing})},
			"transactions":    {Flags: with(map[string]complete.Predictor{"csv": predict.Nothing})},
			"import":          {Flags: map[string]complete.Predictor{"file": predict.Files("*.csv")}},
			"help":            {},
			"flags":           {},
			"commands":        {},
		},
		Flags: map[string]complete.Predictor{
			"store":        predict.Set{"sqlite", "postgres"},
			"db-file":      predict.Files("*.db"),
			"oracle":       predict.Set{"coinapi", "binance"},
			"coinapi-key":  predict.Something,
			"coinapi-url":  predict.Something,
			"coinapi-path": predict.Set{"/v1/exchangerate/{asset}/{currency}"},
			"rate-field":   predict.Set{"$.rate", "$.price"},
			"log-level":    predict.Set{"debug", "info", "warning", "error"},
			"timeout":      predict.Something,
			"raw":          predict.Nothing,
		},
	}
}

func main() {
	// exits when invoked by the shell to complete a command line.
	completion().Complete(path.Base(os.Args[0]))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
