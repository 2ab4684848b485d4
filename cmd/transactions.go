package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/renderer"
	"github.com/google/subcommands"
)

type transactionsCmd struct {
	asset    string
	currency string
	csv      bool
}

func (*transactionsCmd) Name() string     { return "transactions" }
func (*transactionsCmd) Synopsis() string { return "list the transactions of an asset" }
func (*transactionsCmd) Usage() string {
	return `cfo transactions -asset <asset> -currency <currency> [-csv]

  Lists the transactions recorded for the asset, oldest first, with the date they
  were recorded at. With -csv they are written in the import format instead.
`
}

func (c *transactionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", "", "Asset ticker, like BTC or ETH")
	f.StringVar(&c.currency, "currency", "", "Currency the asset is tracked in")
	f.BoolVar(&c.csv, "csv", false, "Print CSV rows that 'import' can read back")
}

func (c *transactionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.asset == "" || c.currency == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	e, err := setup()
	if err != nil {
		return exitStatus(err)
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	ledger, err := e.OpenLedger(ctx)
	if err != nil {
		return exitStatus(err)
	}
	defer ledger.Close()

	txs, err := ledger.Transactions(ctx, c.asset, c.currency)
	if err != nil {
		return exitStatus(err)
	}

	if c.csv {
		if err := cryptofolio.EncodeBatch(output, txs); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing transactions: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	asset, currency := cryptofolio.NormalizePair(c.asset, c.currency)
	printMarkdown(renderer.Transactions(asset, currency, txs))
	return subcommands.ExitSuccess
}
