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

type addTransactionCmd struct {
	asset    string
	currency string
	amount   string
	sell     bool
}

func (*addTransactionCmd) Name() string     { return "add-transaction" }
func (*addTransactionCmd) Synopsis() string { return "record a buy or a sell in the ledger" }
func (*addTransactionCmd) Usage() string {
	return `cfo add-transaction -asset <asset> -currency <currency> -amount <amount> [-sell]

  Appends a buy (or a sell with -sell) stamped with the current time. Asset and
  currency are stored in upper case.
`
}

func (c *addTransactionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", "", "Asset ticker, like BTC or ETH")
	f.StringVar(&c.currency, "currency", "", "Currency the asset is tracked in")
	f.StringVar(&c.amount, "amount", "", "Amount of asset bought or sold, strictly positive")
	f.BoolVar(&c.sell, "sell", false, "Record a sell instead of a buy")
}

func (c *addTransactionCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	amount, err := cryptofolio.ParseQuantity(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
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

	tx, err := ledger.Record(ctx, c.asset, c.currency, amount, c.sell)
	if err != nil {
		return exitStatus(err)
	}
	fmt.Fprint(output, renderer.Transaction(tx))
	return subcommands.ExitSuccess
}

type importCmd struct {
	file string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "append a CSV batch of transactions to the ledger" }
func (*importCmd) Usage() string {
	return `cfo import -file <rows.csv>

  Appends all rows of the file in a single step, or none if one is malformed.
  Columns are coin_id,currency,amount,sell,date, an optional header line is skipped.
  Rows are stored as written: asset and currency are not changed to upper case.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "CSV file to import")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	r, err := os.Open(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening batch file %q: %v\n", c.file, err)
		return subcommands.ExitFailure
	}
	defer r.Close()

	txs, err := cryptofolio.DecodeBatch(r)
	if err != nil {
		return exitStatus(fmt.Errorf("cannot read %q: %w", c.file, err))
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

	n, err := ledger.Import(ctx, txs)
	if err != nil {
		return exitStatus(err)
	}
	fmt.Fprint(output, renderer.Imported(n, c.file))
	return subcommands.ExitSuccess
}
