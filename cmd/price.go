package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/renderer"
	"github.com/google/subcommands"
)

type showPriceCmd struct {
	asset    string
	currency string
}

func (*showPriceCmd) Name() string     { return "show-price" }
func (*showPriceCmd) Synopsis() string { return "display the current price of an asset" }
func (*showPriceCmd) Usage() string {
	return `cfo show-price [-asset <asset>] [-currency <currency>]

  Asks the price oracle for the current rate of the asset. The ledger is not read.
`
}

func (c *showPriceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", "BTC", "Asset ticker, like BTC or ETH")
	f.StringVar(&c.currency, "currency", "USD", "Currency of the price")
}

func (c *showPriceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := setup()
	if err != nil {
		return exitStatus(err)
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	oracle, err := e.NewOracle()
	if err != nil {
		return exitStatus(err)
	}
	rate, err := cryptofolio.Quote(ctx, oracle, c.asset, c.currency)
	if err != nil {
		return exitStatus(err)
	}
	asset, _ := cryptofolio.NormalizePair(c.asset, c.currency)
	fmt.Fprint(output, renderer.Price(asset, rate))
	return subcommands.ExitSuccess
}

type getValueCmd struct {
	asset    string
	currency string
	detail   bool
}

func (*getValueCmd) Name() string { return "get-value" }
func (*getValueCmd) Synopsis() string {
	return "display the current value of the net position of an asset"
}
func (*getValueCmd) Usage() string {
	return `cfo get-value -asset <asset> -currency <currency> [-detail]

  Multiplies the net position recorded in the ledger by the current rate.
`
}

func (c *getValueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", "", "Asset ticker, like BTC or ETH")
	f.StringVar(&c.currency, "currency", "", "Currency of the value")
	f.BoolVar(&c.detail, "detail", false, "Also print bought and sold totals")
}

func (c *getValueCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	oracle, err := e.NewOracle()
	if err != nil {
		return exitStatus(err)
	}
	ledger, err := e.OpenLedger(ctx)
	if err != nil {
		return exitStatus(err)
	}
	defer ledger.Close()

	v, err := cryptofolio.Value(ctx, ledger, oracle, c.asset, c.currency)
	if err != nil {
		return exitStatus(err)
	}
	fmt.Fprint(output, renderer.Value(v))
	if c.detail {
		printMarkdown(renderer.Valuation(v))
	}
	return subcommands.ExitSuccess
}
