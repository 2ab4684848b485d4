// Package binance implements a price oracle on top of the Binance spot ticker.
package binance

import (
	"context"
	"fmt"
	"strconv"

	"github.com/adshao/go-binance"
	"github.com/etnz/cryptofolio"
)

// DefaultQuoteAliases maps quote currencies to the stable coin Binance lists them with.
var DefaultQuoteAliases = map[string]string{"USD": "USDT"}

// Oracle reads the latest traded price of a symbol. Binance has no exchange rate
// endpoint: the rate of BTC in USD is the price of the BTCUSDT symbol.
type Oracle struct {
	client  *binance.Client
	aliases map[string]string
	logger  cryptofolio.Logger
}

// NewOracle creates an Oracle. Public market data needs no key, both can be empty.
func NewOracle(apiKey, secretKey string, logger cryptofolio.Logger) *Oracle {
	return &Oracle{
		client:  binance.NewClient(apiKey, secretKey),
		aliases: DefaultQuoteAliases,
		logger:  logger,
	}
}

// Symbol returns the Binance symbol for asset quoted in currency.
func (o *Oracle) Symbol(asset, currency string) string {
	if alias, ok := o.aliases[currency]; ok {
		currency = alias
	}
	return asset + currency
}

// Rate returns the last price of the asset/currency symbol.
func (o *Oracle) Rate(ctx context.Context, asset, currency string) (float64, error) {
	symbol := o.Symbol(asset, currency)
	prices, err := o.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: binance %s: %w", cryptofolio.ErrUnavailableRate, symbol, err)
	}
	for _, p := range prices {
		if p.Symbol != symbol {
			continue
		}
		rate, err := strconv.ParseFloat(p.Price, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: binance %s: invalid price %q", cryptofolio.ErrUnavailableRate, symbol, p.Price)
		}
		o.logger.Debugf("binance %s price %s", symbol, p.Price)
		return rate, nil
	}
	return 0, fmt.Errorf("%w: binance returned no price for %s", cryptofolio.ErrUnavailableRate, symbol)
}
