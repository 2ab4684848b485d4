package cryptofolio

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Oracle provides the current exchange rate of an asset in a quote currency.
//
// Implementations perform one request per call: no cache, no retry. Failures wrap
// ErrUnavailableRate.
type Oracle interface {
	Rate(ctx context.Context, asset, currency string) (float64, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ctx context.Context, asset, currency string) (float64, error)

// Rate calls f.
func (f OracleFunc) Rate(ctx context.Context, asset, currency string) (float64, error) {
	return f(ctx, asset, currency)
}

// Quote fetches the rate of asset in currency and returns it as Money.
//
// The pair is upper-cased before the oracle is called. A rate that is not a finite
// number is reported as unavailable.
func Quote(ctx context.Context, oracle Oracle, asset, currency string) (Money, error) {
	if err := ValidatePair(asset, currency); err != nil {
		return Money{}, err
	}
	asset, currency = NormalizePair(asset, currency)
	rate, err := oracle.Rate(ctx, asset, currency)
	if err != nil {
		if !errors.Is(err, ErrUnavailableRate) {
			err = fmt.Errorf("%w: %w", ErrUnavailableRate, err)
		}
		return Money{}, fmt.Errorf("cannot get %s/%s rate: %w", asset, currency, err)
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return Money{}, fmt.Errorf("cannot get %s/%s rate: %w: not a finite number %v", asset, currency, ErrUnavailableRate, rate)
	}
	return M(rate, currency), nil
}

// Valuation is the value of a position at the current rate. It is never persisted.
type Valuation struct {
	Position Position
	Rate     Money
}

// Value returns the net position times the rate.
func (v Valuation) Value() Money { return v.Rate.Mul(v.Position.Net()) }

// Value computes the current value of the net position of asset in currency.
//
// The rate is fetched first: when it is unavailable the ledger is not queried.
func Value(ctx context.Context, ledger *Ledger, oracle Oracle, asset, currency string) (Valuation, error) {
	rate, err := Quote(ctx, oracle, asset, currency)
	if err != nil {
		return Valuation{}, err
	}
	pos, err := ledger.NetPosition(ctx, asset, currency)
	if err != nil {
		return Valuation{}, err
	}
	return Valuation{Position: pos, Rate: rate}, nil
}
