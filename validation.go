package cryptofolio

import (
	"errors"
	"fmt"
	"strings"
)

// ValidatePair checks that both identifiers are non empty tokens.
func ValidatePair(asset, currency string) error {
	var errs error
	if strings.TrimSpace(asset) == "" {
		errs = errors.Join(errs, errors.New("asset is required"))
	}
	if strings.TrimSpace(currency) == "" {
		errs = errors.Join(errs, errors.New("currency is required"))
	}
	if strings.ContainsAny(strings.TrimSpace(asset)+strings.TrimSpace(currency), " \t/") {
		errs = errors.Join(errs, fmt.Errorf("asset %q and currency %q must be single tokens", asset, currency))
	}
	if errs != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, errs)
	}
	return nil
}

// Validate checks a transaction before it is recorded and reports all failures at once.
func (t Transaction) Validate() error {
	var errs error
	if err := ValidatePair(t.Asset, t.Currency); err != nil {
		errs = errors.Join(errs, err)
	}
	switch {
	case !t.Amount.IsPositive():
		errs = errors.Join(errs, fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidInput, t.Amount))
	case !t.Amount.Representable():
		errs = errors.Join(errs, fmt.Errorf("%w: amount %s is out of range", ErrInvalidInput, t.Amount))
	}
	return errs
}
