package cryptofolio

import (
	"fmt"
	"strings"
	"time"
)

// Transaction is a single immutable row of the ledger: an amount of an asset bought
// or sold, denominated in a quote currency.
//
// Amount is a magnitude. The direction is carried by Sell only, never by the sign.
type Transaction struct {
	Asset      string
	Currency   string
	Amount     Quantity
	Sell       bool
	RecordedAt time.Time
}

// NewBuy creates a buy transaction recorded at 'at'.
func NewBuy(at time.Time, asset, currency string, amount Quantity) Transaction {
	return Transaction{Asset: asset, Currency: currency, Amount: amount, RecordedAt: at}
}

// NewSell creates a sell transaction recorded at 'at'.
func NewSell(at time.Time, asset, currency string, amount Quantity) Transaction {
	return Transaction{Asset: asset, Currency: currency, Amount: amount, Sell: true, RecordedAt: at}
}

// What returns "sell" or "buy".
func (t Transaction) What() string {
	if t.Sell {
		return "sell"
	}
	return "buy"
}

// Normalize returns a copy of t with asset and currency in upper case.
func (t Transaction) Normalize() Transaction {
	t.Asset, t.Currency = NormalizePair(t.Asset, t.Currency)
	return t
}

// Equal reports whether both transactions hold the same values.
func (t Transaction) Equal(o Transaction) bool {
	return t.Asset == o.Asset &&
		t.Currency == o.Currency &&
		t.Amount.Equal(o.Amount) &&
		t.Sell == o.Sell &&
		t.RecordedAt.Equal(o.RecordedAt)
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s %s %s/%s on %s", t.What(), t.Amount, t.Asset, t.Currency, t.RecordedAt.Format(time.RFC3339))
}

// NormalizePair returns asset and currency identifiers in their stored form.
func NormalizePair(asset, currency string) (string, string) {
	return strings.ToUpper(strings.TrimSpace(asset)), strings.ToUpper(strings.TrimSpace(currency))
}
