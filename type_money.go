package cryptofolio

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value in a quote currency.
//
// Quote currencies are not always fiat: a value can be expressed in BTC, for which
// there is no known formatting. Such values are printed with all their digits and
// the currency code as suffix.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M creates a Money from any numeric value.
func M[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: strings.ToUpper(currency)}
}

// currency returns the money's currency and whether go-money knows how to format it.
func (m Money) currency() (money.Currency, bool) {
	// to get a never nil currency I need to call the Money constructor
	cur := *money.New(0, m.cur).Currency()
	// unknown codes get go-money's default: the code itself as suffix grapheme.
	unknown := cur.Grapheme == cur.Code && cur.Template == "1$"
	return cur, m.cur != "" && !unknown
}

// String returns the string representation of the money value, like "$1,234.56".
func (m Money) String() string {
	cur, known := m.currency()
	if !known {
		return m.value.String() + " " + m.cur
	}
	dec := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(dec.IntPart())
}

// Fixed returns the value rounded to the currency fraction digits, without symbol.
func (m Money) Fixed() string {
	cur, known := m.currency()
	if !known {
		return m.value.String()
	}
	return m.value.StringFixed(int32(cur.Fraction))
}

func (m Money) Currency() string     { return m.cur }
func (m Money) Equal(n Money) bool   { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) Mul(n Quantity) Money { return Money{value: m.value.Mul(n.value), cur: m.cur} }
