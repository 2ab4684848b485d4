package cryptofolio

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// Quantity is an exact amount of an asset.
//
// Quantities are decimals, so summing them never depends on the order of the terms.
type Quantity struct {
	value decimal.Decimal
}

// Q creates a Quantity from any numeric value.
func Q[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) Quantity {
	return Quantity{value: newDecimal(value)}
}

// ParseQuantity parses a decimal string like "1.5" or "-0.25".
//
// NaN and infinities are not decimal literals and are rejected.
func ParseQuantity(s string) (Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, fmt.Errorf("invalid quantity %q: %w", s, err)
	}
	return Quantity{value: d}, nil
}

func (t Quantity) Equal(p Quantity) bool   { return t.value.Equal(p.value) }
func (t Quantity) Add(p Quantity) Quantity { return Quantity{value: t.value.Add(p.value)} }
func (t Quantity) Sub(p Quantity) Quantity { return Quantity{value: t.value.Sub(p.value)} }
func (t Quantity) IsNegative() bool        { return t.value.IsNegative() }
func (t Quantity) IsPositive() bool        { return t.value.IsPositive() }
func (t Quantity) IsZero() bool            { return t.value.IsZero() }
func (t Quantity) String() string          { return t.value.String() }

// Decimal returns the underlying decimal value.
func (t Quantity) Decimal() decimal.Decimal { return t.value }

// Float64 returns the nearest float64, for stores that persist amounts as REAL.
func (t Quantity) Float64() float64 { return t.value.InexactFloat64() }

// Representable reports whether t survives a round trip through a float64 column:
// it must be finite, and non zero unless t is zero.
func (t Quantity) Representable() bool {
	f := t.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return false
	}
	return f != 0 || t.IsZero()
}
