package tracker

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency used when none is configured, and the one used to format
// amounts that have no currency set.
const DefaultCurrency = "USD"

// Money represents a monetary value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M creates a Money from a numeric value and a currency code.
func M[T float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// ParseMoney parses a decimal string like "180.50" into a Money.
func ParseMoney(s, currency string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{value: d, cur: currency}, nil
}

// currency returns the money's currency, falling back to DefaultCurrency.
func (m Money) currency() money.Currency {
	code := m.cur
	if code == "" {
		code = DefaultCurrency
	}
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, code).Currency()
}

// String returns the amount with currency symbol, thousands separators and the currency
// fraction digits, e.g. "$3,200.80".
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// Fixed returns the bare amount with exactly two decimals, e.g. "3200.80", whatever the
// currency. It is the notation of the report files.
func (m Money) Fixed() string { return m.value.StringFixed(2) }

func (m Money) Currency() string               { return m.cur }
func (m Money) Decimal() decimal.Decimal       { return m.value }
func (m Money) Equal(n Money) bool             { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                   { return m.value.IsZero() }
func (m Money) IsNegative() bool               { return m.value.IsNegative() }
func (m Money) Mul(n Quantity) Money           { return Money{value: m.value.Mul(n.value), cur: m.cur} }
func (m Money) WithCurrency(code string) Money { return Money{value: m.value, cur: code} }

// Add returns m+n.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch " + A.cur + "!=" + B.cur)
	}
	return A.cur
}
