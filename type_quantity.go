package tracker

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidQuantity is returned when a quantity entry is not a positive whole number.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrQuantityNotPositive is returned for a whole number that is zero or negative, it wraps
	// ErrInvalidQuantity.
	ErrQuantityNotPositive = fmt.Errorf("%w: quantity must be greater than 0", ErrInvalidQuantity)
)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// Quantity is a number of shares.
type Quantity struct {
	value decimal.Decimal
}

// Q creates a Quantity from a whole number of shares.
func Q[T int | int64](value T) Quantity {
	return Quantity{value: decimal.NewFromInt(int64(value))}
}

// ParseQuantity parses a user entry into a Quantity.
//
// The entry must be a whole number greater than zero. The returned error wraps
// ErrInvalidQuantity and its message is meant to be shown to the user as is.
func ParseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("%w: %q is not a valid number", ErrInvalidQuantity, s)
	}
	if n <= 0 {
		return Quantity{}, ErrQuantityNotPositive
	}
	return Q(n), nil
}

func (q Quantity) Equal(p Quantity) bool { return q.value.Equal(p.value) }
func (q Quantity) IsPositive() bool      { return q.value.IsPositive() }
func (q Quantity) Int64() int64          { return q.value.IntPart() }
func (q Quantity) String() string        { return q.value.String() }
