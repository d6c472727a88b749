package tracker

import (
	"fmt"
	"slices"
	"strings"
)

// LineItem is a number of shares of a stock valued at a unit price.
//
// Its value is computed once, at creation, and a LineItem cannot be modified afterwards.
type LineItem struct {
	symbol   string
	quantity Quantity
	price    Money
	value    Money
}

// NewLineItem creates a LineItem for 'quantity' shares of 'symbol' at unit 'price'.
// It does not validate its input, see ParseQuantity and PriceTable.Lookup.
func NewLineItem(symbol string, quantity Quantity, price Money) LineItem {
	return LineItem{
		symbol:   normalizeSymbol(symbol),
		quantity: quantity,
		price:    price,
		value:    LineValue(quantity, price),
	}
}

func (i LineItem) Symbol() string     { return i.symbol }
func (i LineItem) Quantity() Quantity { return i.quantity }
func (i LineItem) Price() Money       { return i.price }
func (i LineItem) Value() Money       { return i.value }

// LineValue returns the value of 'quantity' shares at unit 'price'.
func LineValue(quantity Quantity, price Money) Money { return price.Mul(quantity) }

// Total returns the sum of the items' values, zero if there are none.
func Total(items []LineItem) Money {
	var total Money
	for _, item := range items {
		total = total.Add(item.value)
	}
	return total
}

// FormatCurrency formats 'amount' for display, e.g. "$3,200.80".
func FormatCurrency(amount Money) string { return amount.String() }

// Portfolio is an ordered list of line items.
//
// Items are kept in the order they were added, and items for the same symbol are never merged.
// The zero value is an empty portfolio ready to use.
type Portfolio struct {
	items []LineItem
}

// NewPortfolio returns a portfolio holding 'items'.
func NewPortfolio(items ...LineItem) *Portfolio {
	return &Portfolio{items: slices.Clone(items)}
}

// Append adds items at the end of the portfolio.
func (p *Portfolio) Append(items ...LineItem) { p.items = append(p.items, items...) }

// Add prices 'quantity' shares of 'symbol' using 'prices' and appends the resulting item.
//
// An unknown symbol returns an error wrapping ErrUnknownSymbol and leaves the portfolio unchanged.
func (p *Portfolio) Add(prices *PriceTable, symbol string, quantity Quantity) (LineItem, error) {
	price, ok := prices.Lookup(symbol)
	if !ok {
		return LineItem{}, fmt.Errorf("%w: %q not found in the price table", ErrUnknownSymbol, normalizeSymbol(symbol))
	}
	item := NewLineItem(symbol, quantity, price)
	p.Append(item)
	return item, nil
}

// Items returns a copy of the portfolio items in insertion order.
func (p *Portfolio) Items() []LineItem { return slices.Clone(p.items) }

// Len returns the number of items.
func (p *Portfolio) Len() int { return len(p.items) }

// IsEmpty returns true if the portfolio has no items.
func (p *Portfolio) IsEmpty() bool { return len(p.items) == 0 }

// Total returns the sum of all item values.
func (p *Portfolio) Total() Money { return Total(p.items) }

// ParseEntry parses a "SYMBOL=QUANTITY" entry and prices it with 'prices'.
//
// Errors wrap either ErrUnknownSymbol or ErrInvalidQuantity.
func ParseEntry(prices *PriceTable, entry string) (LineItem, error) {
	symbol, qty, found := strings.Cut(entry, "=")
	if !found {
		return LineItem{}, fmt.Errorf("%w: entry %q must be SYMBOL=QUANTITY", ErrInvalidQuantity, entry)
	}
	price, ok := prices.Lookup(symbol)
	if !ok {
		return LineItem{}, fmt.Errorf("%w: %q not found in the price table", ErrUnknownSymbol, normalizeSymbol(symbol))
	}
	quantity, err := ParseQuantity(qty)
	if err != nil {
		return LineItem{}, fmt.Errorf("entry %q: %w", entry, err)
	}
	return NewLineItem(symbol, quantity, price), nil
}
