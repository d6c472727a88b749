package tracker

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrUnknownSymbol is returned when a symbol is not in the price table.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrInvalidPriceTable is returned when a price table definition is inconsistent.
	ErrInvalidPriceTable = errors.New("invalid price table")
)

// PriceEntry is a single row of a price table definition.
type PriceEntry struct {
	Symbol string
	Price  Money
}

// P is a short hand to create a PriceEntry.
func P(symbol string, price Money) PriceEntry { return PriceEntry{Symbol: symbol, Price: price} }

// PriceTable maps stock symbols to their unit price.
//
// A PriceTable is immutable: it is fully defined when created, and can then be shared freely.
type PriceTable struct {
	currency string
	symbols  []string         // in definition order
	index    map[string]Money // by upper case symbol
}

// NewPriceTable creates a PriceTable in 'currency' from a list of entries.
//
// Symbols are normalized to upper case. Empty symbols, duplicated symbols, negative prices,
// or prices in another currency are rejected.
func NewPriceTable(currency string, entries ...PriceEntry) (*PriceTable, error) {
	if currency == "" {
		currency = DefaultCurrency
	}
	t := &PriceTable{
		currency: currency,
		symbols:  make([]string, 0, len(entries)),
		index:    make(map[string]Money, len(entries)),
	}
	for _, e := range entries {
		symbol := normalizeSymbol(e.Symbol)
		if symbol == "" {
			return nil, fmt.Errorf("%w: empty symbol", ErrInvalidPriceTable)
		}
		if _, exists := t.index[symbol]; exists {
			return nil, fmt.Errorf("%w: symbol %q is defined twice", ErrInvalidPriceTable, symbol)
		}
		if e.Price.IsNegative() {
			return nil, fmt.Errorf("%w: negative price %s for %q", ErrInvalidPriceTable, e.Price.Fixed(), symbol)
		}
		if c := e.Price.Currency(); c != "" && c != currency {
			return nil, fmt.Errorf("%w: price for %q is in %s, want %s", ErrInvalidPriceTable, symbol, c, currency)
		}
		t.symbols = append(t.symbols, symbol)
		t.index[symbol] = e.Price.WithCurrency(currency)
	}
	return t, nil
}

// DefaultPrices returns the built-in price table.
func DefaultPrices() *PriceTable {
	t, err := NewPriceTable("USD",
		P("AAPL", M(180.50, "USD")),
		P("TSLA", M(250.75, "USD")),
		P("GOOGL", M(2800.25, "USD")),
		P("MSFT", M(350.00, "USD")),
		P("AMZN", M(3200.80, "USD")),
		P("META", M(320.45, "USD")),
		P("NVDA", M(450.60, "USD")),
		P("NFLX", M(380.90, "USD")),
		P("AMD", M(85.30, "USD")),
		P("INTC", M(45.20, "USD")),
	)
	if err != nil {
		panic(err) // the built-in table is a constant.
	}
	return t
}

func normalizeSymbol(symbol string) string { return strings.ToUpper(strings.TrimSpace(symbol)) }

// Lookup returns the unit price of 'symbol', ignoring case.
// The boolean is false if the symbol is unknown.
func (t *PriceTable) Lookup(symbol string) (Money, bool) {
	price, ok := t.index[normalizeSymbol(symbol)]
	return price, ok
}

// Has returns true if 'symbol' is in the table, ignoring case.
func (t *PriceTable) Has(symbol string) bool {
	_, ok := t.index[normalizeSymbol(symbol)]
	return ok
}

// Symbols returns the known symbols in definition order.
func (t *PriceTable) Symbols() []string { return slices.Clone(t.symbols) }

// Currency returns the currency of every price in the table.
func (t *PriceTable) Currency() string { return t.currency }

// Len returns the number of symbols in the table.
func (t *PriceTable) Len() int { return len(t.symbols) }
