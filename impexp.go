package tracker

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// this file contains functions to handle the price file format.
// It is a single JSON document, human readable and easy to edit:
//
//	{"currency":"USD","prices":{"AAPL":180.5,"TSLA":250.75}}

// DefaultPricesQuery selects the symbol to price object in a price file.
const DefaultPricesQuery = "$.prices"

// ImportPrices reads a JSON document from 'r' and builds a PriceTable from it.
//
// 'query' is a JSONPath expression selecting an object whose properties are the symbols and
// values are the prices, as numbers or decimal strings. It defaults to DefaultPricesQuery.
// If the document has a top level "currency" property it is used as the table currency.
//
// Symbols keep the order they have in the document, so that a file written by ExportPrices
// is read back in table order.
func ImportPrices(r io.Reader, query string) (*PriceTable, error) {
	if query == "" {
		query = DefaultPricesQuery
	}

	// numbers are decoded as json.Number to keep prices exact.
	dec := json.NewDecoder(r)
	dec.UseNumber()
	keys := make(objectKeys)
	jdoc, err := keys.decode(dec)
	if err != nil {
		return nil, fmt.Errorf("cannot parse price file: %w", err)
	}

	currency := DefaultCurrency
	if jobj, ok := jdoc.(map[string]any); ok {
		if c, ok := jobj["currency"].(string); ok && c != "" {
			currency = strings.ToUpper(c)
		}
	}

	jval, err := jsonpath.Get(query, jdoc)
	if err != nil {
		return nil, fmt.Errorf("cannot evaluate %q in price file: %w", query, err)
	}
	// jsonpath returns a list for wildcard queries: keep the first match.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	jprices, ok := jval.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q does not select an object of prices but %T", ErrInvalidPriceTable, query, jval)
	}

	symbols := keys.of(jprices)

	entries := make([]PriceEntry, 0, len(symbols))
	for _, symbol := range symbols {
		price, err := jsonDecimal(jprices[symbol])
		if err != nil {
			return nil, fmt.Errorf("%w: price for %q: %v", ErrInvalidPriceTable, symbol, err)
		}
		entries = append(entries, P(symbol, M(price, currency)))
	}
	return NewPriceTable(currency, entries...)
}

// objectKeys records the key order of the JSON objects decoded by decode, by map identity.
type objectKeys map[uintptr][]string

// decode reads the next JSON value from 'dec' like json.Decoder.Decode into an 'any' would.
func (k objectKeys) decode(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil // string, json.Number, bool or nil
	}
	switch delim {
	case '{':
		jobj := make(map[string]any)
		var order []string
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := tok.(string)
			val, err := k.decode(dec)
			if err != nil {
				return nil, err
			}
			if _, exists := jobj[key]; !exists {
				order = append(order, key)
			}
			jobj[key] = val
		}
		if _, err := dec.Token(); err != nil { // '}'
			return nil, err
		}
		k[reflect.ValueOf(jobj).Pointer()] = order
		return jobj, nil
	case '[':
		jlist := []any{}
		for dec.More() {
			val, err := k.decode(dec)
			if err != nil {
				return nil, err
			}
			jlist = append(jlist, val)
		}
		if _, err := dec.Token(); err != nil { // ']'
			return nil, err
		}
		return jlist, nil
	}
	return nil, fmt.Errorf("unexpected %v", delim)
}

// of returns the keys of 'jobj' in document order, or sorted if 'jobj' was not decoded by 'k'.
func (k objectKeys) of(jobj map[string]any) []string {
	if order, ok := k[reflect.ValueOf(jobj).Pointer()]; ok && len(order) == len(jobj) {
		return slices.Clone(order)
	}
	keys := make([]string, 0, len(jobj))
	for key := range jobj {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// jsonDecimal converts a decoded JSON value into a decimal.
func jsonDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case json.Number:
		return decimal.NewFromString(x.String())
	case string:
		return decimal.NewFromString(x)
	case float64:
		return decimal.NewFromFloat(x), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("not a number: %v", v)
	}
}

// ExportPrices writes 't' to 'w' in the price file format, symbols in table order.
func ExportPrices(w io.Writer, t *PriceTable) error {
	var prices jsonObjectWriter
	for _, symbol := range t.symbols {
		// json.Number keeps the decimal digits as they are.
		prices.Append(symbol, json.Number(t.index[symbol].Decimal().String()))
	}
	rawPrices, err := prices.MarshalJSON()
	if err != nil {
		return fmt.Errorf("cannot marshal prices: %w", err)
	}

	var doc jsonObjectWriter
	doc.Append("currency", t.currency)
	doc.Append("prices", json.RawMessage(rawPrices))
	data, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("cannot marshal price file: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("cannot write price file: %w", err)
	}
	return nil
}
