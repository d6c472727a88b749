package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/tracker"
)

// PricesMarkdown renders the list of available stocks and their unit price.
func PricesMarkdown(t *tracker.PriceTable) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Available Stocks\n\n")
	fmt.Fprintln(&b, "| # | Symbol | Price |")
	fmt.Fprintln(&b, "|---:|:---|---:|")

	for i, symbol := range t.Symbols() {
		price, _ := t.Lookup(symbol)
		fmt.Fprintf(&b, "| %d | %s | %s |\n", i+1, symbol, tracker.FormatCurrency(price))
	}
	return b.String()
}
