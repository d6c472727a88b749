package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/renderer"
)

// pricesCmd holds the flags for the 'prices' subcommand.
type pricesCmd struct {
	output string
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "list available stocks and their price" }
func (*pricesCmd) Usage() string {
	return `spt prices [-o <file.json>]

  Displays the known stock symbols and their unit price.

  With -o, writes the active price table to a price file instead. The file can be edited
  and used with the global -prices flag.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "write the price table to this JSON file")
}

func (c *pricesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	if c.output == "" {
		printMarkdown(stdout, renderer.PricesMarkdown(a.prices))
		return subcommands.ExitSuccess
	}

	if err := exportPrices(c.output, a.prices); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing price file %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Successfully written %d prices to %s\n", a.prices.Len(), c.output)
	return subcommands.ExitSuccess
}

func exportPrices(filename string, prices *tracker.PriceTable) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := tracker.ExportPrices(f, prices); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
