package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/renderer"
)

// valueCmd holds the flags for the 'value' subcommand.
type valueCmd struct {
	save string
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "value a portfolio given on the command line" }
func (*valueCmd) Usage() string {
	return `spt value [-save txt|csv|both|none] SYMBOL=QUANTITY...

  Values the portfolio made of the given entries, displays its summary and saves the
  reports in the output folder.

Usage Examples:
$ spt value AAPL=10 TSLA=5
$ spt value -save csv msft=3
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.save, "save", "both", "report formats to save: txt, csv, both or none")
}

func (c *valueCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: at least one SYMBOL=QUANTITY entry is required\n")
		return subcommands.ExitUsageError
	}
	formats, err := saveFormats(c.save)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	// all entries are checked before anything is computed.
	p := tracker.NewPortfolio()
	var errs error
	for _, entry := range f.Args() {
		item, err := tracker.ParseEntry(a.prices, entry)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		p.Append(item)
	}
	if errs != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", errs)
		return subcommands.ExitUsageError
	}

	report := tracker.NewReport(p, time.Now())
	printMarkdown(stdout, renderer.SummaryMarkdown(report))

	if err := a.save(stdout, report, formats); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving results: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
