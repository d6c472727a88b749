package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/renderer"
)

// trackCmd holds the flags for the 'track' subcommand.
type trackCmd struct {
	save string
}

func (*trackCmd) Name() string     { return "track" }
func (*trackCmd) Synopsis() string { return "build a portfolio interactively and save the results" }
func (*trackCmd) Usage() string {
	return `spt track [-save ask|txt|csv|both|none]

  Asks for stock symbols and quantities until 'done' is entered, then displays the
  portfolio summary and saves the results.

  By default the save option is asked at the end of the session.
`
}

func (c *trackCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.save, "save", "ask", "report formats to save: ask, txt, csv, both or none")
}

func (c *trackCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.save != "ask" {
		if _, err := saveFormats(c.save); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	in := bufio.NewScanner(stdin)
	fmt.Fprintln(stdout, "Welcome to Stock Portfolio Tracker!")

	p := promptPortfolio(a, in, stdout)
	if err := in.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		return subcommands.ExitFailure
	}
	if p.IsEmpty() {
		fmt.Fprintln(stdout, "No portfolio created. Goodbye!")
		return subcommands.ExitSuccess
	}

	report := tracker.NewReport(p, time.Now())
	printMarkdown(stdout, renderer.SummaryMarkdown(report))

	var formats []tracker.Format
	if c.save == "ask" {
		formats = askSaveFormats(in, stdout)
	} else {
		formats, _ = saveFormats(c.save) // already validated
	}

	if err := a.save(stdout, report, formats); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving results: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// promptPortfolio asks for symbols and quantities until 'done' or the end of the input.
// Invalid entries are reported and asked again.
func promptPortfolio(a *app, in *bufio.Scanner, out io.Writer) *tracker.Portfolio {
	p := tracker.NewPortfolio()
	printMarkdown(out, renderer.PricesMarkdown(a.prices))

	for {
		fmt.Fprint(out, "\nEnter stock symbol (or 'done' to finish): ")
		if !in.Scan() {
			fmt.Fprintln(out)
			return p
		}
		symbol := strings.ToUpper(strings.TrimSpace(in.Text()))
		if symbol == "DONE" {
			return p
		}

		price, ok := a.prices.Lookup(symbol)
		if !ok {
			fmt.Fprintf(out, "Error: '%s' not found in our stock database!\n", symbol)
			printMarkdown(out, renderer.PricesMarkdown(a.prices))
			continue
		}

		fmt.Fprintf(out, "Enter quantity for %s: ", symbol)
		if !in.Scan() {
			fmt.Fprintln(out)
			return p
		}
		quantity, err := tracker.ParseQuantity(in.Text())
		if err != nil {
			a.log.Debugw("quantity rejected", "symbol", symbol, "error", err)
			fmt.Fprintln(out, quantityMessage(err))
			continue
		}

		item := tracker.NewLineItem(symbol, quantity, price)
		p.Append(item)
		a.log.Debugw("line item added", "symbol", item.Symbol(), "quantity", quantity.String(), "value", item.Value().Fixed())
		fmt.Fprintf(out, "Added: %s shares of %s = %s\n", quantity, symbol, tracker.FormatCurrency(item.Value()))
	}
}

// quantityMessage returns the message shown to the user for a rejected quantity.
func quantityMessage(err error) string {
	if errors.Is(err, tracker.ErrQuantityNotPositive) {
		return "Error: Quantity must be greater than 0!"
	}
	return "Error: Please enter a valid number for quantity!"
}

// askSaveFormats shows the save menu and returns the chosen formats.
func askSaveFormats(in *bufio.Scanner, out io.Writer) []tracker.Format {
	fmt.Fprint(out, `
SAVE RESULTS
--------------------
1. Save to .txt file
2. Save to .csv file
3. Save to both formats
4. Don't save
Choose option (1-4): `)
	if !in.Scan() {
		fmt.Fprintln(out)
		return nil
	}
	switch strings.TrimSpace(in.Text()) {
	case "1":
		return []tracker.Format{tracker.FormatText}
	case "2":
		return []tracker.Format{tracker.FormatCSV}
	case "3":
		return tracker.Formats
	case "4":
		return nil
	}
	fmt.Fprintln(out, "Invalid choice.")
	return nil
}
