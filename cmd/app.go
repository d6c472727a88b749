// Package cmd implements the CLI application to value a stock portfolio.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/config"
	"github.com/etnz/tracker/logger"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to an optional YAML configuration file")
var pricesFile = flag.String("prices", "", "Path to a JSON price file, replaces the built-in prices")
var outputDir = flag.String("output", "", "Folder where reports are saved (default \"output\")")

// Verbose enables debug logging on stderr.
var Verbose = flag.Bool("v", false, "verbose logging")

// standard streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

// app holds what every command needs: the settings, a logger and the price table.
type app struct {
	cfg    config.Config
	log    *zap.SugaredLogger
	prices *tracker.PriceTable
}

// openApp loads the configuration, applies the command line overrides, and loads the prices.
func openApp() (*app, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *pricesFile != "" {
		cfg.PricesFile = *pricesFile
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *Verbose {
		cfg.Log.Level = "debug"
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("cannot create logger: %w", err)
	}
	a := &app{cfg: cfg, log: zl.Sugar()}

	a.prices, err = a.openPrices()
	if err != nil {
		return nil, err
	}
	return a, nil
}

// openPrices returns the built-in prices, or the ones from the configured price file.
func (a *app) openPrices() (*tracker.PriceTable, error) {
	if a.cfg.PricesFile == "" {
		a.log.Debugw("using built-in prices")
		return tracker.DefaultPrices(), nil
	}

	f, err := os.Open(a.cfg.PricesFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open price file: %w", err)
	}
	defer f.Close()

	prices, err := tracker.ImportPrices(f, a.cfg.PricesQuery)
	if err != nil {
		return nil, fmt.Errorf("cannot load price file %q: %w", a.cfg.PricesFile, err)
	}
	if prices.Currency() != a.cfg.Currency {
		a.log.Warnw("price file currency differs from the configured currency",
			"file", a.cfg.PricesFile, "currency", prices.Currency(), "configured", a.cfg.Currency)
	}
	a.log.Debugw("loaded prices", "file", a.cfg.PricesFile, "symbols", prices.Len())
	return prices, nil
}

// close flushes the logger.
func (a *app) close() { _ = a.log.Sync() }

// save writes 'r' in 'formats' into the output folder and prints where.
func (a *app) save(w io.Writer, r *tracker.Report, formats []tracker.Format) error {
	if len(formats) == 0 {
		fmt.Fprintln(w, "Results not saved.")
		return nil
	}
	filenames, err := tracker.SaveReports(a.cfg.OutputDir, r, formats...)
	for _, filename := range filenames {
		a.log.Infow("report saved", "file", filename)
		fmt.Fprintf(w, "Results saved to: %s\n", filename)
	}
	return err
}

// saveFormats parses a -save flag value.
func saveFormats(option string) ([]tracker.Format, error) {
	switch option {
	case "both":
		return tracker.Formats, nil
	case "none":
		return nil, nil
	}
	f, err := tracker.ParseFormat(option)
	if err != nil {
		return nil, fmt.Errorf("invalid save option %q, want txt, csv, both or none", option)
	}
	return []tracker.Format{f}, nil
}

// printMarkdown renders 'md' for the terminal, and falls back to the raw markdown.
func printMarkdown(w io.Writer, md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(w, out)
			return
		}
	}
	fmt.Fprint(w, md)
}
