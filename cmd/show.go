package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/renderer"
)

type showCmd struct{}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display a saved csv report" }
func (*showCmd) Usage() string {
	return `spt show <report.csv>

  Reads a CSV report saved by 'track' or 'value', checks it, and displays its summary.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {}

func (c *showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expecting exactly one report file\n")
		return subcommands.ExitUsageError
	}
	filename := f.Arg(0)

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	file, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening report %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	p, total, err := tracker.DecodeCSV(file, a.cfg.Currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading report %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}

	// the generation time is only recorded in the file name.
	on, _, err := tracker.ParseReportFilename(filepath.Base(filename))
	if err != nil {
		a.log.Debugw("no timestamp in report name, using the file time", "file", filename, "error", err)
		if info, err := file.Stat(); err == nil {
			on = info.ModTime()
		}
	}

	report := tracker.NewReport(p, on)
	a.log.Debugw("report decoded", "file", filename, "items", p.Len(), "total", total.Fixed())
	printMarkdown(stdout, renderer.ReportMarkdown(report, filename))
	return subcommands.ExitSuccess
}
