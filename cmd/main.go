package cmd

import (
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/tracker"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range commands() {
		c.Register(cmd, "portfolio")
	}
}

func commands() []subcommands.Command {
	return []subcommands.Command{
		&pricesCmd{},
		&trackCmd{},
		&valueCmd{},
		&showCmd{},
	}
}

// Completion describes the command line for shell completion.
//
// Symbols are predicted from the built-in price table, since flags are not parsed yet.
func Completion() *complete.Command {
	var entries predict.Set
	for _, symbol := range tracker.DefaultPrices().Symbols() {
		entries = append(entries, symbol+"=")
	}
	saves := predict.Set{"txt", "csv", "both", "none"}

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.yaml"),
			"prices": predict.Files("*.json"),
			"output": predict.Dirs("*"),
			"v":      predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"prices":   {Flags: map[string]complete.Predictor{"o": predict.Files("*.json")}},
			"track":    {Flags: map[string]complete.Predictor{"save": append(predict.Set{"ask"}, saves...)}},
			"value":    {Flags: map[string]complete.Predictor{"save": saves}, Args: entries},
			"show":     {Args: predict.Files("*.csv")},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
	}
}
