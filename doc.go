// Package tracker values a small stock portfolio.
//
// A PriceTable gives the unit price of each known stock symbol. Line items are built
// from a symbol and a quantity, collected in a Portfolio, and summed into a total.
// A Report is a snapshot of a Portfolio that can be encoded as a plain text or a CSV
// file, and saved in an output folder under a timestamped file name.
//
// All types are plain values: the price table is created once and passed to whoever
// needs it, and every computation is a pure function of its inputs. Only SaveReport
// touches the file system.
//
// This package serves as the foundational logic for the `spt` command-line tool.
package tracker
