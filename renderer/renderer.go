// Package renderer renders portfolio data as markdown, for display in a terminal.
package renderer
