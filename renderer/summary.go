package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/tracker"
	md "github.com/nao1215/markdown"
)

// SummaryMarkdown renders the portfolio summary: one row per line item and the total.
func SummaryMarkdown(r *tracker.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Portfolio Summary")
	if len(r.Items) == 0 {
		doc.PlainText("No stocks in portfolio!")
		return doc.String()
	}

	rows := make([][]string, 0, len(r.Items))
	for _, item := range r.Items {
		rows = append(rows, []string{
			item.Symbol(),
			fmt.Sprintf("%s shares", item.Quantity()),
			tracker.FormatCurrency(item.Price()),
			tracker.FormatCurrency(item.Value()),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Symbol", "Quantity", "Price", "Value"},
		Rows:   rows,
	})
	// a blank line ends the table.
	doc.PlainText("")
	doc.PlainText(md.Bold("TOTAL PORTFOLIO VALUE: " + tracker.FormatCurrency(r.Total)))

	return doc.String()
}

// ReportMarkdown renders a saved report: the summary and when it was generated.
func ReportMarkdown(r *tracker.Report, source string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.PlainText(fmt.Sprintf("Report %s generated on %s.", md.Code(source), r.Generated.Format("2006-01-02 15:04:05")))
	return SummaryMarkdown(r) + "\n" + doc.String()
}
