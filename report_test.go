package tracker

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var generated = time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)

func TestEncodeText(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeText(&buf, NewReport(samplePortfolio(), generated)); err != nil {
		t.Fatalf("EncodeText() error = %v", err)
	}
	want := `STOCK PORTFOLIO TRACKER RESULTS
========================================
Generated on: 2025-01-02 03:04:05

PORTFOLIO DETAILS:
--------------------
Stock: AAPL
Quantity: 10
Price per share: $180.50
Total value: $1805.00
--------------------
Stock: TSLA
Quantity: 5
Price per share: $250.75
Total value: $1253.75
--------------------

TOTAL PORTFOLIO VALUE: $3058.75
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("EncodeText() mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeText_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeText(&buf, NewReport(NewPortfolio(), generated)); err != nil {
		t.Fatalf("EncodeText() error = %v", err)
	}
	if !strings.HasSuffix(buf.String(), "--------------------\n\nTOTAL PORTFOLIO VALUE: $0.00\n") {
		t.Errorf("EncodeText() = %q, want an empty details section and a zero total", buf.String())
	}
}

func TestEncodeCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeCSV(&buf, NewReport(samplePortfolio(), generated)); err != nil {
		t.Fatalf("EncodeCSV() error = %v", err)
	}
	want := "Stock Symbol,Quantity,Price per Share,Total Value\r\n" +
		"AAPL,10,180.50,1805.00\r\n" +
		"TSLA,5,250.75,1253.75\r\n" +
		",,TOTAL PORTFOLIO VALUE:,3058.75\r\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("EncodeCSV() mismatch (-want +got):\n%s", diff)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("cannot read back csv: %v", err)
	}
	wantTotal := []string{"", "", "TOTAL PORTFOLIO VALUE:", "3058.75"}
	if diff := cmp.Diff(wantTotal, records[len(records)-1]); diff != "" {
		t.Errorf("total record mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeCSV_RoundTrip(t *testing.T) {
	want := NewPortfolio(
		NewLineItem("AAPL", Q(10), USD(180.50)),
		NewLineItem("TSLA", Q(5), USD(250.75)),
		NewLineItem("AAPL", Q(3), USD(180.50)),
		NewLineItem("XYZ", Q(7), USD(0.01)),
	)
	var buf bytes.Buffer
	if err := EncodeCSV(&buf, NewReport(want, generated)); err != nil {
		t.Fatalf("EncodeCSV() error = %v", err)
	}

	got, total, err := DecodeCSV(&buf, "USD")
	if err != nil {
		t.Fatalf("DecodeCSV() error = %v", err)
	}
	if total.Fixed() != want.Total().Fixed() {
		t.Errorf("total = %s, want %s", total.Fixed(), want.Total().Fixed())
	}
	if got.Len() != want.Len() {
		t.Fatalf("Len() = %d, want %d", got.Len(), want.Len())
	}
	for i, w := range want.Items() {
		g := got.Items()[i]
		if g.Symbol() != w.Symbol() || !g.Quantity().Equal(w.Quantity()) ||
			g.Price().Fixed() != w.Price().Fixed() || g.Value().Fixed() != w.Value().Fixed() {
			t.Errorf("item %d = %s %v %s %s, want %s %v %s %s", i,
				g.Symbol(), g.Quantity(), g.Price().Fixed(), g.Value().Fixed(),
				w.Symbol(), w.Quantity(), w.Price().Fixed(), w.Value().Fixed())
		}
	}
}

func TestDecodeCSV_OtherCurrency(t *testing.T) {
	// amounts are written with two decimals whatever the currency fraction digits.
	prices, err := ImportPrices(strings.NewReader(`{"currency":"JPY","prices":{"AAPL":180.5}}`), "")
	if err != nil {
		t.Fatalf("ImportPrices() error = %v", err)
	}
	p := NewPortfolio()
	if _, err := p.Add(prices, "AAPL", Q(10)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	report := NewReport(p, generated)

	var text bytes.Buffer
	if err := EncodeText(&text, report); err != nil {
		t.Fatalf("EncodeText() error = %v", err)
	}
	for _, want := range []string{"Price per share: $180.50\n", "Total value: $1805.00\n", "TOTAL PORTFOLIO VALUE: $1805.00\n"} {
		if !strings.Contains(text.String(), want) {
			t.Errorf("EncodeText() does not contain %q:\n%s", want, text.String())
		}
	}

	var buf bytes.Buffer
	if err := EncodeCSV(&buf, report); err != nil {
		t.Fatalf("EncodeCSV() error = %v", err)
	}
	if !strings.Contains(buf.String(), "AAPL,10,180.50,1805.00\r\n") {
		t.Errorf("EncodeCSV() = %q, want two decimals amounts", buf.String())
	}
	got, total, err := DecodeCSV(&buf, "JPY")
	if err != nil {
		t.Fatalf("DecodeCSV() error = %v", err)
	}
	if want := M(1805, "JPY"); !total.Equal(want) {
		t.Errorf("total = %v, want %v", total.Fixed(), want.Fixed())
	}
	if price := got.Items()[0].Price(); !price.Equal(M(180.5, "JPY")) {
		t.Errorf("price = %s, want 180.50", price.Fixed())
	}
}

func TestDecodeCSV_SubCentPrices(t *testing.T) {
	// prices are written with two decimals, recomputed values may be off by a few cents.
	p := NewPortfolio(NewLineItem("XYZ", Q(7), USD(0.333)), NewLineItem("ABC", Q(3), USD(1.005)))
	var buf bytes.Buffer
	if err := EncodeCSV(&buf, NewReport(p, generated)); err != nil {
		t.Fatalf("EncodeCSV() error = %v", err)
	}
	got, total, err := DecodeCSV(&buf, "USD")
	if err != nil {
		t.Fatalf("DecodeCSV() error = %v", err)
	}
	if got.Len() != 2 {
		t.Errorf("Len() = %d, want 2", got.Len())
	}
	if total.Fixed() != p.Total().Fixed() {
		t.Errorf("total = %s, want %s", total.Fixed(), p.Total().Fixed())
	}
}

func TestDecodeCSV_Errors(t *testing.T) {
	const header = "Stock Symbol,Quantity,Price per Share,Total Value\n"
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"bad header", "Symbol,Qty,Price,Value\n,,TOTAL PORTFOLIO VALUE:,0.00\n"},
		{"missing total", header + "AAPL,10,180.50,1805.00\n"},
		{"bad quantity", header + "AAPL,ten,180.50,1805.00\n,,TOTAL PORTFOLIO VALUE:,1805.00\n"},
		{"bad price", header + "AAPL,10,abc,1805.00\n,,TOTAL PORTFOLIO VALUE:,1805.00\n"},
		{"wrong value", header + "AAPL,10,180.50,1800.00\n,,TOTAL PORTFOLIO VALUE:,1800.00\n"},
		{"wrong total", header + "AAPL,10,180.50,1805.00\n,,TOTAL PORTFOLIO VALUE:,1900.00\n"},
		{"empty symbol", header + ",10,180.50,1805.00\n,,TOTAL PORTFOLIO VALUE:,1805.00\n"},
		{"short record", header + "AAPL,10\n"},
		{"record after total", header + "AAPL,10,180.50,1805.00\n,,TOTAL PORTFOLIO VALUE:,1805.00\nTSLA,5,250.75,1253.75\n"},
		{"total twice", header + "AAPL,10,180.50,1805.00\n,,TOTAL PORTFOLIO VALUE:,1805.00\n,,TOTAL PORTFOLIO VALUE:,1805.00\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeCSV(strings.NewReader(tt.input), "USD")
			if !errors.Is(err, ErrInvalidReport) {
				t.Errorf("DecodeCSV() error = %v, want ErrInvalidReport", err)
			}
		})
	}
}

func TestReportFilename(t *testing.T) {
	if got, want := ReportFilename(generated, FormatText), "portfolio_results_20250102_030405.txt"; got != want {
		t.Errorf("ReportFilename() = %q, want %q", got, want)
	}
	if got, want := ReportFilename(generated, FormatCSV), "portfolio_results_20250102_030405.csv"; got != want {
		t.Errorf("ReportFilename() = %q, want %q", got, want)
	}
}

func TestParseReportFilename(t *testing.T) {
	want := time.Date(2025, time.January, 2, 3, 4, 5, 0, time.Local)
	for _, name := range []string{
		"portfolio_results_20250102_030405.txt",
		"portfolio_results_20250102_030405_2.csv",
		ReportFilename(want, FormatCSV),
	} {
		on, _, err := ParseReportFilename(name)
		if err != nil {
			t.Errorf("ParseReportFilename(%q) error = %v", name, err)
			continue
		}
		if !on.Equal(want) {
			t.Errorf("ParseReportFilename(%q) = %v, want %v", name, on, want)
		}
	}

	for _, name := range []string{"report.csv", "portfolio_results_2025.csv", "portfolio_results_20250102_030405.pdf"} {
		if _, _, err := ParseReportFilename(name); err == nil {
			t.Errorf("ParseReportFilename(%q) should fail", name)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"txt", "CSV", " csv "} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", s, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(\"xml\") should fail")
	}
}

func TestSaveReports(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")
	report := NewReport(samplePortfolio(), generated)

	filenames, err := SaveReports(dir, report, Formats...)
	if err != nil {
		t.Fatalf("SaveReports() error = %v", err)
	}
	want := []string{
		filepath.Join(dir, "portfolio_results_20250102_030405.txt"),
		filepath.Join(dir, "portfolio_results_20250102_030405.csv"),
	}
	if diff := cmp.Diff(want, filenames); diff != "" {
		t.Errorf("SaveReports() mismatch (-want +got):\n%s", diff)
	}

	content, err := os.ReadFile(filenames[0])
	if err != nil {
		t.Fatalf("cannot read saved report: %v", err)
	}
	if !strings.Contains(string(content), "TOTAL PORTFOLIO VALUE: $3058.75\n") {
		t.Errorf("saved report %q does not contain the total line", content)
	}

	// only the two reports are left, no temporary file.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("output directory has %d files, want 2", len(entries))
	}

	// reports are readable by everyone, unlike temporary files.
	for _, filename := range filenames {
		info, err := os.Stat(filename)
		if err != nil {
			t.Fatalf("Stat(%q) error = %v", filename, err)
		}
		if got := info.Mode().Perm(); got != 0644 {
			t.Errorf("%s mode = %v, want %v", filename, got, os.FileMode(0644))
		}
	}
}

func TestSaveReport_NeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	first := NewReport(samplePortfolio(), generated)
	second := NewReport(NewPortfolio(NewLineItem("AMD", Q(1), USD(85.30))), generated)

	name1, err := SaveReport(dir, first, FormatCSV)
	if err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}
	name2, err := SaveReport(dir, second, FormatCSV)
	if err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}
	if name1 == name2 {
		t.Fatalf("SaveReport() reused file name %q", name1)
	}
	if want := filepath.Join(dir, "portfolio_results_20250102_030405_2.csv"); name2 != want {
		t.Errorf("second report name = %q, want %q", name2, want)
	}

	content, err := os.ReadFile(name1)
	if err != nil {
		t.Fatalf("cannot read first report: %v", err)
	}
	if !strings.Contains(string(content), "3058.75") {
		t.Errorf("first report was overwritten: %q", content)
	}
}

func TestSaveReport_Failure(t *testing.T) {
	tmp := t.TempDir()

	// the output directory cannot be created over a regular file.
	blocker := filepath.Join(tmp, "output")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := SaveReport(blocker, NewReport(samplePortfolio(), generated), FormatText); err == nil {
		t.Error("SaveReport() into a file should fail")
	}

	// an encoding failure leaves nothing behind.
	dir := filepath.Join(tmp, "reports")
	if _, err := SaveReport(dir, NewReport(samplePortfolio(), generated), Format("xml")); err == nil {
		t.Error("SaveReport() with an unknown format should fail")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("failed save left %d files behind", len(entries))
	}
}
