package tracker

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
	"time"
)

//go:embed templates/*.txt
var templates embed.FS

// reportText is the plain text report template.
var reportText = template.Must(template.ParseFS(templates, "templates/report.txt"))

// ErrInvalidReport is returned when a report cannot be decoded.
var ErrInvalidReport = errors.New("invalid report")

// Report is a view of a portfolio at a given time, ready to be encoded.
type Report struct {
	Items     []LineItem
	Total     Money
	Generated time.Time
}

// NewReport creates a Report for 'p' generated at 'on'.
func NewReport(p *Portfolio, on time.Time) *Report {
	items := p.Items()
	return &Report{
		Items:     items,
		Total:     Total(items),
		Generated: on,
	}
}

// Format identifies a report file encoding, it is also the file extension.
type Format string

const (
	FormatText Format = "txt"
	FormatCSV  Format = "csv"
)

// Formats lists all supported report formats.
var Formats = []Format{FormatText, FormatCSV}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("unknown report format %q, want one of %q", s, Formats)
}

// Encode writes 'r' to 'w' in format 'f'.
func (f Format) Encode(w io.Writer, r *Report) error {
	switch f {
	case FormatText:
		return EncodeText(w, r)
	case FormatCSV:
		return EncodeCSV(w, r)
	}
	return fmt.Errorf("unknown report format %q", string(f))
}

// EncodeText writes 'r' to 'w' as a plain text report.
func EncodeText(w io.Writer, r *Report) error {
	if err := reportText.Execute(w, r); err != nil {
		return fmt.Errorf("cannot write text report: %w", err)
	}
	return nil
}

// reportFilePrefix is the common prefix of all report file names.
const reportFilePrefix = "portfolio_results_"

// ReportFilename returns the report file name for a report generated 'on' in format 'f'.
func ReportFilename(on time.Time, f Format) string {
	return reportFilePrefix + on.Format("20060102_150405") + "." + string(f)
}

// ParseReportFilename extracts the generation time and the format from a report file name
// returned by ReportFilename or SaveReport. The time is in the local time zone.
func ParseReportFilename(name string) (time.Time, Format, error) {
	ext := filepath.Ext(name)
	f, err := ParseFormat(strings.TrimPrefix(ext, "."))
	if err != nil {
		return time.Time{}, "", err
	}
	stamp, found := strings.CutPrefix(strings.TrimSuffix(name, ext), reportFilePrefix)
	if !found {
		return time.Time{}, "", fmt.Errorf("%q is not a report file name", name)
	}
	const layout = "20060102_150405"
	// drop the numbered suffix added to avoid collisions.
	if len(stamp) > len(layout) && stamp[len(layout)] == '_' {
		stamp = stamp[:len(layout)]
	}
	on, err := time.ParseInLocation(layout, stamp, time.Local)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%q is not a report file name: %w", name, err)
	}
	return on, f, nil
}

// SaveReport writes 'r' in format 'f' into a new file in 'dir', and returns its path.
//
// 'dir' is created if needed. The file name is based on the report generation time, an
// existing file is never replaced: a numbered suffix is added to the name instead.
//
// The report is first written to a temporary file, and only published under its final name
// once complete. On error, no report file is left in 'dir'.
func SaveReport(dir string, r *Report, f Format) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("cannot create output directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+reportFilePrefix+"*.tmp")
	if err != nil {
		return "", fmt.Errorf("cannot create report file in %q: %w", dir, err)
	}
	// the temporary file is always removed, once published it is also reachable under its final name.
	defer os.Remove(tmp.Name())

	if err := f.Encode(tmp, r); err != nil {
		tmp.Close()
		return "", err
	}
	// temporary files are private, reports are not.
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("cannot write report file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("cannot write report file: %w", err)
	}
	return publish(tmp.Name(), dir, ReportFilename(r.Generated, f))
}

// publish links 'tmp' under 'name' in 'dir', or a numbered variant if 'name' is taken.
func publish(tmp, dir, name string) (string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := name
		if i > 1 {
			candidate = base + "_" + strconv.Itoa(i) + ext
		}
		filename := filepath.Join(dir, candidate)
		err := os.Link(tmp, filename)
		if err == nil {
			return filename, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("cannot publish report %q: %w", filename, err)
		}
	}
}

// SaveReports saves 'r' in each of 'formats' into 'dir', and returns the file names.
// It stops at the first error.
func SaveReports(dir string, r *Report, formats ...Format) ([]string, error) {
	filenames := make([]string, 0, len(formats))
	for _, f := range formats {
		filename, err := SaveReport(dir, r, f)
		if err != nil {
			return filenames, err
		}
		filenames = append(filenames, filename)
	}
	return filenames, nil
}
