package tracker

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/shopspring/decimal"
)

// csvHeader is the first record of a CSV report.
var csvHeader = []string{"Stock Symbol", "Quantity", "Price per Share", "Total Value"}

// csvTotalLabel is the label of the total in the last record of a CSV report.
const csvTotalLabel = "TOTAL PORTFOLIO VALUE:"

// EncodeCSV writes 'r' to 'w' as a CSV report.
//
// The report has a header record, one record per item, and a total record whose first two
// fields are empty. Amounts are written with two decimals.
func EncodeCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	records := make([][]string, 0, len(r.Items)+2)
	records = append(records, csvHeader)
	for _, item := range r.Items {
		records = append(records, []string{
			item.Symbol(),
			item.Quantity().String(),
			item.Price().Fixed(),
			item.Value().Fixed(),
		})
	}
	records = append(records, []string{"", "", csvTotalLabel, r.Total.Fixed()})

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("cannot write csv report: %w", err)
	}
	return nil
}

// DecodeCSV reads a CSV report from 'r', prices being in 'currency'.
//
// It returns the portfolio and the total recorded in the report. The report is checked for
// consistency: each item value must be its quantity times its price, and the recorded total
// must be the sum of the item values, up to the rounding of the amounts to two decimals.
func DecodeCSV(r io.Reader, currency string) (*Portfolio, Money, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, Money{}, fmt.Errorf("%w: empty report", ErrInvalidReport)
	}
	if err != nil {
		return nil, Money{}, fmt.Errorf("%w: %v", ErrInvalidReport, err)
	}
	if !slices.Equal(header, csvHeader) {
		return nil, Money{}, fmt.Errorf("%w: unexpected header %q", ErrInvalidReport, header)
	}

	p := NewPortfolio()
	tolerance := halfCent
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil, Money{}, fmt.Errorf("%w: missing total record", ErrInvalidReport)
		}
		if err != nil {
			return nil, Money{}, fmt.Errorf("%w: %v", ErrInvalidReport, err)
		}

		if record[0] == "" && record[1] == "" && record[2] == csvTotalLabel {
			total, err := ParseMoney(record[3], currency)
			if err != nil {
				return nil, Money{}, fmt.Errorf("%w: total: %v", ErrInvalidReport, err)
			}
			if !near(total, p.Total(), tolerance) {
				return nil, Money{}, fmt.Errorf("%w: recorded total %s is not the sum of the items %s", ErrInvalidReport, total.Fixed(), p.Total().Fixed())
			}
			// the total record is the last one.
			if _, err := cr.Read(); !errors.Is(err, io.EOF) {
				return nil, Money{}, fmt.Errorf("%w: records after the total", ErrInvalidReport)
			}
			return p, total, nil
		}

		item, err := decodeCSVItem(record, currency)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, Money{}, fmt.Errorf("%w: line %d: %v", ErrInvalidReport, line, err)
		}
		p.Append(item)
		tolerance = tolerance.Add(itemTolerance(item.Quantity()))
	}
}

// decodeCSVItem parses a single item record.
func decodeCSVItem(record []string, currency string) (LineItem, error) {
	if record[0] == "" {
		return LineItem{}, errors.New("empty symbol")
	}
	quantity, err := ParseQuantity(record[1])
	if err != nil {
		return LineItem{}, err
	}
	price, err := ParseMoney(record[2], currency)
	if err != nil {
		return LineItem{}, err
	}
	value, err := ParseMoney(record[3], currency)
	if err != nil {
		return LineItem{}, err
	}
	item := NewLineItem(record[0], quantity, price)
	if !near(value, item.Value(), itemTolerance(quantity)) {
		return LineItem{}, fmt.Errorf("value %s of %s is not %s x %s", value.Fixed(), item.Symbol(), quantity, price.Fixed())
	}
	return item, nil
}

// halfCent is the largest rounding error of an amount written with two decimals.
var halfCent = decimal.New(5, -3)

// itemTolerance is the largest difference between the value recorded for 'quantity' shares
// and the value recomputed from the recorded price, both being rounded.
func itemTolerance(quantity Quantity) decimal.Decimal {
	return halfCent.Mul(quantity.value).Add(halfCent)
}

// near returns true if a and b differ by at most 'tolerance'.
func near(a, b Money, tolerance decimal.Decimal) bool {
	return a.value.Sub(b.value).Abs().LessThanOrEqual(tolerance)
}
