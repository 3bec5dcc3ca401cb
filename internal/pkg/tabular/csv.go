// Package tabular reads and writes the CSV form of the sales table.
//
// Uploads are tolerated leniently: UTF-8 (with or without BOM) is taken as
// is, anything that is not valid UTF-8 is reinterpreted as Latin-1, which
// accepts every byte sequence. Exports are always UTF-8, comma-delimited,
// with a header row.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/retailhq/sales-insights/internal/core/domain"
)

var ErrNoHeader = errors.New("csv file has no header row")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode parses CSV input into a raw table: the header row becomes the column
// list, every following row a string record. Ragged rows are permitted; the
// ingestion pipeline pads or truncates them against the header.
func Decode(r io.Reader) (domain.RawTable, error) {
	var table domain.RawTable

	raw, err := io.ReadAll(r)
	if err != nil {
		return table, fmt.Errorf("read csv: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	if !utf8.Valid(raw) {
		raw, err = charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return table, fmt.Errorf("decode csv encoding: %w", err)
		}
	}

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.FieldsPerRecord = -1 // ragged rows tolerated
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return table, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return table, ErrNoHeader
	}

	table.Columns = rows[0]
	table.Rows = rows[1:]
	return table, nil
}

// Encode writes records as CSV. Typed columns come first, then every extra
// column in first-seen order, so an exported table re-ingests cleanly.
func Encode(w io.Writer, records []domain.SalesRecord) error {
	extras := extraColumnOrder(records)

	header := []string{domain.ColDate, domain.ColProduct, domain.ColRegion, domain.ColUnitsSold, domain.ColRevenue}
	header = append(header, extras...)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, 0, len(header))
	for _, rec := range records {
		row = row[:0]
		row = append(row,
			rec.Date.Format("2006-01-02"),
			rec.Product,
			rec.Region,
			fmt.Sprintf("%d", rec.UnitsSold),
			rec.Revenue.String(),
		)
		for _, name := range extras {
			v, _ := rec.Extra.Get(name)
			row = append(row, v)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func extraColumnOrder(records []domain.SalesRecord) []string {
	var order []string
	seen := make(map[string]struct{})
	for _, rec := range records {
		for _, c := range rec.Extra {
			if _, ok := seen[c.Name]; !ok {
				seen[c.Name] = struct{}{}
				order = append(order, c.Name)
			}
		}
	}
	return order
}
