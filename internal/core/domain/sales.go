package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrMissingColumn = errors.New("required column missing")
var ErrBadDate = errors.New("unparseable date value")
var ErrEmptyBatch = errors.New("empty batch")

// Known column names after header normalization (trim + lower-case).
const (
	ColDate      = "date"
	ColProduct   = "product"
	ColRegion    = "region"
	ColUnitsSold = "units_sold"
	ColRevenue   = "revenue"
)

// ExtraColumn is one cell of a column the schema does not know about.
// Uploaded files may carry arbitrary columns beyond the typed ones; they are
// kept verbatim, in upload order, so exports round-trip.
type ExtraColumn struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ExtraColumns preserves insertion order, unlike a map.
type ExtraColumns []ExtraColumn

// Get returns the value for name and whether it is present.
func (e ExtraColumns) Get(name string) (string, bool) {
	for _, c := range e {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// RawTable is an uploaded table before validation: normalized column names
// plus string cells, row-major. Rows are expected to have len(Columns) cells.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// SalesRecord is a single sales transaction. Records are append-only: they
// are created in bulk by ingestion and never updated, the only destructive
// operation is a full-table clear.
type SalesRecord struct {
	ID        uint            `json:"id"`
	Date      time.Time       `json:"date"`
	Product   string          `json:"product"`
	Region    string          `json:"region"`
	UnitsSold int64           `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
	Extra     ExtraColumns    `json:"extra,omitempty"`
}
