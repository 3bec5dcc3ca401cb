package tabular

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailhq/sales-insights/internal/core/domain"
)

func TestDecode_Simple(t *testing.T) {
	in := "date,product,revenue\n2024-06-01,Widget A,100\n2024-06-02,Widget B,50\n"

	table, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Columns) != 3 || table.Columns[1] != "product" {
		t.Fatalf("unexpected columns: %v", table.Columns)
	}
	if len(table.Rows) != 2 || table.Rows[1][1] != "Widget B" {
		t.Fatalf("unexpected rows: %v", table.Rows)
	}
}

func TestDecode_StripsBOM(t *testing.T) {
	in := append([]byte{0xEF, 0xBB, 0xBF}, []byte("date,product\n2024-06-01,Widget A\n")...)

	table, err := Decode(bytes.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Columns[0] != "date" {
		t.Fatalf("BOM leaked into header: %q", table.Columns[0])
	}
}

func TestDecode_Latin1Fallback(t *testing.T) {
	// "Café" with an ISO-8859-1 é (0xE9), not valid UTF-8
	in := []byte("product,region\nCaf\xe9,East\n")

	table, err := Decode(bytes.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Rows[0][0] != "Café" {
		t.Fatalf("latin-1 cell mangled: %q", table.Rows[0][0])
	}
}

func TestDecode_RaggedRows(t *testing.T) {
	in := "date,product,revenue\n2024-06-01,Widget A\n2024-06-02,Widget B,50,extra\n"

	table, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ragged rows must be tolerated: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
}

func TestDecode_Empty(t *testing.T) {
	if _, err := Decode(strings.NewReader("")); !errors.Is(err, ErrNoHeader) {
		t.Fatalf("expected ErrNoHeader, got %v", err)
	}
}

func TestEncode_HeaderAndExtras(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	records := []domain.SalesRecord{
		{
			Date: date, Product: "Widget A", Region: "East",
			UnitsSold: 10, Revenue: decimal.RequireFromString("100.50"),
			Extra: domain.ExtraColumns{{Name: "channel", Value: "online"}},
		},
		{
			Date: date.AddDate(0, 0, 1), Product: "Widget B", Region: "West",
			UnitsSold: 5, Revenue: decimal.NewFromInt(50),
			Extra: domain.ExtraColumns{
				{Name: "channel", Value: "retail"},
				{Name: "discount", Value: "0.1"},
			},
		},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "date,product,region,units_sold,revenue,channel,discount" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != "2024-06-01,Widget A,East,10,100.50,online," {
		t.Fatalf("unexpected first row: %q", lines[1])
	}
	if lines[2] != "2024-06-02,Widget B,West,5,50,retail,0.1" {
		t.Fatalf("unexpected second row: %q", lines[2])
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	records := []domain.SalesRecord{
		{Date: date, Product: "Widget, with comma", Region: "East", UnitsSold: 1, Revenue: decimal.NewFromInt(9)},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, records); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	table, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if table.Rows[0][1] != "Widget, with comma" {
		t.Fatalf("quoting broken: %q", table.Rows[0][1])
	}
}
