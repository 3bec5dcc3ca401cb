package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/retailhq/sales-insights/internal/core/domain"
	"github.com/retailhq/sales-insights/internal/core/ports"
)

// dateLayouts are tried in order when parsing the date column. Uploaded files
// come from spreadsheets, so a few regional formats are tolerated.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
}

type IngestService struct {
	repo   ports.SalesRepository
	logger zerolog.Logger
}

func NewIngestService(repo ports.SalesRepository, logger zerolog.Logger) *IngestService {
	return &IngestService{repo: repo, logger: logger}
}

// Ingest validates and appends one uploaded table. Validation runs over the
// whole batch before the first write, so a failing batch leaves the store
// untouched: no partial insert is ever visible to readers.
func (s *IngestService) Ingest(ctx context.Context, table domain.RawTable) (int, error) {
	if len(table.Rows) == 0 {
		return 0, domain.ErrEmptyBatch
	}

	cols := normalizeColumns(table.Columns)
	dateIdx := indexOf(cols, domain.ColDate)
	if dateIdx < 0 {
		return 0, fmt.Errorf("%w: %s", domain.ErrMissingColumn, domain.ColDate)
	}

	records := make([]domain.SalesRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		rec, err := buildRecord(cols, dateIdx, row)
		if err != nil {
			s.logger.Warn().Int("row", i+1).Err(err).Msg("upload rejected")
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, rec)
	}

	if err := s.repo.AppendBatch(ctx, records); err != nil {
		s.logger.Error().Err(err).Int("rows", len(records)).Msg("failed to append batch")
		return 0, err
	}

	s.logger.Info().Int("rows", len(records)).Msg("batch ingested")
	return len(records), nil
}

// Clear deletes all sales records unconditionally.
func (s *IngestService) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to clear sales store")
		return err
	}
	s.logger.Info().Msg("sales store cleared")
	return nil
}

func buildRecord(cols []string, dateIdx int, row []string) (domain.SalesRecord, error) {
	var rec domain.SalesRecord

	date, err := parseDate(cell(row, dateIdx))
	if err != nil {
		return rec, err
	}
	rec.Date = date

	for i, name := range cols {
		if i == dateIdx {
			continue
		}
		v := strings.TrimSpace(cell(row, i))
		switch name {
		case domain.ColProduct:
			rec.Product = v
		case domain.ColRegion:
			rec.Region = v
		case domain.ColUnitsSold:
			// lenient: a blank or non-numeric cell counts as zero units
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				rec.UnitsSold = n
			}
		case domain.ColRevenue:
			if d, err := decimal.NewFromString(v); err == nil {
				rec.Revenue = d
			}
		default:
			rec.Extra = append(rec.Extra, domain.ExtraColumn{Name: name, Value: v})
		}
	}
	return rec, nil
}

func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrBadDate, v)
}

// normalizeColumns trims whitespace and lower-cases each header so lookups
// are case/whitespace-insensitive.
func normalizeColumns(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = strings.ToLower(strings.TrimSpace(c))
	}
	return out
}

func indexOf(cols []string, name string) int {
	for i, c := range cols {
		if c == name {
			return i
		}
	}
	return -1
}

// cell guards against short rows from sloppy CSV files.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
