package ports

import (
	"context"

	"github.com/retailhq/sales-insights/internal/core/domain"
)

// IngestService validates and appends uploaded tabular data.
type IngestService interface {
	// Ingest validates the whole batch before anything is written: a missing
	// date column or a single unparseable date rejects every row. Returns the
	// number of rows appended.
	Ingest(ctx context.Context, table domain.RawTable) (int, error)
	Clear(ctx context.Context) error
}
