package ports

import (
	"context"

	"github.com/retailhq/sales-insights/internal/core/domain"
)

// SalesRepository persists the append-only sales table.
type SalesRepository interface {
	// AppendBatch inserts all records or none.
	AppendBatch(ctx context.Context, records []domain.SalesRecord) error
	// LoadAll returns every stored record. An empty or unreachable store
	// yields an empty slice, not an error.
	LoadAll(ctx context.Context) ([]domain.SalesRecord, error)
	Count(ctx context.Context) (int64, error)
	// Clear deletes every row. Irreversible.
	Clear(ctx context.Context) error
}
