package ports

import (
	"context"
	"time"

	"github.com/retailhq/sales-insights/internal/core/domain"
)

// ReportFilter narrows a report to a region, a product and/or a date range.
// Zero values mean "no filter"; the date range is inclusive on both ends.
type ReportFilter struct {
	Region  string
	Product string
	From    time.Time
	To      time.Time
}

// ReportService derives read-only views of the sales table. Every operation
// on an empty table returns empty or zero results, never an error.
type ReportService interface {
	Load(ctx context.Context) ([]domain.SalesRecord, error)
	Filtered(ctx context.Context, f ReportFilter) ([]domain.SalesRecord, error)
	Summary(ctx context.Context, f ReportFilter) (domain.KPI, error)
	TimeSeries(ctx context.Context, f ReportFilter) ([]domain.TimePoint, error)
	TopProducts(ctx context.Context, f ReportFilter) ([]domain.ProductRevenue, error)
	Matrix(ctx context.Context, f ReportFilter) (domain.RevenueMatrix, error)
	MonthlyTrend(ctx context.Context, f ReportFilter) ([]domain.MonthPoint, error)
	Correlation(ctx context.Context, f ReportFilter) (domain.CorrelationMatrix, error)
}
