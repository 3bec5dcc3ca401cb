package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"github.com/retailhq/sales-insights/internal/core/domain"
	"github.com/retailhq/sales-insights/internal/core/ports"
)

// ReportCache abstracts the optional report memoization store (Redis). Keys
// are content hashes, so a stale entry can only exist for a table state that
// no longer occurs; entries also expire on their own.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
}

type ReportService struct {
	repo   ports.SalesRepository
	cache  ReportCache // nil disables memoization
	logger zerolog.Logger
}

func NewReportService(repo ports.SalesRepository, cache ReportCache, logger zerolog.Logger) *ReportService {
	return &ReportService{repo: repo, cache: cache, logger: logger}
}

// Load returns all sales records. An empty or unreachable store yields an
// empty table rather than an error.
func (s *ReportService) Load(ctx context.Context) ([]domain.SalesRecord, error) {
	records, err := s.repo.LoadAll(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("sales store unreachable, reporting over empty table")
		return nil, nil
	}
	return records, nil
}

// Filtered returns the records matching f.
func (s *ReportService) Filtered(ctx context.Context, f ports.ReportFilter) ([]domain.SalesRecord, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return FilterRecords(records, f), nil
}

func (s *ReportService) Summary(ctx context.Context, f ports.ReportFilter) (domain.KPI, error) {
	return runReport(ctx, s, "summary", f, Summarize)
}

func (s *ReportService) TimeSeries(ctx context.Context, f ports.ReportFilter) ([]domain.TimePoint, error) {
	return runReport(ctx, s, "timeseries", f, TimeSeries)
}

func (s *ReportService) TopProducts(ctx context.Context, f ports.ReportFilter) ([]domain.ProductRevenue, error) {
	return runReport(ctx, s, "top_products", f, TopProducts)
}

func (s *ReportService) Matrix(ctx context.Context, f ports.ReportFilter) (domain.RevenueMatrix, error) {
	return runReport(ctx, s, "matrix", f, RegionProductMatrix)
}

func (s *ReportService) MonthlyTrend(ctx context.Context, f ports.ReportFilter) ([]domain.MonthPoint, error) {
	return runReport(ctx, s, "monthly", f, MonthlyTrend)
}

func (s *ReportService) Correlation(ctx context.Context, f ports.ReportFilter) (domain.CorrelationMatrix, error) {
	return runReport(ctx, s, "correlation", f, CorrelationMatrix)
}

// runReport loads, filters, and computes one report, consulting the cache
// when one is configured. Cache errors degrade to a plain compute.
func runReport[T any](ctx context.Context, s *ReportService, kind string, f ports.ReportFilter, compute func([]domain.SalesRecord) T) (T, error) {
	var zero T

	records, err := s.Filtered(ctx, f)
	if err != nil {
		return zero, err
	}

	if s.cache == nil {
		return compute(records), nil
	}

	key := reportKey(kind, records)
	if payload, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var cachedResult T
		if err := json.Unmarshal(payload, &cachedResult); err == nil {
			return cachedResult, nil
		}
	}

	result := compute(records)
	if payload, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, payload); err != nil {
			s.logger.Debug().Err(err).Str("report", kind).Msg("report cache write failed")
		}
	}
	return result, nil
}

// reportKey derives a cache key from the report kind and a content hash of
// the filtered records, so any change to the underlying rows changes the key.
func reportKey(kind string, records []domain.SalesRecord) string {
	h := xxhash.New()
	for _, r := range records {
		_, _ = h.WriteString(r.Date.Format("2006-01-02"))
		_, _ = h.WriteString(r.Product)
		_, _ = h.WriteString(r.Region)
		_, _ = h.WriteString(fmt.Sprintf("|%d|%s", r.UnitsSold, r.Revenue.String()))
		for _, e := range r.Extra {
			_, _ = h.WriteString("|" + e.Name + "=" + e.Value)
		}
		_, _ = h.WriteString("\n")
	}
	return fmt.Sprintf("report:%s:%x", kind, h.Sum64())
}
