package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/retailhq/sales-insights/internal/core/domain"
	"github.com/retailhq/sales-insights/internal/core/ports"
)

type stubCache struct {
	store map[string][]byte
	gets  int
	sets  int
	err   error
}

func newStubCache() *stubCache {
	return &stubCache{store: make(map[string][]byte)}
}

func (c *stubCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.gets++
	if c.err != nil {
		return nil, false, c.err
	}
	payload, ok := c.store[key]
	return payload, ok, nil
}

func (c *stubCache) Set(_ context.Context, key string, payload []byte) error {
	c.sets++
	if c.err != nil {
		return c.err
	}
	c.store[key] = payload
	return nil
}

func TestReportService_Summary_NoCache(t *testing.T) {
	repo := &stubSalesRepo{records: fixtureRecords()}
	svc := NewReportService(repo, nil, discardLogger)

	kpi, err := svc.Summary(context.Background(), ports.ReportFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !kpi.TotalRevenue.Equal(decimal.RequireFromString("425.50")) {
		t.Fatalf("unexpected total revenue: %s", kpi.TotalRevenue)
	}
}

func TestReportService_Summary_CacheMissThenHit(t *testing.T) {
	repo := &stubSalesRepo{records: fixtureRecords()}
	cache := newStubCache()
	svc := NewReportService(repo, cache, discardLogger)

	first, err := svc.Summary(context.Background(), ports.ReportFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache write after miss, got %d", cache.sets)
	}

	second, err := svc.Summary(context.Background(), ports.ReportFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("hit must not rewrite cache, got %d writes", cache.sets)
	}
	if !first.TotalRevenue.Equal(second.TotalRevenue) || first.TotalUnits != second.TotalUnits {
		t.Fatalf("cached result diverged: %+v vs %+v", first, second)
	}
}

func TestReportService_KeyChangesWithData(t *testing.T) {
	repo := &stubSalesRepo{records: fixtureRecords()}
	cache := newStubCache()
	svc := NewReportService(repo, cache, discardLogger)

	if _, err := svc.Summary(context.Background(), ports.ReportFilter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo.records = append(repo.records, rec("2024-08-01", "Widget D", "North", 4, "40"))
	kpi, err := svc.Summary(context.Background(), ports.ReportFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !kpi.TotalRevenue.Equal(decimal.RequireFromString("465.50")) {
		t.Fatalf("stale result served after data change: %s", kpi.TotalRevenue)
	}
	if len(cache.store) != 2 {
		t.Fatalf("expected distinct keys per table state, got %d entries", len(cache.store))
	}
}

func TestReportService_CacheErrorDegradesToCompute(t *testing.T) {
	repo := &stubSalesRepo{records: fixtureRecords()}
	cache := newStubCache()
	cache.err = errors.New("redis down")
	svc := NewReportService(repo, cache, discardLogger)

	kpi, err := svc.Summary(context.Background(), ports.ReportFilter{})
	if err != nil {
		t.Fatalf("cache failure must not fail the report: %v", err)
	}
	if !kpi.TotalRevenue.Equal(decimal.RequireFromString("425.50")) {
		t.Fatalf("unexpected total revenue: %s", kpi.TotalRevenue)
	}
}

func TestReportService_CorruptCacheEntryIgnored(t *testing.T) {
	repo := &stubSalesRepo{records: fixtureRecords()}
	cache := newStubCache()
	svc := NewReportService(repo, cache, discardLogger)

	// prime, then corrupt the stored payload
	if _, err := svc.Summary(context.Background(), ports.ReportFilter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for k := range cache.store {
		cache.store[k] = []byte("{not json")
	}

	kpi, err := svc.Summary(context.Background(), ports.ReportFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !kpi.TotalRevenue.Equal(decimal.RequireFromString("425.50")) {
		t.Fatalf("corrupt entry was trusted: %s", kpi.TotalRevenue)
	}
}

func TestReportService_UnreachableStoreYieldsEmptyReports(t *testing.T) {
	repo := &stubSalesRepo{loadErr: errors.New("disk gone")}
	svc := NewReportService(repo, nil, discardLogger)

	kpi, err := svc.Summary(context.Background(), ports.ReportFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !kpi.TotalRevenue.Equal(decimal.Zero) || kpi.TotalUnits != 0 {
		t.Fatalf("expected zero KPIs over unreachable store, got %+v", kpi)
	}

	points, err := svc.TimeSeries(context.Background(), ports.ReportFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 0 {
		t.Fatalf("expected empty series, got %d points", len(points))
	}
}

func TestReportService_FilteredSummary(t *testing.T) {
	repo := &stubSalesRepo{records: fixtureRecords()}
	svc := NewReportService(repo, nil, discardLogger)

	kpi, err := svc.Summary(context.Background(), ports.ReportFilter{Region: "West"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !kpi.TotalRevenue.Equal(decimal.NewFromInt(200)) || kpi.TotalUnits != 8 {
		t.Fatalf("unexpected filtered KPIs: %+v", kpi)
	}
}

func TestReportService_CachedPayloadIsJSON(t *testing.T) {
	repo := &stubSalesRepo{records: fixtureRecords()}
	cache := newStubCache()
	svc := NewReportService(repo, cache, discardLogger)

	if _, err := svc.TopProducts(context.Background(), ports.ReportFilter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, payload := range cache.store {
		var decoded []domain.ProductRevenue
		if err := json.Unmarshal(payload, &decoded); err != nil {
			t.Fatalf("cache payload not valid JSON: %v", err)
		}
	}
}
