package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/retailhq/sales-insights/internal/core/domain"
	"github.com/retailhq/sales-insights/internal/core/ports"
)

type stubIngestService struct {
	gotTable  domain.RawTable
	ingested  int
	ingestErr error
	cleared   bool
	clearErr  error
}

func (s *stubIngestService) Ingest(_ context.Context, table domain.RawTable) (int, error) {
	s.gotTable = table
	if s.ingestErr != nil {
		return 0, s.ingestErr
	}
	s.ingested = len(table.Rows)
	return s.ingested, nil
}

func (s *stubIngestService) Clear(_ context.Context) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	s.cleared = true
	return nil
}

// stubReportService serves canned records; Filtered applies the region filter
// only, which is enough for handler-level tests.
type stubReportService struct {
	records []domain.SalesRecord
	err     error
}

func (s *stubReportService) Load(context.Context) ([]domain.SalesRecord, error) {
	return s.records, s.err
}

func (s *stubReportService) Filtered(_ context.Context, f ports.ReportFilter) ([]domain.SalesRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	if f.Region == "" {
		return s.records, nil
	}
	var out []domain.SalesRecord
	for _, r := range s.records {
		if r.Region == f.Region {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubReportService) Summary(context.Context, ports.ReportFilter) (domain.KPI, error) {
	kpi := domain.KPI{TotalRevenue: decimal.Zero}
	for _, r := range s.records {
		kpi.TotalRevenue = kpi.TotalRevenue.Add(r.Revenue)
		kpi.TotalUnits += r.UnitsSold
	}
	return kpi, s.err
}

func (s *stubReportService) TimeSeries(context.Context, ports.ReportFilter) ([]domain.TimePoint, error) {
	return nil, s.err
}

func (s *stubReportService) TopProducts(context.Context, ports.ReportFilter) ([]domain.ProductRevenue, error) {
	return nil, s.err
}

func (s *stubReportService) Matrix(context.Context, ports.ReportFilter) (domain.RevenueMatrix, error) {
	return domain.RevenueMatrix{}, s.err
}

func (s *stubReportService) MonthlyTrend(context.Context, ports.ReportFilter) ([]domain.MonthPoint, error) {
	return nil, s.err
}

func (s *stubReportService) Correlation(context.Context, ports.ReportFilter) (domain.CorrelationMatrix, error) {
	return domain.CorrelationMatrix{}, s.err
}

func salesFixture() []domain.SalesRecord {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return []domain.SalesRecord{
		{Date: date, Product: "Widget A", Region: "East", UnitsSold: 10, Revenue: decimal.NewFromInt(100)},
		{Date: date.AddDate(0, 0, 1), Product: "Widget B", Region: "West", UnitsSold: 5, Revenue: decimal.NewFromInt(50)},
	}
}

func multipartCSV(t *testing.T, csv string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "sales.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(csv)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestSalesHandler_Upload_Multipart(t *testing.T) {
	ingest := &stubIngestService{}
	h := NewSalesHandler(ingest, &stubReportService{})

	body, contentType := multipartCSV(t, "date,product\n2024-06-01,Widget A\n")
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/sales/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Upload(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if len(ingest.gotTable.Rows) != 1 || ingest.gotTable.Columns[0] != "date" {
		t.Fatalf("table not passed through: %+v", ingest.gotTable)
	}

	var resp uploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.RowsIngested != 1 {
		t.Fatalf("expected 1 row ingested, got %d", resp.RowsIngested)
	}
}

func TestSalesHandler_Upload_RawBody(t *testing.T) {
	ingest := &stubIngestService{}
	h := NewSalesHandler(ingest, &stubReportService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/sales/upload", strings.NewReader("date,product\n2024-06-01,Widget A\n"))
	req.Header.Set(echo.HeaderContentType, "text/csv")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Upload(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestSalesHandler_Upload_IngestErrorPassthrough(t *testing.T) {
	ingest := &stubIngestService{ingestErr: domain.ErrMissingColumn}
	h := NewSalesHandler(ingest, &stubReportService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/sales/upload", strings.NewReader("product\nWidget A\n"))
	req.Header.Set(echo.HeaderContentType, "text/csv")
	c := e.NewContext(req, httptest.NewRecorder())

	if err := h.Upload(c); !errors.Is(err, domain.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn passthrough, got %v", err)
	}
}

func TestSalesHandler_List(t *testing.T) {
	h := NewSalesHandler(&stubIngestService{}, &stubReportService{records: salesFixture()})

	c, rec := newTestContext(http.MethodGet, "/v1/sales", "")
	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp listSalesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Count != 2 || len(resp.Data) != 2 {
		t.Fatalf("unexpected response: count=%d data=%d", resp.Count, len(resp.Data))
	}
}

func TestSalesHandler_List_EmptyStore(t *testing.T) {
	h := NewSalesHandler(&stubIngestService{}, &stubReportService{})

	c, rec := newTestContext(http.MethodGet, "/v1/sales", "")
	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Fatalf("empty store must serialize as empty array: %s", rec.Body.String())
	}
}

func TestSalesHandler_Export_FullTable(t *testing.T) {
	h := NewSalesHandler(&stubIngestService{}, &stubReportService{records: salesFixture()})

	c, rec := newTestContext(http.MethodGet, "/v1/sales/export", "")
	if err := h.Export(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	disposition := rec.Header().Get(echo.HeaderContentDisposition)
	if !strings.Contains(disposition, "sales_data.csv") {
		t.Fatalf("unexpected disposition: %q", disposition)
	}
	if !strings.HasPrefix(rec.Body.String(), "date,product,region,units_sold,revenue") {
		t.Fatalf("unexpected csv header: %q", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Widget A") {
		t.Fatal("records missing from export")
	}
}

func TestSalesHandler_Export_Filtered(t *testing.T) {
	h := NewSalesHandler(&stubIngestService{}, &stubReportService{records: salesFixture()})

	c, rec := newTestContext(http.MethodGet, "/v1/sales/export?region=East", "")
	if err := h.Export(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	disposition := rec.Header().Get(echo.HeaderContentDisposition)
	if !strings.Contains(disposition, "filtered_sales.csv") {
		t.Fatalf("unexpected disposition: %q", disposition)
	}
	if strings.Contains(rec.Body.String(), "Widget B") {
		t.Fatal("filtered export leaked other regions")
	}
}

func TestSalesHandler_Export_AllIsNoFilter(t *testing.T) {
	h := NewSalesHandler(&stubIngestService{}, &stubReportService{records: salesFixture()})

	c, rec := newTestContext(http.MethodGet, "/v1/sales/export?region=All&product=All", "")
	if err := h.Export(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Header().Get(echo.HeaderContentDisposition), "sales_data.csv") {
		t.Fatalf(`"All" must behave as no filter: %q`, rec.Header().Get(echo.HeaderContentDisposition))
	}
}

func TestSalesHandler_Clear(t *testing.T) {
	ingest := &stubIngestService{}
	h := NewSalesHandler(ingest, &stubReportService{})

	c, rec := newTestContext(http.MethodDelete, "/v1/sales", "")
	if err := h.Clear(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !ingest.cleared {
		t.Fatal("clear not delegated to service")
	}
}
