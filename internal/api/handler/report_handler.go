package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/retailhq/sales-insights/internal/api/metrics"
	"github.com/retailhq/sales-insights/internal/core/ports"
)

// ReportHandler serves the dashboard aggregations.
type ReportHandler struct {
	reports ports.ReportService
}

func NewReportHandler(reports ports.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Summary returns the headline KPIs for the filtered table.
//
// @Summary      Key performance indicators
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        region   query  string  false  "Region filter, or All"
// @Param        product  query  string  false  "Product filter, or All"
// @Param        from     query  string  false  "Start date (YYYY-MM-DD, inclusive)"
// @Param        to       query  string  false  "End date (YYYY-MM-DD, inclusive)"
// @Success      200  {object}  domain.KPI
// @Router       /v1/reports/summary [get]
func (h *ReportHandler) Summary(c echo.Context) error {
	return serveReport(c, "summary", h.reports.Summary)
}

// TimeSeries returns daily revenue, ascending by date.
//
// @Summary      Revenue over time
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.TimePoint
// @Router       /v1/reports/timeseries [get]
func (h *ReportHandler) TimeSeries(c echo.Context) error {
	return serveReport(c, "timeseries", h.reports.TimeSeries)
}

// TopProducts returns products ranked by revenue, highest first.
//
// @Summary      Top selling products
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.ProductRevenue
// @Router       /v1/reports/top-products [get]
func (h *ReportHandler) TopProducts(c echo.Context) error {
	return serveReport(c, "top_products", h.reports.TopProducts)
}

// Matrix returns the region×product revenue pivot.
//
// @Summary      Region vs product revenue matrix
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.RevenueMatrix
// @Router       /v1/reports/matrix [get]
func (h *ReportHandler) Matrix(c echo.Context) error {
	return serveReport(c, "matrix", h.reports.Matrix)
}

// MonthlyTrend returns revenue and units grouped by calendar month.
//
// @Summary      Monthly trend
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.MonthPoint
// @Router       /v1/reports/monthly [get]
func (h *ReportHandler) MonthlyTrend(c echo.Context) error {
	return serveReport(c, "monthly", h.reports.MonthlyTrend)
}

// Correlation returns the Pearson correlation matrix of the numeric columns.
//
// @Summary      Correlation matrix
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.CorrelationMatrix
// @Router       /v1/reports/correlation [get]
func (h *ReportHandler) Correlation(c echo.Context) error {
	return serveReport(c, "correlation", h.reports.Correlation)
}

// serveReport runs one report with filter parsing, metrics, and JSON
// rendering shared across all report endpoints.
func serveReport[T any](c echo.Context, kind string, run func(ctx context.Context, f ports.ReportFilter) (T, error)) error {
	filter, err := parseReportFilter(c)
	if err != nil {
		return err
	}

	timer := prometheus.NewTimer(metrics.ReportDuration.WithLabelValues(kind))
	defer timer.ObserveDuration()

	result, err := run(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	metrics.ReportsComputedTotal.WithLabelValues(kind).Inc()
	return c.JSON(http.StatusOK, result)
}

// parseReportFilter reads the shared filter query parameters. "All" (any
// case) and absence both mean "no filter", matching the dashboard dropdowns.
func parseReportFilter(c echo.Context) (ports.ReportFilter, error) {
	var f ports.ReportFilter

	f.Region = dropdownValue(c.QueryParam("region"))
	f.Product = dropdownValue(c.QueryParam("product"))

	var err error
	if f.From, err = dateParam(c.QueryParam("from")); err != nil {
		return f, echo.NewHTTPError(http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
	}
	if f.To, err = dateParam(c.QueryParam("to")); err != nil {
		return f, echo.NewHTTPError(http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
	}
	return f, nil
}

func dropdownValue(v string) string {
	if strings.EqualFold(v, "All") {
		return ""
	}
	return v
}

func dateParam(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", v)
}
