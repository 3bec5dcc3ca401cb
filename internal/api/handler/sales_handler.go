package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retailhq/sales-insights/internal/api/metrics"
	"github.com/retailhq/sales-insights/internal/core/domain"
	"github.com/retailhq/sales-insights/internal/core/ports"
	"github.com/retailhq/sales-insights/internal/pkg/tabular"
)

// SalesHandler handles upload, viewing, export, and clearing of sales data.
type SalesHandler struct {
	ingest  ports.IngestService
	reports ports.ReportService
}

func NewSalesHandler(ingest ports.IngestService, reports ports.ReportService) *SalesHandler {
	return &SalesHandler{ingest: ingest, reports: reports}
}

type uploadResponse struct {
	RowsIngested int `json:"rows_ingested"`
}

type listSalesResponse struct {
	Data  []domain.SalesRecord `json:"data"`
	Count int                  `json:"count"`
}

// Upload ingests a CSV file. The file goes in the "file" multipart field, or
// as the raw request body for text/csv uploads. The whole batch is accepted
// or rejected; a rejected batch leaves the store unchanged.
//
// @Summary      Upload a sales CSV file
// @Tags         sales
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  false  "CSV file with a header row containing a date column"
// @Success      201   {object}  uploadResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/sales/upload [post]
func (h *SalesHandler) Upload(c echo.Context) error {
	body, err := uploadBody(c)
	if err != nil {
		metrics.UploadErrorsTotal.WithLabelValues("decode").Inc()
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "no csv payload found")
	}

	table, err := tabular.Decode(body)
	if err != nil {
		metrics.UploadErrorsTotal.WithLabelValues("decode").Inc()
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	n, err := h.ingest.Ingest(c.Request().Context(), table)
	if err != nil {
		metrics.UploadErrorsTotal.WithLabelValues(uploadErrReason(err)).Inc()
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return err
	}

	metrics.UploadsTotal.WithLabelValues("accepted").Inc()
	metrics.UploadRowsTotal.Add(float64(n))
	return c.JSON(http.StatusCreated, uploadResponse{RowsIngested: n})
}

// List returns all stored sales records.
//
// @Summary      View stored sales data
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listSalesResponse
// @Router       /v1/sales [get]
func (h *SalesHandler) List(c echo.Context) error {
	records, err := h.reports.Load(c.Request().Context())
	if err != nil {
		return err
	}
	if records == nil {
		records = []domain.SalesRecord{}
	}
	return c.JSON(http.StatusOK, listSalesResponse{Data: records, Count: len(records)})
}

// Export streams the sales table as a UTF-8 CSV download. Filter query
// parameters narrow the export; without them the full table is exported.
// An exported file re-ingests through Upload with identical KPIs.
//
// @Summary      Download sales data as CSV
// @Tags         sales
// @Produce      text/csv
// @Security     BearerAuth
// @Param        region   query  string  false  "Region filter, or All"
// @Param        product  query  string  false  "Product filter, or All"
// @Param        from     query  string  false  "Start date (YYYY-MM-DD, inclusive)"
// @Param        to       query  string  false  "End date (YYYY-MM-DD, inclusive)"
// @Success      200  {string}  string  "CSV payload"
// @Router       /v1/sales/export [get]
func (h *SalesHandler) Export(c echo.Context) error {
	filter, err := parseReportFilter(c)
	if err != nil {
		return err
	}

	records, err := h.reports.Filtered(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	filename := "sales_data.csv"
	if filter != (ports.ReportFilter{}) {
		filename = "filtered_sales.csv"
	}

	var buf bytes.Buffer
	if err := tabular.Encode(&buf, records); err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Clear deletes every sales record. Admin only; irreversible.
//
// @Summary      Clear all sales data
// @Tags         sales
// @Security     BearerAuth
// @Success      204  "cleared"
// @Failure      403  {object}  map[string]string
// @Router       /v1/sales [delete]
func (h *SalesHandler) Clear(c echo.Context) error {
	if err := h.ingest.Clear(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// uploadBody picks the CSV source: multipart "file" field first, raw body as
// fallback.
func uploadBody(c echo.Context) (io.Reader, error) {
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	if c.Request().Body == nil {
		return nil, errors.New("empty request body")
	}
	return c.Request().Body, nil
}

func uploadErrReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingColumn):
		return "missing_column"
	case errors.Is(err, domain.ErrBadDate):
		return "bad_date"
	case errors.Is(err, domain.ErrEmptyBatch):
		return "empty"
	default:
		return "store"
	}
}
