package collaborator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/retailhq/sales-insights/internal/core/domain"
)

const defaultForecastTimeout = 30 * time.Second

var ErrNotConfigured = errors.New("collaborator not configured")

// ForecastClient talks to the external forecasting service. The service is a
// black box: it takes an observed (timestamp, value) series plus a horizon and
// returns predicted points with decomposed trend/seasonality components.
type ForecastClient struct {
	url  string
	http *http.Client
}

func NewForecastClient(url string, timeout time.Duration) *ForecastClient {
	if timeout <= 0 {
		timeout = defaultForecastTimeout
	}
	return &ForecastClient{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

type forecastRequest struct {
	Series  []domain.SeriesPoint `json:"series"`
	Horizon int                  `json:"horizon"`
}

type forecastResponse struct {
	Points   []domain.SeriesPoint `json:"points"`
	Trend    []domain.SeriesPoint `json:"trend"`
	Seasonal []domain.SeriesPoint `json:"seasonal"`
}

func (c *ForecastClient) Predict(ctx context.Context, series []domain.SeriesPoint, horizon int) (*domain.Forecast, error) {
	if c.url == "" {
		return nil, fmt.Errorf("forecast: %w", ErrNotConfigured)
	}

	body, err := json.Marshal(forecastRequest{Series: series, Horizon: horizon})
	if err != nil {
		return nil, fmt.Errorf("forecast: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("forecast: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast: %s", readError(resp))
	}

	var out forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("forecast: decode response: %w", err)
	}

	return &domain.Forecast{
		Points:   out.Points,
		Trend:    out.Trend,
		Seasonal: out.Seasonal,
	}, nil
}

// readError squeezes a short diagnostic out of a non-200 response.
func readError(resp *http.Response) string {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if len(snippet) == 0 {
		return fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, snippet)
}
