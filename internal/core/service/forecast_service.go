package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/retailhq/sales-insights/internal/core/domain"
	"github.com/retailhq/sales-insights/internal/core/ports"
)

const DefaultHorizon = 30

type ForecastService struct {
	reports ports.ReportService
	client  ports.ForecastClient
	logger  zerolog.Logger
}

func NewForecastService(reports ports.ReportService, client ports.ForecastClient, logger zerolog.Logger) *ForecastService {
	return &ForecastService{reports: reports, client: client, logger: logger}
}

// PredictRevenue builds the daily revenue series from the sales store and
// asks the forecasting collaborator for `horizon` future periods. Collaborator
// failures come back wrapped in domain.ErrCollaborator so the caller sees a
// visible error instead of a crash.
func (s *ForecastService) PredictRevenue(ctx context.Context, horizon int) (*domain.Forecast, error) {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}

	points, err := s.reports.TimeSeries(ctx, ports.ReportFilter{})
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	series := make([]domain.SeriesPoint, len(points))
	for i, p := range points {
		v, _ := p.Revenue.Float64()
		series[i] = domain.SeriesPoint{Timestamp: p.Date, Value: v}
	}

	forecast, err := s.client.Predict(ctx, series, horizon)
	if err != nil {
		s.logger.Error().Err(err).Int("horizon", horizon).Msg("forecast collaborator failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrCollaborator, err)
	}

	s.logger.Info().Int("horizon", horizon).Int("observed", len(series)).Msg("forecast computed")
	return forecast, nil
}
