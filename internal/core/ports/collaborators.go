package ports

import (
	"context"

	"github.com/retailhq/sales-insights/internal/core/domain"
)

// ForecastClient is the black-box forecasting collaborator: given an observed
// series it predicts `horizon` future periods and returns decomposed
// trend/seasonality components.
type ForecastClient interface {
	Predict(ctx context.Context, series []domain.SeriesPoint, horizon int) (*domain.Forecast, error)
}

// ChatClient is the chat-completion collaborator. One call, one assistant
// message; failures are returned, never retried indefinitely.
type ChatClient interface {
	Complete(ctx context.Context, model string, messages []domain.ChatMessage) (domain.ChatMessage, error)
}

type ForecastService interface {
	// PredictRevenue forecasts the daily revenue series `horizon` periods
	// past the last observed date.
	PredictRevenue(ctx context.Context, horizon int) (*domain.Forecast, error)
}

type ChatService interface {
	// Ask sends the conversation on behalf of username. An empty model falls
	// back to the configured default.
	Ask(ctx context.Context, username, model string, messages []domain.ChatMessage) (domain.ChatMessage, error)
}
