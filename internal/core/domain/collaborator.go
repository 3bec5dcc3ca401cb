package domain

import (
	"errors"
	"time"
)

// ErrCollaborator wraps failures of the external forecasting and
// chat-completion services. They surface to the caller as a visible error,
// never as a crash.
var ErrCollaborator = errors.New("collaborator service failure")

var ErrForbidden = errors.New("access forbidden")

// Chat message roles, matching the chat-completion wire protocol.
const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one role-tagged turn of a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SeriesPoint is one observation or prediction of a univariate time series.
type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Forecast is the result of asking the forecasting collaborator to extend a
// series by a horizon of future periods, with decomposed components.
type Forecast struct {
	Points   []SeriesPoint `json:"points"`
	Trend    []SeriesPoint `json:"trend,omitempty"`
	Seasonal []SeriesPoint `json:"seasonal,omitempty"`
}
