package ports

import (
	"context"

	"github.com/retailhq/sales-insights/internal/core/domain"
)

// FeedbackRepository persists immutable feedback entries.
type FeedbackRepository interface {
	Create(ctx context.Context, entry *domain.FeedbackEntry) (*domain.FeedbackEntry, error)
	// ListAll returns entries ordered by submission time, newest first.
	ListAll(ctx context.Context) ([]domain.FeedbackEntry, error)
}
