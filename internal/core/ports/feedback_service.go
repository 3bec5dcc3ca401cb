package ports

import (
	"context"

	"github.com/retailhq/sales-insights/internal/core/domain"
)

// FeedbackStats aggregates a list of feedback entries.
type FeedbackStats struct {
	Count         int         `json:"count"`
	AverageRating float64     `json:"average_rating"`
	CountByRating map[int]int `json:"count_by_rating"`
}

type FeedbackService interface {
	Submit(ctx context.Context, username string, rating int, comment string) (*domain.FeedbackEntry, error)
	ListAll(ctx context.Context) ([]domain.FeedbackEntry, error)
	Stats(entries []domain.FeedbackEntry) FeedbackStats
}
