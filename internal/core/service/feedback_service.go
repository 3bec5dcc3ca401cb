package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/retailhq/sales-insights/internal/core/domain"
	"github.com/retailhq/sales-insights/internal/core/ports"
)

type FeedbackService struct {
	repo   ports.FeedbackRepository
	logger zerolog.Logger
}

func NewFeedbackService(repo ports.FeedbackRepository, logger zerolog.Logger) *FeedbackService {
	return &FeedbackService{repo: repo, logger: logger}
}

// Submit stores one immutable feedback entry. A rating of 0 means "unrated"
// and is rejected, as is anything outside 1..5.
func (s *FeedbackService) Submit(ctx context.Context, username string, rating int, comment string) (*domain.FeedbackEntry, error) {
	if rating < domain.RatingMin || rating > domain.RatingMax {
		return nil, domain.ErrInvalidRating
	}

	entry := &domain.FeedbackEntry{
		Username:    username,
		Rating:      rating,
		Comment:     comment,
		SubmittedAt: time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to store feedback")
		return nil, err
	}

	s.logger.Info().Str("username", username).Int("rating", rating).Msg("feedback submitted")
	return created, nil
}

// ListAll returns all entries, newest first.
func (s *FeedbackService) ListAll(ctx context.Context) ([]domain.FeedbackEntry, error) {
	return s.repo.ListAll(ctx)
}

// Stats aggregates a list of entries. An empty list yields a zero average.
func (s *FeedbackService) Stats(entries []domain.FeedbackEntry) ports.FeedbackStats {
	stats := ports.FeedbackStats{
		Count:         len(entries),
		CountByRating: make(map[int]int),
	}
	if len(entries) == 0 {
		return stats
	}

	sum := 0
	for _, e := range entries {
		sum += e.Rating
		stats.CountByRating[e.Rating]++
	}
	stats.AverageRating = float64(sum) / float64(len(entries))
	return stats
}
