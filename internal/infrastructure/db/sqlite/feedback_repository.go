package sqlite

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/retailhq/sales-insights/internal/core/domain"
)

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

type feedbackRow struct {
	ID          uint   `gorm:"primaryKey"`
	Username    string `gorm:"index;not null"`
	Rating      int    `gorm:"not null"`
	Comment     string
	SubmittedAt time.Time `gorm:"index;not null"`
}

func (feedbackRow) TableName() string { return "feedback_entries" }

func (r *FeedbackRepository) Create(ctx context.Context, entry *domain.FeedbackEntry) (*domain.FeedbackEntry, error) {
	row := feedbackRow{
		Username:    entry.Username,
		Rating:      entry.Rating,
		Comment:     entry.Comment,
		SubmittedAt: entry.SubmittedAt,
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("insert feedback: %w", err)
	}
	return toEntry(row), nil
}

func (r *FeedbackRepository) ListAll(ctx context.Context) ([]domain.FeedbackEntry, error) {
	var rows []feedbackRow
	if err := r.db.WithContext(ctx).Order("submitted_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	entries := make([]domain.FeedbackEntry, len(rows))
	for i, row := range rows {
		entries[i] = *toEntry(row)
	}
	return entries, nil
}

func toEntry(row feedbackRow) *domain.FeedbackEntry {
	return &domain.FeedbackEntry{
		ID:          row.ID,
		Username:    row.Username,
		Rating:      row.Rating,
		Comment:     row.Comment,
		SubmittedAt: row.SubmittedAt.UTC(),
	}
}
