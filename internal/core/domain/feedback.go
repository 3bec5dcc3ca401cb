package domain

import (
	"errors"
	"time"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

const (
	RatingMin = 1
	RatingMax = 5
)

// FeedbackEntry is a single user-submitted rating with an optional comment.
// Entries are immutable once written.
type FeedbackEntry struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}
