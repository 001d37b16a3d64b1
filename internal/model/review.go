package model

import (
	"time"

	"github.com/google/uuid"
)

// Review is a per-(book, user) rating with a free-text comment. A user may
// review a given book at most once.
type Review struct {
	ID        uuid.UUID `json:"id" db:"id"`
	BookID    uuid.UUID `json:"bookId" db:"book_id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UserName is a display name derived from the reviewing user when listing.
	UserName string `json:"userName,omitempty" db:"-"`
}

// CreateReviewRequest is the payload for creating a review.
type CreateReviewRequest struct {
	BookID  uuid.UUID `json:"bookId"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment"`
}
