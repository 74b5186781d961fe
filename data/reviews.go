package data

import (
	"strings"
	"time"

	"github.com/emzola/bookworm/internal/validator"
)

// Review defines a book review. At most one review exists per (book, user)
// pair; the reviews table enforces this with a unique constraint.
type Review struct {
	ID           int64     `json:"id"`
	BookID       int64     `json:"book_id"`
	UserID       int64     `json:"user_id"`
	Rating       int8      `json:"rating"`
	Content      string    `json:"content"`
	HelpfulCount int32     `json:"helpful_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int32     `json:"-"`

	// Read-side projections, populated by list/get joins for display.
	// They are never written back to the reviews table.
	UserName   string `json:"user_name,omitempty"`
	BookTitle  string `json:"book_title,omitempty"`
	BookAuthor string `json:"book_author,omitempty"`
}

func ValidateReview(v *validator.Validator, review *Review) {
	v.Check(review.Rating != 0, "rating", "must be provided")
	v.Check(review.Rating >= 1, "rating", "must not be less than one")
	v.Check(review.Rating <= 5, "rating", "must not be greater than five")
	v.Check(strings.TrimSpace(review.Content) != "", "content", "must be provided")
	v.Check(len(strings.TrimSpace(review.Content)) >= 10, "content", "must be at least 10 characters long")
	v.Check(len(review.Content) <= 5000, "content", "must not be more than 5000 bytes long")
}
