package data

import (
	"strings"
	"time"

	"github.com/emzola/bookworm/internal/validator"
)

// Categories is the fixed set of book categories the client presents. It is
// advisory only: the server stores whatever category an admin supplies.
var Categories = []string{
	"Fiction",
	"Non-Fiction",
	"Science Fiction",
	"Fantasy",
	"Mystery",
	"Biography",
	"History",
	"Self-Help",
	"Romance",
	"Thriller",
}

// Book defines a book model. AverageRating and ReviewCount are derived from
// the book's review set and are only ever written by the rating aggregation
// path, never by client input.
type Book struct {
	ID            int64      `json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	Description   string     `json:"description"`
	Isbn          string     `json:"isbn,omitempty"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
	PageCount     int32      `json:"page_count,omitempty"`
	Category      string     `json:"category"`
	CoverImage    string     `json:"cover_image,omitempty"`
	AverageRating float64    `json:"average_rating"`
	ReviewCount   int64      `json:"review_count"`
	AddedBy       int64      `json:"added_by"`
	Version       int32      `json:"-"`
}

func ValidateBook(v *validator.Validator, book *Book) {
	v.Check(strings.TrimSpace(book.Title) != "", "title", "must be provided")
	v.Check(len(book.Title) <= 500, "title", "must not be more than 500 bytes long")
	v.Check(strings.TrimSpace(book.Author) != "", "author", "must be provided")
	v.Check(len(book.Author) <= 500, "author", "must not be more than 500 bytes long")
	v.Check(strings.TrimSpace(book.Description) != "", "description", "must be provided")
	v.Check(len(book.Description) <= 5000, "description", "must not be more than 5000 bytes long")
	v.Check(strings.TrimSpace(book.Category) != "", "category", "must be provided")
	v.Check(book.PageCount >= 0, "page_count", "must be a positive integer")
	v.Check(len(book.Isbn) <= 17, "isbn", "must not be more than 17 characters")
}
