package dto

import (
	"time"

	"github.com/emzola/bookworm/data"
)

// CreateBookRequestBody defines a request body for CreateBook service.
type CreateBookRequestBody struct {
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	Description   string     `json:"description"`
	Isbn          string     `json:"isbn"`
	PublishedDate *time.Time `json:"published_date"`
	PageCount     int32      `json:"page_count"`
	Category      string     `json:"category"`
	CoverImage    string     `json:"cover_image"`
}

// UpdateBookRequestBody defines a request body for UpdateBook service.
// Omitted fields are left unchanged.
type UpdateBookRequestBody struct {
	Title         *string    `json:"title"`
	Author        *string    `json:"author"`
	Description   *string    `json:"description"`
	Isbn          *string    `json:"isbn"`
	PublishedDate *time.Time `json:"published_date"`
	PageCount     *int32     `json:"page_count"`
	Category      *string    `json:"category"`
	CoverImage    *string    `json:"cover_image"`
}

// QsListBooks defines the query strings used for listing books.
type QsListBooks struct {
	Search   string
	Category string
	Filters  data.Filters
}
