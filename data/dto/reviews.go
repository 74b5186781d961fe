package dto

import "github.com/emzola/bookworm/data"

// CreateReviewRequestBody defines a request body for CreateReview service.
type CreateReviewRequestBody struct {
	BookID  int64  `json:"book_id"`
	Rating  int8   `json:"rating"`
	Content string `json:"content"`
}

// UpdateReviewRequestBody defines a request body for UpdateReview service.
type UpdateReviewRequestBody struct {
	Rating  *int8   `json:"rating"`
	Content *string `json:"content"`
}

// RefineReviewRequestBody defines a request body for RefineReview service.
type RefineReviewRequestBody struct {
	Content string `json:"content"`
}

// QsListReviews defines the query strings used for listing reviews.
type QsListReviews struct {
	BookID  int64
	UserID  int64
	Filters data.Filters
}
