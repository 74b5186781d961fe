package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emzola/bookworm/data"
)

type reviews interface {
	CreateReview(review *data.Review) error
	GetReview(reviewID int64) (*data.Review, error)
	UpdateReview(review *data.Review) error
	DeleteReview(reviewID int64) error
	ReviewExistsForUser(bookID int64, userID int64) bool
	GetAllReviews(bookID int64, userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error)
}

// CreateReview creates a review record for a book. The reviews table carries
// a unique constraint on (book_id, user_id), so a concurrent insert for the
// same pair loses the race here and surfaces as ErrDuplicateRecord even when
// the application-level existence pre-check passed.
func (r *repository) CreateReview(review *data.Review) error {
	query := `
		INSERT INTO reviews (book_id, user_id, rating, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, helpful_count, created_at, updated_at, version`
	args := []interface{}{review.BookID, review.UserID, review.Rating, review.Content}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&review.ID,
		&review.HelpfulCount,
		&review.CreatedAt,
		&review.UpdatedAt,
		&review.Version,
	)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "reviews_book_id_user_id_key"`:
			return ErrDuplicateRecord
		default:
			return err
		}
	}
	return nil
}

// ReviewExistsForUser checks whether a review record already exists for the
// (book, user) pair. This is advisory only; the unique constraint is what
// actually closes the race against concurrent creators.
func (r *repository) ReviewExistsForUser(bookID int64, userID int64) bool {
	query := `
		SELECT id
		FROM reviews
		WHERE book_id = $1 AND user_id = $2`
	var id int64
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, bookID, userID).Scan(&id)
	return !errors.Is(err, sql.ErrNoRows)
}

// GetReview retrieves a review record with its author name and book
// title/author projected in for display.
func (r *repository) GetReview(reviewID int64) (*data.Review, error) {
	if reviewID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT reviews.id, reviews.book_id, reviews.user_id, reviews.rating, reviews.content, reviews.helpful_count, reviews.created_at, reviews.updated_at, reviews.version, users.name, books.title, books.author
		FROM reviews
		INNER JOIN users ON reviews.user_id = users.id
		INNER JOIN books ON reviews.book_id = books.id
		WHERE reviews.id = $1`
	var review data.Review
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, reviewID).Scan(
		&review.ID,
		&review.BookID,
		&review.UserID,
		&review.Rating,
		&review.Content,
		&review.HelpfulCount,
		&review.CreatedAt,
		&review.UpdatedAt,
		&review.Version,
		&review.UserName,
		&review.BookTitle,
		&review.BookAuthor,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &review, nil
}

// UpdateReview updates a review record's rating and content.
func (r *repository) UpdateReview(review *data.Review) error {
	query := `
		UPDATE reviews
		SET rating = $1, content = $2, updated_at = now(), version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING updated_at, version`
	args := []interface{}{review.Rating, review.Content, review.ID, review.Version}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&review.UpdatedAt, &review.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}
	return nil
}

// DeleteReview deletes a review record.
func (r *repository) DeleteReview(reviewID int64) error {
	if reviewID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM reviews
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, reviewID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// GetAllReviews retrieves a paginated list of review records, optionally
// filtered by book and/or user, with author names and book titles projected
// in. Zero-valued bookID/userID match everything.
func (r *repository) GetAllReviews(bookID int64, userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), reviews.id, reviews.book_id, reviews.user_id, reviews.rating, reviews.content, reviews.helpful_count, reviews.created_at, reviews.updated_at, reviews.version, users.name, books.title, books.author
		FROM reviews
		INNER JOIN users ON reviews.user_id = users.id
		INNER JOIN books ON reviews.book_id = books.id
		WHERE (reviews.book_id = $1 OR $1 = 0)
		AND (reviews.user_id = $2 OR $2 = 0)
		ORDER BY reviews.%s %s, reviews.id ASC
		LIMIT $3 OFFSET $4`,
		filters.SortColumn(), filters.SortDirection(),
	)
	args := []interface{}{bookID, userID, filters.Limit(), filters.Offset()}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	reviews := []*data.Review{}
	for rows.Next() {
		var review data.Review
		err := rows.Scan(
			&totalRecords,
			&review.ID,
			&review.BookID,
			&review.UserID,
			&review.Rating,
			&review.Content,
			&review.HelpfulCount,
			&review.CreatedAt,
			&review.UpdatedAt,
			&review.Version,
			&review.UserName,
			&review.BookTitle,
			&review.BookAuthor,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		reviews = append(reviews, &review)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return reviews, metadata, nil
}
