package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emzola/bookworm/data"
)

type books interface {
	CreateBook(book *data.Book) error
	GetBook(bookID int64) (*data.Book, error)
	GetAllBooks(search string, category string, filters data.Filters) ([]*data.Book, data.Metadata, error)
	UpdateBook(book *data.Book) error
	DeleteBookWithReviews(bookID int64) error
	GetBookRatingStats(bookID int64) (float64, int64, error)
	UpdateBookRatingStats(bookID int64, averageRating float64, reviewCount int64) error
}

// CreateBook creates a new book record. The derived rating fields start at
// their zero values via column defaults.
func (r *repository) CreateBook(book *data.Book) error {
	query := `
		INSERT INTO books (title, author, description, isbn, published_date, page_count, category, cover_image, added_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at, average_rating, review_count, version`
	args := []interface{}{
		book.Title,
		book.Author,
		book.Description,
		book.Isbn,
		book.PublishedDate,
		book.PageCount,
		book.Category,
		book.CoverImage,
		book.AddedBy,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return r.db.QueryRowContext(ctx, query, args...).Scan(
		&book.ID,
		&book.CreatedAt,
		&book.UpdatedAt,
		&book.AverageRating,
		&book.ReviewCount,
		&book.Version,
	)
}

// GetBook retrieves a book record by its ID.
func (r *repository) GetBook(bookID int64) (*data.Book, error) {
	if bookID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT id, created_at, updated_at, title, author, description, isbn, published_date, page_count, category, cover_image, average_rating, review_count, added_by, version
		FROM books
		WHERE id = $1`
	var book data.Book
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, bookID).Scan(
		&book.ID,
		&book.CreatedAt,
		&book.UpdatedAt,
		&book.Title,
		&book.Author,
		&book.Description,
		&book.Isbn,
		&book.PublishedDate,
		&book.PageCount,
		&book.Category,
		&book.CoverImage,
		&book.AverageRating,
		&book.ReviewCount,
		&book.AddedBy,
		&book.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &book, nil
}

// GetAllBooks retrieves a paginated list of book records. Records can be
// searched over title, author and description, filtered by category, and
// sorted.
func (r *repository) GetAllBooks(search string, category string, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), id, created_at, updated_at, title, author, description, isbn, published_date, page_count, category, cover_image, average_rating, review_count, added_by, version
		FROM books
		WHERE (
			to_tsvector('simple', title) ||
			to_tsvector('simple', author) ||
			to_tsvector('simple', description)
			@@ plainto_tsquery('simple', $1) OR $1 = ''
		)
		AND (category = $2 OR $2 = '')
		ORDER BY %s %s, id ASC
		LIMIT $3 OFFSET $4`,
		filters.SortColumn(), filters.SortDirection(),
	)
	args := []interface{}{search, category, filters.Limit(), filters.Offset()}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	books := []*data.Book{}
	for rows.Next() {
		var book data.Book
		err := rows.Scan(
			&totalRecords,
			&book.ID,
			&book.CreatedAt,
			&book.UpdatedAt,
			&book.Title,
			&book.Author,
			&book.Description,
			&book.Isbn,
			&book.PublishedDate,
			&book.PageCount,
			&book.Category,
			&book.CoverImage,
			&book.AverageRating,
			&book.ReviewCount,
			&book.AddedBy,
			&book.Version,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		books = append(books, &book)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return books, metadata, nil
}

// UpdateBook updates a book record's client-settable fields. The derived
// rating fields are only ever written by UpdateBookRatingStats.
func (r *repository) UpdateBook(book *data.Book) error {
	query := `
		UPDATE books
		SET title = $1, author = $2, description = $3, isbn = $4, published_date = $5, page_count = $6, category = $7, cover_image = $8, updated_at = now(), version = version + 1
		WHERE id = $9 AND version = $10
		RETURNING updated_at, version`
	args := []interface{}{
		book.Title,
		book.Author,
		book.Description,
		book.Isbn,
		book.PublishedDate,
		book.PageCount,
		book.Category,
		book.CoverImage,
		book.ID,
		book.Version,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&book.UpdatedAt, &book.Version)
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

// DeleteBookWithReviews deletes a book record together with every review
// that references it, in a single transaction so that no orphaned reviews
// can survive a partial failure. Reviews are removed first.
func (r *repository) DeleteBookWithReviews(bookID int64) error {
	if bookID < 1 {
		return ErrRecordNotFound
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx, `DELETE FROM reviews WHERE book_id = $1`, bookID)
	if err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, bookID)
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
	return tx.Commit()
}

// GetBookRatingStats re-reads the full review set for a book and returns the
// arithmetic mean of its ratings and the review count. An empty review set
// yields (0, 0).
func (r *repository) GetBookRatingStats(bookID int64) (float64, int64, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews
		WHERE book_id = $1`
	var (
		averageRating float64
		reviewCount   int64
	)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, bookID).Scan(&averageRating, &reviewCount)
	if err != nil {
		return 0, 0, err
	}
	return averageRating, reviewCount, nil
}

// UpdateBookRatingStats writes a book's derived rating fields. No version
// check: the aggregate always reflects the review set it was computed from,
// so last writer wins.
func (r *repository) UpdateBookRatingStats(bookID int64, averageRating float64, reviewCount int64) error {
	query := `
		UPDATE books
		SET average_rating = $1, review_count = $2, updated_at = now()
		WHERE id = $3`
	args := []interface{}{averageRating, reviewCount, bookID}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, args...)
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
