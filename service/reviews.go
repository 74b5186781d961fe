package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/emzola/bookworm/data"
	"github.com/emzola/bookworm/internal/refiner"
	"github.com/emzola/bookworm/internal/validator"
	"github.com/emzola/bookworm/repository"
)

type reviews interface {
	CreateReview(caller *data.User, bookID int64, rating int8, content string) (*data.Review, error)
	GetReview(reviewID int64) (*data.Review, error)
	UpdateReview(caller *data.User, reviewID int64, rating *int8, content *string) (*data.Review, error)
	DeleteReview(caller *data.User, reviewID int64) error
	ListReviews(bookID int64, userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error)
	RefineReview(ctx context.Context, content string) (refiner.Refinement, error)
}

// recomputeBookRating re-reads the full review set for a book and writes the
// book's derived averageRating/reviewCount fields. It runs synchronously as
// part of every mutating review operation; a failure here after the review
// mutation committed leaves a stale aggregate, so it is logged and returned
// as a server error rather than swallowed.
func (s *service) recomputeBookRating(bookID int64) error {
	averageRating, reviewCount, err := s.repo.GetBookRatingStats(bookID)
	if err == nil {
		err = s.repo.UpdateBookRatingStats(bookID, averageRating, reviewCount)
	}
	if err != nil {
		err = fmt.Errorf("recompute rating stats for book %d: %w", bookID, err)
		s.logger.PrintError(err, map[string]string{"book_id": strconv.FormatInt(bookID, 10)})
		return err
	}
	return nil
}

// CreateReview service creates a review for a book. A user may review a book
// at most once: an application-level pre-check catches the common case early,
// and the storage-level unique constraint closes the race between concurrent
// creators for the same (book, user) pair.
func (s *service) CreateReview(caller *data.User, bookID int64, rating int8, content string) (*data.Review, error) {
	review := &data.Review{
		BookID:  bookID,
		UserID:  caller.ID,
		Rating:  rating,
		Content: content,
	}
	v := validator.New()
	if data.ValidateReview(v, review); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if s.repo.ReviewExistsForUser(bookID, caller.ID) {
		return nil, ErrDuplicateRecord
	}
	err = s.repo.CreateReview(review)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			return nil, ErrDuplicateRecord
		default:
			return nil, err
		}
	}
	err = s.recomputeBookRating(bookID)
	if err != nil {
		return nil, err
	}
	// Fill in the read-side projections so the response matches a later GET.
	review.UserName = caller.Name
	review.BookTitle = book.Title
	review.BookAuthor = book.Author
	return review, nil
}

// GetReview service retrieves the details of a review.
func (s *service) GetReview(reviewID int64) (*data.Review, error) {
	review, err := s.repo.GetReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return review, nil
}

// UpdateReview service updates a review's rating and/or content. Only the
// review's author or an admin may update it; the check happens before any
// write. Omitted fields are left unchanged.
func (s *service) UpdateReview(caller *data.User, reviewID int64, rating *int8, content *string) (*data.Review, error) {
	review, err := s.repo.GetReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if !review.CanMutate(caller) {
		return nil, ErrNotPermitted
	}
	if rating != nil {
		review.Rating = *rating
	}
	if content != nil {
		review.Content = *content
	}
	v := validator.New()
	if data.ValidateReview(v, review); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	err = s.repo.UpdateReview(review)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	err = s.recomputeBookRating(review.BookID)
	if err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview service deletes a review. Only the review's author or an
// admin may delete it. The parent book's id is captured before removal so
// its aggregate can be recomputed afterwards.
func (s *service) DeleteReview(caller *data.User, reviewID int64) error {
	review, err := s.repo.GetReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	if !review.CanMutate(caller) {
		return ErrNotPermitted
	}
	bookID := review.BookID
	err = s.repo.DeleteReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return s.recomputeBookRating(bookID)
}

// ListReviews service retrieves a paginated list of reviews, optionally
// filtered by book and/or user, newest first.
func (s *service) ListReviews(bookID int64, userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	reviews, metadata, err := s.repo.GetAllReviews(bookID, userID, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return reviews, metadata, nil
}

// RefineReview service rewrites review text into a polished variant. The
// refiner absorbs external failures, so the only error here is empty input.
func (s *service) RefineReview(ctx context.Context, content string) (refiner.Refinement, error) {
	v := validator.New()
	v.Check(content != "", "content", "must be provided")
	if !v.Valid() {
		return refiner.Refinement{}, failedValidation(v.Errors)
	}
	return s.refiner.Refine(ctx, content), nil
}
