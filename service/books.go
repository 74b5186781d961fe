package service

import (
	"errors"
	"net/http"

	"github.com/emzola/bookworm/clients"
	"github.com/emzola/bookworm/data"
	"github.com/emzola/bookworm/data/dto"
	"github.com/emzola/bookworm/internal/validator"
	"github.com/emzola/bookworm/repository"
)

type books interface {
	CreateBook(caller *data.User, requestBody dto.CreateBookRequestBody) (*data.Book, error)
	GetBook(bookID int64) (*data.Book, error)
	ListBooks(search string, category string, filters data.Filters) ([]*data.Book, data.Metadata, error)
	UpdateBook(caller *data.User, bookID int64, requestBody dto.UpdateBookRequestBody) (*data.Book, error)
	UpdateBookCover(caller *data.User, bookID int64, r *http.Request) (*data.Book, error)
	DeleteBook(caller *data.User, bookID int64) error
	ListCategories() []string
}

// CreateBook service creates a new book. Only admins may add to the catalog.
// The derived rating fields always start at zero regardless of input.
func (s *service) CreateBook(caller *data.User, requestBody dto.CreateBookRequestBody) (*data.Book, error) {
	if !caller.CanMutateCatalog() {
		return nil, ErrNotPermitted
	}
	book := &data.Book{
		Title:         requestBody.Title,
		Author:        requestBody.Author,
		Description:   requestBody.Description,
		Isbn:          requestBody.Isbn,
		PublishedDate: requestBody.PublishedDate,
		PageCount:     requestBody.PageCount,
		Category:      requestBody.Category,
		CoverImage:    requestBody.CoverImage,
		AddedBy:       caller.ID,
	}
	v := validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	err := s.repo.CreateBook(book)
	if err != nil {
		return nil, err
	}
	return book, nil
}

// GetBook service retrieves the details of a book.
func (s *service) GetBook(bookID int64) (*data.Book, error) {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return book, nil
}

// ListBooks service retrieves a paginated list of books. The list can be
// searched, filtered by category and sorted.
func (s *service) ListBooks(search string, category string, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	books, metadata, err := s.repo.GetAllBooks(search, category, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return books, metadata, nil
}

// UpdateBook service updates a book's client-settable fields. Omitted fields
// are left unchanged; the derived rating fields are never touched here.
func (s *service) UpdateBook(caller *data.User, bookID int64, requestBody dto.UpdateBookRequestBody) (*data.Book, error) {
	if !caller.CanMutateCatalog() {
		return nil, ErrNotPermitted
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
	if requestBody.Title != nil {
		book.Title = *requestBody.Title
	}
	if requestBody.Author != nil {
		book.Author = *requestBody.Author
	}
	if requestBody.Description != nil {
		book.Description = *requestBody.Description
	}
	if requestBody.Isbn != nil {
		book.Isbn = *requestBody.Isbn
	}
	if requestBody.PublishedDate != nil {
		book.PublishedDate = requestBody.PublishedDate
	}
	if requestBody.PageCount != nil {
		book.PageCount = *requestBody.PageCount
	}
	if requestBody.Category != nil {
		book.Category = *requestBody.Category
	}
	if requestBody.CoverImage != nil {
		book.CoverImage = *requestBody.CoverImage
	}
	v := validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	err = s.repo.UpdateBook(book)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return book, nil
}

// UpdateBookCover service uploads a new cover image for a book and records
// its URL on the book.
func (s *service) UpdateBookCover(caller *data.User, bookID int64, r *http.Request) (*data.Book, error) {
	if !caller.CanMutateCatalog() {
		return nil, ErrNotPermitted
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
	err = r.ParseMultipartForm(5000)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesError):
			return nil, ErrContentTooLarge
		default:
			return nil, ErrBadRequest
		}
	}
	file, fileHeader, err := r.FormFile("cover")
	if err != nil {
		return nil, ErrBadRequest
	}
	defer file.Close()
	buffer, mtype, err := s.detectMimeType(file, fileHeader)
	if err != nil {
		return nil, err
	}
	supportedMediaType := []string{
		"image/jpeg",
		"image/png",
		"image/webp",
	}
	if validMime := validator.Mime(mtype, supportedMediaType...); !validMime {
		return nil, ErrUnsupportedMediaType
	}
	s3Client, err := clients.NewS3Client(s.config)
	if err != nil {
		return nil, err
	}
	coverURL, err := s.uploadCoverToS3(s3Client, buffer, mtype, fileHeader)
	if err != nil {
		return nil, err
	}
	book.CoverImage = coverURL
	err = s.repo.UpdateBook(book)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return book, nil
}

// DeleteBook service deletes a book from the catalog together with all of
// its reviews, so that no review is left referencing a missing book.
func (s *service) DeleteBook(caller *data.User, bookID int64) error {
	if !caller.CanMutateCatalog() {
		return ErrNotPermitted
	}
	err := s.repo.DeleteBookWithReviews(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// ListCategories service returns the fixed set of book categories the client
// offers. These are not enforced on writes.
func (s *service) ListCategories() []string {
	return data.Categories
}
