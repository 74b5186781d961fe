package service

import (
	"testing"

	"github.com/emzola/bookworm/data/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBook(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	admin := seedUser(repo, "admin", true)
	reader := seedUser(repo, "reader", false)

	requestBody := dto.CreateBookRequestBody{
		Title:       "The Left Hand of Darkness",
		Author:      "Ursula K. Le Guin",
		Description: "An envoy's mission to a planet whose people have no fixed sex.",
		Category:    "Science Fiction",
		PageCount:   304,
	}

	_, err := svc.CreateBook(reader, requestBody)
	assert.ErrorIs(t, err, ErrNotPermitted)

	book, err := svc.CreateBook(admin, requestBody)
	require.NoError(t, err)
	assert.NotZero(t, book.ID)
	assert.Equal(t, admin.ID, book.AddedBy)
	assert.Equal(t, 0.0, book.AverageRating)
	assert.Equal(t, int64(0), book.ReviewCount)
}

func TestCreateBookValidation(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	admin := seedUser(repo, "admin", true)

	tests := []struct {
		name        string
		requestBody dto.CreateBookRequestBody
	}{
		{"missing title", dto.CreateBookRequestBody{Author: "A", Description: "D", Category: "Fiction"}},
		{"whitespace title", dto.CreateBookRequestBody{Title: "   ", Author: "A", Description: "D", Category: "Fiction"}},
		{"missing author", dto.CreateBookRequestBody{Title: "T", Description: "D", Category: "Fiction"}},
		{"negative page count", dto.CreateBookRequestBody{Title: "T", Author: "A", Description: "D", Category: "Fiction", PageCount: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBook(admin, tt.requestBody)
			assert.ErrorIs(t, err, ErrFailedValidation)
		})
	}
}

func TestUpdateBookPartial(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	admin := seedUser(repo, "admin", true)
	reader := seedUser(repo, "reader", false)
	book := seedBook(repo, "Original Title", admin.ID)

	title := "Corrected Title"
	_, err := svc.UpdateBook(reader, book.ID, dto.UpdateBookRequestBody{Title: &title})
	assert.ErrorIs(t, err, ErrNotPermitted)

	updated, err := svc.UpdateBook(admin, book.ID, dto.UpdateBookRequestBody{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Corrected Title", updated.Title)
	assert.Equal(t, book.Author, updated.Author)
	assert.Equal(t, book.Description, updated.Description)

	_, err = svc.UpdateBook(admin, 999, dto.UpdateBookRequestBody{Title: &title})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeleteBookCascadesReviews(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	admin := seedUser(repo, "admin", true)
	alice := seedUser(repo, "alice", false)
	bob := seedUser(repo, "bob", false)
	doomed := seedBook(repo, "Doomed Book", admin.ID)
	kept := seedBook(repo, "Kept Book", admin.ID)

	_, err := svc.CreateReview(alice, doomed.ID, 5, "A review that will vanish with its book.")
	require.NoError(t, err)
	_, err = svc.CreateReview(bob, doomed.ID, 2, "Another review that will vanish too.")
	require.NoError(t, err)
	surviving, err := svc.CreateReview(alice, kept.ID, 4, "A review of a book that stays put.")
	require.NoError(t, err)

	err = svc.DeleteBook(alice, doomed.ID)
	assert.ErrorIs(t, err, ErrNotPermitted)

	err = svc.DeleteBook(admin, doomed.ID)
	require.NoError(t, err)

	_, err = svc.GetBook(doomed.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	// No orphaned reviews remain for the deleted book.
	reviews, _, err := svc.ListReviews(doomed.ID, 0, testFilters())
	require.NoError(t, err)
	assert.Empty(t, reviews)

	// Reviews of other books are untouched.
	got, err := svc.GetReview(surviving.ID)
	require.NoError(t, err)
	assert.Equal(t, kept.ID, got.BookID)

	err = svc.DeleteBook(admin, doomed.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestListBooksValidation(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	filters := testFilters()
	filters.Page = 0
	_, _, err := svc.ListBooks("", "", filters)
	assert.ErrorIs(t, err, ErrFailedValidation)

	filters = testFilters()
	filters.PageSize = 1000
	_, _, err = svc.ListBooks("", "", filters)
	assert.ErrorIs(t, err, ErrFailedValidation)
}

func TestListCategories(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	categories := svc.ListCategories()
	assert.NotEmpty(t, categories)
	assert.Contains(t, categories, "Fiction")
}
