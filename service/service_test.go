package service

import (
	"io"
	"sort"
	"sync"
	"time"

	"github.com/emzola/bookworm/config"
	"github.com/emzola/bookworm/data"
	"github.com/emzola/bookworm/internal/jsonlog"
	"github.com/emzola/bookworm/internal/mailer"
	"github.com/emzola/bookworm/internal/refiner"
	"github.com/emzola/bookworm/repository"
)

// mockRepository is an in-memory implementation of repository.Repository.
// It mirrors the storage-level behaviour the service layer depends on: the
// unique (book_id, user_id) constraint on reviews, rating stats computed
// from the live review set, and cascade delete of a book with its reviews.
type mockRepository struct {
	mu           sync.Mutex
	books        map[int64]*data.Book
	reviews      map[int64]*data.Review
	users        map[int64]*data.User
	tokens       map[string]*data.Token
	nextBookID   int64
	nextReviewID int64
	nextUserID   int64
	lastReviewAt time.Time

	// statsErr, when set, is returned by GetBookRatingStats to simulate an
	// aggregation failure after a review mutation has committed.
	statsErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		books:   make(map[int64]*data.Book),
		reviews: make(map[int64]*data.Review),
		users:   make(map[int64]*data.User),
		tokens:  make(map[string]*data.Token),
	}
}

func (m *mockRepository) CreateBook(book *data.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextBookID++
	book.ID = m.nextBookID
	book.CreatedAt = time.Now()
	book.UpdatedAt = book.CreatedAt
	book.Version = 1
	cp := *book
	m.books[book.ID] = &cp
	return nil
}

func (m *mockRepository) GetBook(bookID int64) (*data.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[bookID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	cp := *book
	return &cp, nil
}

func (m *mockRepository) GetAllBooks(search string, category string, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var books []*data.Book
	for _, book := range m.books {
		if category != "" && book.Category != category {
			continue
		}
		cp := *book
		books = append(books, &cp)
	}
	metadata := data.CalculateMetadata(len(books), filters.Page, filters.PageSize)
	return books, metadata, nil
}

func (m *mockRepository) UpdateBook(book *data.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.books[book.ID]
	if !ok || stored.Version != book.Version {
		return repository.ErrEditConflict
	}
	book.Version++
	book.UpdatedAt = time.Now()
	cp := *book
	m.books[book.ID] = &cp
	return nil
}

func (m *mockRepository) DeleteBookWithReviews(bookID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[bookID]; !ok {
		return repository.ErrRecordNotFound
	}
	for id, review := range m.reviews {
		if review.BookID == bookID {
			delete(m.reviews, id)
		}
	}
	delete(m.books, bookID)
	return nil
}

func (m *mockRepository) GetBookRatingStats(bookID int64) (float64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.statsErr != nil {
		return 0, 0, m.statsErr
	}
	var sum, count int64
	for _, review := range m.reviews {
		if review.BookID == bookID {
			sum += int64(review.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

func (m *mockRepository) UpdateBookRatingStats(bookID int64, averageRating float64, reviewCount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[bookID]
	if !ok {
		return repository.ErrRecordNotFound
	}
	book.AverageRating = averageRating
	book.ReviewCount = reviewCount
	return nil
}

func (m *mockRepository) CreateReview(review *data.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reviews {
		if existing.BookID == review.BookID && existing.UserID == review.UserID {
			return repository.ErrDuplicateRecord
		}
	}
	m.nextReviewID++
	review.ID = m.nextReviewID
	// Strictly increasing timestamps so created_at ordering is observable.
	review.CreatedAt = time.Now()
	if !review.CreatedAt.After(m.lastReviewAt) {
		review.CreatedAt = m.lastReviewAt.Add(time.Millisecond)
	}
	m.lastReviewAt = review.CreatedAt
	review.UpdatedAt = review.CreatedAt
	review.Version = 1
	cp := *review
	m.reviews[review.ID] = &cp
	return nil
}

func (m *mockRepository) GetReview(reviewID int64) (*data.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	review, ok := m.reviews[reviewID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	cp := *review
	return &cp, nil
}

func (m *mockRepository) UpdateReview(review *data.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.reviews[review.ID]
	if !ok || stored.Version != review.Version {
		return repository.ErrEditConflict
	}
	review.Version++
	review.UpdatedAt = time.Now()
	cp := *review
	m.reviews[review.ID] = &cp
	return nil
}

func (m *mockRepository) DeleteReview(reviewID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[reviewID]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(m.reviews, reviewID)
	return nil
}

func (m *mockRepository) ReviewExistsForUser(bookID int64, userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, review := range m.reviews {
		if review.BookID == bookID && review.UserID == userID {
			return true
		}
	}
	return false
}

func (m *mockRepository) GetAllReviews(bookID int64, userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var reviews []*data.Review
	for _, review := range m.reviews {
		if bookID != 0 && review.BookID != bookID {
			continue
		}
		if userID != 0 && review.UserID != userID {
			continue
		}
		cp := *review
		reviews = append(reviews, &cp)
	}
	// Mirror the SQL ordering: the safelisted sort column, then id ascending.
	sort.Slice(reviews, func(i, j int) bool {
		a, b := reviews[i], reviews[j]
		if filters.SortColumn() == "created_at" && !a.CreatedAt.Equal(b.CreatedAt) {
			if filters.SortDirection() == "DESC" {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	metadata := data.CalculateMetadata(len(reviews), filters.Page, filters.PageSize)
	return reviews, metadata, nil
}

func (m *mockRepository) RegisterUser(user *data.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateRecord
		}
	}
	m.nextUserID++
	user.ID = m.nextUserID
	user.CreatedAt = time.Now()
	user.Version = 1
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockRepository) GetUserByID(userID int64) (*data.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	cp := *user
	return &cp, nil
}

func (m *mockRepository) GetUserByEmail(email string) (*data.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (m *mockRepository) UpdateUser(user *data.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[user.ID]
	if !ok || stored.Version != user.Version {
		return repository.ErrEditConflict
	}
	user.Version++
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockRepository) GetUserForToken(tokenScope string, tokenPlaintext string) (*data.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[tokenScope+":"+tokenPlaintext]
	if !ok || time.Now().After(token.Expiry) {
		return nil, repository.ErrRecordNotFound
	}
	user, ok := m.users[token.UserID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	cp := *user
	return &cp, nil
}

func (m *mockRepository) CreateNewToken(userID int64, ttl time.Duration, scope string) (*data.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token := &data.Token{
		Plaintext: "A2B3C4D5E6F7G2H3I4J5K6L7M2", // 26 chars, fixed for tests
		UserID:    userID,
		Expiry:    time.Now().Add(ttl),
		Scope:     scope,
	}
	m.tokens[scope+":"+token.Plaintext] = token
	return token, nil
}

func (m *mockRepository) DeleteAllTokensForUser(scope string, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, token := range m.tokens {
		if token.Scope == scope && token.UserID == userID {
			delete(m.tokens, key)
		}
	}
	return nil
}

// newTestService wires a service instance to an in-memory repository. The
// refiner has no API key, so text refinement always takes the local path.
func newTestService(repo repository.Repository) *service {
	logger := jsonlog.New(io.Discard, jsonlog.LevelFatal)
	var wg sync.WaitGroup
	ref := refiner.New("", "", nil, logger)
	mail := mailer.New("localhost", 25, "", "", "Bookworm <no-reply@bookworm.local>")
	return New(config.Config{}, &wg, logger, repo, ref, mail)
}

// testFilters returns a filter set that passes validation.
func testFilters() data.Filters {
	return data.Filters{
		Page:         1,
		PageSize:     20,
		Sort:         "-created_at",
		SortSafeList: []string{"created_at", "-created_at"},
	}
}

// seedUser inserts a user directly into the mock repository.
func seedUser(repo *mockRepository, name string, admin bool) *data.User {
	user := &data.User{Name: name, Email: name + "@example.com", IsAdmin: admin}
	user.Password.Set("pa55word1234")
	repo.RegisterUser(user)
	return user
}

// seedBook inserts a book directly into the mock repository.
func seedBook(repo *mockRepository, title string, addedBy int64) *data.Book {
	book := &data.Book{
		Title:       title,
		Author:      "Test Author",
		Description: "A book used as a fixture.",
		Category:    "Fiction",
		AddedBy:     addedBy,
	}
	repo.CreateBook(book)
	return book
}
