// Package catalog provides database operations for books and their reviews.
//
// # Interface Implementation
//
//	var _ http.CatalogStore = (*Repository)(nil)
//
// # Consistency
//
// Writes hold the repository's write lock for the whole check-then-insert
// sequence and run inside a transaction; reads hold the read lock. A reader
// therefore sees every write either entirely or not at all, and a review can
// never be attached to a book that is absent when the insert commits.
//
// # Usage
//
//	repo := catalog.NewRepository(db)
//	book, err := repo.CreateBook(ctx, "Dune", "Frank Herbert", 1965)
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookreviews/internal/entities"
)

// ErrBookNotFound is returned when a review operation references a missing book.
var ErrBookNotFound = errors.New("book not found")

// BookFilter narrows ListBooks. Nil fields are not applied; set fields combine with AND.
type BookFilter struct {
	Author          *string
	PublicationYear *int
}

// Repository handles all book and review database operations.
type Repository struct {
	db *gorm.DB
	mu sync.RWMutex
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBook inserts a book and returns it with its assigned ID.
func (r *Repository) CreateBook(ctx context.Context, title, author string, publicationYear int) (*entities.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	book := &entities.Book{
		Title:           title,
		Author:          author,
		PublicationYear: publicationYear,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(book).Error; err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	return book, nil
}

// GetBook retrieves a single book by ID.
func (r *Repository) GetBook(ctx context.Context, id uint) (*entities.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var book entities.Book
	err := r.db.WithContext(ctx).First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return &book, nil
}

// ListBooks returns books matching the filter in insertion order.
// Author matching is exact and case-sensitive.
func (r *Repository) ListBooks(ctx context.Context, filter BookFilter) ([]entities.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := r.db.WithContext(ctx).Model(&entities.Book{})
	if filter.Author != nil {
		query = query.Where("author = ?", *filter.Author)
	}
	if filter.PublicationYear != nil {
		query = query.Where("publication_year = ?", *filter.PublicationYear)
	}

	books := make([]entities.Book, 0)
	if err := query.Order("id ASC").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// CreateReview attaches a review to an existing book.
// Returns ErrBookNotFound without writing anything when the book is absent.
func (r *Repository) CreateReview(ctx context.Context, bookID uint, text string, rating int) (*entities.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	review := &entities.Review{
		BookID: bookID,
		Text:   text,
		Rating: rating,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireBook(tx, bookID); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(review).Error
	})
	if errors.Is(err, ErrBookNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("create review for book %d: %w", bookID, err)
	}
	return review, nil
}

// ListReviewsForBook returns the book's reviews in insertion order.
func (r *Repository) ListReviewsForBook(ctx context.Context, bookID uint) ([]entities.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reviews := make([]entities.Review, 0)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireBook(tx, bookID); err != nil {
			return err
		}
		return tx.Where("book_id = ?", bookID).Order("id ASC").Find(&reviews).Error
	})
	if errors.Is(err, ErrBookNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("list reviews for book %d: %w", bookID, err)
	}
	return reviews, nil
}

// Stats returns the total number of books and reviews.
func (r *Repository) Stats(ctx context.Context) (totalBooks int64, totalReviews int64, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	db := r.db.WithContext(ctx)
	if err = db.Model(&entities.Book{}).Count(&totalBooks).Error; err != nil {
		return 0, 0, fmt.Errorf("count books: %w", err)
	}
	if err = db.Model(&entities.Review{}).Count(&totalReviews).Error; err != nil {
		return 0, 0, fmt.Errorf("count reviews: %w", err)
	}
	return totalBooks, totalReviews, nil
}

func requireBook(tx *gorm.DB, bookID uint) error {
	var count int64
	if err := tx.Model(&entities.Book{}).Where("id = ?", bookID).Count(&count).Error; err != nil {
		return fmt.Errorf("check book %d: %w", bookID, err)
	}
	if count == 0 {
		return ErrBookNotFound
	}
	return nil
}
