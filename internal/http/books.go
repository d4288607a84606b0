package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookreviews/internal/database/catalog"
	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/schema"
)

// CatalogStore defines the persistence operations the book and review endpoints need.
type CatalogStore interface {
	CreateBook(ctx context.Context, title, author string, publicationYear int) (*entities.Book, error)
	GetBook(ctx context.Context, id uint) (*entities.Book, error)
	ListBooks(ctx context.Context, filter catalog.BookFilter) ([]entities.Book, error)
	CreateReview(ctx context.Context, bookID uint, text string, rating int) (*entities.Review, error)
	ListReviewsForBook(ctx context.Context, bookID uint) ([]entities.Review, error)
}

type BooksController struct {
	store CatalogStore
}

func NewBooksController(store CatalogStore) *BooksController {
	return &BooksController{store: store}
}

// CreateBook adds a book to the catalog
// POST /books/
func (bc *BooksController) CreateBook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondBadRequest(c, "could not read request body")
		return
	}

	input, err := schema.ParseBook(body)
	if err != nil {
		respondValidation(c, err)
		return
	}

	book, err := bc.store.CreateBook(c.Request.Context(), input.Title, input.Author, input.PublicationYear)
	if err != nil {
		respondInternalError(c, err, "create book")
		return
	}

	respondCreated(c, book)
}

// ListBooks returns all books, optionally filtered by author and/or publication year
// GET /books/?author=&publication_year=
func (bc *BooksController) ListBooks(c *gin.Context) {
	filter, err := schema.ParseBookFilter(c.Request.URL.Query())
	if err != nil {
		respondValidation(c, err)
		return
	}

	books, err := bc.store.ListBooks(c.Request.Context(), catalog.BookFilter(filter))
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.JSON(http.StatusOK, books)
}

// GetBook returns a single book
// GET /books/:book_id/
func (bc *BooksController) GetBook(c *gin.Context) {
	bookID, ok := parseBookID(c)
	if !ok {
		return
	}

	book, err := bc.store.GetBook(c.Request.Context(), bookID)
	if errors.Is(err, catalog.ErrBookNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}

	c.JSON(http.StatusOK, book)
}
