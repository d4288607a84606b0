package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookreviews/internal/database/catalog"
	"github.com/mrlokans/bookreviews/internal/notify"
	"github.com/mrlokans/bookreviews/internal/schema"
)

type ReviewsController struct {
	store    CatalogStore
	notifier notify.Notifier
}

func NewReviewsController(store CatalogStore, notifier notify.Notifier) *ReviewsController {
	return &ReviewsController{store: store, notifier: notifier}
}

// CreateReview posts a review for a book and schedules its confirmation
// POST /books/:book_id/reviews/
func (rc *ReviewsController) CreateReview(c *gin.Context) {
	bookID, ok := parseBookID(c)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		respondBadRequest(c, "could not read request body")
		return
	}

	input, err := schema.ParseReview(body)
	if err != nil {
		respondValidation(c, err)
		return
	}

	review, err := rc.store.CreateReview(c.Request.Context(), bookID, input.Text, input.Rating)
	if errors.Is(err, catalog.ErrBookNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "create review")
		return
	}

	// Fire-and-forget; the response does not wait for the confirmation.
	if rc.notifier != nil {
		rc.notifier.Notify(*review)
	}

	respondCreated(c, review)
}

// ListReviews returns every review for a book in the order they were posted
// GET /books/:book_id/reviews/
func (rc *ReviewsController) ListReviews(c *gin.Context) {
	bookID, ok := parseBookID(c)
	if !ok {
		return
	}

	reviews, err := rc.store.ListReviewsForBook(c.Request.Context(), bookID)
	if errors.Is(err, catalog.ErrBookNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "list reviews")
		return
	}

	c.JSON(http.StatusOK, reviews)
}
