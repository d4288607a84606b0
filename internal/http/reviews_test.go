package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/notify"
	"github.com/mrlokans/bookreviews/internal/tasks"
)

func TestReviewsController_DuneScenario(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do("POST", "/books/", `{"title":"Dune","author":"Herbert","publication_year":1965}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var book entities.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
	require.Equal(t, uint(1), book.ID)

	w = env.do("POST", "/books/1/reviews/", `{"text":"Great","rating":5}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var review entities.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &review))
	assert.Equal(t, uint(1), review.BookID)
	assert.Equal(t, "Great", review.Text)
	assert.Equal(t, 5, review.Rating)
	assert.NotZero(t, review.ID)

	w = env.do("GET", "/books/1/reviews/", "")
	require.Equal(t, http.StatusOK, w.Code)
	var reviews []entities.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reviews))
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)

	notified := env.notifier.Reviews()
	require.Len(t, notified, 1)
	assert.Equal(t, review.ID, notified[0].ID)
}

func TestReviewsController_CreateReview(t *testing.T) {
	t.Run("unknown book returns 404 and writes nothing", func(t *testing.T) {
		env := setupTestEnv(t)

		w := env.do("POST", "/books/999/reviews/", `{"text":"Great","rating":5}`)
		assert.Equal(t, http.StatusNotFound, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "book not found", resp.Error)
		assert.Equal(t, CodeNotFound, resp.Code)

		var count int64
		require.NoError(t, env.db.DB.Model(&entities.Review{}).Count(&count).Error)
		assert.Zero(t, count)
		assert.Empty(t, env.notifier.Reviews())
	})

	t.Run("rating boundaries", func(t *testing.T) {
		env := setupTestEnv(t)
		_, err := env.repo.CreateBook(context.Background(), "Dune", "Herbert", 1965)
		require.NoError(t, err)

		tests := []struct {
			body   string
			status int
		}{
			{`{"text":"ok","rating":1}`, http.StatusCreated},
			{`{"text":"ok","rating":5}`, http.StatusCreated},
			{`{"text":"ok","rating":0}`, http.StatusUnprocessableEntity},
			{`{"text":"ok","rating":6}`, http.StatusUnprocessableEntity},
			{`{"text":"ok","rating":-1}`, http.StatusUnprocessableEntity},
			{`{"text":"ok","rating":"five"}`, http.StatusUnprocessableEntity},
			{`{"text":"ok"}`, http.StatusUnprocessableEntity},
		}
		for _, tt := range tests {
			w := env.do("POST", "/books/1/reviews/", tt.body)
			assert.Equal(t, tt.status, w.Code, tt.body)
			if tt.status == http.StatusUnprocessableEntity {
				assert.Equal(t, []string{"rating"}, fieldNames(decodeErrorFields(t, w)), tt.body)
			}
		}
		assert.Len(t, env.notifier.Reviews(), 2)
	})

	t.Run("empty text is rejected", func(t *testing.T) {
		env := setupTestEnv(t)
		_, err := env.repo.CreateBook(context.Background(), "Dune", "Herbert", 1965)
		require.NoError(t, err)

		w := env.do("POST", "/books/1/reviews/", `{"text":"   ","rating":3}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, []string{"text"}, fieldNames(decodeErrorFields(t, w)))
	})

	t.Run("invalid body on unknown book is a validation error", func(t *testing.T) {
		env := setupTestEnv(t)

		w := env.do("POST", "/books/999/reviews/", `{"text":"ok","rating":9}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("non-integer book id", func(t *testing.T) {
		env := setupTestEnv(t)

		w := env.do("POST", "/books/abc/reviews/", `{"text":"ok","rating":3}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, []string{"book_id"}, fieldNames(decodeErrorFields(t, w)))
	})
}

func TestReviewsController_ListReviews(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	_, _ = env.repo.CreateBook(ctx, "Dune", "Herbert", 1965)
	_, _ = env.repo.CreateBook(ctx, "Emma", "Austen", 1815)
	_, _ = env.repo.CreateReview(ctx, 1, "first", 4)
	_, _ = env.repo.CreateReview(ctx, 2, "other book", 2)
	_, _ = env.repo.CreateReview(ctx, 1, "second", 5)

	t.Run("returns only the book's reviews in posting order", func(t *testing.T) {
		w := env.do("GET", "/books/1/reviews/", "")
		require.Equal(t, http.StatusOK, w.Code)

		var reviews []entities.Review
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reviews))
		require.Len(t, reviews, 2)
		assert.Equal(t, "first", reviews[0].Text)
		assert.Equal(t, "second", reviews[1].Text)
		for _, r := range reviews {
			assert.Equal(t, uint(1), r.BookID)
		}
	})

	t.Run("book without reviews returns an empty array", func(t *testing.T) {
		_, err := env.repo.CreateBook(ctx, "Quiet", "Nobody", 2000)
		require.NoError(t, err)

		w := env.do("GET", "/books/3/reviews/", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("unknown book returns 404", func(t *testing.T) {
		w := env.do("GET", "/books/999/reviews/", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("large well-formed ids return 404", func(t *testing.T) {
		for _, id := range []string{"4294967296", "9223372036854775808"} {
			w := env.do("GET", "/books/"+id+"/reviews/", "")
			assert.Equal(t, http.StatusNotFound, w.Code, id)
		}
	})
}

// blockingSender holds every send until release is closed.
type blockingSender struct {
	started chan tasks.ReviewConfirmation
	release chan struct{}
}

func (s *blockingSender) SendReviewConfirmation(ctx context.Context, c tasks.ReviewConfirmation) error {
	s.started <- c
	select {
	case <-s.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestReviewsController_ResponseDoesNotWaitForConfirmation(t *testing.T) {
	env := setupTestEnv(t)
	_, err := env.repo.CreateBook(context.Background(), "Dune", "Herbert", 1965)
	require.NoError(t, err)

	sender := &blockingSender{started: make(chan tasks.ReviewConfirmation, 1), release: make(chan struct{})}
	notifier := notify.NewAsyncNotifier(sender, time.Minute, nil)
	router := NewRouter(RouterConfig{Store: env.repo, Notifier: notifier, Health: env.db})
	env.router = router

	done := make(chan int, 1)
	go func() {
		done <- env.do("POST", "/books/1/reviews/", `{"text":"Great","rating":5}`).Code
	}()

	select {
	case code := <-done:
		assert.Equal(t, http.StatusCreated, code)
	case <-time.After(5 * time.Second):
		t.Fatal("response blocked on the confirmation sender")
	}

	select {
	case c := <-sender.started:
		assert.Equal(t, uint(1), c.BookID)
		assert.Equal(t, 5, c.Rating)
	case <-time.After(5 * time.Second):
		t.Fatal("confirmation was never dispatched")
	}

	close(sender.release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, notifier.Wait(ctx))
}
