// Package notify dispatches the post-write review confirmation.
//
// Notify never blocks its caller and never reports failure to it: the work is
// handed to a detached goroutine, and anything that goes wrong there (enqueue
// errors, sender errors, panics) is logged and dropped. Each review gets at
// most one delivery attempt.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/logger"
	"github.com/mrlokans/bookreviews/internal/tasks"
)

// Notifier is scheduled by the review handler after a review is persisted.
type Notifier interface {
	Notify(review entities.Review)
}

// DefaultSendTimeout bounds a direct send when no task queue is used.
const DefaultSendTimeout = 30 * time.Second

func confirmationFor(review entities.Review) tasks.ReviewConfirmation {
	return tasks.ReviewConfirmation{
		ReviewID: review.ID,
		BookID:   review.BookID,
		Rating:   review.Rating,
	}
}

// inflight tracks detached dispatches so shutdown and tests can wait for them.
type inflight struct {
	wg sync.WaitGroup
}

func (f *inflight) goDetached(log *logger.Logger, reviewID uint, fn func()) {
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error("review confirmation panicked", "review_id", reviewID, "panic", r)
			}
		}()
		fn()
	}()
}

// Wait blocks until every dispatched notification has finished or ctx is done.
func (f *inflight) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// QueueNotifier enqueues a ReviewConfirmationTask on the backlite queue.
type QueueNotifier struct {
	inflight
	client *tasks.Client
	log    *logger.Logger
}

func NewQueueNotifier(client *tasks.Client, log *logger.Logger) *QueueNotifier {
	if log == nil {
		log = logger.Nop()
	}
	return &QueueNotifier{client: client, log: log}
}

func (n *QueueNotifier) Notify(review entities.Review) {
	n.goDetached(n.log, review.ID, func() {
		ids, err := n.client.Add(tasks.ReviewConfirmationTask{ReviewConfirmation: confirmationFor(review)}).Save()
		if err != nil {
			n.log.Error("failed to enqueue review confirmation", "review_id", review.ID, "error", err)
			return
		}
		n.log.Debug("review confirmation enqueued", "review_id", review.ID, "task_ids", ids)
	})
}

// AsyncNotifier calls the sender directly from a detached goroutine.
// Used when the task queue is disabled.
type AsyncNotifier struct {
	inflight
	sender  tasks.ConfirmationSender
	timeout time.Duration
	log     *logger.Logger
}

func NewAsyncNotifier(sender tasks.ConfirmationSender, timeout time.Duration, log *logger.Logger) *AsyncNotifier {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	return &AsyncNotifier{sender: sender, timeout: timeout, log: log}
}

func (n *AsyncNotifier) Notify(review entities.Review) {
	n.goDetached(n.log, review.ID, func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.sender.SendReviewConfirmation(ctx, confirmationFor(review)); err != nil {
			n.log.Error("review confirmation failed", "review_id", review.ID, "error", err)
		}
	})
}
