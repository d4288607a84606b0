package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
)

// ConfirmationSender delivers the confirmation message for a posted review.
type ConfirmationSender interface {
	SendReviewConfirmation(ctx context.Context, c ReviewConfirmation) error
}

// ReviewConfirmation is the data a sender needs about the persisted review.
type ReviewConfirmation struct {
	ReviewID uint `json:"review_id"`
	BookID   uint `json:"book_id"`
	Rating   int  `json:"rating"`
}

// ReviewConfirmationTask sends a confirmation for a single persisted review.
type ReviewConfirmationTask struct {
	ReviewConfirmation
}

// Config returns the queue configuration for review confirmations.
// A single attempt: confirmations are best-effort and never retried.
func (t ReviewConfirmationTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "review_confirmation",
		MaxAttempts: 1,
		Backoff:     time.Second,
		Timeout:     DefaultConfirmationTimeout,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// DefaultConfirmationTimeout bounds one send when no timeout is configured.
const DefaultConfirmationTimeout = 30 * time.Second

// ReviewConfirmationProcessor creates a processor function for ReviewConfirmationTask.
func ReviewConfirmationProcessor(sender ConfirmationSender) backlite.QueueProcessor[ReviewConfirmationTask] {
	return func(ctx context.Context, task ReviewConfirmationTask) error {
		if sender == nil {
			return fmt.Errorf("confirmation sender not configured")
		}
		if err := sender.SendReviewConfirmation(ctx, task.ReviewConfirmation); err != nil {
			return fmt.Errorf("confirm review %d: %w", task.ReviewID, err)
		}
		return nil
	}
}

// NewReviewConfirmationQueue creates a backlite queue for review confirmations.
// A positive timeout replaces the default per-send deadline.
func NewReviewConfirmationQueue(sender ConfirmationSender, timeout time.Duration) backlite.Queue {
	q := backlite.NewQueue(ReviewConfirmationProcessor(sender))
	if timeout > 0 {
		q.Config().Timeout = timeout
	}
	return q
}
