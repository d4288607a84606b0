package notify

import (
	"context"

	"github.com/mrlokans/bookreviews/internal/logger"
	"github.com/mrlokans/bookreviews/internal/tasks"
)

// LogMailer simulates the confirmation email by logging it.
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	if log == nil {
		log = logger.Nop()
	}
	return &LogMailer{log: log}
}

func (m *LogMailer) SendReviewConfirmation(ctx context.Context, c tasks.ReviewConfirmation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.log.Info("simulating confirmation email",
		"review_id", c.ReviewID,
		"book_id", c.BookID,
		"rating", c.Rating,
	)
	return nil
}
