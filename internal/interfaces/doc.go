// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - CatalogStore: Book and review persistence (internal/http/books.go)
//   - HealthChecker: Database reachability (internal/http/health.go)
//   - StatsSource: Catalog totals for periodic reports (internal/scheduler/stats_report.go)
//
// ## Review Confirmation Interfaces
//
//   - Notifier: Fire-and-forget dispatch after a review is stored (internal/notify/notify.go)
//   - ConfirmationSender: Delivers one confirmation (internal/tasks/review_confirmation.go)
//
// # Adding a Real Mail Provider
//
// The confirmation is currently simulated by notify.LogMailer. To send real email:
//
//  1. Implement ConfirmationSender in internal/notify/
//
//     type SMTPMailer struct {
//         addr string
//     }
//
//     func (m *SMTPMailer) SendReviewConfirmation(ctx context.Context, c tasks.ReviewConfirmation) error
//
//     var _ tasks.ConfirmationSender = (*SMTPMailer)(nil)
//
//  2. Pass it to tasks.NewReviewConfirmationQueue in entrypoint.go
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for examples.
package interfaces
