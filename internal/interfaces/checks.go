package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookreviews/internal/database"
	"github.com/mrlokans/bookreviews/internal/database/catalog"
	"github.com/mrlokans/bookreviews/internal/http"
	"github.com/mrlokans/bookreviews/internal/notify"
	"github.com/mrlokans/bookreviews/internal/scheduler"
	"github.com/mrlokans/bookreviews/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// CatalogStore implementations
var _ http.CatalogStore = (*catalog.Repository)(nil)

// StatsSource implementations
var _ scheduler.StatsSource = (*catalog.Repository)(nil)

// HealthChecker implementations
var _ http.HealthChecker = (*database.Database)(nil)

// =============================================================================
// Review Confirmation
// =============================================================================

// Notifier implementations
var _ notify.Notifier = (*notify.QueueNotifier)(nil)
var _ notify.Notifier = (*notify.AsyncNotifier)(nil)

// ConfirmationSender implementations
var _ tasks.ConfirmationSender = (*notify.LogMailer)(nil)
