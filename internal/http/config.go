package http

import (
	"github.com/mrlokans/bookreviews/internal/logger"
	"github.com/mrlokans/bookreviews/internal/notify"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Store    CatalogStore
	Notifier notify.Notifier
	Health   HealthChecker

	Logger *logger.Logger

	// Browser origins allowed by CORS; CORS is off when empty
	CORSOrigins []string

	// Application info
	Version string
}
