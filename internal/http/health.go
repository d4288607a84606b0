package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether the backing database is reachable.
type HealthChecker interface {
	Ping() error
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version,omitempty"`
}

type HealthController struct {
	db      HealthChecker
	version string
}

func NewHealthController(db HealthChecker, version string) *HealthController {
	return &HealthController{db: db, version: version}
}

// Status reports 503 when the database does not answer a ping
// GET /health
func (h *HealthController) Status(c *gin.Context) {
	resp := HealthResponse{Status: "healthy", Database: "ok", Version: h.version}

	if h.db == nil {
		resp.Database = "not configured"
	} else if err := h.db.Ping(); err != nil {
		loggerFrom(c).Warn("database ping failed", "error", err)
		resp.Status = "unhealthy"
		resp.Database = "unreachable"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}
