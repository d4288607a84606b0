package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookreviews/internal/schema"
)

// Machine-readable error codes.
const (
	CodeValidation = "validation_error"
	CodeNotFound   = "not_found"
	CodeBadRequest = "bad_request"
	CodeInternal   = "internal_error"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: CodeBadRequest})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: CodeNotFound})
}

// respondValidation sends a 422 with per-field details when err is a *schema.ValidationError.
func respondValidation(c *gin.Context, err error) {
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		respondInternalError(c, err, "validation")
		return
	}
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Code:    CodeValidation,
		Details: verr.Fields,
	})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	loggerFrom(c).Error("internal error", "context", context, "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternal})
}

// --- Success Response Helpers ---

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// --- Parameter Parsing ---

// parseBookID extracts the book_id path parameter.
// Responds with 422 when it is not an integer, and with 404 when it is too large to exist.
func parseBookID(c *gin.Context) (uint, bool) {
	id, err := schema.ParseBookID(c.Param("book_id"))
	if errors.Is(err, schema.ErrUnknownBookID) {
		respondNotFound(c, "book")
		return 0, false
	}
	if err != nil {
		respondValidation(c, err)
		return 0, false
	}
	return id, true
}
