package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes returned in APIError.Code.
const (
	ErrorBadRequest       = "BAD_REQUEST"
	ErrorNotFound         = "SCRIPT_NOT_FOUND"
	ErrorInvalidScript    = "SCRIPT_INVALID"
	ErrorInternalError    = "INTERNAL_ERROR"
	ErrorStoreUnavailable = "STORE_UNAVAILABLE"
)

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     *APIError `json:"error,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Details  []string `json:"details,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, &APIResponse{
		Success:   true,
		Data:      data,
		RequestID: c.GetString(requestIDKey),
	})
}

func fail(c *gin.Context, status int, apiErr *APIError) {
	c.AbortWithStatusJSON(status, &APIResponse{
		Success:   false,
		Error:     apiErr,
		RequestID: c.GetString(requestIDKey),
	})
}

func badRequest(c *gin.Context, message string) {
	fail(c, http.StatusBadRequest, &APIError{Code: ErrorBadRequest, Message: message})
}

func notFound(c *gin.Context) {
	fail(c, http.StatusNotFound, &APIError{Code: ErrorNotFound, Message: "script not found"})
}

func internalError(c *gin.Context, message string) {
	fail(c, http.StatusInternalServerError, &APIError{Code: ErrorInternalError, Message: message})
}
