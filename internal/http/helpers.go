package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/schooldesk/internal/entities"
)

// --- Response Types ---

// ErrorResponse is the error body of object-returning endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"` // validation errors and similar context
}

// WriteResponse is the body of every mutating endpoint.
type WriteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// --- Write Endpoint Helpers ---

func respondWriteOK(c *gin.Context) {
	c.JSON(http.StatusOK, WriteResponse{Success: true})
}

// respondWriteError maps a store error onto {success:false} with the
// matching status code. Storage failures are logged, never echoed.
func respondWriteError(c *gin.Context, err error, context string) {
	status := storeErrorStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("Internal error (%s): %v", context, err)
		c.JSON(status, WriteResponse{Success: false})
		return
	}
	c.JSON(status, WriteResponse{Success: false, Message: err.Error()})
}

// storeErrorStatus classifies repository errors into HTTP status codes.
func storeErrorStatus(err error) int {
	switch {
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}
