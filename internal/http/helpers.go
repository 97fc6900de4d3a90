package http

import (
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// --- Response Types ---

// APIResponse is the response format of every catalog endpoint. Code mirrors
// the HTTP status.
type APIResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondError sends an error response with the given status code.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, APIResponse{Code: status, Message: message})
}

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, message)
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	respondError(c, http.StatusNotFound, resource+" not found")
}

// respondInternalError logs the error and sends a 500 Internal Server Error
// response naming the failed operation.
func respondInternalError(c *gin.Context, err error, operation string) {
	log.Error("Internal error", "op", operation, "err", err)
	respondError(c, http.StatusInternalServerError, "failed to "+operation+": "+err.Error())
}

// --- Success Response Helpers ---

// respond sends a success response with a message and optional data.
func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, APIResponse{Code: status, Message: message, Data: data})
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

// queryFlag reports whether a boolean query parameter is set to a true value.
func queryFlag(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.Query(name))
	return err == nil && v
}
