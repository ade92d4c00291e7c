package handlers

import (
	"net/http"

	"github.com/evohome/evohome-cms/pkg/errors"
	"github.com/gin-gonic/gin"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin context
// so the observability middleware can include the reason in the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// respondServiceError maps a service error onto its HTTP status
func respondServiceError(c *gin.Context, err error) {
	var validation *errors.ValidationError
	switch {
	case errors.As(err, &validation):
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed",
			[]ValidationError{{Field: validation.Field, Message: validation.Reason}}, err)
	case errors.Is(err, errors.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, "Invalid request", err)
	case errors.Is(err, errors.ErrNotFound):
		respondError(c, http.StatusNotFound, "Not found", err)
	case errors.Is(err, errors.ErrConflict):
		respondError(c, http.StatusConflict, err.Error(), err)
	case errors.Is(err, errors.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
	case errors.Is(err, errors.ErrStorageUnavailable):
		respondError(c, http.StatusServiceUnavailable, "Storage temporarily unavailable", err)
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
