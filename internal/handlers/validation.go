package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/evohome/evohome-cms/pkg/jsonvalue"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseValidationErrors converts validator errors to user-friendly format
func ParseValidationErrors(err error) []ValidationError {
	var errors []ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			errors = append(errors, ValidationError{
				Field:   fieldError.Field(),
				Message: getErrorMessage(fieldError),
			})
		}
	}

	return errors
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " must not exceed " + fe.Param() + " characters"
	default:
		return fe.Field() + " is invalid"
	}
}

// bindJSON binds the request body into req and writes a 400 response on failure
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if details := ParseValidationErrors(err); len(details) > 0 {
			respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", details, err)
		} else {
			respondError(c, http.StatusBadRequest, "Invalid request body", err)
		}
		return false
	}
	return true
}

// readDocument reads the request body as an arbitrary JSON document
func readDocument(c *gin.Context) (jsonvalue.Value, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusRequestEntityTooLarge, "Request body too large", err)
		return jsonvalue.Value{}, false
	}
	doc, err := jsonvalue.Parse(body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Request body must be valid JSON", err)
		return jsonvalue.Value{}, false
	}
	return doc, true
}

// intParam parses a non-negative integer path parameter
func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n < 0 {
		respondError(c, http.StatusBadRequest, "Invalid "+name, err)
		return 0, false
	}
	return n, true
}

// intQuery parses an optional integer query parameter, falling back to def
func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
