package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plateful/backend/internal/service"
)

// ErrorHandler renders typed service errors attached via c.Error into JSON
// responses. Store causes are logged server-side and replaced with a generic
// message; nothing from the persistence layer reaches the caller verbatim.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, message := classify(err)
		if status == http.StatusInternalServerError {
			log.Printf("Error: %v", err)
		}
		c.JSON(status, gin.H{"error": message})
	}
}

func classify(err error) (int, string) {
	var modelErr *service.ModelError
	var parseErr *service.ParseError
	var validationErr *service.ValidationError
	var storeErr *service.StoreError

	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.As(err, &modelErr):
		return http.StatusBadGateway, "AI request failed"
	case errors.As(err, &parseErr):
		return http.StatusUnprocessableEntity, "could not interpret AI response"
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity, validationErr.Error()
	case errors.As(err, &storeErr):
		return http.StatusInternalServerError, "internal error"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
