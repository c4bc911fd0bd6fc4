package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolioPro/internal/apperr"
)

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func AbortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

func Unauthorized(c *gin.Context)           { Error(c, http.StatusUnauthorized, "unauthorized") }
func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, msg) }
func Forbidden(c *gin.Context, msg string)  { Error(c, http.StatusForbidden, msg) }
func NotFound(c *gin.Context, msg string)   { Error(c, http.StatusNotFound, msg) }
func Conflict(c *gin.Context, msg string)   { Error(c, http.StatusConflict, msg) }
func Internal(c *gin.Context, msg string)   { Error(c, http.StatusInternalServerError, msg) }

// RespondError maps domain error kinds onto transport responses. Anything
// that is not a domain error is an infrastructure failure and stays opaque.
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		BadRequest(c, apperr.Message(err))
	case errors.Is(err, apperr.ErrConflict):
		Conflict(c, apperr.Message(err))
	case errors.Is(err, apperr.ErrNotFound):
		NotFound(c, apperr.Message(err))
	default:
		Internal(c, "internal error")
	}
}
