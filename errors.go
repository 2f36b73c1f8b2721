package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnauthenticated      = errors.New("unauthorized")
	ErrInvalidToken         = errors.New("invalid token")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("not found")
	ErrInvalidID            = errors.New("invalid id")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
)

// statusFor maps an error onto the HTTP status it is reported with.
// Anything unknown is a store or unhandled failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrInsufficientQuantity):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": ...}. Messages maps the known kinds to
// route specific text; a 500 always uses the generic fallback so store
// internals never reach the client.
func respondError(c *gin.Context, op string, err error, messages map[error]string, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("op", op).Str("rid", c.GetString(ridKey)).Msg("store failure")
		c.AbortWithStatusJSON(status, gin.H{"error": fallback})
		return
	}
	for kind, msg := range messages {
		if errors.Is(err, kind) {
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func notFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"message": "Content Not Found"})
}

func recoveryHandler(c *gin.Context, recovered any) {
	msg := "internal server error"
	if err, ok := recovered.(error); ok {
		msg = err.Error()
	} else if s, ok := recovered.(string); ok {
		msg = s
	}
	log.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("recovered from panic")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": msg})
}
