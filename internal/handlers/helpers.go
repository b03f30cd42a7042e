package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/TanishqPratap/content-oasis-app/internal/middleware"
	"github.com/TanishqPratap/content-oasis-app/internal/repositories"
)

const requestIDContextKey = "request_id"

func requestIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(requestIDContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id
		}
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDContextKey, requestID)
	return requestID
}

func userIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(middleware.UserIDKey); ok {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}

func auditUserID(c *gin.Context) *string {
	if id := userIDFromContext(c); id != "" {
		return &id
	}
	return nil
}

// respondRepoError maps repository failures onto the service's error
// taxonomy: missing rows are 404s, illegal state transitions are 409s, and
// anything else is a failed remote operation reported once with no retry.
func respondRepoError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repositories.ErrSessionNotFound),
		errors.Is(err, repositories.ErrStreamNotFound),
		errors.Is(err, repositories.ErrProfileNotFound),
		errors.Is(err, repositories.ErrContentNotFound),
		errors.Is(err, repositories.ErrSubscriptionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repositories.ErrSessionClosed),
		errors.Is(err, repositories.ErrInvalidTransition),
		errors.Is(err, repositories.ErrStreamNotLive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
