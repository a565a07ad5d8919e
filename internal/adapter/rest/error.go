package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eslsoft/torii/internal/entity"
)

// statusOf maps domain sentinels to HTTP statuses. Anything unmapped is an
// internal error.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, entity.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, entity.ErrProgressNotFound),
		errors.Is(err, entity.ErrSessionNotFound),
		errors.Is(err, entity.ErrLessonNotFound),
		errors.Is(err, entity.ErrPackageNotFound),
		errors.Is(err, entity.ErrUnitNotFound),
		errors.Is(err, entity.ErrMarkerNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, entity.ErrInvalidSkill),
		errors.Is(err, entity.ErrInvalidUnitRef),
		errors.Is(err, entity.ErrInvalidUserID),
		errors.Is(err, entity.ErrInvalidCounts),
		errors.Is(err, entity.ErrNoLessonIDs):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, entity.ErrConflict):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func respondError(c *gin.Context, err error) {
	status, code := statusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// Internal details stay in the logs, not on the wire.
		message = "internal error"
	}
	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

func abortError(c *gin.Context, err error) {
	status, code := statusOf(err)
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": code, "message": err.Error()}})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "invalid_request", "message": message}})
}
