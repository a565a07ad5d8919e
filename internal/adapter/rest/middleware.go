package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eslsoft/torii/internal/entity"
)

// UserIDHeader carries the authenticated user's id. Authentication itself is
// terminated upstream; this service only trusts the forwarded identity.
const UserIDHeader = "X-User-ID"

const userIDKey = "torii.userID"

// RequireUser extracts the user id from the request header and aborts with
// 401 when it is missing or not a valid uuid.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		if raw == "" {
			abortError(c, entity.ErrUnauthenticated)
			return
		}
		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			abortError(c, entity.ErrUnauthenticated)
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUser(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
