package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eslsoft/torii/internal/entity"
)

// POST /api/v1/sessions
func (h *Handler) postSession(c *gin.Context) {
	session, err := h.sessions.Start(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSessionResponse(session))
}

// POST /api/v1/sessions/:id/end
func (h *Handler) postSessionEnd(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid session id")
		return
	}

	var req endSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	session, err := h.sessions.Get(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	if session.UserID != currentUser(c) {
		// Do not leak foreign session ids.
		respondError(c, entity.ErrSessionNotFound)
		return
	}

	ended, err := h.sessions.End(c.Request.Context(), sessionID, req.CorrectCount, req.TotalAnswered)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(ended))
}
