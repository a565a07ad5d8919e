package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PUT /api/v1/difficult-items/:itemId
func (h *Handler) putDifficultItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		badRequest(c, "invalid item id")
		return
	}

	// Both fields are optional; an empty body marks with defaults.
	var req markDifficultRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
	}

	marker, err := h.difficult.Mark(c.Request.Context(), currentUser(c), itemID, req.Note, req.Priority)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, markerResponse{
		ItemID:    marker.ItemID,
		Note:      marker.Note,
		Priority:  marker.Priority,
		UpdatedAt: marker.UpdatedAt,
	})
}

// DELETE /api/v1/difficult-items/:itemId
func (h *Handler) deleteDifficultItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		badRequest(c, "invalid item id")
		return
	}

	if err := h.difficult.Unmark(c.Request.Context(), currentUser(c), itemID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
