package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/v1/dashboard/overview
func (h *Handler) getOverview(c *gin.Context) {
	skill, err := skillFilter(c.Query("skill"))
	if err != nil {
		respondError(c, err)
		return
	}

	overview, err := h.dashboard.Overview(c.Request.Context(), currentUser(c), skill)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOverviewResponse(overview))
}
