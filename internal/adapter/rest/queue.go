package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GET /api/v1/reviews/queue
func (h *Handler) getQueue(c *gin.Context) {
	skill, err := skillFilter(c.Query("skill"))
	if err != nil {
		respondError(c, err)
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "limit must be an integer")
			return
		}
	}

	entries, err := h.queues.Queue(c.Request.Context(), currentUser(c), skill, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"queue": toQueueResponse(entries)})
}

// POST /api/v1/reviews/queue/lessons
func (h *Handler) postLessonQueue(c *gin.Context) {
	var req lessonQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	skill, err := skillFilter(req.Skill)
	if err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.queues.QueueByLessons(
		c.Request.Context(), currentUser(c), req.LessonIDs, skill, req.Limit,
		unitKindFlag(req.IncludeVocab, true), unitKindFlag(req.IncludeKanji, false),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"queue": toQueueResponse(entries)})
}

// POST /api/v1/reviews/queue/package
func (h *Handler) postPackageQueue(c *gin.Context) {
	var req packageQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	skill, err := skillFilter(req.Skill)
	if err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.queues.QueueByPackage(
		c.Request.Context(), currentUser(c), req.PackageID, req.LessonIDs, skill, req.Limit,
		unitKindFlag(req.IncludeVocab, true), unitKindFlag(req.IncludeKanji, false),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"queue": toQueueResponse(entries)})
}

// unitKindFlag resolves an optional include flag; vocab defaults on, kanji
// defaults off.
func unitKindFlag(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
