package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/torii/internal/entity"
)

// POST /api/v1/reviews/answers
func (h *Handler) postAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	kind, err := entity.ParseUnitKind(req.UnitKind)
	if err != nil {
		respondError(c, err)
		return
	}
	skill, err := entity.ParseSkill(req.Skill)
	if err != nil {
		respondError(c, err)
		return
	}
	if skill == entity.SkillUnspecified {
		skill = entity.DefaultSkill
	}

	userID := currentUser(c)
	rec, err := h.reviews.SubmitAnswer(
		c.Request.Context(), userID,
		entity.UnitRef{Kind: kind, ID: req.UnitID}, skill, req.Correct, req.SessionID,
	)
	if err != nil {
		h.logger.WithError(err).WithFields(logFields(userID, req)).Warn("submit answer failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProgressResponse(rec))
}

func logFields(userID uuid.UUID, req answerRequest) logrus.Fields {
	return logrus.Fields{
		"user_id":   userID,
		"unit_kind": req.UnitKind,
		"unit_id":   req.UnitID,
		"skill":     req.Skill,
	}
}
