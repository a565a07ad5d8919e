// Package rest exposes the learning progress service over HTTP with gin.
// Handlers are transport-only: bind the request, call one usecase, translate
// the result.
package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/torii/internal/entity"
	"github.com/eslsoft/torii/internal/usecase"
)

// Handler bundles the usecases behind the HTTP surface.
type Handler struct {
	reviews   usecase.ReviewUsecase
	queues    usecase.QueueUsecase
	sessions  usecase.SessionUsecase
	dashboard usecase.DashboardUsecase
	difficult usecase.DifficultItemUsecase
	logger    *logrus.Logger
}

func NewHandler(
	reviews usecase.ReviewUsecase,
	queues usecase.QueueUsecase,
	sessions usecase.SessionUsecase,
	dashboard usecase.DashboardUsecase,
	difficult usecase.DifficultItemUsecase,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		reviews:   reviews,
		queues:    queues,
		sessions:  sessions,
		dashboard: dashboard,
		difficult: difficult,
		logger:    logger,
	}
}

// Register mounts all routes. Everything under /api/v1 requires a user
// identity; /healthz does not.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/healthz", h.healthz)

	api := r.Group("/api/v1", RequireUser())

	api.GET("/reviews/queue", h.getQueue)
	api.POST("/reviews/queue/lessons", h.postLessonQueue)
	api.POST("/reviews/queue/package", h.postPackageQueue)
	api.POST("/reviews/answers", h.postAnswer)

	api.POST("/sessions", h.postSession)
	api.POST("/sessions/:id/end", h.postSessionEnd)

	api.GET("/dashboard/overview", h.getOverview)

	api.PUT("/difficult-items/:itemId", h.putDifficultItem)
	api.DELETE("/difficult-items/:itemId", h.deleteDifficultItem)
}

func (h *Handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// skillFilter parses an optional skill code into a filter pointer; empty
// input means no filter.
func skillFilter(code string) (*entity.Skill, error) {
	skill, err := entity.ParseSkill(code)
	if err != nil {
		return nil, err
	}
	if skill == entity.SkillUnspecified {
		return nil, nil
	}
	return &skill, nil
}
