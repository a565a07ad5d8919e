package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/torii/internal/adapter/repository"
	"github.com/eslsoft/torii/internal/adapter/rest"
	"github.com/eslsoft/torii/internal/infrastructure/config"
	"github.com/eslsoft/torii/internal/usecase"
)

// Server represents the application server
type Server struct {
	config     *config.Config
	httpServer *http.Server
	logger     *logrus.Logger
}

// NewServer wires repositories, usecases and the HTTP surface.
func NewServer(cfg *config.Config, logger *logrus.Logger, pool *pgxpool.Pool) *Server {
	progressRepo := repository.NewProgressRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)
	difficultRepo := repository.NewDifficultItemRepository(pool)

	handler := rest.NewHandler(
		usecase.NewReviewUsecase(progressRepo, sessionRepo, catalogRepo),
		usecase.NewQueueUsecase(progressRepo, catalogRepo),
		usecase.NewSessionUsecase(sessionRepo),
		usecase.NewDashboardUsecase(progressRepo, sessionRepo, difficultRepo),
		usecase.NewDifficultItemUsecase(difficultRepo, catalogRepo),
		logger,
	)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(RequestLogger(logger), gin.Recovery())
	handler.Register(engine)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: engine,
	}

	return &Server{
		config:     cfg,
		httpServer: httpServer,
		logger:     logger,
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Infof("HTTP server starting on %s", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to serve HTTP: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Errorf("Failed to shutdown HTTP server: %v", err)
		return err
	}

	s.logger.Info("Server shutdown complete")
	return nil
}
