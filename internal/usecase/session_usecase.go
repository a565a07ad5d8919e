package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/torii/internal/entity"
	"github.com/eslsoft/torii/internal/repository"
)

// SessionUsecase manages review session lifecycle. Counters can be streamed
// per answer (SubmitAnswer with a session id) or reported once on End; End
// overwrites, it never merges, so clients must pick one strategy.
type SessionUsecase interface {
	Start(ctx context.Context, userID uuid.UUID) (*entity.ReviewSession, error)
	End(ctx context.Context, sessionID uuid.UUID, correctCount, totalAnswered int) (*entity.ReviewSession, error)
	Get(ctx context.Context, sessionID uuid.UUID) (*entity.ReviewSession, error)
}

// NewSessionUsecase wires the repository with default behaviour.
func NewSessionUsecase(sessions repository.SessionRepository) SessionUsecase {
	return &sessionUsecase{sessions: sessions, clock: time.Now}
}

type sessionUsecase struct {
	sessions repository.SessionRepository
	clock    func() time.Time
}

func (u *sessionUsecase) Start(ctx context.Context, userID uuid.UUID) (*entity.ReviewSession, error) {
	if userID == uuid.Nil {
		return nil, entity.ErrInvalidUserID
	}
	return u.sessions.Create(ctx, &entity.ReviewSession{
		UserID:    userID,
		StartedAt: u.clock().UTC(),
	})
}

func (u *sessionUsecase) End(ctx context.Context, sessionID uuid.UUID, correctCount, totalAnswered int) (*entity.ReviewSession, error) {
	if sessionID == uuid.Nil {
		return nil, entity.ErrSessionNotFound
	}
	if correctCount < 0 || totalAnswered < 0 || correctCount > totalAnswered {
		return nil, entity.ErrInvalidCounts
	}
	return u.sessions.Finish(ctx, sessionID, correctCount, totalAnswered)
}

func (u *sessionUsecase) Get(ctx context.Context, sessionID uuid.UUID) (*entity.ReviewSession, error) {
	return u.sessions.Get(ctx, sessionID)
}
