package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/torii/internal/entity"
)

// SessionRepository abstracts persistence for review sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.ReviewSession) (*entity.ReviewSession, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.ReviewSession, error)

	// RecordAnswer atomically increments the session counters. An unknown id
	// is a silent no-op: a stale session reference must never fail the answer
	// submission that carried it.
	RecordAnswer(ctx context.Context, id uuid.UUID, correct bool) error

	// Finish stamps ended_at and overwrites both counters with the supplied
	// final values. Returns entity.ErrSessionNotFound for an unknown id.
	Finish(ctx context.Context, id uuid.UUID, correctCount, totalAnswered int) (*entity.ReviewSession, error)

	// StartedBetween returns the user's sessions with started_at in [from, to).
	StartedBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]entity.ReviewSession, error)

	// ActiveDays returns the distinct UTC days (midnight timestamps) since
	// the given instant on which the user started at least one session.
	ActiveDays(ctx context.Context, userID uuid.UUID, since time.Time) ([]time.Time, error)
}
