package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eslsoft/torii/internal/entity"
	"github.com/eslsoft/torii/internal/repository"
)

// SessionRepository is the pgx-backed store for review sessions.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository constructs a pgx-backed session repository.
func NewSessionRepository(pool *pgxpool.Pool) repository.SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, session *entity.ReviewSession) (*entity.ReviewSession, error) {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	const query = `
		INSERT INTO review_sessions (id, user_id, started_at, correct_count, total_answered)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.pool.Exec(ctx, query,
		session.ID, session.UserID, session.StartedAt, session.CorrectCount, session.TotalAnswered,
	); err != nil {
		return nil, fmt.Errorf("create review session: %w", err)
	}
	return session, nil
}

func (r *SessionRepository) Get(ctx context.Context, id uuid.UUID) (*entity.ReviewSession, error) {
	const query = `
		SELECT id, user_id, started_at, ended_at, correct_count, total_answered
		FROM review_sessions
		WHERE id = $1`

	var s entity.ReviewSession
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.StartedAt, &s.EndedAt, &s.CorrectCount, &s.TotalAnswered,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get review session: %w", err)
	}
	return &s, nil
}

// RecordAnswer increments the counters in a single statement so concurrent
// submissions under one session never lose updates. An unknown or already
// ended session is a silent no-op.
func (r *SessionRepository) RecordAnswer(ctx context.Context, id uuid.UUID, correct bool) error {
	const query = `
		UPDATE review_sessions
		SET total_answered = total_answered + 1,
		    correct_count = correct_count + CASE WHEN $2 THEN 1 ELSE 0 END
		WHERE id = $1 AND ended_at IS NULL`
	if _, err := r.pool.Exec(ctx, query, id, correct); err != nil {
		return fmt.Errorf("record session answer: %w", err)
	}
	return nil
}

// Finish overwrites the counters with the client's final totals; it does not
// merge with values accumulated through RecordAnswer.
func (r *SessionRepository) Finish(ctx context.Context, id uuid.UUID, correctCount, totalAnswered int) (*entity.ReviewSession, error) {
	const query = `
		UPDATE review_sessions
		SET ended_at = now(), correct_count = $2, total_answered = $3
		WHERE id = $1
		RETURNING id, user_id, started_at, ended_at, correct_count, total_answered`

	var s entity.ReviewSession
	err := r.pool.QueryRow(ctx, query, id, correctCount, totalAnswered).Scan(
		&s.ID, &s.UserID, &s.StartedAt, &s.EndedAt, &s.CorrectCount, &s.TotalAnswered,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrSessionNotFound
		}
		return nil, fmt.Errorf("finish review session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepository) StartedBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]entity.ReviewSession, error) {
	const query = `
		SELECT id, user_id, started_at, ended_at, correct_count, total_answered
		FROM review_sessions
		WHERE user_id = $1 AND started_at >= $2 AND started_at < $3
		ORDER BY started_at ASC`

	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []entity.ReviewSession
	for rows.Next() {
		var s entity.ReviewSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.StartedAt, &s.EndedAt, &s.CorrectCount, &s.TotalAnswered); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

func (r *SessionRepository) ActiveDays(ctx context.Context, userID uuid.UUID, since time.Time) ([]time.Time, error) {
	const query = `
		SELECT DISTINCT date_trunc('day', started_at AT TIME ZONE 'UTC') AS day
		FROM review_sessions
		WHERE user_id = $1 AND started_at >= $2
		ORDER BY day DESC`

	rows, err := r.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list active days: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("scan active day: %w", err)
		}
		days = append(days, day.UTC())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate active days: %w", err)
	}
	return days, nil
}
