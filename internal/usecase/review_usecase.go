package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/torii/internal/entity"
	"github.com/eslsoft/torii/internal/repository"
	"github.com/eslsoft/torii/pkg/srs"
)

// ReviewUsecase encapsulates the answer-submission flow: stage transition,
// persistence and optional session bookkeeping.
type ReviewUsecase interface {
	SubmitAnswer(ctx context.Context, userID uuid.UUID, unit entity.UnitRef, skill entity.Skill, correct bool, sessionID *uuid.UUID) (*entity.ProgressRecord, error)
}

// NewReviewUsecase wires the repositories with default behaviour.
func NewReviewUsecase(progress repository.ProgressRepository, sessions repository.SessionRepository, catalog repository.CatalogRepository) ReviewUsecase {
	return &reviewUsecase{
		progress: progress,
		sessions: sessions,
		catalog:  catalog,
		clock:    time.Now,
	}
}

type reviewUsecase struct {
	progress repository.ProgressRepository
	sessions repository.SessionRepository
	catalog  repository.CatalogRepository
	clock    func() time.Time
}

func (u *reviewUsecase) SubmitAnswer(ctx context.Context, userID uuid.UUID, unit entity.UnitRef, skill entity.Skill, correct bool, sessionID *uuid.UUID) (*entity.ProgressRecord, error) {
	if userID == uuid.Nil {
		return nil, entity.ErrInvalidUserID
	}
	if err := unit.Validate(); err != nil {
		return nil, err
	}
	if !skill.Valid() {
		return nil, entity.ErrInvalidSkill
	}

	exists, err := u.catalog.UnitExists(ctx, unit)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, entity.ErrUnitNotFound
	}

	now := u.clock().UTC()
	rec, err := u.progress.Mutate(ctx, userID, unit, skill, func(rec *entity.ProgressRecord) error {
		out := srs.Advance(rec.Stage, correct)
		rec.Stage = out.Stage
		if out.ResetStreak {
			rec.CorrectStreak = 0
		}
		rec.CorrectStreak += out.StreakDelta
		rec.WrongCount += out.WrongDelta

		next := out.NextReviewAt(now)
		rec.LastReviewedAt = &now
		rec.NextReviewAt = &next
		rec.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	// A stale or foreign session reference must never fail the submission;
	// the committed stage transition is the authoritative result.
	if sessionID != nil && *sessionID != uuid.Nil {
		_ = u.sessions.RecordAnswer(ctx, *sessionID, correct)
	}

	return rec, nil
}
