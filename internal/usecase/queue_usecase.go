package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/torii/internal/entity"
	"github.com/eslsoft/torii/internal/repository"
)

// QueueUsecase builds ordered, capped queues of units due for review, either
// globally or scoped to a lesson set or a package.
type QueueUsecase interface {
	Queue(ctx context.Context, userID uuid.UUID, skill *entity.Skill, limit int) ([]entity.QueueEntry, error)
	QueueByLessons(ctx context.Context, userID uuid.UUID, lessonIDs []uuid.UUID, skill *entity.Skill, limit int, includeVocab, includeKanji bool) ([]entity.QueueEntry, error)
	QueueByPackage(ctx context.Context, userID uuid.UUID, packageID uuid.UUID, lessonIDs []uuid.UUID, skill *entity.Skill, limit int, includeVocab, includeKanji bool) ([]entity.QueueEntry, error)
}

// NewQueueUsecase wires the repositories with default behaviour.
func NewQueueUsecase(progress repository.ProgressRepository, catalog repository.CatalogRepository) QueueUsecase {
	return &queueUsecase{progress: progress, catalog: catalog}
}

type queueUsecase struct {
	progress repository.ProgressRepository
	catalog  repository.CatalogRepository
}

func (u *queueUsecase) Queue(ctx context.Context, userID uuid.UUID, skill *entity.Skill, limit int) ([]entity.QueueEntry, error) {
	if userID == uuid.Nil {
		return nil, entity.ErrInvalidUserID
	}
	return u.progress.ListDue(ctx, &repository.DueQuery{
		UserID: userID,
		Skill:  skill,
		Limit:  limit,
	})
}

func (u *queueUsecase) QueueByLessons(ctx context.Context, userID uuid.UUID, lessonIDs []uuid.UUID, skill *entity.Skill, limit int, includeVocab, includeKanji bool) ([]entity.QueueEntry, error) {
	if userID == uuid.Nil {
		return nil, entity.ErrInvalidUserID
	}
	if len(lessonIDs) == 0 {
		return nil, entity.ErrNoLessonIDs
	}

	vocabIDs, kanjiIDs, err := u.catalog.LessonUnits(ctx, lessonIDs, includeVocab, includeKanji)
	if err != nil {
		return nil, err
	}

	return u.progress.ListDue(ctx, &repository.DueQuery{
		UserID:   userID,
		Skill:    skill,
		VocabIDs: vocabIDs,
		KanjiIDs: kanjiIDs,
		Limit:    limit,
	})
}

func (u *queueUsecase) QueueByPackage(ctx context.Context, userID uuid.UUID, packageID uuid.UUID, lessonIDs []uuid.UUID, skill *entity.Skill, limit int, includeVocab, includeKanji bool) ([]entity.QueueEntry, error) {
	if userID == uuid.Nil {
		return nil, entity.ErrInvalidUserID
	}

	packageLessons, err := u.catalog.PackageLessons(ctx, packageID)
	if err != nil {
		return nil, err
	}

	// A caller-supplied lesson list narrows the scope to the subset that
	// actually belongs to the package; ids outside it are ignored.
	scoped := packageLessons
	if len(lessonIDs) > 0 {
		scoped = lo.Filter(lessonIDs, func(id uuid.UUID, _ int) bool {
			return lo.Contains(packageLessons, id)
		})
	}
	if len(scoped) == 0 {
		return []entity.QueueEntry{}, nil
	}

	vocabIDs, kanjiIDs, err := u.catalog.LessonUnits(ctx, scoped, includeVocab, includeKanji)
	if err != nil {
		return nil, err
	}

	return u.progress.ListDue(ctx, &repository.DueQuery{
		UserID:   userID,
		Skill:    skill,
		VocabIDs: vocabIDs,
		KanjiIDs: kanjiIDs,
		Limit:    limit,
	})
}
