package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/torii/internal/entity"
)

func newQueueFixture() (*queueUsecase, *fakeProgressRepo, *fakeCatalogRepo) {
	progress := newFakeProgressRepo()
	catalog := newFakeCatalogRepo()
	uc := NewQueueUsecase(progress, catalog).(*queueUsecase)
	return uc, progress, catalog
}

func at(t time.Time) *time.Time { return &t }

func TestQueueEmptyForNewUser(t *testing.T) {
	uc, _, _ := newQueueFixture()

	entries, err := uc.Queue(context.Background(), uuid.New(), nil, 20)
	if err != nil {
		t.Fatalf("Queue returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty queue, got %d entries", len(entries))
	}
}

func TestQueueOrderingNeverReviewedFirst(t *testing.T) {
	uc, progress, _ := newQueueFixture()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	progress.now = func() time.Time { return now }

	userID := uuid.New()
	fresh := uuid.New()   // never reviewed, nil next_review_at
	overdue := uuid.New() // most overdue timestamp
	recent := uuid.New()  // less overdue
	future := uuid.New()  // not due at all

	progress.seed(&entity.ProgressRecord{UserID: userID, Unit: entity.VocabUnit(overdue), Skill: entity.SkillRead, NextReviewAt: at(now.Add(-48 * time.Hour))})
	progress.seed(&entity.ProgressRecord{UserID: userID, Unit: entity.VocabUnit(recent), Skill: entity.SkillRead, NextReviewAt: at(now.Add(-1 * time.Hour))})
	progress.seed(&entity.ProgressRecord{UserID: userID, Unit: entity.VocabUnit(fresh), Skill: entity.SkillRead})
	progress.seed(&entity.ProgressRecord{UserID: userID, Unit: entity.VocabUnit(future), Skill: entity.SkillRead, NextReviewAt: at(now.Add(24 * time.Hour))})

	entries, err := uc.Queue(context.Background(), userID, nil, 20)
	if err != nil {
		t.Fatalf("Queue returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 due entries, got %d", len(entries))
	}
	if entries[0].Unit.ID != fresh {
		t.Errorf("expected never-reviewed unit first, got %v", entries[0].Unit.ID)
	}
	if entries[1].Unit.ID != overdue {
		t.Errorf("expected most overdue unit second, got %v", entries[1].Unit.ID)
	}
	if entries[2].Unit.ID != recent {
		t.Errorf("expected least overdue unit last, got %v", entries[2].Unit.ID)
	}
	for _, e := range entries {
		if e.NextReviewAt != nil && e.NextReviewAt.After(now) {
			t.Errorf("queue leaked a non-due entry: %v", e.NextReviewAt)
		}
	}
}

func TestQueueSkillFilter(t *testing.T) {
	uc, progress, _ := newQueueFixture()
	userID := uuid.New()
	itemID := uuid.New()
	progress.seed(&entity.ProgressRecord{UserID: userID, Unit: entity.VocabUnit(itemID), Skill: entity.SkillRead})
	progress.seed(&entity.ProgressRecord{UserID: userID, Unit: entity.VocabUnit(itemID), Skill: entity.SkillListen})

	skill := entity.SkillListen
	entries, err := uc.Queue(context.Background(), userID, &skill, 20)
	if err != nil {
		t.Fatalf("Queue returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].Skill != entity.SkillListen {
		t.Fatalf("expected a single listen entry, got %+v", entries)
	}
}

func TestQueueLimitClamping(t *testing.T) {
	uc, progress, _ := newQueueFixture()
	userID := uuid.New()
	for i := 0; i < 30; i++ {
		progress.seed(&entity.ProgressRecord{UserID: userID, Unit: entity.VocabUnit(uuid.New()), Skill: entity.SkillRead})
	}

	entries, err := uc.Queue(context.Background(), userID, nil, 0)
	if err != nil {
		t.Fatalf("Queue returned error: %v", err)
	}
	if len(entries) != 20 {
		t.Errorf("expected default limit 20, got %d", len(entries))
	}

	entries, err = uc.Queue(context.Background(), userID, nil, 10_000)
	if err != nil {
		t.Fatalf("Queue returned error: %v", err)
	}
	if len(entries) != 30 {
		t.Errorf("expected all 30 entries under the clamped max, got %d", len(entries))
	}
}

func TestQueueByLessonsRequiresLessonIDs(t *testing.T) {
	uc, _, _ := newQueueFixture()

	_, err := uc.QueueByLessons(context.Background(), uuid.New(), nil, nil, 20, true, false)
	if !errors.Is(err, entity.ErrNoLessonIDs) {
		t.Fatalf("expected ErrNoLessonIDs, got %v", err)
	}
}

func TestQueueByLessonsScopesUnits(t *testing.T) {
	uc, progress, catalog := newQueueFixture()
	userID := uuid.New()

	inLesson := uuid.New()
	outOfLesson := uuid.New()
	lessonKanji := uuid.New()
	lessonID := uuid.New()
	catalog.lessons[lessonID] = lessonUnits{vocab: []uuid.UUID{inLesson}, kanji: []uuid.UUID{lessonKanji}}

	progress.seed(&entity.ProgressRecord{UserID: userID, Unit: entity.VocabUnit(inLesson), Skill: entity.SkillRead})
	progress.seed(&entity.ProgressRecord{UserID: userID, Unit: entity.VocabUnit(outOfLesson), Skill: entity.SkillRead})
	progress.seed(&entity.ProgressRecord{UserID: userID, Unit: entity.KanjiUnit(lessonKanji), Skill: entity.SkillRead})

	entries, err := uc.QueueByLessons(context.Background(), userID, []uuid.UUID{lessonID}, nil, 20, true, false)
	if err != nil {
		t.Fatalf("QueueByLessons returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].Unit.ID != inLesson {
		t.Fatalf("expected only the in-lesson vocab item, got %+v", entries)
	}

	// Including kanji widens the scope.
	entries, err = uc.QueueByLessons(context.Background(), userID, []uuid.UUID{lessonID}, nil, 20, true, true)
	if err != nil {
		t.Fatalf("QueueByLessons returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected vocab + kanji entries, got %d", len(entries))
	}
}

func TestQueueByLessonsUnknownLesson(t *testing.T) {
	uc, _, _ := newQueueFixture()

	_, err := uc.QueueByLessons(context.Background(), uuid.New(), []uuid.UUID{uuid.New()}, nil, 20, true, false)
	if !errors.Is(err, entity.ErrLessonNotFound) {
		t.Fatalf("expected ErrLessonNotFound, got %v", err)
	}
}

func TestQueueByPackageUnknownPackage(t *testing.T) {
	uc, _, _ := newQueueFixture()

	_, err := uc.QueueByPackage(context.Background(), uuid.New(), uuid.New(), nil, nil, 20, true, false)
	if !errors.Is(err, entity.ErrPackageNotFound) {
		t.Fatalf("expected ErrPackageNotFound, got %v", err)
	}
}

func TestQueueByPackageLessonSubset(t *testing.T) {
	uc, progress, catalog := newQueueFixture()
	userID := uuid.New()

	itemA := uuid.New()
	itemB := uuid.New()
	lessonA := uuid.New()
	lessonB := uuid.New()
	packageID := uuid.New()
	catalog.lessons[lessonA] = lessonUnits{vocab: []uuid.UUID{itemA}}
	catalog.lessons[lessonB] = lessonUnits{vocab: []uuid.UUID{itemB}}
	catalog.packages[packageID] = []uuid.UUID{lessonA, lessonB}

	progress.seed(&entity.ProgressRecord{UserID: userID, Unit: entity.VocabUnit(itemA), Skill: entity.SkillRead})
	progress.seed(&entity.ProgressRecord{UserID: userID, Unit: entity.VocabUnit(itemB), Skill: entity.SkillRead})

	// Full package scope sees both items.
	entries, err := uc.QueueByPackage(context.Background(), userID, packageID, nil, nil, 20, true, false)
	if err != nil {
		t.Fatalf("QueueByPackage returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for the full package, got %d", len(entries))
	}

	// A subset narrows to the named lesson; foreign lesson ids are ignored.
	entries, err = uc.QueueByPackage(context.Background(), userID, packageID, []uuid.UUID{lessonA, uuid.New()}, nil, 20, true, false)
	if err != nil {
		t.Fatalf("QueueByPackage returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].Unit.ID != itemA {
		t.Fatalf("expected only lesson A's item, got %+v", entries)
	}
}
