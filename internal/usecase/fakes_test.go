package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/torii/internal/entity"
	"github.com/eslsoft/torii/internal/repository"
)

// ---------------------------------------------------------------------------
// progress fake

type fakeProgressRepo struct {
	mu    sync.RWMutex
	now   func() time.Time
	seq   int
	items map[string]*progressSlot
	meta  map[uuid.UUID]unitMeta // unit id -> display data
}

type progressSlot struct {
	rec *entity.ProgressRecord
	seq int
}

type unitMeta struct {
	display string
	meaning string
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{
		now:   time.Now,
		items: make(map[string]*progressSlot),
		meta:  make(map[uuid.UUID]unitMeta),
	}
}

func progressKey(userID uuid.UUID, unit entity.UnitRef, skill entity.Skill) string {
	return fmt.Sprintf("%s|%s|%s|%s", userID, unit.Kind, unit.ID, skill)
}

func cloneProgress(src *entity.ProgressRecord) *entity.ProgressRecord {
	if src == nil {
		return nil
	}
	copy := *src
	if src.LastReviewedAt != nil {
		t := *src.LastReviewedAt
		copy.LastReviewedAt = &t
	}
	if src.NextReviewAt != nil {
		t := *src.NextReviewAt
		copy.NextReviewAt = &t
	}
	return &copy
}

func (r *fakeProgressRepo) Get(ctx context.Context, userID uuid.UUID, unit entity.UnitRef, skill entity.Skill) (*entity.ProgressRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	slot, ok := r.items[progressKey(userID, unit, skill)]
	if !ok {
		return nil, entity.ErrProgressNotFound
	}
	return cloneProgress(slot.rec), nil
}

func (r *fakeProgressRepo) Mutate(ctx context.Context, userID uuid.UUID, unit entity.UnitRef, skill entity.Skill, fn func(*entity.ProgressRecord) error) (*entity.ProgressRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := progressKey(userID, unit, skill)
	slot, ok := r.items[key]
	if !ok {
		now := r.now().UTC()
		r.seq++
		slot = &progressSlot{
			rec: &entity.ProgressRecord{
				ID:        uuid.New(),
				UserID:    userID,
				Unit:      unit,
				Skill:     skill,
				CreatedAt: now,
				UpdatedAt: now,
			},
			seq: r.seq,
		}
		r.items[key] = slot
	}

	rec := cloneProgress(slot.rec)
	if err := fn(rec); err != nil {
		return nil, err
	}
	slot.rec = cloneProgress(rec)
	return rec, nil
}

func (r *fakeProgressRepo) ListDue(ctx context.Context, query *repository.DueQuery) ([]entity.QueueEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query.Clamp()

	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now().UTC()
	var due []*progressSlot
	for _, slot := range r.items {
		rec := slot.rec
		if rec.UserID != query.UserID || !rec.Due(now) {
			continue
		}
		if query.Skill != nil && rec.Skill != *query.Skill {
			continue
		}
		if query.VocabIDs != nil || query.KanjiIDs != nil {
			if !containsUnit(query, rec.Unit) {
				continue
			}
		}
		due = append(due, slot)
	}

	sort.Slice(due, func(i, j int) bool {
		a, b := due[i].rec.NextReviewAt, due[j].rec.NextReviewAt
		switch {
		case a == nil && b == nil:
			return due[i].seq < due[j].seq
		case a == nil:
			return true
		case b == nil:
			return false
		case a.Equal(*b):
			return due[i].seq < due[j].seq
		default:
			return a.Before(*b)
		}
	})

	if len(due) > query.Limit {
		due = due[:query.Limit]
	}

	entries := make([]entity.QueueEntry, 0, len(due))
	for _, slot := range due {
		meta := r.meta[slot.rec.Unit.ID]
		entries = append(entries, entity.QueueEntry{
			Unit:         slot.rec.Unit,
			DisplayText:  meta.display,
			Meaning:      meta.meaning,
			Skill:        slot.rec.Skill,
			Stage:        slot.rec.Stage,
			NextReviewAt: cloneProgress(slot.rec).NextReviewAt,
		})
	}
	return entries, nil
}

func containsUnit(query *repository.DueQuery, unit entity.UnitRef) bool {
	ids := query.VocabIDs
	if unit.IsKanji() {
		ids = query.KanjiIDs
	}
	for _, id := range ids {
		if id == unit.ID {
			return true
		}
	}
	return false
}

func (r *fakeProgressRepo) CountDue(ctx context.Context, userID uuid.UUID, skill *entity.Skill) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now().UTC()
	count := 0
	for _, slot := range r.items {
		rec := slot.rec
		if rec.UserID != userID || !rec.Due(now) {
			continue
		}
		if skill != nil && rec.Skill != *skill {
			continue
		}
		count++
	}
	return count, nil
}

// seed inserts a record directly, bypassing the ladder.
func (r *fakeProgressRepo) seed(rec *entity.ProgressRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	r.items[progressKey(rec.UserID, rec.Unit, rec.Skill)] = &progressSlot{rec: cloneProgress(rec), seq: r.seq}
}

// ---------------------------------------------------------------------------
// session fake

type fakeSessionRepo struct {
	mu    sync.RWMutex
	now   func() time.Time
	items map[uuid.UUID]*entity.ReviewSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{now: time.Now, items: make(map[uuid.UUID]*entity.ReviewSession)}
}

func cloneSession(src *entity.ReviewSession) *entity.ReviewSession {
	copy := *src
	if src.EndedAt != nil {
		t := *src.EndedAt
		copy.EndedAt = &t
	}
	return &copy
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.ReviewSession) (*entity.ReviewSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	r.items[session.ID] = cloneSession(session)
	return cloneSession(session), nil
}

func (r *fakeSessionRepo) Get(ctx context.Context, id uuid.UUID) (*entity.ReviewSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[id]
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	return cloneSession(s), nil
}

func (r *fakeSessionRepo) RecordAnswer(ctx context.Context, id uuid.UUID, correct bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok || s.EndedAt != nil {
		return nil
	}
	s.TotalAnswered++
	if correct {
		s.CorrectCount++
	}
	return nil
}

func (r *fakeSessionRepo) Finish(ctx context.Context, id uuid.UUID, correctCount, totalAnswered int) (*entity.ReviewSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	ended := r.now().UTC()
	s.EndedAt = &ended
	s.CorrectCount = correctCount
	s.TotalAnswered = totalAnswered
	return cloneSession(s), nil
}

func (r *fakeSessionRepo) StartedBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]entity.ReviewSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.ReviewSession
	for _, s := range r.items {
		if s.UserID != userID {
			continue
		}
		if s.StartedAt.Before(from) || !s.StartedAt.Before(to) {
			continue
		}
		out = append(out, *cloneSession(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

func (r *fakeSessionRepo) ActiveDays(ctx context.Context, userID uuid.UUID, since time.Time) ([]time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[time.Time]struct{})
	for _, s := range r.items {
		if s.UserID != userID || s.StartedAt.Before(since) {
			continue
		}
		seen[s.StartedAt.UTC().Truncate(24*time.Hour)] = struct{}{}
	}
	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days, nil
}

// ---------------------------------------------------------------------------
// catalog fake

type fakeCatalogRepo struct {
	mu       sync.RWMutex
	vocab    map[uuid.UUID]struct{}
	kanji    map[uuid.UUID]struct{}
	lessons  map[uuid.UUID]lessonUnits
	packages map[uuid.UUID][]uuid.UUID
}

type lessonUnits struct {
	vocab []uuid.UUID
	kanji []uuid.UUID
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		vocab:    make(map[uuid.UUID]struct{}),
		kanji:    make(map[uuid.UUID]struct{}),
		lessons:  make(map[uuid.UUID]lessonUnits),
		packages: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *fakeCatalogRepo) addVocab(id uuid.UUID) { r.vocab[id] = struct{}{} }
func (r *fakeCatalogRepo) addKanji(id uuid.UUID) { r.kanji[id] = struct{}{} }

func (r *fakeCatalogRepo) UnitExists(ctx context.Context, unit entity.UnitRef) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if unit.IsVocab() {
		_, ok := r.vocab[unit.ID]
		return ok, nil
	}
	_, ok := r.kanji[unit.ID]
	return ok, nil
}

func (r *fakeCatalogRepo) LessonUnits(ctx context.Context, lessonIDs []uuid.UUID, includeVocab, includeKanji bool) ([]uuid.UUID, []uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	vocabIDs := []uuid.UUID{}
	kanjiIDs := []uuid.UUID{}
	for _, id := range lessonIDs {
		lesson, ok := r.lessons[id]
		if !ok {
			return nil, nil, entity.ErrLessonNotFound
		}
		if includeVocab {
			vocabIDs = append(vocabIDs, lesson.vocab...)
		}
		if includeKanji {
			kanjiIDs = append(kanjiIDs, lesson.kanji...)
		}
	}
	return vocabIDs, kanjiIDs, nil
}

func (r *fakeCatalogRepo) PackageLessons(ctx context.Context, packageID uuid.UUID) ([]uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	lessons, ok := r.packages[packageID]
	if !ok {
		return nil, entity.ErrPackageNotFound
	}
	return append([]uuid.UUID(nil), lessons...), nil
}

// ---------------------------------------------------------------------------
// difficult marker fake

type fakeDifficultRepo struct {
	mu       sync.RWMutex
	now      func() time.Time
	markers  map[string]*entity.DifficultItemMarker
	itemMeta map[uuid.UUID]difficultMeta
	progress *fakeProgressRepo
}

type difficultMeta struct {
	display   string
	meaning   string
	createdAt time.Time
}

func newFakeDifficultRepo(progress *fakeProgressRepo) *fakeDifficultRepo {
	return &fakeDifficultRepo{
		now:      time.Now,
		markers:  make(map[string]*entity.DifficultItemMarker),
		itemMeta: make(map[uuid.UUID]difficultMeta),
		progress: progress,
	}
}

func markerKey(userID, itemID uuid.UUID) string {
	return userID.String() + "|" + itemID.String()
}

func (r *fakeDifficultRepo) Upsert(ctx context.Context, marker *entity.DifficultItemMarker) (*entity.DifficultItemMarker, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := markerKey(marker.UserID, marker.ItemID)
	now := r.now().UTC()
	if existing, ok := r.markers[key]; ok {
		existing.Note = marker.Note
		existing.Priority = marker.Priority
		existing.UpdatedAt = now
		copy := *existing
		return &copy, nil
	}
	stored := *marker
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.markers[key] = &stored
	copy := stored
	return &copy, nil
}

func (r *fakeDifficultRepo) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := markerKey(userID, itemID)
	if _, ok := r.markers[key]; !ok {
		return entity.ErrMarkerNotFound
	}
	delete(r.markers, key)
	return nil
}

func (r *fakeDifficultRepo) ListTop(ctx context.Context, userID uuid.UUID, skill entity.Skill, limit int) ([]entity.DifficultItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var markers []*entity.DifficultItemMarker
	for _, m := range r.markers {
		if m.UserID == userID {
			markers = append(markers, m)
		}
	}
	sort.Slice(markers, func(i, j int) bool {
		if markers[i].Priority != markers[j].Priority {
			return markers[i].Priority > markers[j].Priority
		}
		return r.itemMeta[markers[i].ItemID].createdAt.Before(r.itemMeta[markers[j].ItemID].createdAt)
	})
	if len(markers) > limit {
		markers = markers[:limit]
	}

	items := make([]entity.DifficultItem, 0, len(markers))
	for _, m := range markers {
		meta := r.itemMeta[m.ItemID]
		item := entity.DifficultItem{
			ItemID:      m.ItemID,
			DisplayText: meta.display,
			Meaning:     meta.meaning,
			Note:        m.Note,
			Priority:    m.Priority,
			Skill:       skill,
		}
		if r.progress != nil {
			if rec, err := r.progress.Get(ctx, userID, entity.VocabUnit(m.ItemID), skill); err == nil {
				item.Stage = rec.Stage
				item.NextReviewAt = rec.NextReviewAt
			}
		}
		items = append(items, item)
	}
	return items, nil
}
