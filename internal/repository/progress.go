package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/eslsoft/torii/internal/entity"
)

// Queue limit bounds. Caller-supplied limits are clamped silently.
const (
	DefaultQueueLimit = 20
	MaxQueueLimit     = 100
)

// DueQuery selects due progress records for one user.
//
// VocabIDs / KanjiIDs restrict the candidate units when non-nil; a nil slice
// means "no restriction for that kind" while an empty non-nil slice excludes
// the kind entirely. Scope resolution (lessons, packages) happens upstream;
// the query only consumes the resulting id sets.
type DueQuery struct {
	UserID   uuid.UUID
	Skill    *entity.Skill
	VocabIDs []uuid.UUID
	KanjiIDs []uuid.UUID
	Limit    int
}

// Clamp normalizes the limit into the supported range.
func (q *DueQuery) Clamp() {
	if q.Limit <= 0 {
		q.Limit = DefaultQueueLimit
	}
	if q.Limit > MaxQueueLimit {
		q.Limit = MaxQueueLimit
	}
}

// ProgressRepository abstracts persistence for SRS progress records.
type ProgressRepository interface {
	// Get returns the record for a (user, unit, skill) key, or
	// entity.ErrProgressNotFound.
	Get(ctx context.Context, userID uuid.UUID, unit entity.UnitRef, skill entity.Skill) (*entity.ProgressRecord, error)

	// Mutate applies fn to the record under a per-key write lock, creating a
	// stage-0 record first when the key does not exist yet. At most one
	// concurrent transition commits per key; losers observe the winner's
	// state on retry. The returned record reflects the committed state.
	Mutate(ctx context.Context, userID uuid.UUID, unit entity.UnitRef, skill entity.Skill, fn func(*entity.ProgressRecord) error) (*entity.ProgressRecord, error)

	// ListDue returns due records as render-ready queue entries, ordered by
	// next_review_at ascending with never-reviewed units first.
	ListDue(ctx context.Context, query *DueQuery) ([]entity.QueueEntry, error)

	// CountDue returns the true size of the due set, uncapped.
	CountDue(ctx context.Context, userID uuid.UUID, skill *entity.Skill) (int, error)
}
