package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/eslsoft/torii/internal/entity"
)

// DifficultItemRepository abstracts persistence for user-curated difficult
// item markers.
type DifficultItemRepository interface {
	// Upsert creates the marker or updates note/priority of an existing one.
	Upsert(ctx context.Context, marker *entity.DifficultItemMarker) (*entity.DifficultItemMarker, error)

	// Delete removes the marker, entity.ErrMarkerNotFound when absent.
	Delete(ctx context.Context, userID, itemID uuid.UUID) error

	// ListTop returns up to limit markers ordered by priority descending,
	// ties broken by the item's creation time ascending, enriched with the
	// item's display data and its progress for the given skill.
	ListTop(ctx context.Context, userID uuid.UUID, skill entity.Skill, limit int) ([]entity.DifficultItem, error)
}
