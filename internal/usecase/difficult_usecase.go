package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/torii/internal/entity"
	"github.com/eslsoft/torii/internal/repository"
)

// DifficultItemUsecase manages the user-curated difficult item marker set.
type DifficultItemUsecase interface {
	Mark(ctx context.Context, userID, itemID uuid.UUID, note string, priority int32) (*entity.DifficultItemMarker, error)
	Unmark(ctx context.Context, userID, itemID uuid.UUID) error
}

// NewDifficultItemUsecase wires the repositories with default behaviour.
func NewDifficultItemUsecase(markers repository.DifficultItemRepository, catalog repository.CatalogRepository) DifficultItemUsecase {
	return &difficultItemUsecase{markers: markers, catalog: catalog, clock: time.Now}
}

type difficultItemUsecase struct {
	markers repository.DifficultItemRepository
	catalog repository.CatalogRepository
	clock   func() time.Time
}

func (u *difficultItemUsecase) Mark(ctx context.Context, userID, itemID uuid.UUID, note string, priority int32) (*entity.DifficultItemMarker, error) {
	if userID == uuid.Nil {
		return nil, entity.ErrInvalidUserID
	}

	unit := entity.VocabUnit(itemID)
	exists, err := u.catalog.UnitExists(ctx, unit)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, entity.ErrUnitNotFound
	}

	now := u.clock().UTC()
	return u.markers.Upsert(ctx, &entity.DifficultItemMarker{
		UserID:    userID,
		ItemID:    itemID,
		Note:      strings.TrimSpace(note),
		Priority:  priority,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (u *difficultItemUsecase) Unmark(ctx context.Context, userID, itemID uuid.UUID) error {
	if userID == uuid.Nil {
		return entity.ErrInvalidUserID
	}
	return u.markers.Delete(ctx, userID, itemID)
}
