package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/eslsoft/torii/internal/entity"
)

// CatalogRepository is the read-only surface of the external catalog this
// core consumes: unit existence and lesson/package membership for queue
// scoping. Catalog CRUD lives outside the engine.
type CatalogRepository interface {
	// UnitExists reports whether the referenced vocab item or kanji exists.
	UnitExists(ctx context.Context, unit entity.UnitRef) (bool, error)

	// LessonUnits resolves the union of unit ids attached to the given
	// lessons. Returns entity.ErrLessonNotFound when any id does not resolve.
	LessonUnits(ctx context.Context, lessonIDs []uuid.UUID, includeVocab, includeKanji bool) (vocabIDs, kanjiIDs []uuid.UUID, err error)

	// PackageLessons lists the lesson ids under a package, or
	// entity.ErrPackageNotFound.
	PackageLessons(ctx context.Context, packageID uuid.UUID) ([]uuid.UUID, error)
}
