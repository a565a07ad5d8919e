package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"github.com/eslsoft/torii/internal/entity"
	"github.com/eslsoft/torii/internal/repository"
)

// CatalogRepository reads the catalog tables maintained by the surrounding
// application: unit existence and lesson/package membership.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository constructs a pgx-backed catalog reader.
func NewCatalogRepository(pool *pgxpool.Pool) repository.CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) UnitExists(ctx context.Context, unit entity.UnitRef) (bool, error) {
	if err := unit.Validate(); err != nil {
		return false, err
	}

	query := `SELECT EXISTS (SELECT 1 FROM vocab_items WHERE id = $1)`
	if unit.IsKanji() {
		query = `SELECT EXISTS (SELECT 1 FROM kanjis WHERE id = $1)`
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, query, unit.ID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check unit existence: %w", err)
	}
	return exists, nil
}

func (r *CatalogRepository) LessonUnits(ctx context.Context, lessonIDs []uuid.UUID, includeVocab, includeKanji bool) ([]uuid.UUID, []uuid.UUID, error) {
	if len(lessonIDs) == 0 {
		return nil, nil, entity.ErrNoLessonIDs
	}
	lessonIDs = lo.Uniq(lessonIDs)

	var known int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM lessons WHERE id = ANY($1)`, lessonIDs).Scan(&known); err != nil {
		return nil, nil, fmt.Errorf("resolve lessons: %w", err)
	}
	if known != len(lessonIDs) {
		return nil, nil, entity.ErrLessonNotFound
	}

	vocabIDs := []uuid.UUID{}
	kanjiIDs := []uuid.UUID{}
	if includeVocab {
		ids, err := r.collectIDs(ctx, `SELECT DISTINCT item_id FROM lesson_vocab WHERE lesson_id = ANY($1)`, lessonIDs)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve lesson vocab: %w", err)
		}
		vocabIDs = ids
	}
	if includeKanji {
		ids, err := r.collectIDs(ctx, `SELECT DISTINCT kanji_id FROM lesson_kanji WHERE lesson_id = ANY($1)`, lessonIDs)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve lesson kanji: %w", err)
		}
		kanjiIDs = ids
	}
	return vocabIDs, kanjiIDs, nil
}

func (r *CatalogRepository) PackageLessons(ctx context.Context, packageID uuid.UUID) ([]uuid.UUID, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM packages WHERE id = $1)`, packageID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("resolve package: %w", err)
	}
	if !exists {
		return nil, entity.ErrPackageNotFound
	}

	ids, err := r.collectIDs(ctx, `SELECT id FROM lessons WHERE package_id = $1`, packageID)
	if err != nil {
		return nil, fmt.Errorf("list package lessons: %w", err)
	}
	return ids, nil
}

func (r *CatalogRepository) collectIDs(ctx context.Context, query string, arg any) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
