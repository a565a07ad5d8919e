package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eslsoft/torii/internal/entity"
	"github.com/eslsoft/torii/internal/repository"
)

// DifficultItemRepository is the pgx-backed store for difficult item markers.
type DifficultItemRepository struct {
	pool *pgxpool.Pool
}

// NewDifficultItemRepository constructs a pgx-backed marker repository.
func NewDifficultItemRepository(pool *pgxpool.Pool) repository.DifficultItemRepository {
	return &DifficultItemRepository{pool: pool}
}

func (r *DifficultItemRepository) Upsert(ctx context.Context, marker *entity.DifficultItemMarker) (*entity.DifficultItemMarker, error) {
	const query = `
		INSERT INTO difficult_item_markers (user_id, item_id, note, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (user_id, item_id) DO UPDATE SET
			note = EXCLUDED.note,
			priority = EXCLUDED.priority,
			updated_at = now()
		RETURNING user_id, item_id, note, priority, created_at, updated_at`

	var m entity.DifficultItemMarker
	err := r.pool.QueryRow(ctx, query, marker.UserID, marker.ItemID, marker.Note, marker.Priority).Scan(
		&m.UserID, &m.ItemID, &m.Note, &m.Priority, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, translateProgressError(fmt.Errorf("upsert difficult marker: %w", err))
	}
	return &m, nil
}

func (r *DifficultItemRepository) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	const query = `DELETE FROM difficult_item_markers WHERE user_id = $1 AND item_id = $2`

	tag, err := r.pool.Exec(ctx, query, userID, itemID)
	if err != nil {
		return fmt.Errorf("delete difficult marker: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrMarkerNotFound
	}
	return nil
}

func (r *DifficultItemRepository) ListTop(ctx context.Context, userID uuid.UUID, skill entity.Skill, limit int) ([]entity.DifficultItem, error) {
	const query = `
		SELECT m.item_id, v.japanese, v.meaning, m.note, m.priority,
		       COALESCE(p.stage, 0), p.next_review_at
		FROM difficult_item_markers m
		JOIN vocab_items v ON v.id = m.item_id
		LEFT JOIN progress_records p
		       ON p.user_id = m.user_id AND p.item_id = m.item_id AND p.skill = $2
		WHERE m.user_id = $1
		ORDER BY m.priority DESC, v.created_at ASC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, userID, skill.Code(), limit)
	if err != nil {
		return nil, fmt.Errorf("list difficult items: %w", err)
	}
	defer rows.Close()

	items := make([]entity.DifficultItem, 0, limit)
	for rows.Next() {
		item := entity.DifficultItem{Skill: skill}
		if err := rows.Scan(&item.ItemID, &item.DisplayText, &item.Meaning, &item.Note, &item.Priority, &item.Stage, &item.NextReviewAt); err != nil {
			return nil, fmt.Errorf("scan difficult item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate difficult items: %w", err)
	}
	return items, nil
}
