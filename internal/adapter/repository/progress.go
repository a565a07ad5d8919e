package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eslsoft/torii/internal/entity"
	"github.com/eslsoft/torii/internal/repository"
)

// ProgressRepository is the pgx-backed store for SRS progress records.
type ProgressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository constructs a pgx-backed progress repository.
func NewProgressRepository(pool *pgxpool.Pool) repository.ProgressRepository {
	return &ProgressRepository{pool: pool}
}

// unitColumns splits a tagged unit reference into the nullable column pair
// persisted by the XOR-checked schema.
func unitColumns(unit entity.UnitRef) (itemID, kanjiID *uuid.UUID) {
	id := unit.ID
	if unit.IsVocab() {
		return &id, nil
	}
	return nil, &id
}

func unitFromColumns(itemID, kanjiID *uuid.UUID) entity.UnitRef {
	if itemID != nil {
		return entity.VocabUnit(*itemID)
	}
	if kanjiID != nil {
		return entity.KanjiUnit(*kanjiID)
	}
	return entity.UnitRef{}
}

func (r *ProgressRepository) Get(ctx context.Context, userID uuid.UUID, unit entity.UnitRef, skill entity.Skill) (*entity.ProgressRecord, error) {
	if err := unit.Validate(); err != nil {
		return nil, err
	}
	itemID, kanjiID := unitColumns(unit)

	const query = `
		SELECT id, stage, last_reviewed_at, next_review_at, correct_streak, wrong_count, created_at, updated_at
		FROM progress_records
		WHERE user_id = $1 AND skill = $2
		  AND item_id IS NOT DISTINCT FROM $3
		  AND kanji_id IS NOT DISTINCT FROM $4`

	rec := entity.ProgressRecord{UserID: userID, Unit: unit, Skill: skill}
	err := r.pool.QueryRow(ctx, query, userID, skill.Code(), itemID, kanjiID).Scan(
		&rec.ID, &rec.Stage, &rec.LastReviewedAt, &rec.NextReviewAt,
		&rec.CorrectStreak, &rec.WrongCount, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrProgressNotFound
		}
		return nil, fmt.Errorf("get progress record: %w", err)
	}
	return &rec, nil
}

// Mutate serializes concurrent transitions on one (user, unit, skill) key
// behind a row lock. The record is created lazily at stage 0, so the first
// answer for a unit and a concurrent duplicate race cleanly: one inserts, both
// lock, one transition commits after the other.
func (r *ProgressRepository) Mutate(ctx context.Context, userID uuid.UUID, unit entity.UnitRef, skill entity.Skill, fn func(*entity.ProgressRecord) error) (*entity.ProgressRecord, error) {
	if err := unit.Validate(); err != nil {
		return nil, err
	}
	if !skill.Valid() {
		return nil, entity.ErrInvalidSkill
	}
	itemID, kanjiID := unitColumns(unit)

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin progress tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	const insert = `
		INSERT INTO progress_records (id, user_id, item_id, kanji_id, skill, stage, correct_streak, wrong_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, 0, 0, now(), now())
		ON CONFLICT DO NOTHING`
	if _, err := tx.Exec(ctx, insert, uuid.New(), userID, itemID, kanjiID, skill.Code()); err != nil {
		return nil, translateProgressError(err)
	}

	const lock = `
		SELECT id, stage, last_reviewed_at, next_review_at, correct_streak, wrong_count, created_at, updated_at
		FROM progress_records
		WHERE user_id = $1 AND skill = $2
		  AND item_id IS NOT DISTINCT FROM $3
		  AND kanji_id IS NOT DISTINCT FROM $4
		FOR UPDATE`

	rec := entity.ProgressRecord{UserID: userID, Unit: unit, Skill: skill}
	err = tx.QueryRow(ctx, lock, userID, skill.Code(), itemID, kanjiID).Scan(
		&rec.ID, &rec.Stage, &rec.LastReviewedAt, &rec.NextReviewAt,
		&rec.CorrectStreak, &rec.WrongCount, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("lock progress record: %w", err)
	}

	if err := fn(&rec); err != nil {
		return nil, err
	}

	const update = `
		UPDATE progress_records
		SET stage = $2, last_reviewed_at = $3, next_review_at = $4,
		    correct_streak = $5, wrong_count = $6, updated_at = $7
		WHERE id = $1`
	if _, err := tx.Exec(ctx, update,
		rec.ID, rec.Stage, rec.LastReviewedAt, rec.NextReviewAt,
		rec.CorrectStreak, rec.WrongCount, rec.UpdatedAt,
	); err != nil {
		return nil, translateProgressError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit progress tx: %w", err)
	}
	return &rec, nil
}

func (r *ProgressRepository) ListDue(ctx context.Context, query *repository.DueQuery) ([]entity.QueueEntry, error) {
	query.Clamp()

	var sb strings.Builder
	sb.WriteString(`
		SELECT p.item_id, p.kanji_id,
		       COALESCE(v.japanese, k.character, '') AS display_text,
		       COALESCE(v.meaning, k.meaning, '') AS meaning,
		       p.skill, p.stage, p.next_review_at
		FROM progress_records p
		LEFT JOIN vocab_items v ON v.id = p.item_id
		LEFT JOIN kanjis k ON k.id = p.kanji_id
		WHERE p.user_id = $1
		  AND (p.next_review_at IS NULL OR p.next_review_at <= now())`)

	args := []any{query.UserID}
	if query.Skill != nil {
		args = append(args, query.Skill.Code())
		fmt.Fprintf(&sb, " AND p.skill = $%d", len(args))
	}
	if query.VocabIDs != nil || query.KanjiIDs != nil {
		vocabIDs := query.VocabIDs
		if vocabIDs == nil {
			vocabIDs = []uuid.UUID{}
		}
		kanjiIDs := query.KanjiIDs
		if kanjiIDs == nil {
			kanjiIDs = []uuid.UUID{}
		}
		args = append(args, vocabIDs)
		vocabArg := len(args)
		args = append(args, kanjiIDs)
		fmt.Fprintf(&sb, " AND (p.item_id = ANY($%d) OR p.kanji_id = ANY($%d))", vocabArg, len(args))
	}

	args = append(args, query.Limit)
	fmt.Fprintf(&sb, `
		ORDER BY p.next_review_at ASC NULLS FIRST, p.id ASC
		LIMIT $%d`, len(args))

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list due progress: %w", err)
	}
	defer rows.Close()

	entries := make([]entity.QueueEntry, 0, query.Limit)
	for rows.Next() {
		var (
			itemID, kanjiID *uuid.UUID
			entry           entity.QueueEntry
			skill           string
		)
		if err := rows.Scan(&itemID, &kanjiID, &entry.DisplayText, &entry.Meaning, &skill, &entry.Stage, &entry.NextReviewAt); err != nil {
			return nil, fmt.Errorf("scan queue entry: %w", err)
		}
		entry.Unit = unitFromColumns(itemID, kanjiID)
		entry.Skill = entity.Skill(skill)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due progress: %w", err)
	}
	return entries, nil
}

func (r *ProgressRepository) CountDue(ctx context.Context, userID uuid.UUID, skill *entity.Skill) (int, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT count(*)
		FROM progress_records
		WHERE user_id = $1
		  AND (next_review_at IS NULL OR next_review_at <= now())`)

	args := []any{userID}
	if skill != nil {
		args = append(args, skill.Code())
		fmt.Fprintf(&sb, " AND skill = $%d", len(args))
	}

	var count int
	if err := r.pool.QueryRow(ctx, sb.String(), args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count due progress: %w", err)
	}
	return count, nil
}
