package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema holds the idempotent DDL, applied in order on startup. The
// progress_records check constraint enforces that a row references exactly
// one of item_id/kanji_id; the two partial unique indexes give one progress
// row per (user, unit, skill).
var schema = []string{
	`CREATE TABLE IF NOT EXISTS vocab_items (
		id UUID PRIMARY KEY,
		japanese TEXT NOT NULL,
		reading TEXT NOT NULL DEFAULT '',
		meaning TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS kanjis (
		id UUID PRIMARY KEY,
		character TEXT NOT NULL,
		meaning TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS packages (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS lessons (
		id UUID PRIMARY KEY,
		package_id UUID NOT NULL REFERENCES packages(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		position INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS lesson_vocab (
		lesson_id UUID NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
		item_id UUID NOT NULL REFERENCES vocab_items(id) ON DELETE CASCADE,
		PRIMARY KEY (lesson_id, item_id)
	)`,
	`CREATE TABLE IF NOT EXISTS lesson_kanji (
		lesson_id UUID NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
		kanji_id UUID NOT NULL REFERENCES kanjis(id) ON DELETE CASCADE,
		PRIMARY KEY (lesson_id, kanji_id)
	)`,
	`CREATE TABLE IF NOT EXISTS progress_records (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		item_id UUID REFERENCES vocab_items(id) ON DELETE CASCADE,
		kanji_id UUID REFERENCES kanjis(id) ON DELETE CASCADE,
		skill TEXT NOT NULL,
		stage INT NOT NULL DEFAULT 0 CHECK (stage BETWEEN 0 AND 5),
		last_reviewed_at TIMESTAMPTZ,
		next_review_at TIMESTAMPTZ,
		correct_streak INT NOT NULL DEFAULT 0,
		wrong_count INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK ((item_id IS NULL) <> (kanji_id IS NULL))
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS progress_records_user_item_skill
		ON progress_records (user_id, item_id, skill) WHERE item_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS progress_records_user_kanji_skill
		ON progress_records (user_id, kanji_id, skill) WHERE kanji_id IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS progress_records_due
		ON progress_records (user_id, next_review_at ASC NULLS FIRST)`,
	`CREATE TABLE IF NOT EXISTS review_sessions (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		ended_at TIMESTAMPTZ,
		correct_count INT NOT NULL DEFAULT 0,
		total_answered INT NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS review_sessions_user_started
		ON review_sessions (user_id, started_at)`,
	`CREATE TABLE IF NOT EXISTS difficult_item_markers (
		user_id UUID NOT NULL,
		item_id UUID NOT NULL REFERENCES vocab_items(id) ON DELETE CASCADE,
		note TEXT NOT NULL DEFAULT '',
		priority INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, item_id)
	)`,
}

// Migrate applies the schema. Every statement is idempotent, so running it on
// each start is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
