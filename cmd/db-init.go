/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/eslsoft/torii/internal/infrastructure/config"
	"github.com/eslsoft/torii/internal/infrastructure/database"
)

// dbInitCmd applies the database schema and optionally seeds a demo catalog
var dbInitCmd = &cobra.Command{
	Use:   "db-init",
	Short: "Initialize the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, _ := cmd.Flags().GetBool("seed")

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		pool, cleanup, err := database.NewConnection(cfg)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer cleanup()

		if err := database.Migrate(cmd.Context(), pool); err != nil {
			return err
		}
		cmd.Println("schema applied")

		if seed {
			if err := seedDemoCatalog(cmd.Context(), pool); err != nil {
				return fmt.Errorf("seed demo catalog: %w", err)
			}
			cmd.Println("demo catalog seeded")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbInitCmd)

	dbInitCmd.Flags().Bool("seed", false, "load a small demo catalog (one package, two lessons)")
}

type seedVocab struct {
	japanese string
	reading  string
	meaning  string
}

type seedKanji struct {
	character string
	meaning   string
}

// seedDemoCatalog inserts a tiny fixed catalog for local development. All
// inserts are conflict-tolerant, so re-running is harmless.
func seedDemoCatalog(ctx context.Context, pool *pgxpool.Pool) error {
	packageID := uuid.MustParse("11111111-1111-4111-8111-111111111111")
	lessonOne := uuid.MustParse("22222222-2222-4222-8222-222222222222")
	lessonTwo := uuid.MustParse("33333333-3333-4333-8333-333333333333")

	if _, err := pool.Exec(ctx, `
		INSERT INTO packages (id, name) VALUES ($1, 'Demo N5')
		ON CONFLICT (id) DO NOTHING`, packageID); err != nil {
		return err
	}
	lessons := []struct {
		id       uuid.UUID
		name     string
		position int
	}{
		{lessonOne, "Lesson 1", 1},
		{lessonTwo, "Lesson 2", 2},
	}
	for _, l := range lessons {
		if _, err := pool.Exec(ctx, `
			INSERT INTO lessons (id, package_id, name, position) VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING`, l.id, packageID, l.name, l.position); err != nil {
			return err
		}
	}

	vocab := map[uuid.UUID]seedVocab{
		uuid.MustParse("44444444-4444-4444-8444-444444444441"): {"学校", "がっこう", "school"},
		uuid.MustParse("44444444-4444-4444-8444-444444444442"): {"先生", "せんせい", "teacher"},
		uuid.MustParse("44444444-4444-4444-8444-444444444443"): {"図書館", "としょかん", "library"},
	}
	for id, v := range vocab {
		if _, err := pool.Exec(ctx, `
			INSERT INTO vocab_items (id, japanese, reading, meaning) VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING`, id, v.japanese, v.reading, v.meaning); err != nil {
			return err
		}
		if _, err := pool.Exec(ctx, `
			INSERT INTO lesson_vocab (lesson_id, item_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, lessonOne, id); err != nil {
			return err
		}
	}

	kanji := map[uuid.UUID]seedKanji{
		uuid.MustParse("55555555-5555-4555-8555-555555555551"): {"学", "study"},
		uuid.MustParse("55555555-5555-4555-8555-555555555552"): {"校", "school"},
	}
	for id, k := range kanji {
		if _, err := pool.Exec(ctx, `
			INSERT INTO kanjis (id, character, meaning) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO NOTHING`, id, k.character, k.meaning); err != nil {
			return err
		}
		if _, err := pool.Exec(ctx, `
			INSERT INTO lesson_kanji (lesson_id, kanji_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, lessonTwo, id); err != nil {
			return err
		}
	}
	return nil
}
