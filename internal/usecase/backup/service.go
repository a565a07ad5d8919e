// Package backup exports and imports a user's learning data as NDJSON. Each
// line is a typed envelope naming its table, so a backup stays readable and
// partially importable.
package backup

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const formatVersion = 1

var (
	errBadHeader    = errors.New("backup: missing or invalid header line")
	errUnknownTable = errors.New("backup: unknown table")
)

// Table names understood by the backup format.
const (
	TableProgress = "progress_records"
	TableSessions = "review_sessions"
	TableMarkers  = "difficult_item_markers"
)

type header struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	UserID     uuid.UUID `json:"user_id"`
}

type envelope struct {
	Table  string          `json:"table"`
	Record json.RawMessage `json:"record"`
}

type progressLine struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	ItemID         *uuid.UUID `json:"item_id,omitempty"`
	KanjiID        *uuid.UUID `json:"kanji_id,omitempty"`
	Skill          string     `json:"skill"`
	Stage          int        `json:"stage"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt   *time.Time `json:"next_review_at,omitempty"`
	CorrectStreak  int        `json:"correct_streak"`
	WrongCount     int        `json:"wrong_count"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type sessionLine struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	StartedAt     time.Time  `json:"started_at"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
	CorrectCount  int        `json:"correct_count"`
	TotalAnswered int        `json:"total_answered"`
}

type markerLine struct {
	UserID    uuid.UUID `json:"user_id"`
	ItemID    uuid.UUID `json:"item_id"`
	Note      string    `json:"note"`
	Priority  int32     `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service streams one user's rows out of and back into the database.
type Service struct {
	pool  *pgxpool.Pool
	clock func() time.Time
}

func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool, clock: time.Now}
}

// Export writes a header line followed by one envelope per row belonging to
// the user.
func (s *Service) Export(ctx context.Context, userID uuid.UUID, w io.Writer) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	if err := enc.Encode(header{Version: formatVersion, ExportedAt: s.clock().UTC(), UserID: userID}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if err := s.exportProgress(ctx, userID, enc); err != nil {
		return err
	}
	if err := s.exportSessions(ctx, userID, enc); err != nil {
		return err
	}
	if err := s.exportMarkers(ctx, userID, enc); err != nil {
		return err
	}
	return bw.Flush()
}

func writeEnvelope(enc *json.Encoder, table string, record any) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", table, err)
	}
	if err := enc.Encode(envelope{Table: table, Record: raw}); err != nil {
		return fmt.Errorf("write %s record: %w", table, err)
	}
	return nil
}

func (s *Service) exportProgress(ctx context.Context, userID uuid.UUID, enc *json.Encoder) error {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, item_id, kanji_id, skill, stage,
		       last_reviewed_at, next_review_at, correct_streak, wrong_count,
		       created_at, updated_at
		FROM progress_records WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return fmt.Errorf("export progress: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line progressLine
		if err := rows.Scan(&line.ID, &line.UserID, &line.ItemID, &line.KanjiID,
			&line.Skill, &line.Stage, &line.LastReviewedAt, &line.NextReviewAt,
			&line.CorrectStreak, &line.WrongCount, &line.CreatedAt, &line.UpdatedAt); err != nil {
			return fmt.Errorf("scan progress: %w", err)
		}
		if err := writeEnvelope(enc, TableProgress, line); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *Service) exportSessions(ctx context.Context, userID uuid.UUID, enc *json.Encoder) error {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, started_at, ended_at, correct_count, total_answered
		FROM review_sessions WHERE user_id = $1 ORDER BY started_at, id`, userID)
	if err != nil {
		return fmt.Errorf("export sessions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line sessionLine
		if err := rows.Scan(&line.ID, &line.UserID, &line.StartedAt, &line.EndedAt,
			&line.CorrectCount, &line.TotalAnswered); err != nil {
			return fmt.Errorf("scan session: %w", err)
		}
		if err := writeEnvelope(enc, TableSessions, line); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *Service) exportMarkers(ctx context.Context, userID uuid.UUID, enc *json.Encoder) error {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, item_id, note, priority, created_at, updated_at
		FROM difficult_item_markers WHERE user_id = $1 ORDER BY created_at, item_id`, userID)
	if err != nil {
		return fmt.Errorf("export markers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line markerLine
		if err := rows.Scan(&line.UserID, &line.ItemID, &line.Note, &line.Priority,
			&line.CreatedAt, &line.UpdatedAt); err != nil {
			return fmt.Errorf("scan marker: %w", err)
		}
		if err := writeEnvelope(enc, TableMarkers, line); err != nil {
			return err
		}
	}
	return rows.Err()
}

// ImportStats counts the rows replayed per table.
type ImportStats struct {
	Progress int
	Sessions int
	Markers  int
	Skipped  int
}

// Import replays a backup stream. Rows that already exist are left untouched,
// so replaying the same file twice is safe.
func (s *Service) Import(ctx context.Context, r io.Reader) (*ImportStats, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		return nil, errBadHeader
	}
	var hdr header
	if err := json.Unmarshal(scanner.Bytes(), &hdr); err != nil || hdr.Version != formatVersion {
		return nil, errBadHeader
	}

	stats := &ImportStats{}
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var env envelope
		if err := json.Unmarshal(line, &env); err != nil {
			return stats, fmt.Errorf("decode backup line: %w", err)
		}
		if err := s.importRecord(ctx, &env, stats); err != nil {
			return stats, err
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read backup: %w", err)
	}
	return stats, nil
}

func (s *Service) importRecord(ctx context.Context, env *envelope, stats *ImportStats) error {
	switch env.Table {
	case TableProgress:
		var line progressLine
		if err := json.Unmarshal(env.Record, &line); err != nil {
			return fmt.Errorf("decode progress record: %w", err)
		}
		tag, err := s.pool.Exec(ctx, `
			INSERT INTO progress_records
				(id, user_id, item_id, kanji_id, skill, stage,
				 last_reviewed_at, next_review_at, correct_streak, wrong_count,
				 created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			ON CONFLICT (id) DO NOTHING`,
			line.ID, line.UserID, line.ItemID, line.KanjiID, line.Skill, line.Stage,
			line.LastReviewedAt, line.NextReviewAt, line.CorrectStreak, line.WrongCount,
			line.CreatedAt, line.UpdatedAt)
		if err != nil {
			return fmt.Errorf("import progress record: %w", err)
		}
		if tag.RowsAffected() == 0 {
			stats.Skipped++
		} else {
			stats.Progress++
		}
	case TableSessions:
		var line sessionLine
		if err := json.Unmarshal(env.Record, &line); err != nil {
			return fmt.Errorf("decode session record: %w", err)
		}
		tag, err := s.pool.Exec(ctx, `
			INSERT INTO review_sessions
				(id, user_id, started_at, ended_at, correct_count, total_answered)
			VALUES ($1,$2,$3,$4,$5,$6)
			ON CONFLICT (id) DO NOTHING`,
			line.ID, line.UserID, line.StartedAt, line.EndedAt,
			line.CorrectCount, line.TotalAnswered)
		if err != nil {
			return fmt.Errorf("import session record: %w", err)
		}
		if tag.RowsAffected() == 0 {
			stats.Skipped++
		} else {
			stats.Sessions++
		}
	case TableMarkers:
		var line markerLine
		if err := json.Unmarshal(env.Record, &line); err != nil {
			return fmt.Errorf("decode marker record: %w", err)
		}
		tag, err := s.pool.Exec(ctx, `
			INSERT INTO difficult_item_markers
				(user_id, item_id, note, priority, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6)
			ON CONFLICT (user_id, item_id) DO NOTHING`,
			line.UserID, line.ItemID, line.Note, line.Priority,
			line.CreatedAt, line.UpdatedAt)
		if err != nil {
			return fmt.Errorf("import marker record: %w", err)
		}
		if tag.RowsAffected() == 0 {
			stats.Skipped++
		} else {
			stats.Markers++
		}
	default:
		return fmt.Errorf("%w: %s", errUnknownTable, env.Table)
	}
	return nil
}
