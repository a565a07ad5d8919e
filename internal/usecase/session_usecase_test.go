package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/torii/internal/entity"
)

func TestStartSession(t *testing.T) {
	sessions := newFakeSessionRepo()
	uc := NewSessionUsecase(sessions).(*sessionUsecase)
	fixed := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	uc.clock = func() time.Time { return fixed }

	userID := uuid.New()
	session, err := uc.Start(context.Background(), userID)
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if session.ID == uuid.Nil {
		t.Error("expected session id to be set")
	}
	if !session.StartedAt.Equal(fixed) {
		t.Errorf("expected started at %v, got %v", fixed, session.StartedAt)
	}
	if session.EndedAt != nil {
		t.Error("expected a fresh session to be active")
	}
	if session.CorrectCount != 0 || session.TotalAnswered != 0 {
		t.Errorf("expected zero counters, got %d/%d", session.CorrectCount, session.TotalAnswered)
	}
}

func TestEndSessionOverwritesStreamedCounters(t *testing.T) {
	sessions := newFakeSessionRepo()
	uc := NewSessionUsecase(sessions)

	session, err := uc.Start(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	// Stream a few per-answer updates first.
	for i := 0; i < 3; i++ {
		if err := sessions.RecordAnswer(context.Background(), session.ID, true); err != nil {
			t.Fatalf("RecordAnswer returned error: %v", err)
		}
	}

	ended, err := uc.End(context.Background(), session.ID, 7, 10)
	if err != nil {
		t.Fatalf("End returned error: %v", err)
	}
	if ended.CorrectCount != 7 || ended.TotalAnswered != 10 {
		t.Errorf("expected final counters 7/10 to overwrite streamed values, got %d/%d", ended.CorrectCount, ended.TotalAnswered)
	}
	if ended.EndedAt == nil {
		t.Error("expected ended session to carry an end timestamp")
	}
}

func TestEndSessionUnknownID(t *testing.T) {
	uc := NewSessionUsecase(newFakeSessionRepo())

	_, err := uc.End(context.Background(), uuid.New(), 1, 1)
	if !errors.Is(err, entity.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestEndSessionRejectsInvalidCounters(t *testing.T) {
	sessions := newFakeSessionRepo()
	uc := NewSessionUsecase(sessions)
	session, _ := uc.Start(context.Background(), uuid.New())

	if _, err := uc.End(context.Background(), session.ID, 5, 3); !errors.Is(err, entity.ErrInvalidCounts) {
		t.Errorf("expected ErrInvalidCounts for correct > total, got %v", err)
	}
	if _, err := uc.End(context.Background(), session.ID, -1, 3); !errors.Is(err, entity.ErrInvalidCounts) {
		t.Errorf("expected ErrInvalidCounts for negative correct, got %v", err)
	}
}

func TestRecordAnswerUnknownSessionIsNoOp(t *testing.T) {
	sessions := newFakeSessionRepo()

	if err := sessions.RecordAnswer(context.Background(), uuid.New(), true); err != nil {
		t.Fatalf("expected silent no-op for unknown session, got %v", err)
	}
}
