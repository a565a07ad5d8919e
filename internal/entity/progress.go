package entity

import (
	"time"

	"github.com/google/uuid"
)

// Mastery stage bounds. Stage 0 is a newly introduced unit, stage 5 is
// maximum mastery.
const (
	MinStage = 0
	MaxStage = 5
)

// ProgressRecord tracks a user's SRS state for one (unit, skill) pair.
// It is created lazily on the first answer submission and mutated on every
// subsequent one.
type ProgressRecord struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Unit           UnitRef
	Skill          Skill
	Stage          int
	LastReviewedAt *time.Time
	NextReviewAt   *time.Time // nil means due immediately
	CorrectStreak  int
	WrongCount     int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Normalize ensures defaults & constraints before persistence.
func (p *ProgressRecord) Normalize(now time.Time) {
	if p.Stage < MinStage {
		p.Stage = MinStage
	}
	if p.Stage > MaxStage {
		p.Stage = MaxStage
	}
	if p.CorrectStreak < 0 {
		p.CorrectStreak = 0
	}
	if p.WrongCount < 0 {
		p.WrongCount = 0
	}
	p.Skill = NormalizeSkill(p.Skill)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

// Due reports whether the record is due for review at the given instant.
// A record with no scheduled review is due immediately.
func (p *ProgressRecord) Due(now time.Time) bool {
	return p.NextReviewAt == nil || !p.NextReviewAt.After(now)
}
