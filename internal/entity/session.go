package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReviewSession is a bounded study interval aggregating answer counters.
// Counters can grow incrementally while the session is open, or be replaced
// wholesale when the client ends the session with its own final totals.
type ReviewSession struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	StartedAt     time.Time
	EndedAt       *time.Time // nil while the session is active
	CorrectCount  int
	TotalAnswered int
}

// Active reports whether the session has not been ended yet.
func (s *ReviewSession) Active() bool { return s.EndedAt == nil }

// Accuracy returns the session accuracy in percent, 0 when nothing was answered.
func (s *ReviewSession) Accuracy() float64 {
	if s.TotalAnswered == 0 {
		return 0
	}
	return 100 * float64(s.CorrectCount) / float64(s.TotalAnswered)
}
