// Package srs implements the fixed-ladder spaced repetition scheduler.
//
// Mastery is an integer stage on a 0-5 ladder. A correct answer moves one
// stage up, a wrong answer one stage down, both clamped at the ends. The
// review interval is looked up by the resulting stage; there is no per-unit
// difficulty factor and no randomized jitter.
package srs

import "time"

// Stage bounds of the mastery ladder.
const (
	MinStage = 0
	MaxStage = 5
)

// Ladder holds the review interval per stage, indexed by the stage reached
// after the answer was applied.
var Ladder = [MaxStage + 1]time.Duration{
	8 * time.Hour,
	24 * time.Hour,
	3 * 24 * time.Hour,
	7 * 24 * time.Hour,
	21 * 24 * time.Hour,
	60 * 24 * time.Hour,
}

// Outcome is the result of applying one answer to a stage. It carries the
// deltas the caller must fold into the stored progress record.
type Outcome struct {
	Stage       int
	Interval    time.Duration
	StreakDelta int  // 1 on a correct answer, 0 otherwise
	WrongDelta  int  // 1 on a wrong answer, 0 otherwise
	ResetStreak bool // true on a wrong answer: streak drops to zero
}

// Advance applies one answer to the given stage. It is deterministic and
// side-effect free; persistence is the caller's concern.
//
// The interval is always recomputed from the resulting stage, even when the
// stage did not move (wrong at 0, correct at 5): the due date still advances.
func Advance(stage int, correct bool) Outcome {
	stage = clamp(stage)

	if correct {
		next := stage + 1
		if next > MaxStage {
			next = MaxStage
		}
		return Outcome{
			Stage:       next,
			Interval:    Ladder[next],
			StreakDelta: 1,
		}
	}

	next := stage - 1
	if next < MinStage {
		next = MinStage
	}
	return Outcome{
		Stage:       next,
		Interval:    Ladder[next],
		WrongDelta:  1,
		ResetStreak: true,
	}
}

// NextReviewAt returns the review due time implied by the outcome.
func (o Outcome) NextReviewAt(now time.Time) time.Time {
	return now.Add(o.Interval)
}

func clamp(stage int) int {
	if stage < MinStage {
		return MinStage
	}
	if stage > MaxStage {
		return MaxStage
	}
	return stage
}
