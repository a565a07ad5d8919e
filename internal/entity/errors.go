package entity

import "errors"

// Domain errors for the progress tracker and related aggregates.
var (
	ErrProgressNotFound = errors.New("progress record not found")
	ErrSessionNotFound  = errors.New("review session not found")
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrPackageNotFound  = errors.New("package not found")
	ErrUnitNotFound     = errors.New("learnable unit not found")
	ErrMarkerNotFound   = errors.New("difficult item marker not found")

	ErrNoLessonIDs    = errors.New("at least one lesson id is required")
	ErrInvalidSkill   = errors.New("invalid learning skill")
	ErrInvalidUnitRef = errors.New("invalid unit reference")
	ErrInvalidUserID  = errors.New("invalid user ID")
	ErrInvalidCounts  = errors.New("invalid session counters")

	ErrUnauthenticated = errors.New("no resolvable user identity")
	ErrConflict        = errors.New("concurrent update conflict")
)
