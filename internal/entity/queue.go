package entity

import "time"

// QueueEntry is one due unit, denormalized with the catalog fields needed to
// render the review card without a second lookup.
type QueueEntry struct {
	Unit         UnitRef
	DisplayText  string // the unit's Japanese text
	Meaning      string
	Skill        Skill
	Stage        int
	NextReviewAt *time.Time // nil for never-reviewed units
}

// DashboardOverview aggregates a user's study state for the dashboard.
type DashboardOverview struct {
	Accuracy       float64
	ReviewsToday   int
	ReviewsDue     int
	StreakDays     int
	SRSToday       []QueueEntry
	DifficultItems []DifficultItem
}
