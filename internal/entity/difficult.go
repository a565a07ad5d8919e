package entity

import (
	"time"

	"github.com/google/uuid"
)

// DifficultItemMarker is a user-curated flag on a vocabulary item. It is
// independent of the item's SRS stage and only influences dashboard surfacing,
// never the due queue.
type DifficultItemMarker struct {
	UserID    uuid.UUID
	ItemID    uuid.UUID
	Note      string
	Priority  int32
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DifficultItem is a marker enriched with the item's display data and the
// current progress for one skill, ready for dashboard rendering.
type DifficultItem struct {
	ItemID       uuid.UUID
	DisplayText  string
	Meaning      string
	Note         string
	Priority     int32
	Skill        Skill
	Stage        int
	NextReviewAt *time.Time
}
