package rest

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/torii/internal/entity"
)

type lessonQueueRequest struct {
	LessonIDs    []uuid.UUID `json:"lesson_ids"`
	Skill        string      `json:"skill"`
	Limit        int         `json:"limit"`
	IncludeVocab *bool       `json:"include_vocab"`
	IncludeKanji *bool       `json:"include_kanji"`
}

type packageQueueRequest struct {
	PackageID    uuid.UUID   `json:"package_id"`
	LessonIDs    []uuid.UUID `json:"lesson_ids"`
	Skill        string      `json:"skill"`
	Limit        int         `json:"limit"`
	IncludeVocab *bool       `json:"include_vocab"`
	IncludeKanji *bool       `json:"include_kanji"`
}

type answerRequest struct {
	UnitKind  string     `json:"unit_kind"`
	UnitID    uuid.UUID  `json:"unit_id"`
	Skill     string     `json:"skill"`
	Correct   bool       `json:"correct"`
	SessionID *uuid.UUID `json:"session_id"`
}

type endSessionRequest struct {
	CorrectCount  int `json:"correct_count"`
	TotalAnswered int `json:"total_answered"`
}

type markDifficultRequest struct {
	Note     string `json:"note"`
	Priority int32  `json:"priority"`
}

type progressResponse struct {
	ID             uuid.UUID  `json:"id"`
	UnitKind       string     `json:"unit_kind"`
	UnitID         uuid.UUID  `json:"unit_id"`
	Skill          string     `json:"skill"`
	Stage          int        `json:"stage"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt   *time.Time `json:"next_review_at,omitempty"`
	CorrectStreak  int        `json:"correct_streak"`
	WrongCount     int        `json:"wrong_count"`
}

func toProgressResponse(rec *entity.ProgressRecord) progressResponse {
	return progressResponse{
		ID:             rec.ID,
		UnitKind:       string(rec.Unit.Kind),
		UnitID:         rec.Unit.ID,
		Skill:          rec.Skill.Code(),
		Stage:          rec.Stage,
		LastReviewedAt: rec.LastReviewedAt,
		NextReviewAt:   rec.NextReviewAt,
		CorrectStreak:  rec.CorrectStreak,
		WrongCount:     rec.WrongCount,
	}
}

type queueEntryResponse struct {
	UnitKind     string     `json:"unit_kind"`
	UnitID       uuid.UUID  `json:"unit_id"`
	DisplayText  string     `json:"display_text"`
	Meaning      string     `json:"meaning,omitempty"`
	Skill        string     `json:"skill"`
	Stage        int        `json:"stage"`
	NextReviewAt *time.Time `json:"next_review_at,omitempty"`
}

func toQueueResponse(entries []entity.QueueEntry) []queueEntryResponse {
	return lo.Map(entries, func(e entity.QueueEntry, _ int) queueEntryResponse {
		return queueEntryResponse{
			UnitKind:     string(e.Unit.Kind),
			UnitID:       e.Unit.ID,
			DisplayText:  e.DisplayText,
			Meaning:      e.Meaning,
			Skill:        e.Skill.Code(),
			Stage:        e.Stage,
			NextReviewAt: e.NextReviewAt,
		}
	})
}

type sessionResponse struct {
	ID            uuid.UUID  `json:"id"`
	StartedAt     time.Time  `json:"started_at"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
	CorrectCount  int        `json:"correct_count"`
	TotalAnswered int        `json:"total_answered"`
	Accuracy      float64    `json:"accuracy"`
}

func toSessionResponse(s *entity.ReviewSession) sessionResponse {
	return sessionResponse{
		ID:            s.ID,
		StartedAt:     s.StartedAt,
		EndedAt:       s.EndedAt,
		CorrectCount:  s.CorrectCount,
		TotalAnswered: s.TotalAnswered,
		Accuracy:      s.Accuracy(),
	}
}

type difficultItemResponse struct {
	ItemID       uuid.UUID  `json:"item_id"`
	DisplayText  string     `json:"display_text"`
	Meaning      string     `json:"meaning,omitempty"`
	Note         string     `json:"note,omitempty"`
	Priority     int32      `json:"priority"`
	Skill        string     `json:"skill"`
	Stage        int        `json:"stage"`
	NextReviewAt *time.Time `json:"next_review_at,omitempty"`
}

type markerResponse struct {
	ItemID    uuid.UUID `json:"item_id"`
	Note      string    `json:"note,omitempty"`
	Priority  int32     `json:"priority"`
	UpdatedAt time.Time `json:"updated_at"`
}

type overviewResponse struct {
	Accuracy       float64                 `json:"accuracy"`
	ReviewsToday   int                     `json:"reviews_today"`
	ReviewsDue     int                     `json:"reviews_due"`
	StreakDays     int                     `json:"streak_days"`
	SRSToday       []queueEntryResponse    `json:"srs_today"`
	DifficultItems []difficultItemResponse `json:"difficult_items"`
}

func toOverviewResponse(o *entity.DashboardOverview) overviewResponse {
	return overviewResponse{
		Accuracy:     o.Accuracy,
		ReviewsToday: o.ReviewsToday,
		ReviewsDue:   o.ReviewsDue,
		StreakDays:   o.StreakDays,
		SRSToday:     toQueueResponse(o.SRSToday),
		DifficultItems: lo.Map(o.DifficultItems, func(d entity.DifficultItem, _ int) difficultItemResponse {
			return difficultItemResponse{
				ItemID:       d.ItemID,
				DisplayText:  d.DisplayText,
				Meaning:      d.Meaning,
				Note:         d.Note,
				Priority:     d.Priority,
				Skill:        d.Skill.Code(),
				Stage:        d.Stage,
				NextReviewAt: d.NextReviewAt,
			}
		}),
	}
}
