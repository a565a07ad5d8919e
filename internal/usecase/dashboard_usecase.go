package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/torii/internal/entity"
	"github.com/eslsoft/torii/internal/repository"
)

const (
	// duePreviewLimit caps the srsToday sample; reviewsDue stays uncapped.
	duePreviewLimit = 50
	// difficultItemLimit caps the surfaced marker list.
	difficultItemLimit = 20
	// streakLookbackDays bounds the backward walk when computing the streak.
	streakLookbackDays = 365
)

// DashboardUsecase composes accuracy, streak and due-queue metrics for the
// dashboard overview.
type DashboardUsecase interface {
	Overview(ctx context.Context, userID uuid.UUID, skill *entity.Skill) (*entity.DashboardOverview, error)
}

// NewDashboardUsecase wires the repositories with default behaviour.
func NewDashboardUsecase(progress repository.ProgressRepository, sessions repository.SessionRepository, difficult repository.DifficultItemRepository) DashboardUsecase {
	return &dashboardUsecase{
		progress:  progress,
		sessions:  sessions,
		difficult: difficult,
		clock:     time.Now,
	}
}

type dashboardUsecase struct {
	progress  repository.ProgressRepository
	sessions  repository.SessionRepository
	difficult repository.DifficultItemRepository
	clock     func() time.Time
}

func (u *dashboardUsecase) Overview(ctx context.Context, userID uuid.UUID, skill *entity.Skill) (*entity.DashboardOverview, error) {
	if userID == uuid.Nil {
		return nil, entity.ErrInvalidUserID
	}

	now := u.clock().UTC()
	dayStart := now.Truncate(24 * time.Hour)

	today, err := u.sessions.StartedBetween(ctx, userID, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}

	var answered, correct int
	for _, s := range today {
		answered += s.TotalAnswered
		correct += s.CorrectCount
	}
	accuracy := 0.0
	if answered > 0 {
		accuracy = 100 * float64(correct) / float64(answered)
	}

	dueCount, err := u.progress.CountDue(ctx, userID, skill)
	if err != nil {
		return nil, err
	}

	preview, err := u.progress.ListDue(ctx, &repository.DueQuery{
		UserID: userID,
		Skill:  skill,
		Limit:  duePreviewLimit,
	})
	if err != nil {
		return nil, err
	}

	streak, err := u.streakDays(ctx, userID, dayStart)
	if err != nil {
		return nil, err
	}

	// Difficult items surface the caller's skill; the default skill only
	// applies when no filter was requested.
	markerSkill := entity.DefaultSkill
	if skill != nil {
		markerSkill = *skill
	}
	difficult, err := u.difficult.ListTop(ctx, userID, markerSkill, difficultItemLimit)
	if err != nil {
		return nil, err
	}

	return &entity.DashboardOverview{
		Accuracy:       accuracy,
		ReviewsToday:   answered,
		ReviewsDue:     dueCount,
		StreakDays:     streak,
		SRSToday:       preview,
		DifficultItems: difficult,
	}, nil
}

// streakDays walks backward one UTC day at a time from today and counts days
// with at least one started session, stopping at the first gap. Today without
// a session yields 0.
func (u *dashboardUsecase) streakDays(ctx context.Context, userID uuid.UUID, dayStart time.Time) (int, error) {
	days, err := u.sessions.ActiveDays(ctx, userID, dayStart.AddDate(0, 0, -streakLookbackDays))
	if err != nil {
		return 0, err
	}

	active := make(map[time.Time]struct{}, len(days))
	for _, d := range days {
		active[d.UTC().Truncate(24*time.Hour)] = struct{}{}
	}

	streak := 0
	for day := dayStart; ; day = day.AddDate(0, 0, -1) {
		if _, ok := active[day]; !ok {
			break
		}
		streak++
	}
	return streak, nil
}
