package service

import (
	"context"

	"github.com/JonnyWalker81/habitual/internal/clock"
	"github.com/JonnyWalker81/habitual/internal/models"
	"github.com/JonnyWalker81/habitual/internal/repository"
)

type profileService struct {
	habitRepo repository.HabitRepository
	goalRepo  repository.GoalRepository
	clock     clock.Clock
}

// NewProfileService creates a new profile service
func NewProfileService(habitRepo repository.HabitRepository, goalRepo repository.GoalRepository, c clock.Clock) ProfileService {
	return &profileService{habitRepo: habitRepo, goalRepo: goalRepo, clock: c}
}

func (s *profileService) Stats(ctx context.Context, userID string) (*models.ProfileStats, error) {
	totalHabits, err := s.habitRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	totalGoals, completedGoals, err := s.goalRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	active, err := s.habitRepo.ListByUser(ctx, userID, repository.HabitQuery{ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	return &models.ProfileStats{
		TotalHabits:    int(totalHabits),
		TotalGoals:     int(totalGoals),
		CompletedGoals: int(completedGoals),
		CurrentStreak:  AggregateCurrentStreak(habitDaysOf(active), clock.Today(s.clock)),
	}, nil
}
