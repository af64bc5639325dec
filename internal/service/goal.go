package service

import (
	"context"
	"strings"

	"github.com/JonnyWalker81/habitual/internal/clock"
	"github.com/JonnyWalker81/habitual/internal/logger"
	"github.com/JonnyWalker81/habitual/internal/models"
	"github.com/JonnyWalker81/habitual/internal/repository"
	"github.com/shopspring/decimal"
)

const (
	// ActiveGoalsLimit caps the active goals summary.
	ActiveGoalsLimit = 5
	// ProjectionHorizonDays is used for projections of goals without a target date.
	ProjectionHorizonDays = 30
	// InitialValueNote labels the ledger entry created for a starting value.
	InitialValueNote = "Initial value"
)

type goalService struct {
	goalRepo repository.GoalRepository
	clock    clock.Clock
}

// NewGoalService creates a new goal service
func NewGoalService(goalRepo repository.GoalRepository, c clock.Clock) GoalService {
	return &goalService{goalRepo: goalRepo, clock: c}
}

func (s *goalService) ListGoals(ctx context.Context, userID string) ([]models.GoalResponse, error) {
	goals, err := s.goalRepo.ListByUser(ctx, userID, repository.GoalQuery{})
	if err != nil {
		return nil, err
	}
	today := clock.Today(s.clock)
	out := make([]models.GoalResponse, len(goals))
	for i := range goals {
		out[i] = models.NewGoalResponse(&goals[i], today)
	}
	return out, nil
}

func (s *goalService) ActiveGoalsSummary(ctx context.Context, userID string) ([]models.GoalSummary, error) {
	goals, err := s.goalRepo.ListByUser(ctx, userID, repository.GoalQuery{OpenOnly: true, Limit: ActiveGoalsLimit})
	if err != nil {
		return nil, err
	}
	return goalSummaries(goals), nil
}

func (s *goalService) CreateGoal(ctx context.Context, userID string, req *models.CreateGoalRequest) (*models.GoalResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, validationf("title is required")
	}
	if !req.TargetValue.IsPositive() {
		return nil, validationf("target_value must be greater than 0")
	}
	if req.CurrentValue != nil && req.CurrentValue.IsNegative() {
		return nil, validationf("current_value cannot be negative")
	}

	now := s.clock.Now().UTC()
	goal := &models.Goal{
		UserID:      userID,
		Title:       title,
		Description: req.Description,
		TargetValue: req.TargetValue,
		Unit:        req.Unit,
		Category:    req.Category,
		CreatedAt:   now,
	}
	if goal.Category == "" {
		goal.Category = models.GoalCategoryPersonal
	}
	if req.TargetDate != nil {
		td := clock.DateOf(req.TargetDate.Time)
		goal.TargetDate = &td
	}

	var initial *models.GoalProgress
	if req.CurrentValue != nil && req.CurrentValue.IsPositive() {
		note := InitialValueNote
		initial = &models.GoalProgress{Value: *req.CurrentValue, Notes: &note, CreatedAt: now}
	}

	created, err := s.goalRepo.Create(ctx, goal, initial)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("goal created", logger.String("goal_id", created.ID))

	resp := models.NewGoalResponse(created, clock.Today(s.clock))
	return &resp, nil
}

func (s *goalService) GetGoal(ctx context.Context, userID, goalID string) (*models.GoalDetails, error) {
	goal, err := s.goalRepo.GetByID(ctx, userID, goalID)
	if err != nil {
		return nil, mapRepoErr(err, "get goal")
	}
	return &models.GoalDetails{
		GoalResponse:    models.NewGoalResponse(goal, clock.Today(s.clock)),
		ProgressEntries: progressEntries(goal.ProgressEntries),
		Statistics:      s.statistics(goal),
	}, nil
}

func (s *goalService) UpdateGoal(ctx context.Context, userID, goalID string, req *models.UpdateGoalRequest) (*models.GoalResponse, error) {
	goal, err := s.goalRepo.GetByID(ctx, userID, goalID)
	if err != nil {
		return nil, mapRepoErr(err, "update goal")
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, validationf("title cannot be empty")
		}
		goal.Title = title
	}
	req.Description.Apply(&goal.Description)
	req.Unit.Apply(&goal.Unit)
	if req.TargetValue != nil {
		if !req.TargetValue.IsPositive() {
			return nil, validationf("target_value must be greater than 0")
		}
		goal.TargetValue = *req.TargetValue
	}
	if req.TargetDate.Set {
		goal.TargetDate = nil
		if req.TargetDate.Valid {
			td := clock.DateOf(req.TargetDate.Value)
			goal.TargetDate = &td
		}
	}
	if req.Category != nil {
		goal.Category = *req.Category
	}

	updated, err := s.goalRepo.Update(ctx, goal, s.clock.Now())
	if err != nil {
		return nil, mapRepoErr(err, "update goal")
	}
	resp := models.NewGoalResponse(updated, clock.Today(s.clock))
	return &resp, nil
}

func (s *goalService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	if err := s.goalRepo.Delete(ctx, userID, goalID); err != nil {
		return mapRepoErr(err, "delete goal")
	}
	logger.FromContext(ctx).Info("goal deleted", logger.String("goal_id", goalID))
	return nil
}

func (s *goalService) AddProgress(ctx context.Context, userID, goalID string, req *models.AddProgressRequest) (*models.GoalResponse, error) {
	if !req.Value.IsPositive() {
		return nil, validationf("value must be greater than 0")
	}

	now := s.clock.Now()
	goal, err := s.goalRepo.AddProgress(ctx, userID, goalID, &models.GoalProgress{
		Value:     req.Value,
		Notes:     req.Notes,
		CreatedAt: now.UTC(),
	}, now)
	if err != nil {
		return nil, mapRepoErr(err, "add progress")
	}

	log := logger.FromContext(ctx)
	log.Info("goal progress added",
		logger.String("goal_id", goal.ID),
		logger.String("value", req.Value.String()),
		logger.String("current_value", goal.CurrentValue.String()))
	if goal.CompletedAt != nil && goal.CompletedAt.Equal(now.UTC()) {
		log.Info("goal completed", logger.String("goal_id", goal.ID))
	}

	resp := models.NewGoalResponse(goal, clock.Today(s.clock))
	return &resp, nil
}

func (s *goalService) DeleteProgress(ctx context.Context, userID, progressID string) (*models.GoalResponse, error) {
	goal, err := s.goalRepo.DeleteProgress(ctx, userID, progressID, s.clock.Now())
	if err != nil {
		return nil, mapRepoErr(err, "delete progress")
	}
	logger.FromContext(ctx).Info("goal progress deleted",
		logger.String("goal_id", goal.ID),
		logger.String("progress_id", progressID),
		logger.String("current_value", goal.CurrentValue.String()))

	resp := models.NewGoalResponse(goal, clock.Today(s.clock))
	return &resp, nil
}

func (s *goalService) ListProgress(ctx context.Context, userID, goalID string) ([]models.ProgressEntry, error) {
	goal, err := s.goalRepo.GetByID(ctx, userID, goalID)
	if err != nil {
		return nil, mapRepoErr(err, "list progress")
	}
	return progressEntries(goal.ProgressEntries), nil
}

func (s *goalService) Statistics(ctx context.Context, userID, goalID string) (*models.GoalStatistics, error) {
	goal, err := s.goalRepo.GetByID(ctx, userID, goalID)
	if err != nil {
		return nil, mapRepoErr(err, "goal statistics")
	}
	stats := s.statistics(goal)
	return &stats, nil
}

// statistics derives pace and projection from the goal's ledger.
func (s *goalService) statistics(goal *models.Goal) models.GoalStatistics {
	now := s.clock.Now()
	if len(goal.ProgressEntries) == 0 {
		return models.GoalStatistics{
			AverageProgressPerDay:    decimal.Zero,
			ProjectedCompletionValue: decimal.Zero,
			LargestSingleProgress:    decimal.Zero,
			DaysSinceLastProgress:    clock.ElapsedDays(goal.CreatedAt, now),
		}
	}

	today := clock.Today(s.clock)
	days := max(1, clock.ElapsedDays(goal.CreatedAt, now))
	avg := goal.CurrentValue.Div(decimal.NewFromInt(int64(days)))

	horizon := ProjectionHorizonDays
	if goal.TargetDate != nil {
		horizon = max(0, clock.DaysBetween(today, *goal.TargetDate))
	}
	projected := goal.CurrentValue.Add(avg.Mul(decimal.NewFromInt(int64(horizon))))

	var projectedDate *models.Date
	if avg.IsPositive() && !goal.IsCompleted() {
		remaining := goal.TargetValue.Sub(goal.CurrentValue)
		n := remaining.Div(avg).Ceil().IntPart()
		d := models.NewDate(today.AddDate(0, 0, int(n)))
		projectedDate = &d
	}

	largest := goal.ProgressEntries[0].Value
	last := goal.ProgressEntries[0].CreatedAt
	for _, p := range goal.ProgressEntries[1:] {
		largest = decimal.Max(largest, p.Value)
		if p.CreatedAt.After(last) {
			last = p.CreatedAt
		}
	}

	return models.GoalStatistics{
		AverageProgressPerDay:    avg.Round(2),
		ProjectedCompletionValue: projected.Round(2),
		ProjectedCompletionDate:  projectedDate,
		TotalProgressEntries:     len(goal.ProgressEntries),
		LargestSingleProgress:    largest,
		LastProgressDate:         &last,
		DaysSinceLastProgress:    clock.ElapsedDays(last, now),
	}
}

// progressEntries returns the ledger newest first, each row carrying the
// running total up to and including it.
func progressEntries(ledger []models.GoalProgress) []models.ProgressEntry {
	out := make([]models.ProgressEntry, len(ledger))
	total := decimal.Zero
	for i, p := range ledger {
		total = total.Add(p.Value)
		out[len(ledger)-1-i] = models.ProgressEntry{
			ID:           p.ID,
			Value:        p.Value,
			Notes:        p.Notes,
			CreatedAt:    p.CreatedAt,
			RunningTotal: total,
		}
	}
	return out
}

func goalSummaries(goals []models.Goal) []models.GoalSummary {
	out := make([]models.GoalSummary, len(goals))
	for i := range goals {
		g := &goals[i]
		out[i] = models.GoalSummary{
			ID:                 g.ID,
			Title:              g.Title,
			TargetValue:        g.TargetValue,
			CurrentValue:       g.CurrentValue,
			Unit:               g.Unit,
			ProgressPercentage: g.ProgressPercentage(),
		}
	}
	return out
}
