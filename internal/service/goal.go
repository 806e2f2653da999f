package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/nikoapp/niko-server/internal/cache"
	"github.com/nikoapp/niko-server/internal/domain"
	apperrors "github.com/nikoapp/niko-server/internal/errors"
	"github.com/nikoapp/niko-server/internal/remote"
	"github.com/nikoapp/niko-server/internal/store"
	"github.com/nikoapp/niko-server/internal/validation"
)

// GoalService manages the weekly goal checklist.
type GoalService struct {
	logger    *slog.Logger
	validator *validation.Validator
	goals     *store.Collection[domain.WeeklyGoal]
}

// NewGoalService creates the service.
func NewGoalService(rc remote.Client, lc *cache.Cache, logger *slog.Logger) *GoalService {
	return &GoalService{
		logger:    logger,
		validator: validation.New(),
		goals: store.NewCollection[domain.WeeklyGoal](rc, "weekly_goals", logger,
			store.WithCache[domain.WeeklyGoal](lc, "weekly_goals"),
			store.WithSort[domain.WeeklyGoal](domain.GoalLess),
			store.WithRemoteOrder[domain.WeeklyGoal](remote.Order{Column: "created_at"}),
			store.OptimisticRevert[domain.WeeklyGoal]()),
	}
}

// Prefetch loads the working set.
func (s *GoalService) Prefetch(ctx context.Context) {
	s.goals.FetchAll(ctx)
}

// Status reports collection health.
func (s *GoalService) Status() store.Status {
	return s.goals.Status()
}

// List returns all goals in entry order.
func (s *GoalService) List(ctx context.Context) []domain.WeeklyGoal {
	s.goals.EnsureFetched(ctx)
	return s.goals.Items()
}

// CreateGoalRequest contains fields for adding a goal.
type CreateGoalRequest struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
}

// Create adds a goal to the list.
func (s *GoalService) Create(ctx context.Context, req CreateGoalRequest) (domain.WeeklyGoal, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.WeeklyGoal{}, err
	}

	now := time.Now().UTC()
	goal := domain.WeeklyGoal{
		ID:        newID("goal", s.goals.Status()),
		Text:      req.Text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.goals.Add(ctx, goal), nil
}

// UpdateGoalRequest contains the patchable fields of a goal.
type UpdateGoalRequest struct {
	Text *string `json:"text,omitempty" validate:"omitempty,min=1,max=500"`
}

// Update rewords a goal.
func (s *GoalService) Update(ctx context.Context, goalID string, req UpdateGoalRequest) (domain.WeeklyGoal, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.WeeklyGoal{}, err
	}
	s.goals.EnsureFetched(ctx)

	patch := map[string]any{
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	}
	if req.Text != nil {
		patch["text"] = *req.Text
	}

	goal, ok := s.goals.Update(ctx, goalID, patch)
	if !ok {
		return domain.WeeklyGoal{}, apperrors.NotFoundf("goal %s not found", goalID)
	}
	return goal, nil
}

// Toggle flips a goal's completed flag optimistically; the flip reverts
// if the backend rejects it.
func (s *GoalService) Toggle(ctx context.Context, goalID string) (domain.WeeklyGoal, error) {
	s.goals.EnsureFetched(ctx)

	goal, ok := s.goals.Toggle(ctx, goalID, "completed", map[string]any{
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	if !ok {
		return domain.WeeklyGoal{}, apperrors.NotFoundf("goal %s not found", goalID)
	}
	return goal, nil
}

// Delete removes a goal.
func (s *GoalService) Delete(ctx context.Context, goalID string) error {
	s.goals.EnsureFetched(ctx)
	if !s.goals.Remove(ctx, goalID) {
		return apperrors.NotFoundf("goal %s not found", goalID)
	}
	return nil
}

// ClearCompleted removes every completed goal, for the weekly reset.
func (s *GoalService) ClearCompleted(ctx context.Context) int {
	s.goals.EnsureFetched(ctx)

	var cleared int
	for _, goal := range s.goals.Items() {
		if goal.Completed && s.goals.Remove(ctx, goal.ID) {
			cleared++
		}
	}
	return cleared
}
