package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nikoapp/niko-server/internal/domain"
	"github.com/nikoapp/niko-server/internal/service"
)

func (s *Server) registerGoalRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGoals",
		Method:      http.MethodGet,
		Path:        "/api/v1/goals",
		Summary:     "List weekly goals",
		Description: "Returns the goal checklist in entry order",
		Tags:        []string{"Goals"},
	}, s.handleListGoals)

	huma.Register(s.api, huma.Operation{
		OperationID: "createGoal",
		Method:      http.MethodPost,
		Path:        "/api/v1/goals",
		Summary:     "Create goal",
		Description: "Adds a goal to the checklist",
		Tags:        []string{"Goals"},
	}, s.handleCreateGoal)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearCompletedGoals",
		Method:      http.MethodPost,
		Path:        "/api/v1/goals/clear-completed",
		Summary:     "Clear completed goals",
		Description: "Removes every completed goal, for the weekly reset",
		Tags:        []string{"Goals"},
	}, s.handleClearCompletedGoals)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateGoal",
		Method:      http.MethodPatch,
		Path:        "/api/v1/goals/{id}",
		Summary:     "Update goal",
		Description: "Rewords a goal",
		Tags:        []string{"Goals"},
	}, s.handleUpdateGoal)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteGoal",
		Method:      http.MethodDelete,
		Path:        "/api/v1/goals/{id}",
		Summary:     "Delete goal",
		Description: "Deletes a goal",
		Tags:        []string{"Goals"},
	}, s.handleDeleteGoal)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleGoal",
		Method:      http.MethodPost,
		Path:        "/api/v1/goals/{id}/toggle",
		Summary:     "Toggle goal",
		Description: "Flips a goal's completed flag",
		Tags:        []string{"Goals"},
	}, s.handleToggleGoal)
}

// === DTOs ===

type GoalResponse struct {
	ID        string    `json:"id" doc:"Goal ID"`
	Text      string    `json:"text" doc:"Goal text"`
	Completed bool      `json:"completed" doc:"Whether the goal is done"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

type ListGoalsResponse struct {
	Goals []GoalResponse `json:"goals" doc:"Goals in entry order"`
}

type ListGoalsOutput struct {
	Body ListGoalsResponse
}

type CreateGoalRequest struct {
	Text string `json:"text" doc:"Goal text"`
}

type CreateGoalInput struct {
	Body CreateGoalRequest
}

type GoalOutput struct {
	Body GoalResponse
}

type UpdateGoalRequest struct {
	Text *string `json:"text,omitempty" doc:"Goal text"`
}

type UpdateGoalInput struct {
	ID   string `path:"id" doc:"Goal ID"`
	Body UpdateGoalRequest
}

type DeleteGoalInput struct {
	ID string `path:"id" doc:"Goal ID"`
}

type ToggleGoalInput struct {
	ID string `path:"id" doc:"Goal ID"`
}

type ClearCompletedResponse struct {
	Cleared int `json:"cleared" doc:"Number of goals removed"`
}

type ClearCompletedOutput struct {
	Body ClearCompletedResponse
}

// === Handlers ===

func (s *Server) handleListGoals(ctx context.Context, _ *struct{}) (*ListGoalsOutput, error) {
	goals := s.services.Goal.List(ctx)

	resp := make([]GoalResponse, len(goals))
	for i, goal := range goals {
		resp[i] = mapGoalResponse(goal)
	}

	return &ListGoalsOutput{Body: ListGoalsResponse{Goals: resp}}, nil
}

func (s *Server) handleCreateGoal(ctx context.Context, input *CreateGoalInput) (*GoalOutput, error) {
	goal, err := s.services.Goal.Create(ctx, service.CreateGoalRequest{Text: input.Body.Text})
	if err != nil {
		return nil, err
	}

	return &GoalOutput{Body: mapGoalResponse(goal)}, nil
}

func (s *Server) handleUpdateGoal(ctx context.Context, input *UpdateGoalInput) (*GoalOutput, error) {
	goal, err := s.services.Goal.Update(ctx, input.ID, service.UpdateGoalRequest{Text: input.Body.Text})
	if err != nil {
		return nil, err
	}

	return &GoalOutput{Body: mapGoalResponse(goal)}, nil
}

func (s *Server) handleDeleteGoal(ctx context.Context, input *DeleteGoalInput) (*MessageOutput, error) {
	if err := s.services.Goal.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Goal deleted"}}, nil
}

func (s *Server) handleToggleGoal(ctx context.Context, input *ToggleGoalInput) (*GoalOutput, error) {
	goal, err := s.services.Goal.Toggle(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &GoalOutput{Body: mapGoalResponse(goal)}, nil
}

func (s *Server) handleClearCompletedGoals(ctx context.Context, _ *struct{}) (*ClearCompletedOutput, error) {
	cleared := s.services.Goal.ClearCompleted(ctx)
	return &ClearCompletedOutput{Body: ClearCompletedResponse{Cleared: cleared}}, nil
}

// === Mappers ===

func mapGoalResponse(goal domain.WeeklyGoal) GoalResponse {
	return GoalResponse{
		ID:        goal.ID,
		Text:      goal.Text,
		Completed: goal.Completed,
		CreatedAt: goal.CreatedAt,
		UpdatedAt: goal.UpdatedAt,
	}
}
