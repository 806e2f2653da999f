package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nikoapp/niko-server/internal/domain"
	"github.com/nikoapp/niko-server/internal/service"
)

func (s *Server) registerExamRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listExams",
		Method:      http.MethodGet,
		Path:        "/api/v1/exams",
		Summary:     "List exams",
		Description: "Returns all exams, soonest first",
		Tags:        []string{"Exams"},
	}, s.handleListExams)

	huma.Register(s.api, huma.Operation{
		OperationID: "createExam",
		Method:      http.MethodPost,
		Path:        "/api/v1/exams",
		Summary:     "Create exam",
		Description: "Creates a new exam or deadline",
		Tags:        []string{"Exams"},
	}, s.handleCreateExam)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUpcomingExams",
		Method:      http.MethodGet,
		Path:        "/api/v1/exams/upcoming",
		Summary:     "List upcoming exams",
		Description: "Returns exams inside their reminder window, soonest first",
		Tags:        []string{"Exams"},
	}, s.handleListUpcomingExams)

	huma.Register(s.api, huma.Operation{
		OperationID: "getExam",
		Method:      http.MethodGet,
		Path:        "/api/v1/exams/{id}",
		Summary:     "Get exam",
		Description: "Returns an exam by ID",
		Tags:        []string{"Exams"},
	}, s.handleGetExam)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateExam",
		Method:      http.MethodPatch,
		Path:        "/api/v1/exams/{id}",
		Summary:     "Update exam",
		Description: "Applies a partial update to an exam",
		Tags:        []string{"Exams"},
	}, s.handleUpdateExam)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteExam",
		Method:      http.MethodDelete,
		Path:        "/api/v1/exams/{id}",
		Summary:     "Delete exam",
		Description: "Deletes an exam",
		Tags:        []string{"Exams"},
	}, s.handleDeleteExam)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleExamCompleted",
		Method:      http.MethodPost,
		Path:        "/api/v1/exams/{id}/complete",
		Summary:     "Toggle exam completed",
		Description: "Flips an exam's completed flag",
		Tags:        []string{"Exams"},
	}, s.handleToggleExamCompleted)
}

// === DTOs ===

type ExamResponse struct {
	ID           string    `json:"id" doc:"Exam ID"`
	Title        string    `json:"title" doc:"Exam title"`
	Subject      string    `json:"subject,omitempty" doc:"Subject"`
	Date         time.Time `json:"date" doc:"Exam date"`
	Priority     string    `json:"priority" doc:"Priority: low, medium, or high"`
	Completed    bool      `json:"completed" doc:"Whether the exam is done"`
	ReminderDays int       `json:"reminder_days" doc:"Reminder window in days before the date"`
	CreatedAt    time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt    time.Time `json:"updated_at" doc:"Last update time"`
}

type ListExamsResponse struct {
	Exams []ExamResponse `json:"exams" doc:"List of exams"`
}

type ListExamsOutput struct {
	Body ListExamsResponse
}

type CreateExamRequest struct {
	Title        string    `json:"title" doc:"Exam title"`
	Subject      string    `json:"subject,omitempty" doc:"Subject"`
	Date         time.Time `json:"date" doc:"Exam date"`
	Priority     string    `json:"priority,omitempty" doc:"Priority, defaults to medium"`
	ReminderDays int       `json:"reminder_days,omitempty" doc:"Reminder window in days, defaults to 7"`
}

type CreateExamInput struct {
	Body CreateExamRequest
}

type ExamOutput struct {
	Body ExamResponse
}

type GetExamInput struct {
	ID string `path:"id" doc:"Exam ID"`
}

type UpdateExamRequest struct {
	Title        *string    `json:"title,omitempty" doc:"Exam title"`
	Subject      *string    `json:"subject,omitempty" doc:"Subject"`
	Date         *time.Time `json:"date,omitempty" doc:"Exam date"`
	Priority     *string    `json:"priority,omitempty" doc:"Priority"`
	ReminderDays *int       `json:"reminder_days,omitempty" doc:"Reminder window in days"`
}

type UpdateExamInput struct {
	ID   string `path:"id" doc:"Exam ID"`
	Body UpdateExamRequest
}

type DeleteExamInput struct {
	ID string `path:"id" doc:"Exam ID"`
}

type ToggleExamCompletedInput struct {
	ID string `path:"id" doc:"Exam ID"`
}

// === Handlers ===

func (s *Server) handleListExams(ctx context.Context, _ *struct{}) (*ListExamsOutput, error) {
	exams := s.services.Exam.List(ctx)

	resp := make([]ExamResponse, len(exams))
	for i, exam := range exams {
		resp[i] = mapExamResponse(exam)
	}

	return &ListExamsOutput{Body: ListExamsResponse{Exams: resp}}, nil
}

func (s *Server) handleListUpcomingExams(ctx context.Context, _ *struct{}) (*ListExamsOutput, error) {
	exams := s.services.Exam.Upcoming(ctx)

	resp := make([]ExamResponse, len(exams))
	for i, exam := range exams {
		resp[i] = mapExamResponse(exam)
	}

	return &ListExamsOutput{Body: ListExamsResponse{Exams: resp}}, nil
}

func (s *Server) handleCreateExam(ctx context.Context, input *CreateExamInput) (*ExamOutput, error) {
	exam, err := s.services.Exam.Create(ctx, service.CreateExamRequest{
		Title:        input.Body.Title,
		Subject:      input.Body.Subject,
		Date:         input.Body.Date,
		Priority:     input.Body.Priority,
		ReminderDays: input.Body.ReminderDays,
	})
	if err != nil {
		return nil, err
	}

	return &ExamOutput{Body: mapExamResponse(exam)}, nil
}

func (s *Server) handleGetExam(ctx context.Context, input *GetExamInput) (*ExamOutput, error) {
	exam, err := s.services.Exam.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ExamOutput{Body: mapExamResponse(exam)}, nil
}

func (s *Server) handleUpdateExam(ctx context.Context, input *UpdateExamInput) (*ExamOutput, error) {
	exam, err := s.services.Exam.Update(ctx, input.ID, service.UpdateExamRequest{
		Title:        input.Body.Title,
		Subject:      input.Body.Subject,
		Date:         input.Body.Date,
		Priority:     input.Body.Priority,
		ReminderDays: input.Body.ReminderDays,
	})
	if err != nil {
		return nil, err
	}

	return &ExamOutput{Body: mapExamResponse(exam)}, nil
}

func (s *Server) handleDeleteExam(ctx context.Context, input *DeleteExamInput) (*MessageOutput, error) {
	if err := s.services.Exam.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Exam deleted"}}, nil
}

func (s *Server) handleToggleExamCompleted(ctx context.Context, input *ToggleExamCompletedInput) (*ExamOutput, error) {
	exam, err := s.services.Exam.ToggleCompleted(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ExamOutput{Body: mapExamResponse(exam)}, nil
}

// === Mappers ===

func mapExamResponse(exam domain.Exam) ExamResponse {
	return ExamResponse{
		ID:           exam.ID,
		Title:        exam.Title,
		Subject:      exam.Subject,
		Date:         exam.Date,
		Priority:     string(exam.Priority),
		Completed:    exam.Completed,
		ReminderDays: exam.ReminderDays,
		CreatedAt:    exam.CreatedAt,
		UpdatedAt:    exam.UpdatedAt,
	}
}
