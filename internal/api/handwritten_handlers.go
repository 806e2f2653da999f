package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nikoapp/niko-server/internal/domain"
	"github.com/nikoapp/niko-server/internal/service"
)

func (s *Server) registerHandwrittenRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listHandwrittenNotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/handwritten",
		Summary:     "List handwritten notes",
		Description: "Returns handwritten note metadata, newest first. An optional set_id narrows to one flashcard set's attachments.",
		Tags:        []string{"Handwritten"},
	}, s.handleListHandwritten)

	huma.Register(s.api, huma.Operation{
		OperationID: "createHandwrittenNote",
		Method:      http.MethodPost,
		Path:        "/api/v1/handwritten",
		Summary:     "Create handwritten note",
		Description: "Registers a handwritten page by its image URL",
		Tags:        []string{"Handwritten"},
	}, s.handleCreateHandwritten)

	huma.Register(s.api, huma.Operation{
		OperationID: "getHandwrittenNote",
		Method:      http.MethodGet,
		Path:        "/api/v1/handwritten/{id}",
		Summary:     "Get handwritten note",
		Description: "Returns a handwritten note by ID",
		Tags:        []string{"Handwritten"},
	}, s.handleGetHandwritten)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateHandwrittenNote",
		Method:      http.MethodPatch,
		Path:        "/api/v1/handwritten/{id}",
		Summary:     "Update handwritten note",
		Description: "Updates a page's metadata. The image URL is immutable.",
		Tags:        []string{"Handwritten"},
	}, s.handleUpdateHandwritten)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteHandwrittenNote",
		Method:      http.MethodDelete,
		Path:        "/api/v1/handwritten/{id}",
		Summary:     "Delete handwritten note",
		Description: "Deletes a page's metadata",
		Tags:        []string{"Handwritten"},
	}, s.handleDeleteHandwritten)
}

// === DTOs ===

type HandwrittenResponse struct {
	ID          string    `json:"id" doc:"Note ID"`
	Title       string    `json:"title" doc:"Page title"`
	Description string    `json:"description,omitempty" doc:"Description"`
	Tags        []string  `json:"tags" doc:"Tags"`
	SetID       string    `json:"set_id,omitempty" doc:"Linked flashcard set ID"`
	ImageURL    string    `json:"image_url" doc:"Hosted image URL"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

type ListHandwrittenInput struct {
	SetID string `query:"set_id" doc:"Only pages attached to this flashcard set"`
}

type ListHandwrittenResponse struct {
	Notes []HandwrittenResponse `json:"notes" doc:"List of handwritten notes"`
}

type ListHandwrittenOutput struct {
	Body ListHandwrittenResponse
}

type CreateHandwrittenRequest struct {
	Title       string   `json:"title" doc:"Page title"`
	Description string   `json:"description,omitempty" doc:"Description"`
	Tags        []string `json:"tags,omitempty" doc:"Tags"`
	SetID       string   `json:"set_id,omitempty" doc:"Linked flashcard set ID"`
	ImageURL    string   `json:"image_url" doc:"Hosted image URL"`
}

type CreateHandwrittenInput struct {
	Body CreateHandwrittenRequest
}

type HandwrittenOutput struct {
	Body HandwrittenResponse
}

type GetHandwrittenInput struct {
	ID string `path:"id" doc:"Note ID"`
}

type UpdateHandwrittenRequest struct {
	Title       *string   `json:"title,omitempty" doc:"Page title"`
	Description *string   `json:"description,omitempty" doc:"Description"`
	Tags        *[]string `json:"tags,omitempty" doc:"Tags"`
	SetID       *string   `json:"set_id,omitempty" doc:"Linked flashcard set ID"`
}

type UpdateHandwrittenInput struct {
	ID   string `path:"id" doc:"Note ID"`
	Body UpdateHandwrittenRequest
}

type DeleteHandwrittenInput struct {
	ID string `path:"id" doc:"Note ID"`
}

// === Handlers ===

func (s *Server) handleListHandwritten(ctx context.Context, input *ListHandwrittenInput) (*ListHandwrittenOutput, error) {
	notes := s.services.Handwritten.List(ctx, input.SetID)

	resp := make([]HandwrittenResponse, len(notes))
	for i, n := range notes {
		resp[i] = mapHandwrittenResponse(n)
	}

	return &ListHandwrittenOutput{Body: ListHandwrittenResponse{Notes: resp}}, nil
}

func (s *Server) handleCreateHandwritten(ctx context.Context, input *CreateHandwrittenInput) (*HandwrittenOutput, error) {
	n, err := s.services.Handwritten.Create(ctx, service.CreateHandwrittenRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Tags:        input.Body.Tags,
		SetID:       input.Body.SetID,
		ImageURL:    input.Body.ImageURL,
	})
	if err != nil {
		return nil, err
	}

	return &HandwrittenOutput{Body: mapHandwrittenResponse(n)}, nil
}

func (s *Server) handleGetHandwritten(ctx context.Context, input *GetHandwrittenInput) (*HandwrittenOutput, error) {
	n, err := s.services.Handwritten.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &HandwrittenOutput{Body: mapHandwrittenResponse(n)}, nil
}

func (s *Server) handleUpdateHandwritten(ctx context.Context, input *UpdateHandwrittenInput) (*HandwrittenOutput, error) {
	n, err := s.services.Handwritten.Update(ctx, input.ID, service.UpdateHandwrittenRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Tags:        input.Body.Tags,
		SetID:       input.Body.SetID,
	})
	if err != nil {
		return nil, err
	}

	return &HandwrittenOutput{Body: mapHandwrittenResponse(n)}, nil
}

func (s *Server) handleDeleteHandwritten(ctx context.Context, input *DeleteHandwrittenInput) (*MessageOutput, error) {
	if err := s.services.Handwritten.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Handwritten note deleted"}}, nil
}

// === Mappers ===

func mapHandwrittenResponse(n domain.HandwrittenNote) HandwrittenResponse {
	return HandwrittenResponse{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		Tags:        n.Tags,
		SetID:       n.SetID,
		ImageURL:    n.ImageURL,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}
