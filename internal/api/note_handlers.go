package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nikoapp/niko-server/internal/domain"
	"github.com/nikoapp/niko-server/internal/service"
)

func (s *Server) registerNoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listNotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes",
		Summary:     "List notes",
		Description: "Returns all notes, pinned first, then most recently updated. An optional tag narrows the list.",
		Tags:        []string{"Notes"},
	}, s.handleListNotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "createNote",
		Method:      http.MethodPost,
		Path:        "/api/v1/notes",
		Summary:     "Create note",
		Description: "Creates a new note",
		Tags:        []string{"Notes"},
	}, s.handleCreateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchNotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes/search",
		Summary:     "Search notes",
		Description: "Full-text search over note titles, content, and tags",
		Tags:        []string{"Notes"},
	}, s.handleSearchNotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "getNote",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Get note",
		Description: "Returns a note by ID",
		Tags:        []string{"Notes"},
	}, s.handleGetNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateNote",
		Method:      http.MethodPatch,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Update note",
		Description: "Applies a partial update to a note",
		Tags:        []string{"Notes"},
	}, s.handleUpdateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteNote",
		Method:      http.MethodDelete,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Delete note",
		Description: "Deletes a note",
		Tags:        []string{"Notes"},
	}, s.handleDeleteNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleNotePin",
		Method:      http.MethodPost,
		Path:        "/api/v1/notes/{id}/pin",
		Summary:     "Toggle note pin",
		Description: "Flips a note's pinned flag",
		Tags:        []string{"Notes"},
	}, s.handleToggleNotePin)
}

// === DTOs ===

type NoteResponse struct {
	ID        string    `json:"id" doc:"Note ID"`
	Title     string    `json:"title" doc:"Note title"`
	Content   string    `json:"content" doc:"Note body"`
	Color     string    `json:"color,omitempty" doc:"Display color"`
	Tags      []string  `json:"tags" doc:"Tags"`
	IsPinned  bool      `json:"is_pinned" doc:"Whether the note is pinned"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

type ListNotesInput struct {
	Tag string `query:"tag" doc:"Only notes carrying this tag"`
}

type ListNotesResponse struct {
	Notes []NoteResponse `json:"notes" doc:"List of notes"`
}

type ListNotesOutput struct {
	Body ListNotesResponse
}

type CreateNoteRequest struct {
	Title   string   `json:"title" doc:"Note title"`
	Content string   `json:"content,omitempty" doc:"Note body"`
	Color   string   `json:"color,omitempty" doc:"Display color"`
	Tags    []string `json:"tags,omitempty" doc:"Tags"`
}

type CreateNoteInput struct {
	Body CreateNoteRequest
}

type NoteOutput struct {
	Body NoteResponse
}

type GetNoteInput struct {
	ID string `path:"id" doc:"Note ID"`
}

type UpdateNoteRequest struct {
	Title   *string   `json:"title,omitempty" doc:"Note title"`
	Content *string   `json:"content,omitempty" doc:"Note body"`
	Color   *string   `json:"color,omitempty" doc:"Display color"`
	Tags    *[]string `json:"tags,omitempty" doc:"Tags"`
}

type UpdateNoteInput struct {
	ID   string `path:"id" doc:"Note ID"`
	Body UpdateNoteRequest
}

type DeleteNoteInput struct {
	ID string `path:"id" doc:"Note ID"`
}

type ToggleNotePinInput struct {
	ID string `path:"id" doc:"Note ID"`
}

type SearchNotesInput struct {
	Query string `query:"q" doc:"Search query"`
	Limit int    `query:"limit" doc:"Maximum results, default 20"`
}

// === Handlers ===

func (s *Server) handleListNotes(ctx context.Context, input *ListNotesInput) (*ListNotesOutput, error) {
	var notes []domain.Note
	if input.Tag != "" {
		notes = s.services.Note.ByTag(ctx, input.Tag)
	} else {
		notes = s.services.Note.List(ctx)
	}

	resp := make([]NoteResponse, len(notes))
	for i, note := range notes {
		resp[i] = mapNoteResponse(note)
	}

	return &ListNotesOutput{Body: ListNotesResponse{Notes: resp}}, nil
}

func (s *Server) handleCreateNote(ctx context.Context, input *CreateNoteInput) (*NoteOutput, error) {
	note, err := s.services.Note.Create(ctx, service.CreateNoteRequest{
		Title:   input.Body.Title,
		Content: input.Body.Content,
		Color:   input.Body.Color,
		Tags:    input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: mapNoteResponse(note)}, nil
}

func (s *Server) handleGetNote(ctx context.Context, input *GetNoteInput) (*NoteOutput, error) {
	note, err := s.services.Note.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: mapNoteResponse(note)}, nil
}

func (s *Server) handleUpdateNote(ctx context.Context, input *UpdateNoteInput) (*NoteOutput, error) {
	note, err := s.services.Note.Update(ctx, input.ID, service.UpdateNoteRequest{
		Title:   input.Body.Title,
		Content: input.Body.Content,
		Color:   input.Body.Color,
		Tags:    input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: mapNoteResponse(note)}, nil
}

func (s *Server) handleDeleteNote(ctx context.Context, input *DeleteNoteInput) (*MessageOutput, error) {
	if err := s.services.Note.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Note deleted"}}, nil
}

func (s *Server) handleToggleNotePin(ctx context.Context, input *ToggleNotePinInput) (*NoteOutput, error) {
	note, err := s.services.Note.TogglePin(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: mapNoteResponse(note)}, nil
}

func (s *Server) handleSearchNotes(ctx context.Context, input *SearchNotesInput) (*ListNotesOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	notes, err := s.services.Note.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, err
	}

	resp := make([]NoteResponse, len(notes))
	for i, note := range notes {
		resp[i] = mapNoteResponse(note)
	}

	return &ListNotesOutput{Body: ListNotesResponse{Notes: resp}}, nil
}

// === Mappers ===

func mapNoteResponse(note domain.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		Color:     note.Color,
		Tags:      note.Tags,
		IsPinned:  note.IsPinned,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}
