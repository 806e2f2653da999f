package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/nikoapp/niko-server/internal/domain"
	apperrors "github.com/nikoapp/niko-server/internal/errors"
	"github.com/nikoapp/niko-server/internal/remote"
	"github.com/nikoapp/niko-server/internal/store"
	"github.com/nikoapp/niko-server/internal/validation"
)

// HandwrittenService manages handwritten-note metadata. The rows are
// small pointers to externally hosted images, so like jobs they carry no
// cache leg.
type HandwrittenService struct {
	logger    *slog.Logger
	validator *validation.Validator
	notes     *store.Collection[domain.HandwrittenNote]
}

// NewHandwrittenService creates the service.
func NewHandwrittenService(rc remote.Client, logger *slog.Logger) *HandwrittenService {
	newestFirst := func(a, b domain.HandwrittenNote) bool {
		return a.CreatedAt.After(b.CreatedAt)
	}

	return &HandwrittenService{
		logger:    logger,
		validator: validation.New(),
		notes: store.NewCollection[domain.HandwrittenNote](rc, "handwritten_notes", logger,
			store.WithSort[domain.HandwrittenNote](newestFirst),
			store.WithRemoteOrder[domain.HandwrittenNote](remote.Order{Column: "created_at", Descending: true}),
			store.Prepend[domain.HandwrittenNote]()),
	}
}

// Prefetch loads the working set.
func (s *HandwrittenService) Prefetch(ctx context.Context) {
	s.notes.FetchAll(ctx)
}

// Status reports collection health.
func (s *HandwrittenService) Status() store.Status {
	return s.notes.Status()
}

// List returns all handwritten notes, newest first. A non-empty setID
// narrows to one flashcard set's attachments.
func (s *HandwrittenService) List(ctx context.Context, setID string) []domain.HandwrittenNote {
	s.notes.EnsureFetched(ctx)

	items := s.notes.Items()
	if setID == "" {
		return items
	}

	var out []domain.HandwrittenNote
	for _, n := range items {
		if n.SetID == setID {
			out = append(out, n)
		}
	}
	return out
}

// Get returns one handwritten note by id.
func (s *HandwrittenService) Get(ctx context.Context, noteID string) (domain.HandwrittenNote, error) {
	s.notes.EnsureFetched(ctx)
	n, ok := s.notes.Find(noteID)
	if !ok {
		return domain.HandwrittenNote{}, apperrors.NotFoundf("handwritten note %s not found", noteID)
	}
	return n, nil
}

// CreateHandwrittenRequest contains fields for registering a page.
type CreateHandwrittenRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"max=1000"`
	Tags        []string `json:"tags" validate:"max=20,dive,min=1,max=50"`
	SetID       string   `json:"set_id" validate:"max=100"`
	ImageURL    string   `json:"image_url" validate:"required,url"`
}

// Create registers a handwritten page.
func (s *HandwrittenService) Create(ctx context.Context, req CreateHandwrittenRequest) (domain.HandwrittenNote, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.HandwrittenNote{}, err
	}

	now := time.Now().UTC()
	n := domain.HandwrittenNote{
		ID:          newID("hw", s.notes.Status()),
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		SetID:       req.SetID,
		ImageURL:    req.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return s.notes.Add(ctx, n), nil
}

// UpdateHandwrittenRequest contains the patchable fields of a page.
type UpdateHandwrittenRequest struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=1000"`
	Tags        *[]string `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
	SetID       *string   `json:"set_id,omitempty" validate:"omitempty,max=100"`
}

func (r UpdateHandwrittenRequest) patch() map[string]any {
	patch := map[string]any{}
	if r.Title != nil {
		patch["title"] = *r.Title
	}
	if r.Description != nil {
		patch["description"] = *r.Description
	}
	if r.Tags != nil {
		patch["tags"] = *r.Tags
	}
	if r.SetID != nil {
		patch["set_id"] = *r.SetID
	}
	return patch
}

// Update applies a partial update to a page's metadata. The image URL is
// immutable; re-uploading means creating a new entry.
func (s *HandwrittenService) Update(ctx context.Context, noteID string, req UpdateHandwrittenRequest) (domain.HandwrittenNote, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.HandwrittenNote{}, err
	}
	s.notes.EnsureFetched(ctx)

	patch := req.patch()
	patch["updated_at"] = time.Now().UTC().Format(time.RFC3339Nano)

	n, ok := s.notes.Update(ctx, noteID, patch)
	if !ok {
		return domain.HandwrittenNote{}, apperrors.NotFoundf("handwritten note %s not found", noteID)
	}
	return n, nil
}

// Delete removes a page's metadata.
func (s *HandwrittenService) Delete(ctx context.Context, noteID string) error {
	s.notes.EnsureFetched(ctx)
	if !s.notes.Remove(ctx, noteID) {
		return apperrors.NotFoundf("handwritten note %s not found", noteID)
	}
	return nil
}
