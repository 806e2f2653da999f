package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/nikoapp/niko-server/internal/cache"
	"github.com/nikoapp/niko-server/internal/domain"
	apperrors "github.com/nikoapp/niko-server/internal/errors"
	"github.com/nikoapp/niko-server/internal/remote"
	"github.com/nikoapp/niko-server/internal/search"
	"github.com/nikoapp/niko-server/internal/store"
	"github.com/nikoapp/niko-server/internal/validation"
)

// NoteService manages notes: CRUD, the pin toggle, and full-text search.
// Search indexing is best effort and never fails a mutation.
type NoteService struct {
	logger    *slog.Logger
	validator *validation.Validator
	notes     *store.Collection[domain.Note]
	index     *search.NoteIndex
}

// NewNoteService creates the service. The index may be nil, which
// disables search.
func NewNoteService(rc remote.Client, lc *cache.Cache, index *search.NoteIndex, logger *slog.Logger) *NoteService {
	return &NoteService{
		logger:    logger,
		validator: validation.New(),
		notes: store.NewCollection[domain.Note](rc, "notes", logger,
			store.WithCache[domain.Note](lc, "notes"),
			store.WithSort[domain.Note](domain.NoteLess),
			store.Prepend[domain.Note]()),
		index: index,
	}
}

// Prefetch loads the working set and rebuilds the search index from it.
func (s *NoteService) Prefetch(ctx context.Context) {
	s.notes.FetchAll(ctx)
	s.reindex()
}

// Status reports collection health.
func (s *NoteService) Status() store.Status {
	return s.notes.Status()
}

// List returns all notes, pinned first, then most recently updated.
func (s *NoteService) List(ctx context.Context) []domain.Note {
	s.notes.EnsureFetched(ctx)
	return s.notes.Items()
}

// Get returns one note by id.
func (s *NoteService) Get(ctx context.Context, noteID string) (domain.Note, error) {
	s.notes.EnsureFetched(ctx)
	note, ok := s.notes.Find(noteID)
	if !ok {
		return domain.Note{}, apperrors.NotFoundf("note %s not found", noteID)
	}
	return note, nil
}

// CreateNoteRequest contains fields for creating a note.
type CreateNoteRequest struct {
	Title   string   `json:"title" validate:"required,min=1,max=200"`
	Content string   `json:"content" validate:"max=50000"`
	Color   string   `json:"color" validate:"max=30"`
	Tags    []string `json:"tags" validate:"max=20,dive,min=1,max=50"`
}

// Create creates a note and indexes it.
func (s *NoteService) Create(ctx context.Context, req CreateNoteRequest) (domain.Note, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.Note{}, err
	}

	now := time.Now().UTC()
	note := domain.Note{
		ID:        newID("note", s.notes.Status()),
		Title:     req.Title,
		Content:   req.Content,
		Color:     req.Color,
		Tags:      req.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if note.Tags == nil {
		note.Tags = []string{}
	}

	added := s.notes.Add(ctx, note)
	s.indexNote(added)
	return added, nil
}

// UpdateNoteRequest contains the patchable fields of a note.
type UpdateNoteRequest struct {
	Title   *string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content *string   `json:"content,omitempty" validate:"omitempty,max=50000"`
	Color   *string   `json:"color,omitempty" validate:"omitempty,max=30"`
	Tags    *[]string `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
}

func (r UpdateNoteRequest) patch() map[string]any {
	patch := map[string]any{}
	if r.Title != nil {
		patch["title"] = *r.Title
	}
	if r.Content != nil {
		patch["content"] = *r.Content
	}
	if r.Color != nil {
		patch["color"] = *r.Color
	}
	if r.Tags != nil {
		patch["tags"] = *r.Tags
	}
	return patch
}

// Update applies a partial update and reindexes the note.
func (s *NoteService) Update(ctx context.Context, noteID string, req UpdateNoteRequest) (domain.Note, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.Note{}, err
	}
	s.notes.EnsureFetched(ctx)

	patch := req.patch()
	patch["updated_at"] = time.Now().UTC().Format(time.RFC3339Nano)

	note, ok := s.notes.Update(ctx, noteID, patch)
	if !ok {
		return domain.Note{}, apperrors.NotFoundf("note %s not found", noteID)
	}
	s.indexNote(note)
	return note, nil
}

// TogglePin flips a note's pinned flag.
func (s *NoteService) TogglePin(ctx context.Context, noteID string) (domain.Note, error) {
	s.notes.EnsureFetched(ctx)

	note, ok := s.notes.Toggle(ctx, noteID, "is_pinned", map[string]any{
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	if !ok {
		return domain.Note{}, apperrors.NotFoundf("note %s not found", noteID)
	}
	return note, nil
}

// Delete removes a note and drops it from the index.
func (s *NoteService) Delete(ctx context.Context, noteID string) error {
	s.notes.EnsureFetched(ctx)
	if !s.notes.Remove(ctx, noteID) {
		return apperrors.NotFoundf("note %s not found", noteID)
	}
	if s.index != nil {
		if err := s.index.Delete(noteID); err != nil {
			s.logger.Warn("note deindex failed", "note_id", noteID, "error", err)
		}
	}
	return nil
}

// Search returns notes matching the query, ranked by relevance. Without
// an index it falls back to nothing rather than erroring.
func (s *NoteService) Search(ctx context.Context, query string, limit int) ([]domain.Note, error) {
	if s.index == nil {
		return nil, nil
	}
	s.notes.EnsureFetched(ctx)

	hits, err := s.index.Search(ctx, query, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "note search failed")
	}

	notes := make([]domain.Note, 0, len(hits))
	for _, hit := range hits {
		if note, ok := s.notes.Find(hit.ID); ok {
			notes = append(notes, note)
		}
	}
	return notes, nil
}

// ByTag returns notes carrying the given tag, in working-set order.
func (s *NoteService) ByTag(ctx context.Context, tag string) []domain.Note {
	s.notes.EnsureFetched(ctx)

	var out []domain.Note
	for _, note := range s.notes.Items() {
		if note.HasTag(tag) {
			out = append(out, note)
		}
	}
	return out
}

func (s *NoteService) indexNote(note domain.Note) {
	if s.index == nil {
		return
	}
	if err := s.index.Index(note); err != nil {
		s.logger.Warn("note index failed", "note_id", note.ID, "error", err)
	}
}

func (s *NoteService) reindex() {
	if s.index == nil {
		return
	}
	if err := s.index.IndexAll(s.notes.Items()); err != nil {
		s.logger.Warn("note reindex failed", "error", err)
	}
}
