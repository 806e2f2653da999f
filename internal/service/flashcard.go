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

// FlashcardService manages flashcard sets and their cards. Cards live in
// one working set across all sets; per-set views filter it.
type FlashcardService struct {
	logger    *slog.Logger
	validator *validation.Validator
	sets      *store.Collection[domain.FlashcardSet]
	cards     *store.Collection[domain.Flashcard]
}

// NewFlashcardService creates the service and its backing collections.
func NewFlashcardService(rc remote.Client, lc *cache.Cache, logger *slog.Logger) *FlashcardService {
	newestFirst := func(a, b domain.FlashcardSet) bool {
		return a.CreatedAt.After(b.CreatedAt)
	}
	cardOrder := func(a, b domain.Flashcard) bool {
		return a.CreatedAt.Before(b.CreatedAt)
	}

	return &FlashcardService{
		logger:    logger,
		validator: validation.New(),
		sets: store.NewCollection[domain.FlashcardSet](rc, "flashcard_sets", logger,
			store.WithCache[domain.FlashcardSet](lc, "flashcard_sets"),
			store.WithSort[domain.FlashcardSet](newestFirst),
			store.WithRemoteOrder[domain.FlashcardSet](remote.Order{Column: "created_at", Descending: true}),
			store.Prepend[domain.FlashcardSet]()),
		cards: store.NewCollection[domain.Flashcard](rc, "flashcards", logger,
			store.WithCache[domain.Flashcard](lc, "flashcards"),
			store.WithSort[domain.Flashcard](cardOrder),
			store.WithRemoteOrder[domain.Flashcard](remote.Order{Column: "created_at"})),
	}
}

// Prefetch loads both working sets.
func (s *FlashcardService) Prefetch(ctx context.Context) {
	s.sets.FetchAll(ctx)
	s.cards.FetchAll(ctx)
}

// Status reports the health of the sets collection.
func (s *FlashcardService) Status() store.Status {
	return s.sets.Status()
}

// ListSets returns all flashcard sets, newest first.
func (s *FlashcardService) ListSets(ctx context.Context) []domain.FlashcardSet {
	s.sets.EnsureFetched(ctx)
	return s.sets.Items()
}

// GetSet returns one set by id.
func (s *FlashcardService) GetSet(ctx context.Context, setID string) (domain.FlashcardSet, error) {
	s.sets.EnsureFetched(ctx)
	set, ok := s.sets.Find(setID)
	if !ok {
		return domain.FlashcardSet{}, apperrors.NotFoundf("flashcard set %s not found", setID)
	}
	return set, nil
}

// CreateSetRequest contains fields for creating a flashcard set.
type CreateSetRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
	Color       string `json:"color" validate:"max=30"`
}

// CreateSet creates a new flashcard set.
func (s *FlashcardService) CreateSet(ctx context.Context, req CreateSetRequest) (domain.FlashcardSet, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.FlashcardSet{}, err
	}

	now := time.Now().UTC()
	set := domain.FlashcardSet{
		ID:          newID("set", s.sets.Status()),
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.sets.Add(ctx, set), nil
}

// UpdateSetRequest contains the patchable fields of a set. Nil fields are
// left untouched.
type UpdateSetRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Color       *string `json:"color,omitempty" validate:"omitempty,max=30"`
}

func (r UpdateSetRequest) patch() map[string]any {
	patch := map[string]any{}
	if r.Name != nil {
		patch["name"] = *r.Name
	}
	if r.Description != nil {
		patch["description"] = *r.Description
	}
	if r.Color != nil {
		patch["color"] = *r.Color
	}
	return patch
}

// UpdateSet applies a partial update to a set.
func (s *FlashcardService) UpdateSet(ctx context.Context, setID string, req UpdateSetRequest) (domain.FlashcardSet, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.FlashcardSet{}, err
	}
	s.sets.EnsureFetched(ctx)

	patch := req.patch()
	patch["updated_at"] = time.Now().UTC().Format(time.RFC3339Nano)

	set, ok := s.sets.Update(ctx, setID, patch)
	if !ok {
		return domain.FlashcardSet{}, apperrors.NotFoundf("flashcard set %s not found", setID)
	}
	return set, nil
}

// DeleteSet removes a set and all of its cards.
func (s *FlashcardService) DeleteSet(ctx context.Context, setID string) error {
	s.sets.EnsureFetched(ctx)
	s.cards.EnsureFetched(ctx)

	if !s.sets.Remove(ctx, setID) {
		return apperrors.NotFoundf("flashcard set %s not found", setID)
	}

	for _, card := range s.cards.Items() {
		if card.SetID == setID {
			s.cards.Remove(ctx, card.ID)
		}
	}
	return nil
}

// CardsBySet returns the cards of one set in creation order.
func (s *FlashcardService) CardsBySet(ctx context.Context, setID string) ([]domain.Flashcard, error) {
	s.sets.EnsureFetched(ctx)
	if _, ok := s.sets.Find(setID); !ok {
		return nil, apperrors.NotFoundf("flashcard set %s not found", setID)
	}

	s.cards.EnsureFetched(ctx)
	var cards []domain.Flashcard
	for _, card := range s.cards.Items() {
		if card.SetID == setID {
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// CreateCardRequest contains fields for creating a flashcard.
type CreateCardRequest struct {
	Front string `json:"front" validate:"required,min=1,max=2000"`
	Back  string `json:"back" validate:"required,min=1,max=2000"`
}

// CreateCard adds a card to a set.
func (s *FlashcardService) CreateCard(ctx context.Context, setID string, req CreateCardRequest) (domain.Flashcard, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.Flashcard{}, err
	}
	s.sets.EnsureFetched(ctx)
	if _, ok := s.sets.Find(setID); !ok {
		return domain.Flashcard{}, apperrors.NotFoundf("flashcard set %s not found", setID)
	}

	now := time.Now().UTC()
	card := domain.Flashcard{
		ID:        newID("card", s.cards.Status()),
		SetID:     setID,
		Front:     req.Front,
		Back:      req.Back,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.cards.Add(ctx, card), nil
}

// UpdateCardRequest contains the patchable fields of a card.
type UpdateCardRequest struct {
	Front *string `json:"front,omitempty" validate:"omitempty,min=1,max=2000"`
	Back  *string `json:"back,omitempty" validate:"omitempty,min=1,max=2000"`
}

func (r UpdateCardRequest) patch() map[string]any {
	patch := map[string]any{}
	if r.Front != nil {
		patch["front"] = *r.Front
	}
	if r.Back != nil {
		patch["back"] = *r.Back
	}
	return patch
}

// UpdateCard applies a partial update to a card.
func (s *FlashcardService) UpdateCard(ctx context.Context, cardID string, req UpdateCardRequest) (domain.Flashcard, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.Flashcard{}, err
	}
	s.cards.EnsureFetched(ctx)

	patch := req.patch()
	patch["updated_at"] = time.Now().UTC().Format(time.RFC3339Nano)

	card, ok := s.cards.Update(ctx, cardID, patch)
	if !ok {
		return domain.Flashcard{}, apperrors.NotFoundf("flashcard %s not found", cardID)
	}
	return card, nil
}

// DeleteCard removes a card.
func (s *FlashcardService) DeleteCard(ctx context.Context, cardID string) error {
	s.cards.EnsureFetched(ctx)
	if !s.cards.Remove(ctx, cardID) {
		return apperrors.NotFoundf("flashcard %s not found", cardID)
	}
	return nil
}

