package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nikoapp/niko-server/internal/domain"
	"github.com/nikoapp/niko-server/internal/service"
)

func (s *Server) registerFlashcardRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listFlashcardSets",
		Method:      http.MethodGet,
		Path:        "/api/v1/sets",
		Summary:     "List flashcard sets",
		Description: "Returns all flashcard sets, newest first",
		Tags:        []string{"Flashcards"},
	}, s.handleListSets)

	huma.Register(s.api, huma.Operation{
		OperationID: "createFlashcardSet",
		Method:      http.MethodPost,
		Path:        "/api/v1/sets",
		Summary:     "Create flashcard set",
		Description: "Creates a new flashcard set",
		Tags:        []string{"Flashcards"},
	}, s.handleCreateSet)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFlashcardSet",
		Method:      http.MethodGet,
		Path:        "/api/v1/sets/{id}",
		Summary:     "Get flashcard set",
		Description: "Returns a flashcard set by ID",
		Tags:        []string{"Flashcards"},
	}, s.handleGetSet)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateFlashcardSet",
		Method:      http.MethodPatch,
		Path:        "/api/v1/sets/{id}",
		Summary:     "Update flashcard set",
		Description: "Applies a partial update to a flashcard set",
		Tags:        []string{"Flashcards"},
	}, s.handleUpdateSet)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteFlashcardSet",
		Method:      http.MethodDelete,
		Path:        "/api/v1/sets/{id}",
		Summary:     "Delete flashcard set",
		Description: "Deletes a set and all of its cards",
		Tags:        []string{"Flashcards"},
	}, s.handleDeleteSet)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFlashcards",
		Method:      http.MethodGet,
		Path:        "/api/v1/sets/{id}/cards",
		Summary:     "List cards in set",
		Description: "Returns the cards of one set in creation order",
		Tags:        []string{"Flashcards"},
	}, s.handleListCards)

	huma.Register(s.api, huma.Operation{
		OperationID: "createFlashcard",
		Method:      http.MethodPost,
		Path:        "/api/v1/sets/{id}/cards",
		Summary:     "Create flashcard",
		Description: "Adds a card to a set",
		Tags:        []string{"Flashcards"},
	}, s.handleCreateCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateFlashcard",
		Method:      http.MethodPatch,
		Path:        "/api/v1/cards/{id}",
		Summary:     "Update flashcard",
		Description: "Applies a partial update to a card",
		Tags:        []string{"Flashcards"},
	}, s.handleUpdateCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteFlashcard",
		Method:      http.MethodDelete,
		Path:        "/api/v1/cards/{id}",
		Summary:     "Delete flashcard",
		Description: "Deletes a card",
		Tags:        []string{"Flashcards"},
	}, s.handleDeleteCard)
}

// === DTOs ===

type SetResponse struct {
	ID          string    `json:"id" doc:"Set ID"`
	Name        string    `json:"name" doc:"Set name"`
	Description string    `json:"description,omitempty" doc:"Description"`
	Color       string    `json:"color,omitempty" doc:"Display color"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

type ListSetsResponse struct {
	Sets []SetResponse `json:"sets" doc:"List of flashcard sets"`
}

type ListSetsOutput struct {
	Body ListSetsResponse
}

type CreateSetRequest struct {
	Name        string `json:"name" doc:"Set name"`
	Description string `json:"description,omitempty" doc:"Description"`
	Color       string `json:"color,omitempty" doc:"Display color"`
}

type CreateSetInput struct {
	Body CreateSetRequest
}

type SetOutput struct {
	Body SetResponse
}

type GetSetInput struct {
	ID string `path:"id" doc:"Set ID"`
}

type UpdateSetRequest struct {
	Name        *string `json:"name,omitempty" doc:"Set name"`
	Description *string `json:"description,omitempty" doc:"Description"`
	Color       *string `json:"color,omitempty" doc:"Display color"`
}

type UpdateSetInput struct {
	ID   string `path:"id" doc:"Set ID"`
	Body UpdateSetRequest
}

type DeleteSetInput struct {
	ID string `path:"id" doc:"Set ID"`
}

type CardResponse struct {
	ID        string    `json:"id" doc:"Card ID"`
	SetID     string    `json:"set_id" doc:"Owning set ID"`
	Front     string    `json:"front" doc:"Front side text"`
	Back      string    `json:"back" doc:"Back side text"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

type ListCardsResponse struct {
	Cards []CardResponse `json:"cards" doc:"Cards in creation order"`
}

type ListCardsInput struct {
	ID string `path:"id" doc:"Set ID"`
}

type ListCardsOutput struct {
	Body ListCardsResponse
}

type CreateCardRequest struct {
	Front string `json:"front" doc:"Front side text"`
	Back  string `json:"back" doc:"Back side text"`
}

type CreateCardInput struct {
	ID   string `path:"id" doc:"Set ID"`
	Body CreateCardRequest
}

type CardOutput struct {
	Body CardResponse
}

type UpdateCardRequest struct {
	Front *string `json:"front,omitempty" doc:"Front side text"`
	Back  *string `json:"back,omitempty" doc:"Back side text"`
}

type UpdateCardInput struct {
	ID   string `path:"id" doc:"Card ID"`
	Body UpdateCardRequest
}

type DeleteCardInput struct {
	ID string `path:"id" doc:"Card ID"`
}

// === Handlers ===

func (s *Server) handleListSets(ctx context.Context, _ *struct{}) (*ListSetsOutput, error) {
	sets := s.services.Flashcard.ListSets(ctx)

	resp := make([]SetResponse, len(sets))
	for i, set := range sets {
		resp[i] = mapSetResponse(set)
	}

	return &ListSetsOutput{Body: ListSetsResponse{Sets: resp}}, nil
}

func (s *Server) handleCreateSet(ctx context.Context, input *CreateSetInput) (*SetOutput, error) {
	set, err := s.services.Flashcard.CreateSet(ctx, service.CreateSetRequest{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		Color:       input.Body.Color,
	})
	if err != nil {
		return nil, err
	}

	return &SetOutput{Body: mapSetResponse(set)}, nil
}

func (s *Server) handleGetSet(ctx context.Context, input *GetSetInput) (*SetOutput, error) {
	set, err := s.services.Flashcard.GetSet(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &SetOutput{Body: mapSetResponse(set)}, nil
}

func (s *Server) handleUpdateSet(ctx context.Context, input *UpdateSetInput) (*SetOutput, error) {
	set, err := s.services.Flashcard.UpdateSet(ctx, input.ID, service.UpdateSetRequest{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		Color:       input.Body.Color,
	})
	if err != nil {
		return nil, err
	}

	return &SetOutput{Body: mapSetResponse(set)}, nil
}

func (s *Server) handleDeleteSet(ctx context.Context, input *DeleteSetInput) (*MessageOutput, error) {
	if err := s.services.Flashcard.DeleteSet(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Set deleted"}}, nil
}

func (s *Server) handleListCards(ctx context.Context, input *ListCardsInput) (*ListCardsOutput, error) {
	cards, err := s.services.Flashcard.CardsBySet(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]CardResponse, len(cards))
	for i, card := range cards {
		resp[i] = mapCardResponse(card)
	}

	return &ListCardsOutput{Body: ListCardsResponse{Cards: resp}}, nil
}

func (s *Server) handleCreateCard(ctx context.Context, input *CreateCardInput) (*CardOutput, error) {
	card, err := s.services.Flashcard.CreateCard(ctx, input.ID, service.CreateCardRequest{
		Front: input.Body.Front,
		Back:  input.Body.Back,
	})
	if err != nil {
		return nil, err
	}

	return &CardOutput{Body: mapCardResponse(card)}, nil
}

func (s *Server) handleUpdateCard(ctx context.Context, input *UpdateCardInput) (*CardOutput, error) {
	card, err := s.services.Flashcard.UpdateCard(ctx, input.ID, service.UpdateCardRequest{
		Front: input.Body.Front,
		Back:  input.Body.Back,
	})
	if err != nil {
		return nil, err
	}

	return &CardOutput{Body: mapCardResponse(card)}, nil
}

func (s *Server) handleDeleteCard(ctx context.Context, input *DeleteCardInput) (*MessageOutput, error) {
	if err := s.services.Flashcard.DeleteCard(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Card deleted"}}, nil
}

// === Mappers ===

func mapSetResponse(set domain.FlashcardSet) SetResponse {
	return SetResponse{
		ID:          set.ID,
		Name:        set.Name,
		Description: set.Description,
		Color:       set.Color,
		CreatedAt:   set.CreatedAt,
		UpdatedAt:   set.UpdatedAt,
	}
}

func mapCardResponse(card domain.Flashcard) CardResponse {
	return CardResponse{
		ID:        card.ID,
		SetID:     card.SetID,
		Front:     card.Front,
		Back:      card.Back,
		CreatedAt: card.CreatedAt,
		UpdatedAt: card.UpdatedAt,
	}
}
