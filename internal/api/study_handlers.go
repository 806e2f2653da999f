package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nikoapp/niko-server/internal/domain"
)

func (s *Server) registerStudyRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "startStudySession",
		Method:      http.MethodPost,
		Path:        "/api/v1/study-sessions",
		Summary:     "Start study session",
		Description: "Begins a session over a flashcard set's cards",
		Tags:        []string{"Study"},
	}, s.handleStartStudySession)

	huma.Register(s.api, huma.Operation{
		OperationID: "getStudySession",
		Method:      http.MethodGet,
		Path:        "/api/v1/study-sessions/{id}",
		Summary:     "Get study session",
		Description: "Returns a session's current progress",
		Tags:        []string{"Study"},
	}, s.handleGetStudySession)

	huma.Register(s.api, huma.Operation{
		OperationID: "answerStudyCard",
		Method:      http.MethodPost,
		Path:        "/api/v1/study-sessions/{id}/answer",
		Summary:     "Answer current card",
		Description: "Grades the current card and advances the session",
		Tags:        []string{"Study"},
	}, s.handleAnswerStudyCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "restartStudySession",
		Method:      http.MethodPost,
		Path:        "/api/v1/study-sessions/{id}/restart",
		Summary:     "Restart study session",
		Description: "Resets a session's progress, optionally reshuffling",
		Tags:        []string{"Study"},
	}, s.handleRestartStudySession)

	huma.Register(s.api, huma.Operation{
		OperationID: "endStudySession",
		Method:      http.MethodDelete,
		Path:        "/api/v1/study-sessions/{id}",
		Summary:     "End study session",
		Description: "Discards a session",
		Tags:        []string{"Study"},
	}, s.handleEndStudySession)
}

// === DTOs ===

type SessionResponse struct {
	ID          string         `json:"id" doc:"Session ID"`
	SetID       string         `json:"set_id" doc:"Set being studied"`
	State       string         `json:"state" doc:"Session state: idle, in_progress, or complete"`
	Index       int            `json:"index" doc:"Position in the working set"`
	CardCount   int            `json:"card_count" doc:"Number of cards in the session"`
	CurrentCard *CardResponse  `json:"current_card,omitempty" doc:"Card awaiting an answer"`
	Answered    int            `json:"answered" doc:"Cards answered so far"`
	Correct     int            `json:"correct" doc:"Cards answered correctly"`
	Incorrect   int            `json:"incorrect" doc:"Cards answered incorrectly"`
	ElapsedMS   int64          `json:"elapsed_ms" doc:"Milliseconds since the session started"`
	StartedAt   time.Time      `json:"started_at" doc:"Session start time"`
	CompletedAt *time.Time     `json:"completed_at,omitempty" doc:"Completion time, if finished"`
}

type SessionOutput struct {
	Body SessionResponse
}

type StartStudySessionRequest struct {
	SetID   string `json:"set_id" doc:"Flashcard set to study"`
	Shuffle bool   `json:"shuffle,omitempty" doc:"Shuffle the cards"`
}

type StartStudySessionInput struct {
	Body StartStudySessionRequest
}

type GetStudySessionInput struct {
	ID string `path:"id" doc:"Session ID"`
}

type AnswerStudyCardRequest struct {
	Correct bool `json:"correct" doc:"Whether the card was answered correctly"`
}

type AnswerStudyCardInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body AnswerStudyCardRequest
}

type RestartStudySessionRequest struct {
	Shuffle bool `json:"shuffle,omitempty" doc:"Reshuffle the cards"`
}

type RestartStudySessionInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body RestartStudySessionRequest
}

type EndStudySessionInput struct {
	ID string `path:"id" doc:"Session ID"`
}

// === Handlers ===

func (s *Server) handleStartStudySession(ctx context.Context, input *StartStudySessionInput) (*SessionOutput, error) {
	session, err := s.services.Study.Start(ctx, input.Body.SetID, input.Body.Shuffle)
	if err != nil {
		return nil, err
	}

	return &SessionOutput{Body: mapSessionResponse(session)}, nil
}

func (s *Server) handleGetStudySession(_ context.Context, input *GetStudySessionInput) (*SessionOutput, error) {
	session, err := s.services.Study.Get(input.ID)
	if err != nil {
		return nil, err
	}

	return &SessionOutput{Body: mapSessionResponse(session)}, nil
}

func (s *Server) handleAnswerStudyCard(_ context.Context, input *AnswerStudyCardInput) (*SessionOutput, error) {
	session, err := s.services.Study.Answer(input.ID, input.Body.Correct)
	if err != nil {
		return nil, err
	}

	return &SessionOutput{Body: mapSessionResponse(session)}, nil
}

func (s *Server) handleRestartStudySession(_ context.Context, input *RestartStudySessionInput) (*SessionOutput, error) {
	session, err := s.services.Study.Restart(input.ID, input.Body.Shuffle)
	if err != nil {
		return nil, err
	}

	return &SessionOutput{Body: mapSessionResponse(session)}, nil
}

func (s *Server) handleEndStudySession(_ context.Context, input *EndStudySessionInput) (*MessageOutput, error) {
	s.services.Study.End(input.ID)
	return &MessageOutput{Body: MessageResponse{Message: "Session ended"}}, nil
}

// === Mappers ===

func mapSessionResponse(session *domain.StudySession) SessionResponse {
	resp := SessionResponse{
		ID:        session.ID,
		SetID:     session.SetID,
		State:     string(session.State),
		Index:     session.Index,
		CardCount: len(session.Cards),
		Answered:  len(session.Answered),
		Correct:   len(session.Correct),
		Incorrect: len(session.Incorrect),
		ElapsedMS: session.Elapsed(time.Now()).Milliseconds(),
		StartedAt: session.StartedAt,
	}

	if session.State == domain.SessionInProgress {
		if card, ok := session.CurrentCard(); ok {
			mapped := mapCardResponse(card)
			resp.CurrentCard = &mapped
		}
	}
	if !session.CompletedAt.IsZero() {
		completed := session.CompletedAt
		resp.CompletedAt = &completed
	}

	return resp
}
