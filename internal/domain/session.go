package domain

import (
	"errors"
	"math/rand/v2"
	"time"
)

// SessionState is the study-session lifecycle state.
type SessionState string

// Study-session states. A session with no cards is Idle and cannot be
// answered; otherwise it moves InProgress -> Complete.
const (
	SessionIdle       SessionState = "idle"
	SessionInProgress SessionState = "in_progress"
	SessionComplete   SessionState = "complete"
)

// ErrSessionFinished is returned when answering a session that is not in progress.
var ErrSessionFinished = errors.New("study session is not in progress")

// StudySession tracks one pass through a working set of flashcards.
// Sessions are in-memory only and never persisted.
//
// Invariant: Answered is exactly the union of Correct and Incorrect, and
// Correct and Incorrect are disjoint.
type StudySession struct {
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt time.Time       `json:"completed_at,omitzero"`
	LastActive  time.Time       `json:"last_active"`
	ID          string          `json:"id"`
	SetID       string          `json:"set_id"`
	Cards       []Flashcard     `json:"cards"`
	Index       int             `json:"index"`
	Answered    map[string]bool `json:"answered"`
	Correct     map[string]bool `json:"correct"`
	Incorrect   map[string]bool `json:"incorrect"`
	State       SessionState    `json:"state"`
}

// NewStudySession starts a session over the given working set.
// With shuffle set, the working set is permuted Fisher-Yates style.
func NewStudySession(id, setID string, cards []Flashcard, shuffle bool) *StudySession {
	working := make([]Flashcard, len(cards))
	copy(working, cards)
	if shuffle {
		rand.Shuffle(len(working), func(i, j int) {
			working[i], working[j] = working[j], working[i]
		})
	}

	now := time.Now()
	s := &StudySession{
		ID:         id,
		SetID:      setID,
		Cards:      working,
		Answered:   make(map[string]bool),
		Correct:    make(map[string]bool),
		Incorrect:  make(map[string]bool),
		State:      SessionInProgress,
		StartedAt:  now,
		LastActive: now,
	}
	if len(working) == 0 {
		s.State = SessionIdle
	}
	return s
}

// CurrentCard returns the card at the session index.
func (s *StudySession) CurrentCard() (Flashcard, bool) {
	if s.Index < 0 || s.Index >= len(s.Cards) {
		return Flashcard{}, false
	}
	return s.Cards[s.Index], true
}

// Answer marks the current card correct or incorrect and advances.
// Re-answering a card moves it between the correct and incorrect sets.
// The session completes when the last card has been answered.
func (s *StudySession) Answer(correct bool) error {
	if s.State != SessionInProgress {
		return ErrSessionFinished
	}

	card, ok := s.CurrentCard()
	if !ok {
		return ErrSessionFinished
	}

	s.Answered[card.ID] = true
	if correct {
		s.Correct[card.ID] = true
		delete(s.Incorrect, card.ID)
	} else {
		s.Incorrect[card.ID] = true
		delete(s.Correct, card.ID)
	}
	s.LastActive = time.Now()

	// Complete only when the final card is the one just answered.
	if s.Index == len(s.Cards)-1 {
		s.State = SessionComplete
		s.CompletedAt = s.LastActive
		return nil
	}

	s.Index++
	return nil
}

// Restart resets all progress and optionally reshuffles the working set.
func (s *StudySession) Restart(shuffle bool) {
	if shuffle {
		rand.Shuffle(len(s.Cards), func(i, j int) {
			s.Cards[i], s.Cards[j] = s.Cards[j], s.Cards[i]
		})
	}

	s.Index = 0
	s.Answered = make(map[string]bool)
	s.Correct = make(map[string]bool)
	s.Incorrect = make(map[string]bool)
	s.CompletedAt = time.Time{}
	s.StartedAt = time.Now()
	s.LastActive = s.StartedAt
	s.State = SessionInProgress
	if len(s.Cards) == 0 {
		s.State = SessionIdle
	}
}

// Elapsed returns how long the session has been running. The clock stops
// once the session completes.
func (s *StudySession) Elapsed(now time.Time) time.Duration {
	if s.State == SessionComplete {
		return s.CompletedAt.Sub(s.StartedAt)
	}
	return now.Sub(s.StartedAt)
}
