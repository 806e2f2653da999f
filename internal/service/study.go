package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nikoapp/niko-server/internal/domain"
	apperrors "github.com/nikoapp/niko-server/internal/errors"
)

// sessionTTL is how long an untouched session survives before the
// sweeper drops it. Sessions are in-memory only, so an abandoned one is
// just lost progress, not lost data.
const sessionTTL = 2 * time.Hour

// StudyService runs flashcard study sessions. Sessions live in memory,
// keyed by UUID, and expire after a period of inactivity.
type StudyService struct {
	logger     *slog.Logger
	flashcards *FlashcardService

	mu       sync.RWMutex
	sessions map[string]*domain.StudySession

	done     chan struct{}
	stopOnce sync.Once
}

// NewStudyService creates the service and starts the expiry sweeper.
func NewStudyService(flashcards *FlashcardService, logger *slog.Logger) *StudyService {
	s := &StudyService{
		logger:     logger,
		flashcards: flashcards,
		sessions:   make(map[string]*domain.StudySession),
		done:       make(chan struct{}),
	}

	go s.sweep()

	return s
}

// Stop shuts down the expiry sweeper.
func (s *StudyService) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
}

// Start begins a session over a set's cards. A set with no cards yields
// an idle session that cannot be answered.
func (s *StudyService) Start(ctx context.Context, setID string, shuffle bool) (*domain.StudySession, error) {
	cards, err := s.flashcards.CardsBySet(ctx, setID)
	if err != nil {
		return nil, err
	}

	session := domain.NewStudySession(uuid.NewString(), setID, cards, shuffle)

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.Info("study session started",
		"session_id", session.ID, "set_id", setID, "cards", len(session.Cards))
	return session, nil
}

// Get returns a session by id.
func (s *StudyService) Get(sessionID string) (*domain.StudySession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, apperrors.NotFoundf("study session %s not found", sessionID)
	}
	return session, nil
}

// Answer grades the current card and advances the session.
func (s *StudyService) Answer(sessionID string, correct bool) (*domain.StudySession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, apperrors.NotFoundf("study session %s not found", sessionID)
	}
	if err := session.Answer(correct); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeConflict, "session is not in progress")
	}
	return session, nil
}

// Restart resets a session's progress, optionally reshuffling.
func (s *StudyService) Restart(sessionID string, shuffle bool) (*domain.StudySession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, apperrors.NotFoundf("study session %s not found", sessionID)
	}
	session.Restart(shuffle)
	return session, nil
}

// End discards a session. Ending an unknown session is a no-op.
func (s *StudyService) End(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// Active returns the number of live sessions.
func (s *StudyService) Active() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// sweep drops sessions idle past the TTL.
func (s *StudyService) sweep() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-sessionTTL)
			s.mu.Lock()
			for sessionID, session := range s.sessions {
				if session.LastActive.Before(cutoff) {
					delete(s.sessions, sessionID)
					s.logger.Debug("expired study session", "session_id", sessionID)
				}
			}
			s.mu.Unlock()
		}
	}
}
