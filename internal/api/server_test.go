package api

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/nikoapp/niko-server/internal/cache"
	"github.com/nikoapp/niko-server/internal/remote/sqliteremote"
	"github.com/nikoapp/niko-server/internal/search"
	"github.com/nikoapp/niko-server/internal/service"
)

// testServer wraps the API server for handler tests. It runs over the
// embedded SQLite backend so requests exercise the full stack.
type testServer struct {
	*Server
	api humatest.TestAPI
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	rc, err := sqliteremote.Open(filepath.Join(tmpDir, "niko.db"), logger)
	require.NoError(t, err)

	lc, err := cache.Open(filepath.Join(tmpDir, "cache"), logger)
	require.NoError(t, err)

	index, err := search.Open(tmpDir, logger)
	require.NoError(t, err)

	flashcards := service.NewFlashcardService(rc, lc, logger)
	study := service.NewStudyService(flashcards, logger)

	services := &Services{
		Flashcard:   flashcards,
		Note:        service.NewNoteService(rc, lc, index, logger),
		Job:         service.NewJobService(rc, logger),
		Exam:        service.NewExamService(rc, lc, logger),
		Event:       service.NewEventService(rc, lc, logger),
		Handwritten: service.NewHandwrittenService(rc, logger),
		Goal:        service.NewGoalService(rc, lc, logger),
		Study:       study,
		Diagram:     service.NewDiagramService(logger),
	}

	s := NewServer(services, lc, index, Options{}, logger)

	t.Cleanup(func() {
		s.Close()
		study.Stop()
		_ = index.Close()
		_ = lc.Close()
		_ = rc.Close()
	})

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
	}
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	body := resp.Body.String()
	require.Contains(t, body, `"status":"healthy"`)
	require.Contains(t, body, `"flashcards"`)
	require.Contains(t, body, `"cache"`)
	require.Contains(t, body, `"search"`)
}
