package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nikoapp/niko-server/internal/domain"
	apperrors "github.com/nikoapp/niko-server/internal/errors"
	"github.com/nikoapp/niko-server/internal/service"
)

func newStudyFixture(t *testing.T) (*service.StudyService, string) {
	t.Helper()
	ctx := context.Background()

	flashcards := service.NewFlashcardService(newFakeRemote(), testCache(t), testLogger())
	set, err := flashcards.CreateSet(ctx, service.CreateSetRequest{Name: "Capitals"})
	require.NoError(t, err)

	for _, qa := range [][2]string{
		{"France", "Paris"},
		{"Japan", "Tokyo"},
		{"Peru", "Lima"},
	} {
		_, err := flashcards.CreateCard(ctx, set.ID, service.CreateCardRequest{
			Front: qa[0], Back: qa[1],
		})
		require.NoError(t, err)
	}

	study := service.NewStudyService(flashcards, testLogger())
	t.Cleanup(study.Stop)
	return study, set.ID
}

func TestStudyFlow_StartAnswerComplete(t *testing.T) {
	study, setID := newStudyFixture(t)

	session, err := study.Start(context.Background(), setID, false)
	require.NoError(t, err)
	require.Equal(t, domain.SessionInProgress, session.State)
	require.Len(t, session.Cards, 3)

	session, err = study.Answer(session.ID, true)
	require.NoError(t, err)
	session, err = study.Answer(session.ID, false)
	require.NoError(t, err)
	session, err = study.Answer(session.ID, true)
	require.NoError(t, err)

	require.Equal(t, domain.SessionComplete, session.State)
	require.Len(t, session.Correct, 2)
	require.Len(t, session.Incorrect, 1)

	_, err = study.Answer(session.ID, true)
	require.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestStudyStart_UnknownSet(t *testing.T) {
	study, _ := newStudyFixture(t)

	_, err := study.Start(context.Background(), "set-ghost", false)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStudyRestart_ResetsProgress(t *testing.T) {
	study, setID := newStudyFixture(t)

	session, err := study.Start(context.Background(), setID, false)
	require.NoError(t, err)

	_, err = study.Answer(session.ID, true)
	require.NoError(t, err)

	session, err = study.Restart(session.ID, false)
	require.NoError(t, err)
	require.Equal(t, 0, session.Index)
	require.Empty(t, session.Answered)
	require.Equal(t, domain.SessionInProgress, session.State)
}

func TestStudyEnd_DiscardsSession(t *testing.T) {
	study, setID := newStudyFixture(t)

	session, err := study.Start(context.Background(), setID, false)
	require.NoError(t, err)
	require.Equal(t, 1, study.Active())

	study.End(session.ID)
	require.Equal(t, 0, study.Active())

	_, err = study.Get(session.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStudySessionsAreIndependent(t *testing.T) {
	study, setID := newStudyFixture(t)
	ctx := context.Background()

	a, err := study.Start(ctx, setID, false)
	require.NoError(t, err)
	b, err := study.Start(ctx, setID, false)
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)

	_, err = study.Answer(a.ID, true)
	require.NoError(t, err)

	fresh, err := study.Get(b.ID)
	require.NoError(t, err)
	require.Empty(t, fresh.Answered)
}
