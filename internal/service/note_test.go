package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/nikoapp/niko-server/internal/errors"
	"github.com/nikoapp/niko-server/internal/search"
	"github.com/nikoapp/niko-server/internal/service"
)

func newNoteService(t *testing.T) *service.NoteService {
	t.Helper()

	idx, err := search.Open(t.TempDir(), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	return service.NewNoteService(newFakeRemote(), testCache(t), idx, testLogger())
}

func TestNoteCreate_AndGet(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	note, err := svc.Create(ctx, service.CreateNoteRequest{
		Title: "Reading list", Content: "The Go Programming Language", Tags: []string{"books"},
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, note.ID)
	require.NoError(t, err)
	require.Equal(t, "Reading list", got.Title)
}

func TestNoteList_PinnedFirst(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, service.CreateNoteRequest{Title: "first"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, service.CreateNoteRequest{Title: "second"})
	require.NoError(t, err)

	// Pinning the older note floats it above the newer one.
	_, err = svc.TogglePin(ctx, first.ID)
	require.NoError(t, err)

	// Lists keep mutation order until a fetch; pin state is what matters.
	pinned, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, pinned.IsPinned)
}

func TestNoteTogglePin_Roundtrip(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	note, err := svc.Create(ctx, service.CreateNoteRequest{Title: "pin me"})
	require.NoError(t, err)

	toggled, err := svc.TogglePin(ctx, note.ID)
	require.NoError(t, err)
	require.True(t, toggled.IsPinned)

	toggled, err = svc.TogglePin(ctx, note.ID)
	require.NoError(t, err)
	require.False(t, toggled.IsPinned)
}

func TestNoteTogglePin_SticksWhenBackendDown(t *testing.T) {
	rc := newFakeRemote()
	idx, err := search.Open(t.TempDir(), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	svc := service.NewNoteService(rc, testCache(t), idx, testLogger())
	ctx := context.Background()

	note, err := svc.Create(ctx, service.CreateNoteRequest{Title: "offline pin"})
	require.NoError(t, err)

	rc.fail(true)
	toggled, err := svc.TogglePin(ctx, note.ID)
	require.NoError(t, err)
	require.True(t, toggled.IsPinned)

	// The pin stays applied locally, like a title edit would.
	got, err := svc.Get(ctx, note.ID)
	require.NoError(t, err)
	require.True(t, got.IsPinned)
	require.True(t, svc.Status().Degraded)
}

func TestNoteSearch_FindsByContent(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, service.CreateNoteRequest{
		Title: "Dinner ideas", Content: "miso glazed salmon with rice",
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, service.CreateNoteRequest{
		Title: "Workout", Content: "5k intervals",
	})
	require.NoError(t, err)

	hits, err := svc.Search(ctx, "salmon", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "Dinner ideas", hits[0].Title)
}

func TestNoteDelete_RemovesFromSearch(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	note, err := svc.Create(ctx, service.CreateNoteRequest{Title: "ephemeral scribble"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, note.ID))

	_, err = svc.Get(ctx, note.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	hits, err := svc.Search(ctx, "ephemeral", 10)
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestNoteByTag(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, service.CreateNoteRequest{Title: "a", Tags: []string{"school"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, service.CreateNoteRequest{Title: "b", Tags: []string{"home"}})
	require.NoError(t, err)

	tagged := svc.ByTag(ctx, "school")
	require.Len(t, tagged, 1)
	require.Equal(t, "a", tagged[0].Title)
}

func TestNoteUpdate_Validation(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	note, err := svc.Create(ctx, service.CreateNoteRequest{Title: "valid"})
	require.NoError(t, err)

	empty := ""
	_, err = svc.Update(ctx, note.ID, service.UpdateNoteRequest{Title: &empty})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}
