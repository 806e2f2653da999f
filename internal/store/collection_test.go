package store_test

import (
	"context"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nikoapp/niko-server/internal/cache"
	"github.com/nikoapp/niko-server/internal/domain"
	"github.com/nikoapp/niko-server/internal/remote"
	"github.com/nikoapp/niko-server/internal/store"
)

// fakeRemote is an in-memory remote.Client with a failure switch.
type fakeRemote struct {
	mu      sync.Mutex
	rows    map[string][]map[string]any // table -> rows
	failing bool

	// onInsert rewrites the stored representation, to exercise
	// server-assigned fields winning over local ones.
	onInsert func(row map[string]any)
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{rows: make(map[string][]map[string]any)}
}

func (f *fakeRemote) fail(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing = on
}

func (f *fakeRemote) Select(_ context.Context, table string, filter remote.Filter, _ *remote.Order) ([]jsontext.Value, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return nil, fmt.Errorf("backend down")
	}

	var out []jsontext.Value
	for _, row := range f.rows[table] {
		if !matches(row, filter) {
			continue
		}
		data, _ := json.Marshal(row)
		out = append(out, data)
	}
	return out, nil
}

func (f *fakeRemote) Insert(_ context.Context, table string, row any) (jsontext.Value, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return nil, fmt.Errorf("backend down")
	}

	data, _ := json.Marshal(row)
	var doc map[string]any
	json.Unmarshal(data, &doc)
	if f.onInsert != nil {
		f.onInsert(doc)
	}
	f.rows[table] = append(f.rows[table], doc)
	return json.Marshal(doc)
}

func (f *fakeRemote) Update(_ context.Context, table string, filter remote.Filter, patch map[string]any) (jsontext.Value, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return nil, fmt.Errorf("backend down")
	}

	for _, row := range f.rows[table] {
		if matches(row, filter) {
			for k, v := range patch {
				row[k] = v
			}
			return json.Marshal(row)
		}
	}
	return nil, nil
}

func (f *fakeRemote) Delete(_ context.Context, table string, filter remote.Filter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return fmt.Errorf("backend down")
	}

	kept := f.rows[table][:0]
	for _, row := range f.rows[table] {
		if !matches(row, filter) {
			kept = append(kept, row)
		}
	}
	f.rows[table] = kept
	return nil
}

func matches(row map[string]any, filter remote.Filter) bool {
	for col, want := range filter {
		if fmt.Sprintf("%v", row[col]) != fmt.Sprintf("%v", want) {
			return false
		}
	}
	return true
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.Open(t.TempDir(), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func noteAt(id, title string, updated time.Time) domain.Note {
	return domain.Note{ID: id, Title: title, CreatedAt: updated, UpdatedAt: updated}
}

func TestFetchAll_SortsWorkingSet(t *testing.T) {
	rc := newFakeRemote()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, n := range []domain.Note{
		noteAt("note-1", "old", base),
		noteAt("note-2", "new", base.Add(2*time.Hour)),
		noteAt("note-3", "mid", base.Add(time.Hour)),
	} {
		_, err := rc.Insert(context.Background(), "notes", n)
		require.NoError(t, err)
	}

	col := store.NewCollection[domain.Note](rc, "notes", testLogger(),
		store.WithSort[domain.Note](domain.NoteLess))
	col.FetchAll(context.Background())

	items := col.Items()
	require.Len(t, items, 3)
	require.Equal(t, "note-2", items[0].ID)
	require.Equal(t, "note-3", items[1].ID)
	require.Equal(t, "note-1", items[2].ID)
	require.False(t, col.Status().Degraded)
}

func TestAdd_ServerRepresentationWins(t *testing.T) {
	rc := newFakeRemote()
	rc.onInsert = func(row map[string]any) {
		row["id"] = "note-server"
	}

	col := store.NewCollection[domain.Note](rc, "notes", testLogger())
	added := col.Add(context.Background(), domain.Note{ID: "local-123-abc", Title: "draft"})

	require.Equal(t, "note-server", added.ID)
	_, ok := col.Find("local-123-abc")
	require.False(t, ok, "local placeholder id replaced by server id")
	_, ok = col.Find("note-server")
	require.True(t, ok)
}

func TestAdd_BackendDownKeepsLocalEntity(t *testing.T) {
	rc := newFakeRemote()
	rc.fail(true)

	col := store.NewCollection[domain.Note](rc, "notes", testLogger())
	added := col.Add(context.Background(), domain.Note{ID: "local-123-abc", Title: "offline"})

	require.Equal(t, "local-123-abc", added.ID)
	require.Equal(t, 1, col.Len())
	status := col.Status()
	require.True(t, status.Degraded)
	require.NotEmpty(t, status.LastError)
}

func TestAdd_PrependPlacesNewItemsFirst(t *testing.T) {
	rc := newFakeRemote()
	col := store.NewCollection[domain.Job](rc, "jobs", testLogger(),
		store.Prepend[domain.Job]())

	col.Add(context.Background(), domain.Job{ID: "job-1"})
	col.Add(context.Background(), domain.Job{ID: "job-2"})

	items := col.Items()
	require.Equal(t, "job-2", items[0].ID)
	require.Equal(t, "job-1", items[1].ID)
}

func TestUpdate_MergeKeepsUntouchedFields(t *testing.T) {
	rc := newFakeRemote()
	col := store.NewCollection[domain.Note](rc, "notes", testLogger())
	col.Add(context.Background(), domain.Note{
		ID: "note-1", Title: "original", Content: "body", Tags: []string{"a"},
	})

	updated, ok := col.Update(context.Background(), "note-1", map[string]any{
		"title":      "renamed",
		"updated_at": "2025-06-01T10:00:00Z",
	})

	require.True(t, ok)
	require.Equal(t, "renamed", updated.Title)
	require.Equal(t, "body", updated.Content, "fields absent from the patch survive")
	require.Equal(t, []string{"a"}, updated.Tags)
	require.Equal(t, 2025, updated.UpdatedAt.Year())
}

func TestUpdate_MissingIDIsSilentNoop(t *testing.T) {
	rc := newFakeRemote()
	col := store.NewCollection[domain.Note](rc, "notes", testLogger())

	_, ok := col.Update(context.Background(), "note-missing", map[string]any{"title": "x"})
	require.False(t, ok)
	require.Equal(t, 0, col.Len())
}

func TestUpdate_DoesNotResort(t *testing.T) {
	rc := newFakeRemote()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, n := range []domain.Note{
		noteAt("note-1", "newest", base.Add(2*time.Hour)),
		noteAt("note-2", "older", base),
	} {
		_, err := rc.Insert(context.Background(), "notes", n)
		require.NoError(t, err)
	}

	col := store.NewCollection[domain.Note](rc, "notes", testLogger(),
		store.WithSort[domain.Note](domain.NoteLess))
	col.FetchAll(context.Background())

	// Bumping note-2's timestamp does not move it; order holds until the
	// next full fetch.
	_, ok := col.Update(context.Background(), "note-2", map[string]any{
		"updated_at": base.Add(5 * time.Hour).Format(time.RFC3339),
	})
	require.True(t, ok)

	items := col.Items()
	require.Equal(t, "note-1", items[0].ID)
	require.Equal(t, "note-2", items[1].ID)

	col.FetchAll(context.Background())
	items = col.Items()
	require.Equal(t, "note-2", items[0].ID)
}

func TestRemove_LocalRemovalSurvivesBackendFailure(t *testing.T) {
	rc := newFakeRemote()
	col := store.NewCollection[domain.Note](rc, "notes", testLogger())
	col.Add(context.Background(), domain.Note{ID: "note-1"})

	rc.fail(true)
	require.True(t, col.Remove(context.Background(), "note-1"))

	_, ok := col.Find("note-1")
	require.False(t, ok, "item never resurfaces locally")
	require.True(t, col.Status().Degraded)
}

func TestRemove_MissingIDReturnsFalse(t *testing.T) {
	rc := newFakeRemote()
	col := store.NewCollection[domain.Note](rc, "notes", testLogger())
	require.False(t, col.Remove(context.Background(), "ghost"))
}

func TestToggle_FlipsAndPersists(t *testing.T) {
	rc := newFakeRemote()
	col := store.NewCollection[domain.WeeklyGoal](rc, "weekly_goals", testLogger())
	col.Add(context.Background(), domain.WeeklyGoal{ID: "goal-1", Text: "run"})

	flipped, ok := col.Toggle(context.Background(), "goal-1", "completed", nil)
	require.True(t, ok)
	require.True(t, flipped.Completed)

	flipped, ok = col.Toggle(context.Background(), "goal-1", "completed", nil)
	require.True(t, ok)
	require.False(t, flipped.Completed)
}

func TestToggle_OptimisticRevertUndoesFlipOnBackendFailure(t *testing.T) {
	rc := newFakeRemote()
	col := store.NewCollection[domain.WeeklyGoal](rc, "weekly_goals", testLogger(),
		store.OptimisticRevert[domain.WeeklyGoal]())
	col.Add(context.Background(), domain.WeeklyGoal{ID: "goal-1", Text: "run"})

	rc.fail(true)
	got, ok := col.Toggle(context.Background(), "goal-1", "completed", nil)
	require.True(t, ok)
	require.False(t, got.Completed, "flip reverted after backend failure")

	item, _ := col.Find("goal-1")
	require.False(t, item.Completed)
	require.True(t, col.Status().Degraded)
}

func TestToggle_KeepsFlipWhenBackendDown(t *testing.T) {
	rc := newFakeRemote()
	col := store.NewCollection[domain.Note](rc, "notes", testLogger())
	col.Add(context.Background(), domain.Note{ID: "note-1", Title: "keep"})

	rc.fail(true)
	got, ok := col.Toggle(context.Background(), "note-1", "is_pinned", nil)
	require.True(t, ok)
	require.True(t, got.IsPinned, "flip sticks locally like any other mutation")

	item, _ := col.Find("note-1")
	require.True(t, item.IsPinned)
	require.True(t, col.Status().Degraded)
}

func TestFetchAll_FallsBackToCacheSnapshot(t *testing.T) {
	rc := newFakeRemote()
	_, err := rc.Insert(context.Background(), "notes", domain.Note{ID: "note-1", Title: "cached"})
	require.NoError(t, err)

	lc := openTestCache(t)
	col := store.NewCollection[domain.Note](rc, "notes", testLogger(),
		store.WithCache[domain.Note](lc, "notes"))

	// First fetch succeeds and writes the snapshot.
	col.FetchAll(context.Background())
	require.Equal(t, 1, col.Len())

	// Backend goes away; the next fetch serves the snapshot.
	rc.fail(true)
	col.FetchAll(context.Background())

	items := col.Items()
	require.Len(t, items, 1)
	require.Equal(t, "note-1", items[0].ID)
	require.True(t, col.Status().Degraded)

	// Backend returns; the degraded flag clears.
	rc.fail(false)
	col.FetchAll(context.Background())
	require.False(t, col.Status().Degraded)
}

func TestFetchAll_FreshCollectionReadsExistingSnapshot(t *testing.T) {
	rc := newFakeRemote()
	_, err := rc.Insert(context.Background(), "notes", domain.Note{ID: "note-1"})
	require.NoError(t, err)

	lc := openTestCache(t)
	warm := store.NewCollection[domain.Note](rc, "notes", testLogger(),
		store.WithCache[domain.Note](lc, "notes"))
	warm.FetchAll(context.Background())

	// A brand new collection over the same cache key starts cold, but a
	// failed first fetch still finds the earlier snapshot.
	rc.fail(true)
	cold := store.NewCollection[domain.Note](rc, "notes", testLogger(),
		store.WithCache[domain.Note](lc, "notes"))
	cold.FetchAll(context.Background())

	require.Equal(t, 1, cold.Len())
	require.True(t, cold.Status().Degraded)
}

func TestFetchAll_NoCacheLegStartsEmptyWhenBackendDown(t *testing.T) {
	rc := newFakeRemote()
	rc.fail(true)

	col := store.NewCollection[domain.Job](rc, "jobs", testLogger())
	col.FetchAll(context.Background())

	require.Equal(t, 0, col.Len())
	require.True(t, col.Status().Degraded)
}

func TestFetchAll_NoCacheLegDropsStaleItemsOnFailedRefetch(t *testing.T) {
	rc := newFakeRemote()
	col := store.NewCollection[domain.Job](rc, "jobs", testLogger())
	col.Add(context.Background(), domain.Job{ID: "job-1"})
	col.FetchAll(context.Background())
	require.Equal(t, 1, col.Len())

	// Without a cache leg there is nothing to fall back to, so a failed
	// refetch empties the working set instead of serving stale rows.
	rc.fail(true)
	col.FetchAll(context.Background())

	require.Equal(t, 0, col.Len())
	require.True(t, col.Status().Degraded)
}

func TestEnsureFetched_FetchesOnce(t *testing.T) {
	rc := newFakeRemote()
	_, err := rc.Insert(context.Background(), "notes", domain.Note{ID: "note-1"})
	require.NoError(t, err)

	col := store.NewCollection[domain.Note](rc, "notes", testLogger())
	col.EnsureFetched(context.Background())
	require.Equal(t, 1, col.Len())

	// A second ensure does not clobber local state.
	col.Add(context.Background(), domain.Note{ID: "note-2"})
	col.EnsureFetched(context.Background())
	require.Equal(t, 2, col.Len())
}

func TestConcurrentMutationsStaySerialized(t *testing.T) {
	rc := newFakeRemote()
	col := store.NewCollection[domain.WeeklyGoal](rc, "weekly_goals", testLogger())
	col.Add(context.Background(), domain.WeeklyGoal{ID: "goal-1"})

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			col.Toggle(context.Background(), "goal-1", "completed", nil)
		}()
	}
	wg.Wait()

	// An even number of toggles lands back where it started.
	item, ok := col.Find("goal-1")
	require.True(t, ok)
	require.False(t, item.Completed)
}
