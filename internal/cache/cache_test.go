package cache_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nikoapp/niko-server/internal/cache"
)

func openCache(t *testing.T) *cache.Cache {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := cache.Open(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestWriteReadRoundTrip(t *testing.T) {
	c := openCache(t)

	c.Write("notes", []byte(`[{"id":"note-1"}]`))

	data, ok := c.Read("notes")
	require.True(t, ok)
	require.JSONEq(t, `[{"id":"note-1"}]`, string(data))
}

func TestRead_MissingKey(t *testing.T) {
	c := openCache(t)

	data, ok := c.Read("nothing-here")
	require.False(t, ok)
	require.Nil(t, data)
}

func TestWrite_OverwritesSnapshot(t *testing.T) {
	c := openCache(t)

	c.Write("goals", []byte(`["old"]`))
	c.Write("goals", []byte(`["new"]`))

	data, ok := c.Read("goals")
	require.True(t, ok)
	require.JSONEq(t, `["new"]`, string(data))
}

func TestDelete(t *testing.T) {
	c := openCache(t)

	c.Write("exams", []byte(`[]`))
	c.Delete("exams")
	c.Delete("exams") // deleting twice is fine

	_, ok := c.Read("exams")
	require.False(t, ok)
}
