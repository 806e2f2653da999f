package service_test

import (
	"context"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nikoapp/niko-server/internal/cache"
	"github.com/nikoapp/niko-server/internal/remote"
)

// fakeRemote is a shared in-memory backend for service tests.
type fakeRemote struct {
	mu      sync.Mutex
	rows    map[string][]map[string]any
	failing bool
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{rows: make(map[string][]map[string]any)}
}

func (f *fakeRemote) fail(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing = on
}

func (f *fakeRemote) count(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows[table])
}

func (f *fakeRemote) Select(_ context.Context, table string, filter remote.Filter, _ *remote.Order) ([]jsontext.Value, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return nil, fmt.Errorf("backend down")
	}

	var out []jsontext.Value
	for _, row := range f.rows[table] {
		if rowMatches(row, filter) {
			data, _ := json.Marshal(row)
			out = append(out, data)
		}
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
	f.rows[table] = append(f.rows[table], doc)
	return data, nil
}

func (f *fakeRemote) Update(_ context.Context, table string, filter remote.Filter, patch map[string]any) (jsontext.Value, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return nil, fmt.Errorf("backend down")
	}

	for _, row := range f.rows[table] {
		if rowMatches(row, filter) {
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
		if !rowMatches(row, filter) {
			kept = append(kept, row)
		}
	}
	f.rows[table] = kept
	return nil
}

func rowMatches(row map[string]any, filter remote.Filter) bool {
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

func testCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.Open(t.TempDir(), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}
