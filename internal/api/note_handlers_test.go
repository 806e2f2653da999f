package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) createNote(t *testing.T, title, content string, tags ...string) NoteResponse {
	t.Helper()

	body := map[string]any{"title": title, "content": content}
	if len(tags) > 0 {
		body["tags"] = tags
	}

	resp := ts.api.Post("/api/v1/notes", body)
	require.Equal(t, http.StatusOK, resp.Code, "create note failed: %s", resp.Body.String())

	var note NoteResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &note))
	return note
}

func TestNoteLifecycle(t *testing.T) {
	ts := setupTestServer(t)

	note := ts.createNote(t, "Shopping", "milk, eggs")

	resp := ts.api.Patch("/api/v1/notes/"+note.ID, map[string]any{
		"content": "milk, eggs, bread",
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/notes/" + note.ID)
	require.Equal(t, http.StatusOK, resp.Code)

	var got NoteResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, "milk, eggs, bread", got.Content)
	assert.Equal(t, "Shopping", got.Title)

	resp = ts.api.Delete("/api/v1/notes/" + note.ID)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/notes/" + note.ID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestTogglePin_MovesNoteFirst(t *testing.T) {
	ts := setupTestServer(t)

	first := ts.createNote(t, "Old note", "")
	ts.createNote(t, "New note", "")

	resp := ts.api.Post("/api/v1/notes/"+first.ID+"/pin")
	require.Equal(t, http.StatusOK, resp.Code)

	var pinned NoteResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &pinned))
	assert.True(t, pinned.IsPinned)

	resp = ts.api.Get("/api/v1/notes")
	require.Equal(t, http.StatusOK, resp.Code)

	var list ListNotesResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Notes, 2)
	assert.Equal(t, first.ID, list.Notes[0].ID, "pinned note sorts first")

	// Toggling again unpins.
	resp = ts.api.Post("/api/v1/notes/"+first.ID+"/pin")
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &pinned))
	assert.False(t, pinned.IsPinned)
}

func TestSearchNotes(t *testing.T) {
	ts := setupTestServer(t)

	ts.createNote(t, "Biology lecture", "mitochondria are the powerhouse of the cell")
	ts.createNote(t, "History essay", "the fall of the roman empire")

	resp := ts.api.Get("/api/v1/notes/search?q=mitochondria")
	require.Equal(t, http.StatusOK, resp.Code)

	var list ListNotesResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Notes, 1)
	assert.Equal(t, "Biology lecture", list.Notes[0].Title)
}

func TestSearchNotes_EmptyQuery(t *testing.T) {
	ts := setupTestServer(t)
	ts.createNote(t, "Something", "content")

	resp := ts.api.Get("/api/v1/notes/search?q=")
	require.Equal(t, http.StatusOK, resp.Code)

	var list ListNotesResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Empty(t, list.Notes)
}

func TestListNotes_FilterByTag(t *testing.T) {
	ts := setupTestServer(t)

	ts.createNote(t, "Tagged", "", "school")
	ts.createNote(t, "Untagged", "")

	resp := ts.api.Get("/api/v1/notes?tag=school")
	require.Equal(t, http.StatusOK, resp.Code)

	var list ListNotesResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Notes, 1)
	assert.Equal(t, "Tagged", list.Notes[0].Title)
}

func TestCreateNote_MissingTitle(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/notes", map[string]any{"content": "orphan"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}
