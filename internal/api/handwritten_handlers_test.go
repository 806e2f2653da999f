package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandwrittenLifecycle(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/handwritten", map[string]any{
		"title":     "Krebs cycle sketch",
		"image_url": "https://images.example.com/krebs.png",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var n HandwrittenResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &n))
	assert.Equal(t, "https://images.example.com/krebs.png", n.ImageURL)

	resp = ts.api.Patch("/api/v1/handwritten/"+n.ID, map[string]any{
		"description": "from the biochem lecture",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &n))
	assert.Equal(t, "from the biochem lecture", n.Description)
	assert.Equal(t, "https://images.example.com/krebs.png", n.ImageURL, "image URL is immutable")

	resp = ts.api.Delete("/api/v1/handwritten/" + n.ID)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/handwritten/" + n.ID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHandwrittenList_FilterBySet(t *testing.T) {
	ts := setupTestServer(t)

	set := ts.createSet(t, "Anatomy")

	resp := ts.api.Post("/api/v1/handwritten", map[string]any{
		"title":     "Attached page",
		"image_url": "https://images.example.com/a.png",
		"set_id":    set.ID,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/handwritten", map[string]any{
		"title":     "Loose page",
		"image_url": "https://images.example.com/b.png",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/handwritten?set_id=" + set.ID)
	require.Equal(t, http.StatusOK, resp.Code)

	var list ListHandwrittenResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Notes, 1)
	assert.Equal(t, "Attached page", list.Notes[0].Title)
}

func TestHandwrittenCreate_RequiresImageURL(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/handwritten", map[string]any{"title": "No image"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}
