package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobPipeline(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/jobs", map[string]any{
		"company":  "Acme",
		"position": "Backend Engineer",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var job JobResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &job))
	assert.Equal(t, "saved", job.Status)

	resp = ts.api.Put("/api/v1/jobs/"+job.ID+"/status", map[string]any{"status": "applied"})
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &job))
	assert.Equal(t, "applied", job.Status)

	resp = ts.api.Get("/api/v1/jobs?status=applied")
	require.Equal(t, http.StatusOK, resp.Code)

	var list ListJobsResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Jobs, 1)

	resp = ts.api.Get("/api/v1/jobs?status=offer")
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Empty(t, list.Jobs)
}

func TestJobStatus_RejectsUnknownStage(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/jobs", map[string]any{
		"company":  "Acme",
		"position": "Backend Engineer",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var job JobResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &job))

	resp = ts.api.Put("/api/v1/jobs/"+job.ID+"/status", map[string]any{"status": "ghosted"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestJobCreate_InvalidURL(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/jobs", map[string]any{
		"company":  "Acme",
		"position": "Backend Engineer",
		"url":      "not a url",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestJobUpdateAndDelete(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/jobs", map[string]any{
		"company":  "Acme",
		"position": "Backend Engineer",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var job JobResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &job))

	resp = ts.api.Patch("/api/v1/jobs/"+job.ID, map[string]any{"location": "Berlin"})
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &job))
	assert.Equal(t, "Berlin", job.Location)
	assert.Equal(t, "Acme", job.Company)

	resp = ts.api.Delete("/api/v1/jobs/" + job.ID)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/jobs/" + job.ID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
