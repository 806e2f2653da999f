package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nikoapp/niko-server/internal/store"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with per-collection checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy or degraded"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

// handleHealthCheck reports the backend reachability of every collection
// plus the cache and search index. A degraded collection never makes the
// server unhealthy: it still serves from its fallback.
func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	components := make(map[string]ComponentHealth)
	overall := "healthy"

	collections := map[string]func() store.Status{
		"flashcards":  s.services.Flashcard.Status,
		"notes":       s.services.Note.Status,
		"jobs":        s.services.Job.Status,
		"exams":       s.services.Exam.Status,
		"events":      s.services.Event.Status,
		"handwritten": s.services.Handwritten.Status,
		"goals":       s.services.Goal.Status,
	}
	for name, status := range collections {
		health := collectionHealth(status())
		components[name] = health
		if health.Status == "degraded" {
			overall = "degraded"
		}
	}

	cacheHealth := s.checkCache()
	components["cache"] = cacheHealth
	if cacheHealth.Status == "degraded" && overall == "healthy" {
		overall = "degraded"
	}

	searchHealth := s.checkSearchIndex()
	components["search"] = searchHealth
	if searchHealth.Status != "healthy" && overall == "healthy" {
		overall = "degraded"
	}

	components["study"] = ComponentHealth{
		Status:  "healthy",
		Message: fmt.Sprintf("%d active sessions", s.services.Study.Active()),
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

func collectionHealth(status store.Status) ComponentHealth {
	if !status.Degraded {
		return ComponentHealth{Status: "healthy"}
	}

	health := ComponentHealth{
		Status:  "degraded",
		Message: "serving from local fallback",
	}
	if status.LastError != "" {
		health.Message = status.LastError
	}
	return health
}

// checkCache verifies the badger cache is readable.
func (s *Server) checkCache() ComponentHealth {
	if s.cache == nil {
		return ComponentHealth{
			Status:  "degraded",
			Message: "cache not configured",
		}
	}

	start := time.Now()
	s.cache.Read("flashcard_sets")
	latency := time.Since(start)

	return ComponentHealth{
		Status:  "healthy",
		Latency: latency.String(),
	}
}

// checkSearchIndex verifies the Bleve index is accessible.
func (s *Server) checkSearchIndex() ComponentHealth {
	if s.searchIndex == nil {
		return ComponentHealth{
			Status:  "degraded",
			Message: "search not configured",
		}
	}

	start := time.Now()
	_, err := s.searchIndex.Count()
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: latency.String(),
			Message: "search index unreachable",
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Latency: latency.String(),
	}
}
