// Package api provides the HTTP API server and handlers for the Niko
// application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nikoapp/niko-server/internal/cache"
	"github.com/nikoapp/niko-server/internal/ratelimit"
	"github.com/nikoapp/niko-server/internal/search"
	"github.com/nikoapp/niko-server/internal/service"
)

// Services bundles the application services the handlers call.
type Services struct {
	Flashcard   *service.FlashcardService
	Note        *service.NoteService
	Job         *service.JobService
	Exam        *service.ExamService
	Event       *service.EventService
	Handwritten *service.HandwrittenService
	Goal        *service.GoalService
	Study       *service.StudyService
	Diagram     *service.DiagramService
}

// Options configures the server.
type Options struct {
	AllowedOrigins []string
	// Mutation rate limit per client IP.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server holds dependencies for HTTP handlers. The cache and search
// index handles are only probed by the health check and may be nil.
type Server struct {
	services    *Services
	cache       *cache.Cache
	searchIndex *search.NoteIndex
	router      *chi.Mux
	api         huma.API
	logger      *slog.Logger
	limiter     *ratelimit.KeyedRateLimiter
}

// NewServer creates an HTTP server with all routes configured.
func NewServer(services *Services, lc *cache.Cache, index *search.NoteIndex, opts Options, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	rps := opts.RateLimitRPS
	if rps <= 0 {
		rps = 20
	}
	burst := opts.RateLimitBurst
	if burst <= 0 {
		burst = 40
	}

	s := &Server{
		services:    services,
		cache:       lc,
		searchIndex: index,
		router:      router,
		logger:      logger,
		limiter:     ratelimit.New(rps, burst),
	}

	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig("Niko API", "1.0.0")
	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerFlashcardRoutes()
	s.registerNoteRoutes()
	s.registerJobRoutes()
	s.registerExamRoutes()
	s.registerEventRoutes()
	s.registerHandwrittenRoutes()
	s.registerGoalRoutes()
	s.registerStudyRoutes()
	s.registerDiagramRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server resources.
func (s *Server) Close() {
	s.limiter.Stop()
}

func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Use(s.rateLimitMutations)
}

// rateLimitMutations throttles write traffic per client IP. Reads pass
// through untouched.
func (s *Server) rateLimitMutations(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete:
			if !s.limiter.Allow(r.RemoteAddr) {
				s.logger.Warn("rate limited", "remote", r.RemoteAddr, "path", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"code":"RATE_LIMITED","message":"too many requests"}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
