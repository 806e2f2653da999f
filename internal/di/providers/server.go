package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/nikoapp/niko-server/internal/api"
	"github.com/nikoapp/niko-server/internal/config"
	"github.com/nikoapp/niko-server/internal/logger"
	"github.com/nikoapp/niko-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server

	handler *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := h.Server.Shutdown(ctx)
	h.handler.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server and starts it.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	searchHandle := do.MustInvoke[*SearchIndexHandle](i)

	services := &api.Services{
		Flashcard:   do.MustInvoke[*service.FlashcardService](i),
		Note:        do.MustInvoke[*service.NoteService](i),
		Job:         do.MustInvoke[*service.JobService](i),
		Exam:        do.MustInvoke[*service.ExamService](i),
		Event:       do.MustInvoke[*service.EventService](i),
		Handwritten: do.MustInvoke[*service.HandwrittenService](i),
		Goal:        do.MustInvoke[*service.GoalService](i),
		Study:       do.MustInvoke[*StudyServiceHandle](i).StudyService,
		Diagram:     do.MustInvoke[*service.DiagramService](i),
	}

	handler := api.NewServer(services, cacheHandle.Cache, searchHandle.NoteIndex, api.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv, handler: handler}, nil
}
