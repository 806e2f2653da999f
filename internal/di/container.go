// Package di provides dependency injection configuration for the Niko server.
package di

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/nikoapp/niko-server/internal/config"
	"github.com/nikoapp/niko-server/internal/di/providers"
	"github.com/nikoapp/niko-server/internal/logger"
	"github.com/nikoapp/niko-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Persistence layer
	do.Provide(injector, providers.ProvideBackend)
	do.Provide(injector, providers.ProvideCache)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Business services
	do.Provide(injector, providers.ProvideFlashcardService)
	do.Provide(injector, providers.ProvideNoteService)
	do.Provide(injector, providers.ProvideJobService)
	do.Provide(injector, providers.ProvideExamService)
	do.Provide(injector, providers.ProvideEventService)
	do.Provide(injector, providers.ProvideHandwrittenService)
	do.Provide(injector, providers.ProvideGoalService)
	do.Provide(injector, providers.ProvideStudyService)
	do.Provide(injector, providers.ProvideDiagramService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and warms the working sets.
// Prefetching is best effort: an unreachable backend leaves collections
// degraded, serving from their local fallbacks, rather than failing boot.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	log := do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.BackendHandle](injector)
	_ = do.MustInvoke[*providers.CacheHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)

	flashcards := do.MustInvoke[*service.FlashcardService](injector)
	notes := do.MustInvoke[*service.NoteService](injector)
	jobs := do.MustInvoke[*service.JobService](injector)
	exams := do.MustInvoke[*service.ExamService](injector)
	events := do.MustInvoke[*service.EventService](injector)
	handwritten := do.MustInvoke[*service.HandwrittenService](injector)
	goals := do.MustInvoke[*service.GoalService](injector)
	_ = do.MustInvoke[*providers.StudyServiceHandle](injector)
	_ = do.MustInvoke[*service.DiagramService](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	go func() {
		ctx := context.Background()
		flashcards.Prefetch(ctx)
		notes.Prefetch(ctx)
		jobs.Prefetch(ctx)
		exams.Prefetch(ctx)
		events.Prefetch(ctx)
		handwritten.Prefetch(ctx)
		goals.Prefetch(ctx)
		log.Info("Working sets prefetched")
	}()

	return nil
}
