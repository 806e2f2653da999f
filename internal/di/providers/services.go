package providers

import (
	"github.com/samber/do/v2"

	"github.com/nikoapp/niko-server/internal/logger"
	"github.com/nikoapp/niko-server/internal/service"
)

// ProvideFlashcardService provides the flashcard service.
func ProvideFlashcardService(i do.Injector) (*service.FlashcardService, error) {
	backend := do.MustInvoke[*BackendHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFlashcardService(backend.Client, cacheHandle.Cache, log.Logger), nil
}

// ProvideNoteService provides the note service.
func ProvideNoteService(i do.Injector) (*service.NoteService, error) {
	backend := do.MustInvoke[*BackendHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	searchHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNoteService(backend.Client, cacheHandle.Cache, searchHandle.NoteIndex, log.Logger), nil
}

// ProvideJobService provides the job application service.
func ProvideJobService(i do.Injector) (*service.JobService, error) {
	backend := do.MustInvoke[*BackendHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewJobService(backend.Client, log.Logger), nil
}

// ProvideExamService provides the exam service.
func ProvideExamService(i do.Injector) (*service.ExamService, error) {
	backend := do.MustInvoke[*BackendHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewExamService(backend.Client, cacheHandle.Cache, log.Logger), nil
}

// ProvideEventService provides the countdown event service.
func ProvideEventService(i do.Injector) (*service.EventService, error) {
	backend := do.MustInvoke[*BackendHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewEventService(backend.Client, cacheHandle.Cache, log.Logger), nil
}

// ProvideHandwrittenService provides the handwritten note service.
func ProvideHandwrittenService(i do.Injector) (*service.HandwrittenService, error) {
	backend := do.MustInvoke[*BackendHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewHandwrittenService(backend.Client, log.Logger), nil
}

// ProvideGoalService provides the weekly goal service.
func ProvideGoalService(i do.Injector) (*service.GoalService, error) {
	backend := do.MustInvoke[*BackendHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGoalService(backend.Client, cacheHandle.Cache, log.Logger), nil
}

// StudyServiceHandle wraps the study service with Shutdownable so its
// expiry sweeper stops on shutdown.
type StudyServiceHandle struct {
	*service.StudyService
}

// Shutdown implements do.Shutdownable.
func (h *StudyServiceHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideStudyService provides the study session service.
func ProvideStudyService(i do.Injector) (*StudyServiceHandle, error) {
	flashcards := do.MustInvoke[*service.FlashcardService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return &StudyServiceHandle{StudyService: service.NewStudyService(flashcards, log.Logger)}, nil
}

// ProvideDiagramService provides the diagram check service.
func ProvideDiagramService(i do.Injector) (*service.DiagramService, error) {
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewDiagramService(log.Logger), nil
}
