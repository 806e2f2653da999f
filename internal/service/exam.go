package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/nikoapp/niko-server/internal/cache"
	"github.com/nikoapp/niko-server/internal/domain"
	apperrors "github.com/nikoapp/niko-server/internal/errors"
	"github.com/nikoapp/niko-server/internal/remote"
	"github.com/nikoapp/niko-server/internal/store"
	"github.com/nikoapp/niko-server/internal/validation"
)

// ExamService manages exams and deadlines with reminder windows.
type ExamService struct {
	logger    *slog.Logger
	validator *validation.Validator
	exams     *store.Collection[domain.Exam]
	now       func() time.Time
}

// NewExamService creates the service.
func NewExamService(rc remote.Client, lc *cache.Cache, logger *slog.Logger) *ExamService {
	return &ExamService{
		logger:    logger,
		validator: validation.New(),
		exams: store.NewCollection[domain.Exam](rc, "exams", logger,
			store.WithCache[domain.Exam](lc, "exams"),
			store.WithSort[domain.Exam](domain.ExamLess),
			store.WithRemoteOrder[domain.Exam](remote.Order{Column: "date"})),
		now: time.Now,
	}
}

// Prefetch loads the working set.
func (s *ExamService) Prefetch(ctx context.Context) {
	s.exams.FetchAll(ctx)
}

// Status reports collection health.
func (s *ExamService) Status() store.Status {
	return s.exams.Status()
}

// List returns all exams, soonest first.
func (s *ExamService) List(ctx context.Context) []domain.Exam {
	s.exams.EnsureFetched(ctx)
	return s.exams.Items()
}

// Get returns one exam by id.
func (s *ExamService) Get(ctx context.Context, examID string) (domain.Exam, error) {
	s.exams.EnsureFetched(ctx)
	exam, ok := s.exams.Find(examID)
	if !ok {
		return domain.Exam{}, apperrors.NotFoundf("exam %s not found", examID)
	}
	return exam, nil
}

// Upcoming returns exams inside their reminder window, soonest first.
func (s *ExamService) Upcoming(ctx context.Context) []domain.Exam {
	s.exams.EnsureFetched(ctx)
	now := s.now()

	var out []domain.Exam
	for _, exam := range s.exams.Items() {
		if exam.InReminderWindow(now) {
			out = append(out, exam)
		}
	}
	return out
}

// CreateExamRequest contains fields for creating an exam.
type CreateExamRequest struct {
	Title        string    `json:"title" validate:"required,min=1,max=200"`
	Subject      string    `json:"subject" validate:"max=100"`
	Date         time.Time `json:"date" validate:"required"`
	Priority     string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	ReminderDays int       `json:"reminder_days" validate:"gte=0,lte=90"`
}

// Create creates an exam. Priority defaults to medium, the reminder
// window to seven days.
func (s *ExamService) Create(ctx context.Context, req CreateExamRequest) (domain.Exam, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.Exam{}, err
	}

	priority := domain.ExamPriority(req.Priority)
	if priority == "" {
		priority = domain.PriorityMedium
	}
	reminderDays := req.ReminderDays
	if reminderDays == 0 {
		reminderDays = 7
	}

	now := s.now().UTC()
	exam := domain.Exam{
		ID:           newID("exam", s.exams.Status()),
		Title:        req.Title,
		Subject:      req.Subject,
		Date:         req.Date.UTC(),
		Priority:     priority,
		ReminderDays: reminderDays,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.exams.Add(ctx, exam), nil
}

// UpdateExamRequest contains the patchable fields of an exam.
type UpdateExamRequest struct {
	Title        *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Subject      *string    `json:"subject,omitempty" validate:"omitempty,max=100"`
	Date         *time.Time `json:"date,omitempty"`
	Priority     *string    `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	ReminderDays *int       `json:"reminder_days,omitempty" validate:"omitempty,gte=0,lte=90"`
}

func (r UpdateExamRequest) patch() map[string]any {
	patch := map[string]any{}
	if r.Title != nil {
		patch["title"] = *r.Title
	}
	if r.Subject != nil {
		patch["subject"] = *r.Subject
	}
	if r.Date != nil {
		patch["date"] = r.Date.UTC().Format(time.RFC3339Nano)
	}
	if r.Priority != nil {
		patch["priority"] = *r.Priority
	}
	if r.ReminderDays != nil {
		patch["reminder_days"] = *r.ReminderDays
	}
	return patch
}

// Update applies a partial update to an exam.
func (s *ExamService) Update(ctx context.Context, examID string, req UpdateExamRequest) (domain.Exam, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.Exam{}, err
	}
	s.exams.EnsureFetched(ctx)

	patch := req.patch()
	patch["updated_at"] = s.now().UTC().Format(time.RFC3339Nano)

	exam, ok := s.exams.Update(ctx, examID, patch)
	if !ok {
		return domain.Exam{}, apperrors.NotFoundf("exam %s not found", examID)
	}
	return exam, nil
}

// ToggleCompleted flips an exam's completed flag.
func (s *ExamService) ToggleCompleted(ctx context.Context, examID string) (domain.Exam, error) {
	s.exams.EnsureFetched(ctx)

	exam, ok := s.exams.Toggle(ctx, examID, "completed", map[string]any{
		"updated_at": s.now().UTC().Format(time.RFC3339Nano),
	})
	if !ok {
		return domain.Exam{}, apperrors.NotFoundf("exam %s not found", examID)
	}
	return exam, nil
}

// Delete removes an exam.
func (s *ExamService) Delete(ctx context.Context, examID string) error {
	s.exams.EnsureFetched(ctx)
	if !s.exams.Remove(ctx, examID) {
		return apperrors.NotFoundf("exam %s not found", examID)
	}
	return nil
}
