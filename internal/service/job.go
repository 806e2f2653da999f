package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/nikoapp/niko-server/internal/domain"
	apperrors "github.com/nikoapp/niko-server/internal/errors"
	"github.com/nikoapp/niko-server/internal/remote"
	"github.com/nikoapp/niko-server/internal/store"
	"github.com/nikoapp/niko-server/internal/validation"
)

// JobService tracks job applications. Jobs are remote-only: there is no
// cache leg, so an unreachable backend means an empty (degraded) list
// rather than stale pipeline data.
type JobService struct {
	logger    *slog.Logger
	validator *validation.Validator
	jobs      *store.Collection[domain.Job]
}

// NewJobService creates the service.
func NewJobService(rc remote.Client, logger *slog.Logger) *JobService {
	newestFirst := func(a, b domain.Job) bool {
		return a.CreatedAt.After(b.CreatedAt)
	}

	return &JobService{
		logger:    logger,
		validator: validation.New(),
		jobs: store.NewCollection[domain.Job](rc, "jobs", logger,
			store.WithSort[domain.Job](newestFirst),
			store.WithRemoteOrder[domain.Job](remote.Order{Column: "created_at", Descending: true}),
			store.Prepend[domain.Job]()),
	}
}

// Prefetch loads the working set.
func (s *JobService) Prefetch(ctx context.Context) {
	s.jobs.FetchAll(ctx)
}

// Status reports collection health.
func (s *JobService) Status() store.Status {
	return s.jobs.Status()
}

// List returns all tracked jobs, newest first. An optional status
// narrows the list to one pipeline stage.
func (s *JobService) List(ctx context.Context, status domain.JobStatus) ([]domain.Job, error) {
	if status != "" && !status.IsValid() {
		return nil, apperrors.Validationf("unknown job status %q", status)
	}
	s.jobs.EnsureFetched(ctx)

	items := s.jobs.Items()
	if status == "" {
		return items, nil
	}

	var out []domain.Job
	for _, job := range items {
		if job.Status == status {
			out = append(out, job)
		}
	}
	return out, nil
}

// Get returns one job by id.
func (s *JobService) Get(ctx context.Context, jobID string) (domain.Job, error) {
	s.jobs.EnsureFetched(ctx)
	job, ok := s.jobs.Find(jobID)
	if !ok {
		return domain.Job{}, apperrors.NotFoundf("job %s not found", jobID)
	}
	return job, nil
}

// CreateJobRequest contains fields for tracking a new application.
type CreateJobRequest struct {
	Company  string   `json:"company" validate:"required,min=1,max=200"`
	Position string   `json:"position" validate:"required,min=1,max=200"`
	Location string   `json:"location" validate:"max=200"`
	Status   string   `json:"status" validate:"omitempty,oneof=saved applied screen interview offer rejected withdrawn"`
	Notes    string   `json:"notes" validate:"max=5000"`
	URL      string   `json:"url" validate:"omitempty,url"`
	Tags     []string `json:"tags" validate:"max=20,dive,min=1,max=50"`
}

// Create tracks a new job application. Status defaults to saved.
func (s *JobService) Create(ctx context.Context, req CreateJobRequest) (domain.Job, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.Job{}, err
	}

	status := domain.JobStatus(req.Status)
	if status == "" {
		status = domain.JobStatusSaved
	}

	now := time.Now().UTC()
	job := domain.Job{
		ID:        newID("job", s.jobs.Status()),
		Company:   req.Company,
		Position:  req.Position,
		Location:  req.Location,
		Status:    status,
		Notes:     req.Notes,
		URL:       req.URL,
		Tags:      req.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if job.Tags == nil {
		job.Tags = []string{}
	}
	return s.jobs.Add(ctx, job), nil
}

// UpdateJobRequest contains the patchable fields of a job.
type UpdateJobRequest struct {
	Company  *string   `json:"company,omitempty" validate:"omitempty,min=1,max=200"`
	Position *string   `json:"position,omitempty" validate:"omitempty,min=1,max=200"`
	Location *string   `json:"location,omitempty" validate:"omitempty,max=200"`
	Notes    *string   `json:"notes,omitempty" validate:"omitempty,max=5000"`
	URL      *string   `json:"url,omitempty" validate:"omitempty,url"`
	Tags     *[]string `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
}

func (r UpdateJobRequest) patch() map[string]any {
	patch := map[string]any{}
	if r.Company != nil {
		patch["company"] = *r.Company
	}
	if r.Position != nil {
		patch["position"] = *r.Position
	}
	if r.Location != nil {
		patch["location"] = *r.Location
	}
	if r.Notes != nil {
		patch["notes"] = *r.Notes
	}
	if r.URL != nil {
		patch["url"] = *r.URL
	}
	if r.Tags != nil {
		patch["tags"] = *r.Tags
	}
	return patch
}

// Update applies a partial update to a job.
func (s *JobService) Update(ctx context.Context, jobID string, req UpdateJobRequest) (domain.Job, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.Job{}, err
	}
	s.jobs.EnsureFetched(ctx)

	patch := req.patch()
	patch["updated_at"] = time.Now().UTC().Format(time.RFC3339Nano)

	job, ok := s.jobs.Update(ctx, jobID, patch)
	if !ok {
		return domain.Job{}, apperrors.NotFoundf("job %s not found", jobID)
	}
	return job, nil
}

// UpdateStatus moves a job to another pipeline stage.
func (s *JobService) UpdateStatus(ctx context.Context, jobID string, status domain.JobStatus) (domain.Job, error) {
	if !status.IsValid() {
		return domain.Job{}, apperrors.Validationf("unknown job status %q", status)
	}
	s.jobs.EnsureFetched(ctx)

	job, ok := s.jobs.Update(ctx, jobID, map[string]any{
		"status":     string(status),
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	if !ok {
		return domain.Job{}, apperrors.NotFoundf("job %s not found", jobID)
	}
	return job, nil
}

// Delete stops tracking a job.
func (s *JobService) Delete(ctx context.Context, jobID string) error {
	s.jobs.EnsureFetched(ctx)
	if !s.jobs.Remove(ctx, jobID) {
		return apperrors.NotFoundf("job %s not found", jobID)
	}
	return nil
}
