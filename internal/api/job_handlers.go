package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nikoapp/niko-server/internal/domain"
	"github.com/nikoapp/niko-server/internal/service"
)

func (s *Server) registerJobRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listJobs",
		Method:      http.MethodGet,
		Path:        "/api/v1/jobs",
		Summary:     "List jobs",
		Description: "Returns tracked job applications, newest first. An optional status narrows to one pipeline stage.",
		Tags:        []string{"Jobs"},
	}, s.handleListJobs)

	huma.Register(s.api, huma.Operation{
		OperationID: "createJob",
		Method:      http.MethodPost,
		Path:        "/api/v1/jobs",
		Summary:     "Create job",
		Description: "Tracks a new job application",
		Tags:        []string{"Jobs"},
	}, s.handleCreateJob)

	huma.Register(s.api, huma.Operation{
		OperationID: "getJob",
		Method:      http.MethodGet,
		Path:        "/api/v1/jobs/{id}",
		Summary:     "Get job",
		Description: "Returns a job by ID",
		Tags:        []string{"Jobs"},
	}, s.handleGetJob)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateJob",
		Method:      http.MethodPatch,
		Path:        "/api/v1/jobs/{id}",
		Summary:     "Update job",
		Description: "Applies a partial update to a job",
		Tags:        []string{"Jobs"},
	}, s.handleUpdateJob)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteJob",
		Method:      http.MethodDelete,
		Path:        "/api/v1/jobs/{id}",
		Summary:     "Delete job",
		Description: "Stops tracking a job",
		Tags:        []string{"Jobs"},
	}, s.handleDeleteJob)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateJobStatus",
		Method:      http.MethodPut,
		Path:        "/api/v1/jobs/{id}/status",
		Summary:     "Update job status",
		Description: "Moves a job to another pipeline stage",
		Tags:        []string{"Jobs"},
	}, s.handleUpdateJobStatus)
}

// === DTOs ===

type JobResponse struct {
	ID        string    `json:"id" doc:"Job ID"`
	Company   string    `json:"company" doc:"Company name"`
	Position  string    `json:"position" doc:"Position title"`
	Location  string    `json:"location,omitempty" doc:"Location"`
	Status    string    `json:"status" doc:"Pipeline stage"`
	Notes     string    `json:"notes,omitempty" doc:"Free-form notes"`
	URL       string    `json:"url,omitempty" doc:"Job posting URL"`
	Tags      []string  `json:"tags" doc:"Tags"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

type ListJobsInput struct {
	Status string `query:"status" doc:"Only jobs in this pipeline stage"`
}

type ListJobsResponse struct {
	Jobs []JobResponse `json:"jobs" doc:"List of jobs"`
}

type ListJobsOutput struct {
	Body ListJobsResponse
}

type CreateJobRequest struct {
	Company  string   `json:"company" doc:"Company name"`
	Position string   `json:"position" doc:"Position title"`
	Location string   `json:"location,omitempty" doc:"Location"`
	Status   string   `json:"status,omitempty" doc:"Initial pipeline stage, defaults to saved"`
	Notes    string   `json:"notes,omitempty" doc:"Free-form notes"`
	URL      string   `json:"url,omitempty" doc:"Job posting URL"`
	Tags     []string `json:"tags,omitempty" doc:"Tags"`
}

type CreateJobInput struct {
	Body CreateJobRequest
}

type JobOutput struct {
	Body JobResponse
}

type GetJobInput struct {
	ID string `path:"id" doc:"Job ID"`
}

type UpdateJobRequest struct {
	Company  *string   `json:"company,omitempty" doc:"Company name"`
	Position *string   `json:"position,omitempty" doc:"Position title"`
	Location *string   `json:"location,omitempty" doc:"Location"`
	Notes    *string   `json:"notes,omitempty" doc:"Free-form notes"`
	URL      *string   `json:"url,omitempty" doc:"Job posting URL"`
	Tags     *[]string `json:"tags,omitempty" doc:"Tags"`
}

type UpdateJobInput struct {
	ID   string `path:"id" doc:"Job ID"`
	Body UpdateJobRequest
}

type DeleteJobInput struct {
	ID string `path:"id" doc:"Job ID"`
}

type UpdateJobStatusRequest struct {
	Status string `json:"status" doc:"New pipeline stage"`
}

type UpdateJobStatusInput struct {
	ID   string `path:"id" doc:"Job ID"`
	Body UpdateJobStatusRequest
}

// === Handlers ===

func (s *Server) handleListJobs(ctx context.Context, input *ListJobsInput) (*ListJobsOutput, error) {
	jobs, err := s.services.Job.List(ctx, domain.JobStatus(input.Status))
	if err != nil {
		return nil, err
	}

	resp := make([]JobResponse, len(jobs))
	for i, job := range jobs {
		resp[i] = mapJobResponse(job)
	}

	return &ListJobsOutput{Body: ListJobsResponse{Jobs: resp}}, nil
}

func (s *Server) handleCreateJob(ctx context.Context, input *CreateJobInput) (*JobOutput, error) {
	job, err := s.services.Job.Create(ctx, service.CreateJobRequest{
		Company:  input.Body.Company,
		Position: input.Body.Position,
		Location: input.Body.Location,
		Status:   input.Body.Status,
		Notes:    input.Body.Notes,
		URL:      input.Body.URL,
		Tags:     input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	return &JobOutput{Body: mapJobResponse(job)}, nil
}

func (s *Server) handleGetJob(ctx context.Context, input *GetJobInput) (*JobOutput, error) {
	job, err := s.services.Job.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &JobOutput{Body: mapJobResponse(job)}, nil
}

func (s *Server) handleUpdateJob(ctx context.Context, input *UpdateJobInput) (*JobOutput, error) {
	job, err := s.services.Job.Update(ctx, input.ID, service.UpdateJobRequest{
		Company:  input.Body.Company,
		Position: input.Body.Position,
		Location: input.Body.Location,
		Notes:    input.Body.Notes,
		URL:      input.Body.URL,
		Tags:     input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	return &JobOutput{Body: mapJobResponse(job)}, nil
}

func (s *Server) handleDeleteJob(ctx context.Context, input *DeleteJobInput) (*MessageOutput, error) {
	if err := s.services.Job.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Job deleted"}}, nil
}

func (s *Server) handleUpdateJobStatus(ctx context.Context, input *UpdateJobStatusInput) (*JobOutput, error) {
	job, err := s.services.Job.UpdateStatus(ctx, input.ID, domain.JobStatus(input.Body.Status))
	if err != nil {
		return nil, err
	}

	return &JobOutput{Body: mapJobResponse(job)}, nil
}

// === Mappers ===

func mapJobResponse(job domain.Job) JobResponse {
	return JobResponse{
		ID:        job.ID,
		Company:   job.Company,
		Position:  job.Position,
		Location:  job.Location,
		Status:    string(job.Status),
		Notes:     job.Notes,
		URL:       job.URL,
		Tags:      job.Tags,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
}
