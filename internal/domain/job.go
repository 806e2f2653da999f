package domain

import "time"

// JobStatus tracks where a job application is in the pipeline.
type JobStatus string

// Job application statuses.
const (
	JobStatusSaved     JobStatus = "saved"
	JobStatusApplied   JobStatus = "applied"
	JobStatusScreen    JobStatus = "screen"
	JobStatusInterview JobStatus = "interview"
	JobStatusOffer     JobStatus = "offer"
	JobStatusRejected  JobStatus = "rejected"
	JobStatusWithdrawn JobStatus = "withdrawn"
)

// IsValid reports whether the status is one of the known pipeline stages.
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusSaved, JobStatusApplied, JobStatusScreen, JobStatusInterview,
		JobStatusOffer, JobStatusRejected, JobStatusWithdrawn:
		return true
	}
	return false
}

// JobStatuses lists all valid statuses in pipeline order.
func JobStatuses() []JobStatus {
	return []JobStatus{
		JobStatusSaved, JobStatusApplied, JobStatusScreen, JobStatusInterview,
		JobStatusOffer, JobStatusRejected, JobStatusWithdrawn,
	}
}

// Job is a tracked job application.
type Job struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	Company   string    `json:"company"`
	Position  string    `json:"position"`
	Location  string    `json:"location"`
	Status    JobStatus `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	URL       string    `json:"url,omitempty"`
	Tags      []string  `json:"tags"`
}

// EntityID implements Entity.
func (j Job) EntityID() string { return j.ID }
