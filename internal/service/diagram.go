package service

import (
	"log/slog"

	"github.com/nikoapp/niko-server/internal/domain"
	"github.com/nikoapp/niko-server/internal/validation"
)

// DiagramService grades labeled-diagram quizzes. Checks are stateless:
// the caller supplies the labels and the submitted answers, and the
// service grades them without ever auto-submitting.
type DiagramService struct {
	logger    *slog.Logger
	validator *validation.Validator
}

// NewDiagramService creates the service.
func NewDiagramService(logger *slog.Logger) *DiagramService {
	return &DiagramService{
		logger:    logger,
		validator: validation.New(),
	}
}

// CheckRequest is one diagram check submission.
type CheckRequest struct {
	Labels  []domain.DiagramLabel `json:"labels" validate:"required,min=1,max=100,dive"`
	Answers map[int]string        `json:"answers"`
}

// CheckResult is the graded outcome.
type CheckResult struct {
	Results []domain.LabelResult `json:"results"`
	Score   int                  `json:"score"`
	Total   int                  `json:"total"`
}

// Check grades submitted answers against the expected labels.
func (s *DiagramService) Check(req CheckRequest) (CheckResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return CheckResult{}, err
	}

	results := domain.CheckLabels(req.Labels, req.Answers)
	return CheckResult{
		Results: results,
		Score:   domain.Score(results),
		Total:   len(results),
	}, nil
}
