package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nikoapp/niko-server/internal/domain"
	"github.com/nikoapp/niko-server/internal/service"
)

func (s *Server) registerDiagramRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "checkDiagram",
		Method:      http.MethodPost,
		Path:        "/api/v1/diagrams/check",
		Summary:     "Check diagram answers",
		Description: "Grades submitted answers against a diagram's expected labels",
		Tags:        []string{"Diagrams"},
	}, s.handleCheckDiagram)
}

// === DTOs ===

type DiagramLabelRequest struct {
	Number int     `json:"number" doc:"Label number on the diagram"`
	X      float64 `json:"x,omitempty" doc:"Horizontal position, 0 to 1"`
	Y      float64 `json:"y,omitempty" doc:"Vertical position, 0 to 1"`
	Answer string  `json:"answer" doc:"Expected label text"`
}

type CheckDiagramRequest struct {
	Labels  []DiagramLabelRequest `json:"labels" doc:"Expected labels"`
	Answers map[int]string        `json:"answers,omitempty" doc:"Submitted answers keyed by label number"`
}

type CheckDiagramInput struct {
	Body CheckDiagramRequest
}

type LabelResultResponse struct {
	Number    int    `json:"number" doc:"Label number"`
	Submitted string `json:"submitted" doc:"Submitted answer"`
	Correct   bool   `json:"correct" doc:"Whether the answer matched"`
}

type CheckDiagramResponse struct {
	Results []LabelResultResponse `json:"results" doc:"Per-label outcomes"`
	Score   int                   `json:"score" doc:"Number correct"`
	Total   int                   `json:"total" doc:"Number of labels"`
}

type CheckDiagramOutput struct {
	Body CheckDiagramResponse
}

// === Handlers ===

func (s *Server) handleCheckDiagram(_ context.Context, input *CheckDiagramInput) (*CheckDiagramOutput, error) {
	labels := make([]domain.DiagramLabel, len(input.Body.Labels))
	for i, l := range input.Body.Labels {
		labels[i] = domain.DiagramLabel{
			Number: l.Number,
			X:      l.X,
			Y:      l.Y,
			Answer: l.Answer,
		}
	}

	result, err := s.services.Diagram.Check(service.CheckRequest{
		Labels:  labels,
		Answers: input.Body.Answers,
	})
	if err != nil {
		return nil, err
	}

	results := make([]LabelResultResponse, len(result.Results))
	for i, r := range result.Results {
		results[i] = LabelResultResponse{
			Number:    r.Number,
			Submitted: r.Submitted,
			Correct:   r.Correct,
		}
	}

	return &CheckDiagramOutput{Body: CheckDiagramResponse{
		Results: results,
		Score:   result.Score,
		Total:   result.Total,
	}}, nil
}
