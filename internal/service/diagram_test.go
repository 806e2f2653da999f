package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nikoapp/niko-server/internal/domain"
	apperrors "github.com/nikoapp/niko-server/internal/errors"
	"github.com/nikoapp/niko-server/internal/service"
)

func TestDiagramCheck_Grades(t *testing.T) {
	svc := service.NewDiagramService(testLogger())

	result, err := svc.Check(service.CheckRequest{
		Labels: []domain.DiagramLabel{
			{Number: 1, Answer: "aorta"},
			{Number: 2, Answer: "left ventricle"},
		},
		Answers: map[int]string{1: "Aorta ", 2: "left ventricl"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Score)
	require.Equal(t, 2, result.Total)
	require.True(t, result.Results[0].Correct)
	require.False(t, result.Results[1].Correct)
}

func TestDiagramCheck_RequiresLabels(t *testing.T) {
	svc := service.NewDiagramService(testLogger())

	_, err := svc.Check(service.CheckRequest{})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}
