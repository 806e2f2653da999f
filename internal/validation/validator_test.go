package validation_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/nikoapp/niko-server/internal/errors"
	"github.com/nikoapp/niko-server/internal/validation"
)

type createNoteRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"max=50000"`
	Color   string `json:"color" validate:"omitempty,oneof=yellow blue green pink"`
}

func TestValidate_Passes(t *testing.T) {
	v := validation.New()
	require.NoError(t, v.Validate(createNoteRequest{Title: "groceries", Color: "blue"}))
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	v := validation.New()

	err := v.Validate(createNoteRequest{Color: "mauve"})
	require.Error(t, err)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	var domainErr *apperrors.Error
	require.ErrorAs(t, err, &domainErr)

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	require.Equal(t, "is required", details["title"], "json tag names in messages")
	require.Contains(t, details["color"], "must be one of")
}
