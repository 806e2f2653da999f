package errors_test

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nikoapp/niko-server/internal/errors"
)

func TestError_Is_MatchesByCode(t *testing.T) {
	err := errors.NotFound("note xyz not found")
	require.ErrorIs(t, err, errors.ErrNotFound)
	require.NotErrorIs(t, err, errors.ErrValidation)
}

func TestError_WrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := errors.Wrap(cause, errors.CodeUnavailable, "insert failed")

	require.ErrorIs(t, err, errors.ErrUnavailable)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "connection refused")
}

func TestCode_HTTPStatus(t *testing.T) {
	require.Equal(t, http.StatusNotFound, errors.CodeNotFound.HTTPStatus())
	require.Equal(t, http.StatusBadRequest, errors.CodeValidation.HTTPStatus())
	require.Equal(t, http.StatusServiceUnavailable, errors.CodeUnavailable.HTTPStatus())
	require.Equal(t, http.StatusConflict, errors.CodeConflict.HTTPStatus())
	require.Equal(t, http.StatusInternalServerError, errors.CodeInternal.HTTPStatus())
}

func TestError_WithDetails(t *testing.T) {
	err := errors.ValidationWithDetails("validation failed", map[string]string{"title": "is required"})

	var de *errors.Error
	require.ErrorAs(t, err, &de)
	require.Equal(t, errors.CodeValidation, de.Code)
	require.NotNil(t, de.Details)
}
