package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/nihilcoder/promptlab/internal/errors"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code domainerrors.Code
		want int
	}{
		{domainerrors.CodeNotFound, http.StatusNotFound},
		{domainerrors.CodeValidation, http.StatusBadRequest},
		{domainerrors.CodeUnauthorized, http.StatusUnauthorized},
		{domainerrors.CodeForbidden, http.StatusForbidden},
		{domainerrors.CodeConflict, http.StatusConflict},
		{domainerrors.CodeRateLimited, http.StatusTooManyRequests},
		{domainerrors.CodeInternal, http.StatusInternalServerError},
		{domainerrors.Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_IsMatchesCode(t *testing.T) {
	err := domainerrors.NotFoundf("prompt %s not found", "prm-1")

	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.NotErrorIs(t, err, domainerrors.ErrValidation)

	wrapped := fmt.Errorf("get prompt: %w", err)
	assert.ErrorIs(t, wrapped, domainerrors.ErrNotFound)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, wrapped, &domainErr)
	assert.Equal(t, "prompt prm-1 not found", domainErr.Message)
	assert.Equal(t, http.StatusNotFound, domainErr.HTTPStatus())
}

func TestError_WrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := domainerrors.Wrap(cause, domainerrors.CodeInternal, "save prompt")

	assert.Equal(t, "save prompt: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, domainerrors.ErrInternal)

	err = domainerrors.Wrapf(cause, domainerrors.CodeConflict, "prompt %d", 7)
	assert.Equal(t, "prompt 7: disk full", err.Error())
}

func TestError_WithDetailsCopies(t *testing.T) {
	base := domainerrors.Validation("invalid pagination")
	detailed := base.WithDetails(map[string]string{"limit": "must not be negative"})

	assert.Nil(t, base.Details)
	assert.Equal(t, map[string]string{"limit": "must not be negative"}, detailed.Details)
	assert.Equal(t, base.Code, detailed.Code)

	caused := detailed.WithCause(fmt.Errorf("boom"))
	assert.Equal(t, detailed.Details, caused.Details)
	assert.Equal(t, "invalid pagination: boom", caused.Error())
}
