package store_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/nihilcoder/promptlab/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	err := &store.Error{Code: http.StatusNotFound, Message: "not found"}

	assert.Equal(t, "not found", err.Error())
}

func TestError_ErrorWithCause(t *testing.T) {
	cause := errors.New("disk full")
	err := store.ErrInvalidInput.WithCause(cause)

	assert.Contains(t, err.Error(), "invalid input")
	assert.Contains(t, err.Error(), "disk full")
	assert.ErrorIs(t, err, cause)
}

func TestError_HTTPCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, store.ErrNotFound.HTTPCode())
	assert.Equal(t, http.StatusConflict, store.ErrAlreadyExists.HTTPCode())
	assert.Equal(t, http.StatusBadRequest, store.ErrInvalidInput.HTTPCode())
}

func TestError_IsMatchesDerivedCopies(t *testing.T) {
	custom := store.ErrNotFound.WithMessage("prompt not found")
	wrapped := fmt.Errorf("update: %w", custom)

	assert.ErrorIs(t, wrapped, store.ErrNotFound)
	assert.False(t, errors.Is(wrapped, store.ErrAlreadyExists))
	assert.Equal(t, "prompt not found", custom.Error())
}
