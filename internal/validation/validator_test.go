package validation_test

import (
	"net/http"
	"strings"
	"testing"

	domainerrors "github.com/nihilcoder/promptlab/internal/errors"
	"github.com/nihilcoder/promptlab/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemRequest struct {
	ItemID   string `json:"itemId" validate:"notblank"`
	ItemType string `json:"itemType" validate:"oneof=prompt artwork"`
}

type testRequest struct {
	Title string        `json:"title" validate:"notblank,max=200"`
	Text  string        `json:"text" validate:"notblank"`
	Tags  []string      `json:"tags,omitempty" validate:"max=3,dive,max=10"`
	Items []itemRequest `json:"items" validate:"dive"`
}

func validDetails(t *testing.T, err error) map[string]string {
	t.Helper()
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())
	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok, "details should be a field map")
	return details
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(testRequest{
		Title: "Castle",
		Text:  "a castle at dusk",
		Tags:  []string{"fantasy"},
		Items: []itemRequest{{ItemID: "art-1", ItemType: "artwork"}},
	})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       testRequest
		wantField string
		wantMsg   string
	}{
		{
			name:      "blank title",
			req:       testRequest{Title: "   ", Text: "x"},
			wantField: "title",
			wantMsg:   "is required",
		},
		{
			name:      "missing text",
			req:       testRequest{Title: "x"},
			wantField: "text",
			wantMsg:   "is required",
		},
		{
			name:      "title too long",
			req:       testRequest{Title: strings.Repeat("a", 201), Text: "x"},
			wantField: "title",
			wantMsg:   "must not exceed 200 characters",
		},
		{
			name:      "too many tags",
			req:       testRequest{Title: "x", Text: "x", Tags: []string{"a", "b", "c", "d"}},
			wantField: "tags",
			wantMsg:   "must not contain more than 3 items",
		},
		{
			name:      "nested item type",
			req:       testRequest{Title: "x", Text: "x", Items: []itemRequest{{ItemID: "a", ItemType: "video"}}},
			wantField: "items[0].itemType",
			wantMsg:   "must be one of: prompt artwork",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)

			details := validDetails(t, err)
			assert.Equal(t, tt.wantMsg, details[tt.wantField], "details: %v", details)
		})
	}
}

func TestValidator_MultipleErrors(t *testing.T) {
	v := validation.New()

	details := validDetails(t, v.Validate(testRequest{}))
	assert.Contains(t, details, "title")
	assert.Contains(t, details, "text")
}

func TestValidator_Var(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Var("limit", 10, "gte=0,lte=100"))

	details := validDetails(t, v.Var("limit", 500, "gte=0,lte=100"))
	assert.Equal(t, "must be less than or equal to 100", details["limit"])
}
