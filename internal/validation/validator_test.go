package validation

import (
	"errors"
	"testing"

	"feedbackboard/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Text       string  `json:"text" validate:"required"`
	SourceType *string `json:"sourceType" validate:"omitempty,oneof=reddit discord interview slack other"`
	Color      *string `json:"color_code,omitempty" validate:"omitempty,hexcolor"`
}

func strp(s string) *string { return &s }

func TestValidate(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(sample{Text: "hello"}))
	require.NoError(t, v.Validate(sample{Text: "hello", SourceType: strp("reddit"), Color: strp("#6b7280")}))

	err := v.Validate(sample{SourceType: strp("twitter")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["text"])
	assert.Contains(t, details["sourceType"], "must be one of")
}

func TestValidateColor(t *testing.T) {
	err := New().Validate(sample{Text: "x", Color: strp("grey")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "color_code must be a hex color")
}
