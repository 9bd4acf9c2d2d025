package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/episodeo/episodeo-server/internal/errors"
)

type statusInput struct {
	Status string `json:"status" validate:"required,watchstatus"`
	Rating int    `json:"rating" validate:"omitempty,gte=1,lte=10"`
}

type codeInput struct {
	Code string `json:"code" validate:"required,sharecode"`
}

func TestValidateWatchStatus(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(statusInput{Status: "watching"}))

	err := v.Validate(statusInput{Status: "binging"})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
	assert.Contains(t, err.Error(), "status")
}

func TestValidateNoneIsNotPersistable(t *testing.T) {
	v := New()
	// "none" is a deletion marker, never a stored status value.
	assert.Error(t, v.Validate(statusInput{Status: "none"}))
}

func TestValidateRatingRange(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(statusInput{Status: "completed", Rating: 10}))
	assert.Error(t, v.Validate(statusInput{Status: "completed", Rating: 11}))
	assert.Error(t, v.Validate(statusInput{Status: "completed", Rating: -2}))
}

func TestValidateShareCode(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(codeInput{Code: "A1B2C3"}))
	assert.Error(t, v.Validate(codeInput{Code: "a1b2c3"}))
	assert.Error(t, v.Validate(codeInput{Code: "ABC"}))
	assert.Error(t, v.Validate(codeInput{Code: ""}))
}
