package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	err := NewAppError("CONFIG_ERROR", "STORE_PATH is required", ErrInvalidInput)
	assert.Equal(t, "CONFIG_ERROR: STORE_PATH is required: invalid input", err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)

	bare := NewAppError("CORRECTION_ERROR", "record not in batch", nil)
	assert.Equal(t, "CORRECTION_ERROR: record not in batch", bare.Error())
}

func TestWrapError(t *testing.T) {
	base := errors.New("disk full")
	wrapped := WrapError(base, "persist batch")
	assert.EqualError(t, wrapped, "persist batch: disk full")
	assert.ErrorIs(t, wrapped, base)

	assert.NoError(t, WrapError(nil, "persist batch"))
}
