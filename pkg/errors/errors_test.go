package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_MatchesInvalidInput(t *testing.T) {
	err := InvalidInputError("blocks", "must be an array")

	assert.True(t, Is(err, ErrInvalidInput))
	assert.False(t, Is(err, ErrNotFound))
	assert.Equal(t, "blocks: must be an array: invalid input", err.Error())

	var ve *ValidationError
	assert.True(t, As(err, &ve))
	assert.Equal(t, "blocks", ve.Field)
}

func TestStorageError_KeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := StorageError("read content/homepage", cause)

	assert.True(t, Is(err, ErrStorageUnavailable))
	assert.True(t, Is(err, cause))
}

func TestNotFoundAndConflict(t *testing.T) {
	assert.True(t, Is(NotFoundError("page about"), ErrNotFound))
	assert.True(t, Is(ConflictError("version 3 is stale"), ErrConflict))
	assert.EqualError(t, NotFoundError("slot seo"), "slot seo not found")
}
