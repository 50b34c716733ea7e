package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireKind asserts err is a domain error of kind with the given message.
func requireKind(t *testing.T, err error, kind error, message string) *Error {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, kind)
	var se *Error
	require.True(t, errors.As(err, &se), "not a domain error: %v", err)
	if message != "" {
		assert.Equal(t, message, se.Message)
	}
	return se
}
