package error_handling

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAuthFailureError(t *testing.T) {
	body := []byte("<fault/>")
	authErr := NewAuthFailureError("INVALID_SESSION_ID", "Session expired", 500, body)

	assert.Equal(t, "INVALID_SESSION_ID", authErr.ExceptionCode)
	assert.Equal(t, "Session expired", authErr.ExceptionMessage)
	assert.Equal(t, 500, authErr.StatusCode)
	assert.Equal(t, body, authErr.Body)
	assert.Nil(t, authErr.Unwrap())

	errorString := authErr.Error()
	assert.Contains(t, errorString, "statusCode=500")
	assert.Contains(t, errorString, "exceptionCode=INVALID_SESSION_ID")
	assert.Contains(t, errorString, "exceptionMessage=Session expired")
}

func TestAuthFailureError_As(t *testing.T) {
	cause := errors.New("unparsable fault")
	authErr := NewAuthFailureError("", "", 401, nil)
	authErr.Err = cause

	var wrapped error = authErr
	var target *AuthFailureError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, 401, target.StatusCode)
	assert.ErrorIs(t, wrapped, cause)
}

func TestNewMalformedResponseError(t *testing.T) {
	t.Run("without status code", func(t *testing.T) {
		err := errors.New("xml syntax error")
		malformed := NewMalformedResponseError(err, []byte("<<"))

		assert.Equal(t, err, malformed.Err)
		assert.Equal(t, 0, malformed.StatusCode)
		assert.Equal(t, []byte("<<"), malformed.Body)
	})

	t.Run("with status code", func(t *testing.T) {
		err := errors.New("xml syntax error")
		malformed := NewMalformedResponseError(err, nil, 200)

		assert.Equal(t, 200, malformed.StatusCode)
		assert.Contains(t, malformed.Error(), "statusCode=200")
		assert.Contains(t, malformed.Error(), "xml syntax error")
		assert.ErrorIs(t, malformed, err)
	})
}

func TestNewConvertLeadError(t *testing.T) {
	t.Run("transport error", func(t *testing.T) {
		err := errors.New("connection refused")
		convertErr := NewConvertLeadError(err, -1)

		assert.True(t, convertErr.IsTransportError())
		assert.Contains(t, convertErr.Error(), "statusCode=-1")
		assert.ErrorIs(t, convertErr, err)
	})

	t.Run("build error", func(t *testing.T) {
		convertErr := NewConvertLeadError(errors.New("marshal failed"))

		assert.False(t, convertErr.IsTransportError())
		assert.Equal(t, 0, convertErr.StatusCode)
	})
}
