package seesaw

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKind_Ordering(t *testing.T) {
	// kinds sort deterministically: write-read < write < read
	assert.Less(t, uint8(WriteReadError), uint8(WriteError))
	assert.Less(t, uint8(WriteError), uint8(ReadError))
}

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		expected string
	}{
		{WriteReadError, "write-read"},
		{WriteError, "write"},
		{ReadError, "read"},
		{ErrorKind(42), "unknown(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestError_Message(t *testing.T) {
	withCause := &Error{Kind: ReadError, Cause: fmt.Errorf("bus timeout")}
	assert.Equal(t, "seesaw: bus read failed: bus timeout", withCause.Error())

	withoutCause := &Error{Kind: WriteError}
	assert.Equal(t, "seesaw: bus write failed", withoutCause.Error())
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("bus timeout")
	err := &Error{Kind: WriteError, Cause: cause}
	assert.ErrorIs(t, err, cause)

	// sentinels carry no cause
	assert.Nil(t, ErrWrite.Unwrap())
}

func TestError_IsSelectsByKind(t *testing.T) {
	cause := fmt.Errorf("bus timeout")

	writeErr := error(&Error{Kind: WriteError, Cause: cause})
	assert.ErrorIs(t, writeErr, ErrWrite)
	assert.NotErrorIs(t, writeErr, ErrRead)
	assert.NotErrorIs(t, writeErr, ErrWriteRead)

	readErr := error(&Error{Kind: ReadError, Cause: cause})
	assert.ErrorIs(t, readErr, ErrRead)
	assert.NotErrorIs(t, readErr, ErrWrite)

	// wrapped errors still match their kind sentinel
	wrapped := fmt.Errorf("reading soil sensor: %w", readErr)
	assert.ErrorIs(t, wrapped, ErrRead)

	var target *Error
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, ReadError, target.Kind)
}
