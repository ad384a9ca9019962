package strmap

import (
	"errors"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsatony/go-strmap/internal"
)

func metadata(t *testing.T, err error, key string) string {
	t.Helper()
	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr))
	value, _ := customErr.GetMetadata(key)
	return value
}

func TestNewTemplateSyntaxError(t *testing.T) {
	t.Run("with position", func(t *testing.T) {
		cause := &internal.SyntaxError{
			Message:  internal.ErrMsgEmptyPlaceholderName,
			Position: internal.Position{Offset: 4, Line: 2, Column: 3},
		}
		err := NewTemplateSyntaxError("a\n {}", cause)

		assert.Contains(t, err.Error(), ErrMsgTemplateSyntax)
		assert.True(t, IsConfigError(err))
		assert.True(t, errors.Is(err, cause))
		assert.Equal(t, "2", metadata(t, err, MetaKeyLine))
		assert.Equal(t, "3", metadata(t, err, MetaKeyColumn))
		assert.Equal(t, "4", metadata(t, err, MetaKeyOffset))
		assert.Equal(t, internal.ErrMsgEmptyPlaceholderName, metadata(t, err, MetaKeyReason))
		assert.Equal(t, "a\n {}", metadata(t, err, MetaKeyTemplate))
	})

	t.Run("plain cause", func(t *testing.T) {
		cause := errors.New("other")
		err := NewTemplateSyntaxError("x", cause)
		assert.True(t, errors.Is(err, cause))
		assert.Equal(t, "", metadata(t, err, MetaKeyLine))
	})
}

func TestConfigErrors(t *testing.T) {
	cause := errors.New("cause")

	tests := []struct {
		name    string
		err     error
		message string
	}{
		{name: "unknown field", err: NewUnknownFieldError("a", "T"), message: ErrMsgUnknownField},
		{name: "unformattable", err: NewUnformattableError("a", "string", "N", nil), message: ErrMsgUnformattable},
		{name: "unformattable with cause", err: NewUnformattableError("a", "int", "N", cause), message: ErrMsgUnformattable},
		{name: "pattern compile", err: NewPatternCompileError("x", cause), message: ErrMsgPatternCompile},
		{name: "invalid descriptor", err: NewInvalidDescriptorError("T", "reason"), message: ErrMsgInvalidDescriptor},
		{name: "unknown field type", err: NewUnknownFieldTypeError("a", "decimal", cause), message: ErrMsgUnknownFieldType},
		{name: "field assignment", err: NewFieldAssignmentError("a", "int"), message: ErrMsgFieldAssignment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.err)
			assert.Contains(t, tt.err.Error(), tt.message)
			assert.True(t, IsConfigError(tt.err))
			assert.False(t, IsMissingValueError(tt.err))
		})
	}
}

func TestNewMissingValueError(t *testing.T) {
	err := NewMissingValueError("B", "segments")

	assert.Contains(t, err.Error(), ErrMsgMissingValue)
	assert.True(t, IsMissingValueError(err))
	assert.False(t, IsConfigError(err))

	placeholder, ok := ErrorPlaceholder(err)
	assert.True(t, ok)
	assert.Equal(t, "B", placeholder)
	assert.Equal(t, "segments", metadata(t, err, MetaKeyType))
}

func TestNewConstructorError(t *testing.T) {
	cause := errors.New("must be positive")
	err := NewConstructorError("positive", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), ErrMsgConstructorFailed)
	assert.False(t, IsConfigError(err))
}

func TestErrorHelpers_ForeignErrors(t *testing.T) {
	plain := errors.New("plain")

	assert.False(t, IsConfigError(plain))
	assert.False(t, IsMissingValueError(plain))
	assert.False(t, IsConfigError(nil))

	_, ok := ErrorPlaceholder(plain)
	assert.False(t, ok)
}
