package strmap

import (
	"errors"
	"strconv"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-strmap/internal"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Configuration errors
	ErrMsgTemplateSyntax     = "invalid template syntax"
	ErrMsgUnknownField       = "placeholder does not name a field of the target type"
	ErrMsgUnformattable      = "placeholder has a format but its value cannot be formatted"
	ErrMsgPatternCompile     = "match pattern compilation failed"
	ErrMsgInvalidDescriptor  = "invalid entity descriptor"
	ErrMsgUnknownFieldType   = "unknown field type"
	ErrMsgFieldAssignment    = "value cannot be assigned to field"
	ErrMsgConstructorFailed  = "entity constructor failed"
	ErrMsgNilDescriptor      = "descriptor is nil"
	ErrMsgDuplicateFieldName = "duplicate field name in descriptor"

	// Mapping errors
	ErrMsgMissingValue = "a required value was missing while mapping to a string"
)

// NewTemplateSyntaxError creates a configuration error for malformed placeholder syntax
func NewTemplateSyntaxError(template string, cause error) error {
	err := cuserr.WrapStdError(cause, ErrCodeConfig, ErrMsgTemplateSyntax).
		WithMetadata(MetaKeyKind, ErrKindConfig).
		WithMetadata(MetaKeyTemplate, template)

	var syntaxErr *internal.SyntaxError
	if errors.As(cause, &syntaxErr) {
		err = err.
			WithMetadata(MetaKeyLine, strconv.Itoa(syntaxErr.Position.Line)).
			WithMetadata(MetaKeyColumn, strconv.Itoa(syntaxErr.Position.Column)).
			WithMetadata(MetaKeyOffset, strconv.Itoa(syntaxErr.Position.Offset)).
			WithMetadata(MetaKeyReason, syntaxErr.Message)
	}
	return err
}

// NewUnknownFieldError creates a configuration error for a placeholder without a matching field
func NewUnknownFieldError(placeholder, typeName string) error {
	return cuserr.NewValidationError(ErrCodeConfig, ErrMsgUnknownField).
		WithMetadata(MetaKeyKind, ErrKindConfig).
		WithMetadata(MetaKeyPlaceholder, placeholder).
		WithMetadata(MetaKeyType, typeName)
}

// NewUnformattableError creates a configuration error for a format applied to a type that cannot honor it
func NewUnformattableError(placeholder, typeName, format string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeConfig, ErrMsgUnformattable)
	} else {
		err = cuserr.NewValidationError(ErrCodeConfig, ErrMsgUnformattable)
	}
	return err.
		WithMetadata(MetaKeyKind, ErrKindConfig).
		WithMetadata(MetaKeyPlaceholder, placeholder).
		WithMetadata(MetaKeyType, typeName).
		WithMetadata(MetaKeyFormat, format)
}

// NewPatternCompileError wraps a failure to compile the match pattern
func NewPatternCompileError(template string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeConfig, ErrMsgPatternCompile).
		WithMetadata(MetaKeyKind, ErrKindConfig).
		WithMetadata(MetaKeyTemplate, template)
}

// NewInvalidDescriptorError creates a configuration error for an unusable descriptor
func NewInvalidDescriptorError(typeName, reason string) error {
	return cuserr.NewValidationError(ErrCodeConfig, ErrMsgInvalidDescriptor).
		WithMetadata(MetaKeyKind, ErrKindConfig).
		WithMetadata(MetaKeyType, typeName).
		WithMetadata(MetaKeyReason, reason)
}

// NewUnknownFieldTypeError creates a configuration error for an unrecognized field type name
func NewUnknownFieldTypeError(field, typeName string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeConfig, ErrMsgUnknownFieldType).
		WithMetadata(MetaKeyKind, ErrKindConfig).
		WithMetadata(MetaKeyField, field).
		WithMetadata(MetaKeyType, typeName)
}

// NewFieldAssignmentError creates an error for a builder that cannot accept a value
func NewFieldAssignmentError(field, typeName string) error {
	return cuserr.NewValidationError(ErrCodeConfig, ErrMsgFieldAssignment).
		WithMetadata(MetaKeyKind, ErrKindConfig).
		WithMetadata(MetaKeyField, field).
		WithMetadata(MetaKeyType, typeName)
}

// NewConstructorError wraps an error returned by an entity constructor
func NewConstructorError(typeName string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeConfig, ErrMsgConstructorFailed).
		WithMetadata(MetaKeyType, typeName)
}

// NewMissingValueError creates the error returned when a required placeholder value is absent
func NewMissingValueError(placeholder, typeName string) error {
	return cuserr.NewValidationError(ErrCodeMissing, ErrMsgMissingValue).
		WithMetadata(MetaKeyKind, ErrKindMissingValue).
		WithMetadata(MetaKeyPlaceholder, placeholder).
		WithMetadata(MetaKeyType, typeName)
}

// IsConfigError reports whether err is a configuration error
func IsConfigError(err error) bool {
	return errorKind(err) == ErrKindConfig
}

// IsMissingValueError reports whether err is a missing-value error
func IsMissingValueError(err error) bool {
	return errorKind(err) == ErrKindMissingValue
}

// ErrorPlaceholder returns the placeholder name attached to a mapping error
func ErrorPlaceholder(err error) (string, bool) {
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return "", false
	}
	return customErr.GetMetadata(MetaKeyPlaceholder)
}

func errorKind(err error) string {
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return ""
	}
	kind, _ := customErr.GetMetadata(MetaKeyKind)
	return kind
}
