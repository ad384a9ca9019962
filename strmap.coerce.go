package strmap

import (
	"reflect"

	"github.com/itsatony/go-strmap/internal"
)

// Formattable is implemented by value types that render themselves under a
// placeholder format, as in {amount:cents}.
type Formattable = internal.Formattable

// FormatParser is implemented, usually on a pointer receiver, by value types
// that parse themselves from captured text under a placeholder format.
type FormatParser = internal.FormatParser

// ParseText converts text to a value of type t the same way a captured
// placeholder is parsed. ok is false on any failure.
func ParseText(t reflect.Type, text, format string) (value any, ok bool) {
	v, ok := internal.ParseValue(t, text, format, internal.CoerceOptions{})
	if !ok {
		return nil, false
	}
	return v.Interface(), true
}

// FormatText renders value the same way a placeholder is rendered. present is
// false when value is absent (nil or an empty nullable).
func FormatText(value any, format string) (text string, present bool, err error) {
	return internal.FormatValue(reflect.ValueOf(value), format)
}

// CanFormat reports whether values of type t can honor a placeholder format.
func CanFormat(t reflect.Type) bool {
	return internal.CanFormat(t)
}
