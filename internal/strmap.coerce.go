package internal

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CoerceOptions tunes text <-> value conversion
type CoerceOptions struct {
	// Location is used for time layouts that carry no zone. Default: UTC.
	Location *time.Location
}

// ErrUnformattable is returned when a format spec is applied to a value that cannot honor it
var ErrUnformattable = errors.New(ErrMsgUnformattableType)

// ErrUnsupportedFormat is returned when a type supports formatting but not the given spec
var ErrUnsupportedFormat = errors.New(ErrMsgUnsupportedFormat)

// ParseValue converts text into a value of type t, using format when one is declared.
// Any failure, including a panic inside a user type, yields ok == false.
func ParseValue(t reflect.Type, text, format string, opts CoerceOptions) (v reflect.Value, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			v, ok = reflect.Value{}, false
		}
	}()

	if inner, nullable := nullableElem(t); nullable {
		if text == "" {
			return reflect.Zero(t), true
		}
		iv, ok := ParseValue(inner, text, format, opts)
		if !ok {
			return reflect.Value{}, false
		}
		return wrapNullable(t, iv), true
	}

	switch t {
	case typeUUID:
		u, err := uuid.Parse(text)
		if err != nil {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(u), true
	case typeTime:
		tm, err := parseTime(text, format, opts.Location)
		if err != nil {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(tm), true
	case typeDuration:
		d, err := time.ParseDuration(text)
		if err != nil {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(d), true
	}

	ptr := reflect.New(t)
	if format != "" && ptr.Type().Implements(typeFormatParser) {
		if err := ptr.Interface().(FormatParser).ParseFormat(text, format); err != nil {
			return reflect.Value{}, false
		}
		return ptr.Elem(), true
	}
	if ptr.Type().Implements(typeTextUnmarshaler) {
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
			return reflect.Value{}, false
		}
		return ptr.Elem(), true
	}

	if format != "" && isNumericKind(t.Kind()) {
		if scanFormatted(ptr, text, format) {
			return ptr.Elem(), true
		}
	}

	return parseBasic(t, text)
}

// scanFormatted scans text with a fmt verb format. The scanned value must render
// back to text under the same format, which rejects padding and trailing input.
func scanFormatted(ptr reflect.Value, text, format string) bool {
	if _, err := fmt.Sscanf(text, format, ptr.Interface()); err != nil {
		return false
	}
	return strings.EqualFold(fmt.Sprintf(format, ptr.Elem().Interface()), text)
}

// parseBasic applies the default culture-invariant conversions
func parseBasic(t reflect.Type, text string) (reflect.Value, bool) {
	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		out.SetString(text)
	case reflect.Bool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(text, IntBase10, t.Bits())
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(text, IntBase10, t.Bits())
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(text, t.Bits())
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetFloat(f)
	case reflect.Interface:
		if !typeString.Implements(t) {
			return reflect.Value{}, false
		}
		out.Set(reflect.ValueOf(text))
	default:
		return reflect.Value{}, false
	}
	return out, true
}

// wrapNullable places v inside the nullable wrapper type t
func wrapNullable(t reflect.Type, v reflect.Value) reflect.Value {
	if t.Kind() == reflect.Pointer {
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(v)
		return ptr
	}
	out := reflect.New(t).Elem()
	out.FieldByName(sqlNullValue).Set(v)
	out.FieldByName(sqlNullValidity).SetBool(true)
	return out
}

// unwrap follows pointers, interfaces and sql.Null[T] down to a concrete value.
// ok is false when the value is absent.
func unwrap(v reflect.Value) (reflect.Value, bool) {
	for {
		if !v.IsValid() {
			return reflect.Value{}, false
		}
		switch v.Kind() {
		case reflect.Pointer, reflect.Interface:
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
			continue
		case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			if v.IsNil() {
				return reflect.Value{}, false
			}
		}
		if isSQLNull(v.Type()) {
			if !v.FieldByName(sqlNullValidity).Bool() {
				return reflect.Value{}, false
			}
			v = v.FieldByName(sqlNullValue)
			continue
		}
		return v, true
	}
}

// FormatValue renders v as text. present is false when v is absent (nil or an
// empty nullable). A format on a type that cannot honor it returns ErrUnformattable.
func FormatValue(v reflect.Value, format string) (text string, present bool, err error) {
	v, present = unwrap(v)
	if !present {
		return "", false, nil
	}

	if format != "" {
		text, err = formatWithSpec(v, format)
		if err != nil {
			return "", true, err
		}
		return text, true, nil
	}

	return formatDefault(v), true, nil
}

func formatWithSpec(v reflect.Value, format string) (string, error) {
	t := v.Type()
	switch t {
	case typeTime:
		return formatTime(v.Interface().(time.Time), format), nil
	case typeUUID:
		return formatUUID(v.Interface().(uuid.UUID), format)
	}

	if f, ok := asInterface(v, typeFormattable); ok {
		return f.(Formattable).FormatString(format)
	}

	if isNumericKind(t.Kind()) {
		if !strings.ContainsRune(format, CharPercent) {
			return "", fmt.Errorf("%w: %s %q", ErrUnsupportedFormat, t, format)
		}
		return fmt.Sprintf(format, v.Interface()), nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnformattable, t)
}

func formatDefault(v reflect.Value) string {
	switch v.Type() {
	case typeUUID:
		return formatCompactUUID(v.Interface().(uuid.UUID))
	case typeTime:
		return formatTime(v.Interface().(time.Time), "")
	case typeDuration:
		return v.Interface().(time.Duration).String()
	}

	if m, ok := asInterface(v, typeTextMarshaler); ok {
		if b, err := m.(encoding.TextMarshaler).MarshalText(); err == nil {
			return string(b)
		}
	}
	if s, ok := asInterface(v, typeStringer); ok {
		return s.(fmt.Stringer).String()
	}

	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), IntBase10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), IntBase10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), FloatFormatFlag, FloatPrecisionAll, BitSize32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), FloatFormatFlag, FloatPrecisionAll, BitSize64)
	default:
		return fmt.Sprint(v.Interface())
	}
}

// asInterface returns v (or a pointer to a copy of v) as the interface type iface
func asInterface(v reflect.Value, iface reflect.Type) (any, bool) {
	if v.Type().Implements(iface) {
		return v.Interface(), true
	}
	if reflect.PointerTo(v.Type()).Implements(iface) {
		ptr := reflect.New(v.Type())
		ptr.Elem().Set(v)
		return ptr.Interface(), true
	}
	return nil, false
}

// formatUUID renders u under one of the N, D, B, P or URN specs
func formatUUID(u uuid.UUID, format string) (string, error) {
	switch strings.ToUpper(format) {
	case UUIDFormatCompact:
		return formatCompactUUID(u), nil
	case UUIDFormatDashed:
		return u.String(), nil
	case UUIDFormatBraces:
		return "{" + u.String() + "}", nil
	case UUIDFormatParens:
		return "(" + u.String() + ")", nil
	case UUIDFormatURN:
		return u.URN(), nil
	default:
		return "", fmt.Errorf("%w: uuid %q", ErrUnsupportedFormat, format)
	}
}

// formatCompactUUID renders the 32 hex digit form without separators
func formatCompactUUID(u uuid.UUID) string {
	return strings.ReplaceAll(u.String(), "-", "")
}
