package internal

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Formattable is implemented by values that render themselves under a format spec.
type Formattable interface {
	FormatString(format string) (string, error)
}

// FormatParser is implemented (usually on a pointer receiver) by values that
// parse themselves from text under a format spec.
type FormatParser interface {
	ParseFormat(text, format string) error
}

var (
	typeTime            = reflect.TypeOf(time.Time{})
	typeDuration        = reflect.TypeOf(time.Duration(0))
	typeUUID            = reflect.TypeOf(uuid.UUID{})
	typeString          = reflect.TypeOf("")
	typeFormattable     = reflect.TypeOf((*Formattable)(nil)).Elem()
	typeFormatParser    = reflect.TypeOf((*FormatParser)(nil)).Elem()
	typeTextMarshaler   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	typeTextUnmarshaler = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	typeStringer        = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
)

// sqlPackagePath and sqlNullPrefix identify sql.Null[T] instantiations
const (
	sqlPackagePath  = "database/sql"
	sqlNullPrefix   = "Null["
	sqlNullValue    = "V"
	sqlNullValidity = "Valid"
)

var fieldTypes = map[string]reflect.Type{
	TypeNameString:   typeString,
	TypeNameInt:      reflect.TypeOf(int(0)),
	TypeNameInt32:    reflect.TypeOf(int32(0)),
	TypeNameInt64:    reflect.TypeOf(int64(0)),
	TypeNameUint:     reflect.TypeOf(uint(0)),
	TypeNameUint64:   reflect.TypeOf(uint64(0)),
	TypeNameFloat32:  reflect.TypeOf(float32(0)),
	TypeNameFloat64:  reflect.TypeOf(float64(0)),
	TypeNameBool:     reflect.TypeOf(false),
	TypeNameUUID:     typeUUID,
	TypeNameTime:     typeTime,
	TypeNameDuration: typeDuration,
}

// ParseFieldType resolves a field type name such as "uuid" or "*int".
// An empty name resolves to string.
func ParseFieldType(name string) (reflect.Type, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return typeString, nil
	}
	nullable := strings.HasPrefix(name, TypeNameNullablePrefix)
	base := strings.ToLower(strings.TrimPrefix(name, TypeNameNullablePrefix))

	t, ok := fieldTypes[base]
	if !ok {
		return nil, fmt.Errorf("%s: %q", ErrMsgUnknownFieldType, name)
	}
	if nullable {
		return reflect.PointerTo(t), nil
	}
	return t, nil
}

// FieldTypeNames returns the accepted base type names
func FieldTypeNames() []string {
	return []string{
		TypeNameString, TypeNameInt, TypeNameInt32, TypeNameInt64,
		TypeNameUint, TypeNameUint64, TypeNameFloat32, TypeNameFloat64,
		TypeNameBool, TypeNameUUID, TypeNameTime, TypeNameDuration,
	}
}

// nullableElem reports whether t is a nullable wrapper and returns the wrapped type.
// Pointers and sql.Null[T] are nullable.
func nullableElem(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() == reflect.Pointer {
		return t.Elem(), true
	}
	if isSQLNull(t) {
		f, _ := t.FieldByName(sqlNullValue)
		return f.Type, true
	}
	return nil, false
}

func isSQLNull(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || t.PkgPath() != sqlPackagePath || !strings.HasPrefix(t.Name(), sqlNullPrefix) {
		return false
	}
	_, hasValue := t.FieldByName(sqlNullValue)
	valid, hasValid := t.FieldByName(sqlNullValidity)
	return hasValue && hasValid && valid.Type.Kind() == reflect.Bool
}

// IsScalar reports whether t is mapped as a single value rather than a set of fields.
func IsScalar(t reflect.Type) bool {
	if inner, ok := nullableElem(t); ok {
		return IsScalar(inner)
	}
	switch t {
	case typeTime, typeUUID, typeDuration:
		return true
	}
	if t.Kind() != reflect.Struct {
		return true
	}
	return t.Implements(typeTextUnmarshaler) || reflect.PointerTo(t).Implements(typeTextUnmarshaler) ||
		t.Implements(typeFormattable) || reflect.PointerTo(t).Implements(typeFormattable)
}

// CanFormat reports whether values of type t can honor a format spec.
// Interface types are checked at render time instead and report true.
func CanFormat(t reflect.Type) bool {
	if inner, ok := nullableElem(t); ok {
		return CanFormat(inner)
	}
	if t.Kind() == reflect.Interface {
		return true
	}
	switch t {
	case typeTime, typeUUID:
		return true
	}
	if t.Implements(typeFormattable) || reflect.PointerTo(t).Implements(typeFormattable) {
		return true
	}
	return isNumericKind(t.Kind())
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
