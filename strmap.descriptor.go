package strmap

import (
	"reflect"
)

// Field describes one named field of an entity type.
// Get reads the field off an entity; ok is false when the entity itself is absent.
type Field[T any] struct {
	Name string
	Type reflect.Type
	Get  func(entity T) (value any, ok bool)
}

// Builder accumulates named field values and finalizes them into an entity.
// Whether the entity is filled field by field or handed to a constructor is
// up to the Descriptor that created the builder.
type Builder[T any] interface {
	Set(name string, value any) error
	Build() (T, error)
}

// Descriptor exposes the fields of an entity type and a way to construct it.
// Implementations must be safe for concurrent use.
type Descriptor[T any] interface {
	Fields() []Field[T]
	NewBuilder() Builder[T]
}

// Describable is implemented by entity types that supply their own descriptor.
type Describable[T any] interface {
	Describe() Descriptor[T]
}

// DescriptorFor resolves the default descriptor for T:
//   - T (or *T) implements Describable[T]
//   - T is a struct or pointer to struct with fields: StructDescriptor
//   - otherwise T is a single value with no fields
func DescriptorFor[T any]() (Descriptor[T], error) {
	var zero T
	if d, ok := any(zero).(Describable[T]); ok {
		return d.Describe(), nil
	}
	if d, ok := any(new(T)).(Describable[T]); ok {
		return d.Describe(), nil
	}

	t := typeOf[T]()
	if !isScalarType(t) {
		return StructDescriptor[T]()
	}
	return scalarDescriptor[T]{}, nil
}

// scalarDescriptor describes single-value types such as uuid.UUID or time.Time
type scalarDescriptor[T any] struct{}

func (scalarDescriptor[T]) Fields() []Field[T] { return nil }

func (scalarDescriptor[T]) NewBuilder() Builder[T] { return scalarBuilder[T]{} }

type scalarBuilder[T any] struct{}

func (scalarBuilder[T]) Set(name string, _ any) error {
	return NewFieldAssignmentError(name, typeName[T]())
}

func (scalarBuilder[T]) Build() (T, error) {
	var zero T
	return zero, nil
}

// assignValue stores value into dst, converting between compatible types
func assignValue(dst reflect.Value, value any) bool {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		dst.Set(reflect.Zero(dst.Type()))
		return true
	}
	switch {
	case rv.Type().AssignableTo(dst.Type()):
		dst.Set(rv)
	case rv.Type().ConvertibleTo(dst.Type()) && rv.Kind() == dst.Kind():
		dst.Set(rv.Convert(dst.Type()))
	default:
		return false
	}
	return true
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func typeName[T any]() string {
	return typeOf[T]().String()
}
