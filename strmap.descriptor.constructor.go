package strmap

import (
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"
)

var typeError = reflect.TypeOf((*error)(nil)).Elem()

// constructorDescriptor binds immutable entities that are created through an
// all-arguments constructor function.
type constructorDescriptor[T any] struct {
	ctor   reflect.Value
	params []string
	types  []reflect.Type
	index  map[string]int
	fields []Field[T]
}

// ConstructorDescriptor returns a descriptor for entities built by ctor, a function
// whose parameters correspond, in order, to params and which returns T or (T, error).
//
// Field values are read from the entity through a method named like the parameter
// (either exactly or with the first letter upper-cased) or an exported struct field.
//
//	type Point struct{ x, y int }
//	func NewPoint(x, y int) Point { return Point{x, y} }
//	func (p Point) X() int { return p.x }
//	func (p Point) Y() int { return p.y }
//
//	desc, _ := strmap.ConstructorDescriptor[Point](NewPoint, "X", "Y")
func ConstructorDescriptor[T any](ctor any, params ...string) (Descriptor[T], error) {
	entityType := typeOf[T]()
	cv := reflect.ValueOf(ctor)
	if !cv.IsValid() || cv.Kind() != reflect.Func {
		return nil, NewInvalidDescriptorError(entityType.String(), "constructor is not a function")
	}
	ct := cv.Type()
	if ct.IsVariadic() || ct.NumIn() != len(params) {
		return nil, NewInvalidDescriptorError(entityType.String(),
			fmt.Sprintf("constructor takes %d arguments, %d parameter names given", ct.NumIn(), len(params)))
	}
	switch {
	case ct.NumOut() == 1 && ct.Out(0) == entityType:
	case ct.NumOut() == 2 && ct.Out(0) == entityType && ct.Out(1) == typeError:
	default:
		return nil, NewInvalidDescriptorError(entityType.String(), "constructor must return the entity type, optionally with an error")
	}

	d := &constructorDescriptor[T]{
		ctor:   cv,
		params: params,
		types:  make([]reflect.Type, len(params)),
		index:  make(map[string]int, len(params)),
	}
	for i, name := range params {
		if name == "" || name == KeywordThis {
			return nil, NewInvalidDescriptorError(entityType.String(), "invalid parameter name "+fmt.Sprintf("%q", name))
		}
		if _, dup := d.index[name]; dup {
			return nil, NewInvalidDescriptorError(entityType.String(), ErrMsgDuplicateFieldName+": "+name)
		}
		d.index[name] = i
		d.types[i] = ct.In(i)

		get, err := accessorFor[T](entityType, name, ct.In(i))
		if err != nil {
			return nil, err
		}
		d.fields = append(d.fields, Field[T]{Name: name, Type: ct.In(i), Get: get})
	}
	return d, nil
}

// accessorFor finds a zero-argument method or an exported field that reads name off T
func accessorFor[T any](entityType reflect.Type, name string, want reflect.Type) (func(T) (any, bool), error) {
	candidates := []string{name}
	if upper := upperFirst(name); upper != name {
		candidates = append(candidates, upper)
	}

	for _, candidate := range candidates {
		if m, ok := entityType.MethodByName(candidate); ok &&
			m.Type.NumIn() == 1 && m.Type.NumOut() == 1 && m.Type.Out(0).AssignableTo(want) {
			index := m.Index
			return func(entity T) (any, bool) {
				rv := reflect.ValueOf(&entity).Elem()
				if rv.Kind() == reflect.Pointer && rv.IsNil() {
					return nil, false
				}
				return rv.Method(index).Call(nil)[0].Interface(), true
			}, nil
		}
	}

	structType := entityType
	isPointer := structType.Kind() == reflect.Pointer
	if isPointer {
		structType = structType.Elem()
	}
	if structType.Kind() == reflect.Struct {
		for _, candidate := range candidates {
			if f, ok := structType.FieldByName(candidate); ok && f.IsExported() && len(f.Index) == 1 {
				index := f.Index[0]
				return func(entity T) (any, bool) {
					rv := reflect.ValueOf(&entity).Elem()
					if isPointer {
						if rv.IsNil() {
							return nil, false
						}
						rv = rv.Elem()
					}
					return rv.Field(index).Interface(), true
				}, nil
			}
		}
	}

	return nil, NewInvalidDescriptorError(entityType.String(), "no accessor method or exported field for "+name)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Fields returns the constructor parameters as fields, in parameter order
func (d *constructorDescriptor[T]) Fields() []Field[T] {
	return d.fields
}

// NewBuilder returns a builder that collects constructor arguments
func (d *constructorDescriptor[T]) NewBuilder() Builder[T] {
	args := make([]reflect.Value, len(d.types))
	for i, t := range d.types {
		args[i] = reflect.New(t).Elem()
	}
	return &constructorBuilder[T]{descriptor: d, args: args}
}

type constructorBuilder[T any] struct {
	descriptor *constructorDescriptor[T]
	args       []reflect.Value
}

func (b *constructorBuilder[T]) Set(name string, value any) error {
	i, ok := b.descriptor.index[name]
	if !ok {
		return NewUnknownFieldError(name, typeName[T]())
	}
	if !assignValue(b.args[i], value) {
		return NewFieldAssignmentError(name, b.descriptor.types[i].String())
	}
	return nil
}

func (b *constructorBuilder[T]) Build() (T, error) {
	var zero T
	out := b.descriptor.ctor.Call(b.args)
	if len(out) == 2 && !out[1].IsNil() {
		return zero, NewConstructorError(typeName[T](), out[1].Interface().(error))
	}
	entity, ok := out[0].Interface().(T)
	if !ok {
		return zero, NewConstructorError(typeName[T](), fmt.Errorf("constructor returned %s", out[0].Type()))
	}
	return entity, nil
}
