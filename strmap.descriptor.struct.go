package strmap

import (
	"reflect"
	"strings"
	"sync"

	"github.com/itsatony/go-strmap/internal"
)

// structMetaCache holds introspected field layouts keyed by struct type
var structMetaCache sync.Map // map[reflect.Type]*structMeta

type structMeta struct {
	structType reflect.Type
	fields     []structField
	byName     map[string]int
}

type structField struct {
	name  string
	index int
	typ   reflect.Type
}

// structDescriptor binds exported fields of a struct (or pointer to struct) by reflection.
type structDescriptor[T any] struct {
	meta      *structMeta
	isPointer bool
	fields    []Field[T]
}

// StructDescriptor returns a descriptor over the exported fields of T, where T is a
// struct or a pointer to a struct. Field names can be changed with the `strmap` tag;
// `strmap:"-"` hides a field. Embedded fields are not flattened.
func StructDescriptor[T any]() (Descriptor[T], error) {
	t := typeOf[T]()
	isPointer := t.Kind() == reflect.Pointer
	if isPointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, NewInvalidDescriptorError(typeName[T](), "not a struct type")
	}

	meta, err := introspectStruct(t)
	if err != nil {
		return nil, err
	}

	d := &structDescriptor[T]{meta: meta, isPointer: isPointer}
	d.fields = make([]Field[T], 0, len(meta.fields))
	for _, sf := range meta.fields {
		d.fields = append(d.fields, Field[T]{
			Name: sf.name,
			Type: sf.typ,
			Get:  d.getter(sf.index),
		})
	}
	return d, nil
}

func introspectStruct(t reflect.Type) (*structMeta, error) {
	if cached, ok := structMetaCache.Load(t); ok {
		return cached.(*structMeta), nil
	}

	meta := &structMeta{
		structType: t,
		byName:     make(map[string]int),
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup(StructTagName); ok {
			tag = strings.TrimSpace(tag)
			if tag == StructTagIgnore {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		if name == KeywordThis {
			return nil, NewInvalidDescriptorError(t.String(), "field name collides with reserved placeholder "+KeywordThis)
		}
		if _, dup := meta.byName[name]; dup {
			return nil, NewInvalidDescriptorError(t.String(), ErrMsgDuplicateFieldName+": "+name)
		}
		meta.byName[name] = len(meta.fields)
		meta.fields = append(meta.fields, structField{name: name, index: i, typ: f.Type})
	}

	actual, _ := structMetaCache.LoadOrStore(t, meta)
	return actual.(*structMeta), nil
}

func (d *structDescriptor[T]) getter(index int) func(T) (any, bool) {
	return func(entity T) (any, bool) {
		rv := reflect.ValueOf(&entity).Elem()
		if d.isPointer {
			if rv.IsNil() {
				return nil, false
			}
			rv = rv.Elem()
		}
		return rv.Field(index).Interface(), true
	}
}

// Fields returns the exported fields in declaration order
func (d *structDescriptor[T]) Fields() []Field[T] {
	return d.fields
}

// NewBuilder returns a builder that sets fields on a fresh struct value
func (d *structDescriptor[T]) NewBuilder() Builder[T] {
	return &structBuilder[T]{
		descriptor: d,
		value:      reflect.New(d.meta.structType).Elem(),
	}
}

type structBuilder[T any] struct {
	descriptor *structDescriptor[T]
	value      reflect.Value
}

func (b *structBuilder[T]) Set(name string, value any) error {
	pos, ok := b.descriptor.meta.byName[name]
	if !ok {
		return NewUnknownFieldError(name, b.descriptor.meta.structType.String())
	}
	sf := b.descriptor.meta.fields[pos]
	if !assignValue(b.value.Field(sf.index), value) {
		return NewFieldAssignmentError(name, sf.typ.String())
	}
	return nil
}

func (b *structBuilder[T]) Build() (T, error) {
	if b.descriptor.isPointer {
		return b.value.Addr().Interface().(T), nil
	}
	return b.value.Interface().(T), nil
}

// isScalarType reports whether t maps as a single value instead of a field set
func isScalarType(t reflect.Type) bool {
	return internal.IsScalar(t)
}
