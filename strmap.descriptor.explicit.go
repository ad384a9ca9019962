package strmap

import (
	"reflect"
)

// FieldDef is one explicitly registered field, created with Prop.
type FieldDef[T any] struct {
	name string
	typ  reflect.Type
	get  func(T) (any, bool)
	set  func(*T, any) bool
}

// Prop registers a field by name with a typed getter and setter.
//
//	desc := strmap.Describe(
//	    strmap.Prop("ID", func(r Route) uuid.UUID { return r.ID }, func(r *Route, v uuid.UUID) { r.ID = v }),
//	    strmap.Prop("Page", func(r Route) int { return r.Page }, func(r *Route, v int) { r.Page = v }),
//	)
func Prop[T, V any](name string, get func(T) V, set func(*T, V)) FieldDef[T] {
	return FieldDef[T]{
		name: name,
		typ:  typeOf[V](),
		get: func(entity T) (any, bool) {
			return get(entity), true
		},
		set: func(entity *T, value any) bool {
			if value == nil {
				var zero V
				set(entity, zero)
				return true
			}
			v, ok := value.(V)
			if !ok {
				rv := reflect.New(typeOf[V]()).Elem()
				if !assignValue(rv, value) {
					return false
				}
				v = rv.Interface().(V)
			}
			set(entity, v)
			return true
		},
	}
}

// explicitDescriptor binds fields through registered getter/setter pairs
type explicitDescriptor[T any] struct {
	defs   []FieldDef[T]
	index  map[string]int
	fields []Field[T]
}

// Describe builds a descriptor from explicitly registered fields. Later
// registrations of an already used name are ignored.
func Describe[T any](defs ...FieldDef[T]) Descriptor[T] {
	d := &explicitDescriptor[T]{index: make(map[string]int, len(defs))}
	for _, def := range defs {
		if def.name == "" || def.name == KeywordThis {
			continue
		}
		if _, dup := d.index[def.name]; dup {
			continue
		}
		d.index[def.name] = len(d.defs)
		d.defs = append(d.defs, def)
		d.fields = append(d.fields, Field[T]{Name: def.name, Type: def.typ, Get: def.get})
	}
	return d
}

// Fields returns the registered fields in registration order
func (d *explicitDescriptor[T]) Fields() []Field[T] {
	return d.fields
}

// NewBuilder returns a builder that applies setters to a zero value of T
func (d *explicitDescriptor[T]) NewBuilder() Builder[T] {
	return &explicitBuilder[T]{descriptor: d}
}

type explicitBuilder[T any] struct {
	descriptor *explicitDescriptor[T]
	entity     T
}

func (b *explicitBuilder[T]) Set(name string, value any) error {
	i, ok := b.descriptor.index[name]
	if !ok {
		return NewUnknownFieldError(name, typeName[T]())
	}
	def := b.descriptor.defs[i]
	if !def.set(&b.entity, value) {
		return NewFieldAssignmentError(name, def.typ.String())
	}
	return nil
}

func (b *explicitBuilder[T]) Build() (T, error) {
	return b.entity, nil
}
