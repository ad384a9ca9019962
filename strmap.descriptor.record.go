package strmap

import (
	"reflect"
	"sort"

	"github.com/itsatony/go-strmap/internal"
)

// Record is a dynamic entity: field values keyed by placeholder name.
// Its fields and their types come from a RecordDescriptor.
type Record map[string]any

// recordDescriptor describes Records whose field set is known only at runtime
type recordDescriptor struct {
	fields []Field[Record]
	types  map[string]reflect.Type
}

// RecordDescriptor describes Records with the given field types.
// Fields are reported in name order.
func RecordDescriptor(types map[string]reflect.Type) Descriptor[Record] {
	names := make([]string, 0, len(types))
	for name := range types {
		if name == "" || name == KeywordThis {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	d := &recordDescriptor{types: make(map[string]reflect.Type, len(names))}
	for _, name := range names {
		name := name
		d.types[name] = types[name]
		d.fields = append(d.fields, Field[Record]{
			Name: name,
			Type: types[name],
			Get: func(r Record) (any, bool) {
				if r == nil {
					return nil, false
				}
				return r[name], true
			},
		})
	}
	return d
}

// RecordFieldTypes resolves field type names ("string", "int", "uuid", "time",
// "*int" for nullable, ...) into reflect types for RecordDescriptor.
func RecordFieldTypes(spec map[string]string) (map[string]reflect.Type, error) {
	types := make(map[string]reflect.Type, len(spec))
	for name, typeName := range spec {
		t, err := internal.ParseFieldType(typeName)
		if err != nil {
			return nil, NewUnknownFieldTypeError(name, typeName, err)
		}
		types[name] = t
	}
	return types, nil
}

// FieldTypeNames lists the base type names accepted by RecordFieldTypes
func FieldTypeNames() []string {
	return internal.FieldTypeNames()
}

// NewRecordMapper creates a Mapper over Records. Every placeholder other than
// this becomes a field; its type comes from spec and defaults to string.
func NewRecordMapper(template string, spec map[string]string, opts ...Option) (*Mapper[Record], error) {
	config := applyOptions(opts)
	segments, err := internal.Lex(template, config.logger)
	if err != nil {
		return nil, NewTemplateSyntaxError(template, err)
	}

	merged := make(map[string]string, len(spec))
	for _, seg := range segments {
		if seg.IsPlaceholder() && !seg.IsThis() {
			merged[seg.Name] = ""
		}
	}
	for name, typeName := range spec {
		merged[name] = typeName
	}

	types, err := RecordFieldTypes(merged)
	if err != nil {
		return nil, err
	}
	return NewWithDescriptor(template, RecordDescriptor(types), opts...)
}

// Fields returns the record fields in name order
func (d *recordDescriptor) Fields() []Field[Record] {
	return d.fields
}

// NewBuilder returns a builder that fills a fresh Record
func (d *recordDescriptor) NewBuilder() Builder[Record] {
	return &recordBuilder{descriptor: d, record: make(Record, len(d.fields))}
}

type recordBuilder struct {
	descriptor *recordDescriptor
	record     Record
}

func (b *recordBuilder) Set(name string, value any) error {
	if _, ok := b.descriptor.types[name]; !ok {
		return NewUnknownFieldError(name, reflect.TypeOf(b.record).String())
	}
	b.record[name] = value
	return nil
}

func (b *recordBuilder) Build() (Record, error) {
	return b.record, nil
}
