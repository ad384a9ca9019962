package strmap

import (
	"reflect"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/itsatony/go-strmap/internal"
)

// Mapper converts values of type T to strings and back through a single template.
//
// The template is scanned when the Mapper is created; the match pattern used by
// MapFromString and IsMatch is compiled on first use and shared afterwards.
// A Mapper is immutable and safe for concurrent use.
type Mapper[T any] struct {
	source     string
	segments   []internal.Segment
	names      []string
	descriptor Descriptor[T]
	fields     map[string]Field[T]
	coerce     internal.CoerceOptions
	logger     *zap.Logger
	pattern    func() (*internal.Pattern, error)
}

// New creates a Mapper for T using the default descriptor of T
// (see DescriptorFor).
//
//	type Route struct {
//	    Tenant uuid.UUID
//	    Page   int
//	}
//
//	m, err := strmap.New[Route]("tenants/{Tenant}/pages/{Page}")
//	s, err := m.MapToString(Route{Tenant: id, Page: 3})
//	r, ok := m.MapFromString("tenants/5f0c.../pages/3")
func New[T any](template string, opts ...Option) (*Mapper[T], error) {
	desc, err := DescriptorFor[T]()
	if err != nil {
		return nil, err
	}
	return NewWithDescriptor(template, desc, opts...)
}

// MustNew is like New but panics on error
func MustNew[T any](template string, opts ...Option) *Mapper[T] {
	m, err := New[T](template, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// NewWithDescriptor creates a Mapper that reads and builds T through desc.
// Every placeholder other than this must name a field of desc, and every
// placeholder with a format must refer to a value type that can honor one.
func NewWithDescriptor[T any](template string, desc Descriptor[T], opts ...Option) (*Mapper[T], error) {
	if desc == nil {
		return nil, NewInvalidDescriptorError(typeName[T](), ErrMsgNilDescriptor)
	}

	config := applyOptions(opts)
	logger := config.logger
	if config.name != "" {
		logger = logger.Named(config.name)
	}

	segments, err := internal.Lex(template, logger)
	if err != nil {
		return nil, NewTemplateSyntaxError(template, err)
	}

	m := &Mapper[T]{
		source:     template,
		segments:   segments,
		descriptor: desc,
		fields:     make(map[string]Field[T]),
		coerce:     internal.CoerceOptions{Location: config.location},
		logger:     logger,
	}
	for _, f := range desc.Fields() {
		m.fields[f.Name] = f
	}

	if err := m.validate(); err != nil {
		return nil, err
	}

	m.pattern = sync.OnceValues(m.compile)

	logger.Debug(LogMsgMapperCreated,
		zap.String(LogFieldTemplate, template),
		zap.String(LogFieldType, typeName[T]()))
	return m, nil
}

// validate checks every placeholder against the descriptor
func (m *Mapper[T]) validate() error {
	seen := make(map[string]bool)
	for _, seg := range m.segments {
		if !seg.IsPlaceholder() {
			continue
		}

		var valueType reflect.Type
		if seg.IsThis() {
			valueType = typeOf[T]()
		} else {
			f, ok := m.fields[seg.Name]
			if !ok {
				return NewUnknownFieldError(seg.Name, typeName[T]())
			}
			valueType = f.Type
		}

		if seg.Format != "" && valueType != nil && !internal.CanFormat(valueType) {
			return NewUnformattableError(seg.Name, valueType.String(), seg.Format, nil)
		}

		if !seen[seg.Name] {
			seen[seg.Name] = true
			m.names = append(m.names, seg.Name)
		}
	}
	return nil
}

func (m *Mapper[T]) compile() (*internal.Pattern, error) {
	p, err := internal.CompilePattern(m.segments, m.logger)
	if err != nil {
		m.logger.Error(LogMsgPatternFailed,
			zap.String(LogFieldTemplate, m.source),
			zap.Error(err))
		return nil, NewPatternCompileError(m.source, err)
	}
	return p, nil
}

// Compile forces compilation of the match pattern and reports its error, if any.
// Calling it is optional; MapFromString and IsMatch compile on first use.
func (m *Mapper[T]) Compile() error {
	_, err := m.pattern()
	return err
}

// Source returns the template text the Mapper was created from
func (m *Mapper[T]) Source() string {
	return m.source
}

// String returns the template text
func (m *Mapper[T]) String() string {
	return m.source
}

// Placeholders returns the distinct placeholder names in order of first appearance
func (m *Mapper[T]) Placeholders() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Fields returns the fields of the descriptor the Mapper binds through
func (m *Mapper[T]) Fields() []Field[T] {
	return m.descriptor.Fields()
}

// Formats returns the format table used to parse captured text:
// placeholder name to the first non-blank format declared for it.
func (m *Mapper[T]) Formats() map[string]string {
	p, err := m.pattern()
	if err != nil {
		return map[string]string{}
	}
	return p.Formats()
}

// MapToString renders entity through the template. A placeholder whose value
// is absent (nil pointer, empty nullable, nil interface) fails with a
// missing-value error naming the placeholder.
func (m *Mapper[T]) MapToString(entity T) (string, error) {
	return m.Render(entity, false)
}

// MapToStringPartial renders entity through the template and stops at the first
// absent value, returning the text rendered up to that placeholder.
func (m *Mapper[T]) MapToStringPartial(entity T) (string, error) {
	return m.Render(entity, true)
}

// Render renders entity through the template. With allowPartial the output is
// truncated at the first absent value instead of failing.
func (m *Mapper[T]) Render(entity T, allowPartial bool) (string, error) {
	var sb strings.Builder
	sb.Grow(len(m.source))

	for _, seg := range m.segments {
		if !seg.IsPlaceholder() {
			sb.WriteString(seg.Text)
			continue
		}

		value := m.resolve(entity, seg)
		text, present, err := internal.FormatValue(value, seg.Format)
		if err != nil {
			return "", NewUnformattableError(seg.Name, value.Type().String(), seg.Format, err)
		}
		if !present {
			if allowPartial {
				m.logger.Debug(LogMsgPartialMap,
					zap.String(LogFieldTemplate, m.source),
					zap.String(LogFieldPlaceholder, seg.Name),
					zap.Int(LogFieldRendered, sb.Len()))
				return sb.String(), nil
			}
			return "", NewMissingValueError(seg.Name, typeName[T]())
		}
		sb.WriteString(text)
	}

	return sb.String(), nil
}

// resolve reads the value a placeholder refers to. An invalid Value means absent.
func (m *Mapper[T]) resolve(entity T, seg internal.Segment) reflect.Value {
	if seg.IsThis() {
		return reflect.ValueOf(&entity).Elem()
	}
	value, ok := m.fields[seg.Name].Get(entity)
	if !ok {
		return reflect.Value{}
	}
	return reflect.ValueOf(value)
}

// MapFromString parses text into a T. It returns false when text does not match
// the template or when any captured value cannot be parsed into its field type;
// a partially filled T is never returned. Fields without a placeholder are
// parsed from empty text, so only string and nullable fields can be left out
// of the template.
func (m *Mapper[T]) MapFromString(text string) (T, bool) {
	var zero T

	pattern, err := m.pattern()
	if err != nil {
		return zero, false
	}

	captures, ok := pattern.Match(text)
	if !ok {
		m.logger.Debug(LogMsgNoMatch, zap.String(LogFieldTemplate, m.source))
		return zero, false
	}

	if captured, ok := captures.Get(KeywordThis); ok {
		return m.parseThis(pattern, captured)
	}

	builder := m.descriptor.NewBuilder()
	for _, f := range m.descriptor.Fields() {
		captured, _ := captures.Get(f.Name)
		format, _ := pattern.Format(f.Name)
		value, ok := internal.ParseValue(f.Type, captured, format, m.coerce)
		if !ok {
			m.logger.Debug(LogMsgFieldParseFailed,
				zap.String(LogFieldTemplate, m.source),
				zap.String(LogFieldField, f.Name),
				zap.String(LogFieldFormat, format))
			return zero, false
		}
		if err := builder.Set(f.Name, value.Interface()); err != nil {
			m.logger.Debug(LogMsgBuildFailed, zap.String(LogFieldField, f.Name), zap.Error(err))
			return zero, false
		}
	}

	entity, err := builder.Build()
	if err != nil {
		m.logger.Debug(LogMsgBuildFailed, zap.String(LogFieldType, typeName[T]()), zap.Error(err))
		return zero, false
	}
	return entity, true
}

// parseThis parses the whole-value capture straight into T
func (m *Mapper[T]) parseThis(pattern *internal.Pattern, captured string) (T, bool) {
	var entity T
	format, _ := pattern.Format(KeywordThis)
	value, ok := internal.ParseValue(typeOf[T](), captured, format, m.coerce)
	if !ok {
		m.logger.Debug(LogMsgFieldParseFailed,
			zap.String(LogFieldTemplate, m.source),
			zap.String(LogFieldField, KeywordThis),
			zap.String(LogFieldFormat, format))
		return entity, false
	}
	reflect.ValueOf(&entity).Elem().Set(value)
	return entity, true
}

// IsMatch reports whether text matches the template pattern. Captured values
// are not parsed, so IsMatch can be true for text that MapFromString rejects.
func (m *Mapper[T]) IsMatch(text string) bool {
	pattern, err := m.pattern()
	if err != nil {
		return false
	}
	_, ok := pattern.Match(text)
	return ok
}
