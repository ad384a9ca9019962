package strmap

import (
	"strconv"

	"github.com/itsatony/go-cuserr"
	"gopkg.in/yaml.v3"
)

// Error message constants for decoding mappers
const (
	ErrMsgMapperNotScalar = "mapper template must be a YAML string"
)

// MarshalText returns the template text
func (m *Mapper[T]) MarshalText() ([]byte, error) {
	return []byte(m.source), nil
}

// UnmarshalText replaces m with a Mapper for the given template and the
// default descriptor of T, so mappers can be decoded from string-typed
// configuration values.
func (m *Mapper[T]) UnmarshalText(text []byte) error {
	fresh, err := New[T](string(text))
	if err != nil {
		return err
	}
	*m = *fresh
	return nil
}

// MarshalYAML encodes the Mapper as its template string
func (m *Mapper[T]) MarshalYAML() (any, error) {
	return m.source, nil
}

// UnmarshalYAML decodes a template string into m
//
//	type Config struct {
//	    Route *strmap.Mapper[Route] `yaml:"route"`
//	}
func (m *Mapper[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return cuserr.NewValidationError(ErrCodeConfig, ErrMsgMapperNotScalar).
			WithMetadata(MetaKeyKind, ErrKindConfig).
			WithMetadata(MetaKeyLine, strconv.Itoa(node.Line)).
			WithMetadata(MetaKeyColumn, strconv.Itoa(node.Column))
	}
	var template string
	if err := node.Decode(&template); err != nil {
		return cuserr.WrapStdError(err, ErrCodeConfig, ErrMsgMapperNotScalar).
			WithMetadata(MetaKeyKind, ErrKindConfig)
	}
	return m.UnmarshalText([]byte(template))
}
