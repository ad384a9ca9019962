package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func compileTemplate(t *testing.T, template string) *Pattern {
	t.Helper()
	segments, err := Lex(template, nil)
	require.NoError(t, err)
	p, err := CompilePattern(segments, nil)
	require.NoError(t, err)
	return p
}

func TestPattern_Match(t *testing.T) {
	tests := []struct {
		name     string
		template string
		input    string
		match    bool
		captures map[string]string
	}{
		{
			name:     "single placeholder",
			template: "alfa/{a}/bravo",
			input:    "alfa/1/bravo",
			match:    true,
			captures: map[string]string{"a": "1"},
		},
		{
			name:     "empty capture",
			template: "alfa/{a}/bravo",
			input:    "alfa//bravo",
			match:    true,
			captures: map[string]string{"a": ""},
		},
		{
			name:     "anchored at start",
			template: "alfa/{a}",
			input:    "x/alfa/1",
			match:    false,
		},
		{
			name:     "anchored at end",
			template: "{a}/bravo",
			input:    "1/bravo/x",
			match:    false,
		},
		{
			name:     "literal metacharacters are quoted",
			template: "a.b/{x}",
			input:    "aXb/1",
			match:    false,
		},
		{
			name:     "literal metacharacters match themselves",
			template: "a.b+(c)/{x}",
			input:    "a.b+(c)/1",
			match:    true,
			captures: map[string]string{"x": "1"},
		},
		{
			name:     "capture spans newlines",
			template: "[{x}]",
			input:    "[line1\nline2]",
			match:    true,
			captures: map[string]string{"x": "line1\nline2"},
		},
		{
			name:     "repeated name with equal text",
			template: "{a}-{a}",
			input:    "x-x",
			match:    true,
			captures: map[string]string{"a": "x"},
		},
		{
			name:     "repeated name with different text",
			template: "{a}-{a}",
			input:    "x-y",
			match:    false,
		},
		{
			name:     "repeated name whose text contains the separator",
			template: "{a}-{a}",
			input:    "x-y-x-y",
			match:    true,
			captures: map[string]string{"a": "x-y"},
		},
		{
			name:     "repeated name around another placeholder",
			template: "{a}/{b}/{a}",
			input:    "1/2/3/1/2",
			match:    true,
			captures: map[string]string{"a": "1/2", "b": "3"},
		},
		{
			name:     "repeated name with no agreeing split",
			template: "{a}-{a}",
			input:    "x-y-z",
			match:    false,
		},
		{
			name:     "repeated name with multibyte text",
			template: "{a}é{a}",
			input:    "ééé",
			match:    true,
			captures: map[string]string{"a": "é"},
		},
		{
			name:     "no placeholders",
			template: "static",
			input:    "static",
			match:    true,
			captures: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := compileTemplate(t, tt.template)
			captures, ok := p.Match(tt.input)
			require.Equal(t, tt.match, ok)
			for name, want := range tt.captures {
				got, found := captures.Get(name)
				assert.True(t, found, name)
				assert.Equal(t, want, got, name)
			}
		})
	}
}

func TestPattern_Captures_UnknownName(t *testing.T) {
	p := compileTemplate(t, "x/{a}")
	captures, ok := p.Match("x/1")
	require.True(t, ok)

	_, found := captures.Get("b")
	assert.False(t, found)
}

func TestPattern_Expr(t *testing.T) {
	p := compileTemplate(t, "alfa/{a}.x")
	assert.Equal(t, `(?s)^alfa/(.*)\.x$`, p.Expr())
}

func TestPattern_NamesAndHas(t *testing.T) {
	p := compileTemplate(t, "{b}/{a}/{b}")
	assert.Equal(t, []string{"b", "a"}, p.Names())
	assert.True(t, p.Has("a"))
	assert.False(t, p.Has("c"))

	names := p.Names()
	names[0] = "changed"
	assert.Equal(t, []string{"b", "a"}, p.Names())
}

func TestPattern_Formats_FirstDeclarationWins(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	segments, err := Lex("{id:N}/{id:D}/{id}/{n}", nil)
	require.NoError(t, err)
	p, err := CompilePattern(segments, logger)
	require.NoError(t, err)

	format, ok := p.Format("id")
	assert.True(t, ok)
	assert.Equal(t, "N", format)

	_, ok = p.Format("n")
	assert.False(t, ok)

	assert.Equal(t, map[string]string{"id": "N"}, p.Formats())

	conflicts := logs.FilterMessage(LogMsgFormatConflict).All()
	require.Len(t, conflicts, 1)
	assert.Equal(t, "D", conflicts[0].ContextMap()[LogFieldIgnoredFormat])
}

func TestPattern_Formats_LaterOccurrenceSuppliesFormat(t *testing.T) {
	p := compileTemplate(t, "{d}/{d:yyyy}")
	format, ok := p.Format("d")
	assert.True(t, ok)
	assert.Equal(t, "yyyy", format)
}
