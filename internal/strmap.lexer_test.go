package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLexer_Scan_Segments(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Segment
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:  "literal only",
			input: "alfa/bravo",
			expected: []Segment{
				NewLiteralSegment("alfa/bravo", Position{Offset: 0, Line: 1, Column: 1}),
			},
		},
		{
			name:  "placeholder between literals",
			input: "alfa/{a}/bravo",
			expected: []Segment{
				NewLiteralSegment("alfa/", Position{Offset: 0, Line: 1, Column: 1}),
				NewPlaceholderSegment("a", "", Position{Offset: 5, Line: 1, Column: 6}),
				NewLiteralSegment("/bravo", Position{Offset: 8, Line: 1, Column: 9}),
			},
		},
		{
			name:  "placeholder with format",
			input: "{d:yyyy/MM/dd}",
			expected: []Segment{
				NewPlaceholderSegment("d", "yyyy/MM/dd", Position{Offset: 0, Line: 1, Column: 1}),
			},
		},
		{
			name:  "format may contain the separator",
			input: "{t:HH:mm}",
			expected: []Segment{
				NewPlaceholderSegment("t", "HH:mm", Position{Offset: 0, Line: 1, Column: 1}),
			},
		},
		{
			name:  "adjacent placeholders",
			input: "{a}{b}",
			expected: []Segment{
				NewPlaceholderSegment("a", "", Position{Offset: 0, Line: 1, Column: 1}),
				NewPlaceholderSegment("b", "", Position{Offset: 3, Line: 1, Column: 4}),
			},
		},
		{
			name:  "blank format is dropped",
			input: "{a: }",
			expected: []Segment{
				NewPlaceholderSegment("a", "", Position{Offset: 0, Line: 1, Column: 1}),
			},
		},
		{
			name:  "empty format is dropped",
			input: "{a:}",
			expected: []Segment{
				NewPlaceholderSegment("a", "", Position{Offset: 0, Line: 1, Column: 1}),
			},
		},
		{
			name:  "unclosed brace is literal",
			input: "alfa/{x",
			expected: []Segment{
				NewLiteralSegment("alfa/{x", Position{Offset: 0, Line: 1, Column: 1}),
			},
		},
		{
			name:  "unclosed format is literal",
			input: "{x:N",
			expected: []Segment{
				NewLiteralSegment("{x:N", Position{Offset: 0, Line: 1, Column: 1}),
			},
		},
		{
			name:  "inner open brace belongs to the name",
			input: "a{b{c}",
			expected: []Segment{
				NewLiteralSegment("a", Position{Offset: 0, Line: 1, Column: 1}),
				NewPlaceholderSegment("b{c", "", Position{Offset: 1, Line: 1, Column: 2}),
			},
		},
		{
			name:  "stray closing brace is literal",
			input: "a}b",
			expected: []Segment{
				NewLiteralSegment("a}b", Position{Offset: 0, Line: 1, Column: 1}),
			},
		},
		{
			name:  "multiline positions",
			input: "x\n{y}",
			expected: []Segment{
				NewLiteralSegment("x\n", Position{Offset: 0, Line: 1, Column: 1}),
				NewPlaceholderSegment("y", "", Position{Offset: 2, Line: 2, Column: 1}),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, err := Lex(tt.input, zap.NewNop())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, segments)
		})
	}
}

func TestLexer_Scan_EmptyName(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		column int
	}{
		{name: "empty braces", input: "a/{}", line: 1, column: 3},
		{name: "format only", input: "{:N}", line: 1, column: 1},
		{name: "second line", input: "ok\n  {}", line: 2, column: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lex(tt.input, nil)
			require.Error(t, err)

			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, ErrMsgEmptyPlaceholderName, syntaxErr.Message)
			assert.Equal(t, tt.line, syntaxErr.Position.Line)
			assert.Equal(t, tt.column, syntaxErr.Position.Column)
			assert.Contains(t, err.Error(), "line")
		})
	}
}

func TestSegment_Predicates(t *testing.T) {
	lit := NewLiteralSegment("x", Position{})
	ph := NewPlaceholderSegment("a", "", Position{})
	this := NewPlaceholderSegment(KeywordThis, "N", Position{})

	assert.False(t, lit.IsPlaceholder())
	assert.True(t, ph.IsPlaceholder())
	assert.False(t, ph.IsThis())
	assert.True(t, this.IsThis())

	assert.Equal(t, SegmentKindNameLiteral, lit.Kind.String())
	assert.Equal(t, SegmentKindNamePlaceholder, ph.Kind.String())
	assert.Equal(t, "line 2, column 5", Position{Line: 2, Column: 5}.String())
}
