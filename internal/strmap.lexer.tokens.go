package internal

import "fmt"

// Position represents a location in the template source
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// SegmentKind distinguishes literal spans from placeholders
type SegmentKind int

const (
	SegmentLiteral SegmentKind = iota
	SegmentPlaceholder
)

// Segment kind names for debugging
const (
	SegmentKindNameLiteral     = "LITERAL"
	SegmentKindNamePlaceholder = "PLACEHOLDER"
)

// String returns the string representation of the segment kind
func (k SegmentKind) String() string {
	if k == SegmentPlaceholder {
		return SegmentKindNamePlaceholder
	}
	return SegmentKindNameLiteral
}

// Segment is one piece of a scanned template.
// Literal segments carry Text; placeholder segments carry Name and an optional Format.
type Segment struct {
	Kind     SegmentKind
	Text     string
	Name     string
	Format   string
	Position Position
}

// NewLiteralSegment creates a literal segment
func NewLiteralSegment(text string, pos Position) Segment {
	return Segment{Kind: SegmentLiteral, Text: text, Position: pos}
}

// NewPlaceholderSegment creates a placeholder segment
func NewPlaceholderSegment(name, format string, pos Position) Segment {
	return Segment{Kind: SegmentPlaceholder, Name: name, Format: format, Position: pos}
}

// IsPlaceholder reports whether the segment is a placeholder
func (s Segment) IsPlaceholder() bool {
	return s.Kind == SegmentPlaceholder
}

// IsThis reports whether the segment is the whole-value placeholder
func (s Segment) IsThis() bool {
	return s.Kind == SegmentPlaceholder && s.Name == KeywordThis
}

// SyntaxError represents a template syntax error with position
type SyntaxError struct {
	Message  string
	Position Position
}

// Error implements the error interface
func (e *SyntaxError) Error() string {
	return e.Message + " at " + e.Position.String()
}
