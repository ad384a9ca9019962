package internal

import (
	"strings"

	"go.uber.org/zap"
)

// Lexer scans a template into literal and placeholder segments
type Lexer struct {
	source string
	pos    int // Current byte position
	line   int // Current line (1-indexed)
	column int // Current column (1-indexed)
	logger *zap.Logger
}

// NewLexer creates a new lexer for the given template source
func NewLexer(source string, logger *zap.Logger) *Lexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgLexerCreated, zap.Int(LogFieldSource, len(source)))
	return &Lexer{
		source: source,
		pos:    0,
		line:   1,
		column: 1,
		logger: logger,
	}
}

// Lex is a shortcut for NewLexer(source, logger).Scan()
func Lex(source string, logger *zap.Logger) ([]Segment, error) {
	return NewLexer(source, logger).Scan()
}

// Scan processes the source and returns its segments in template order.
// Adjacent literal text is merged into a single segment.
func (l *Lexer) Scan() ([]Segment, error) {
	l.logger.Debug(LogMsgLexStart)
	var segments []Segment
	var text strings.Builder
	textPos := l.currentPosition()

	flush := func() {
		if text.Len() > 0 {
			segments = append(segments, NewLiteralSegment(text.String(), textPos))
			text.Reset()
		}
	}

	for !l.isAtEnd() {
		if l.peek() == CharOpenBrace {
			seg, ok, err := l.scanPlaceholder()
			if err != nil {
				return nil, err
			}
			if ok {
				flush()
				segments = append(segments, seg)
				textPos = l.currentPosition()
				continue
			}
		}

		if text.Len() == 0 {
			textPos = l.currentPosition()
		}
		text.WriteByte(l.advance())
	}
	flush()

	l.logger.Debug(LogMsgLexEnd, zap.Int(LogFieldSegments, len(segments)))
	return segments, nil
}

// scanPlaceholder tries to read {name} or {name:format} at the current position.
// The name runs to the first ':' or '}', so an inner '{' belongs to it.
// When the brace does not open a placeholder, nothing is consumed and ok is false.
func (l *Lexer) scanPlaceholder() (seg Segment, ok bool, err error) {
	start := l.currentPosition()

	nameStart := l.pos + 1
	i := nameStart
	for i < len(l.source) {
		ch := l.source[i]
		if ch == CharFormatSep || ch == CharCloseBrace {
			break
		}
		i++
	}
	if i >= len(l.source) {
		return Segment{}, false, nil
	}

	name := l.source[nameStart:i]
	format := ""
	end := i
	if l.source[i] == CharFormatSep {
		closeIdx := strings.IndexByte(l.source[i+1:], CharCloseBrace)
		if closeIdx < 0 {
			return Segment{}, false, nil
		}
		format = l.source[i+1 : i+1+closeIdx]
		end = i + 1 + closeIdx
	}

	if name == "" {
		return Segment{}, false, &SyntaxError{
			Message:  ErrMsgEmptyPlaceholderName,
			Position: start,
		}
	}

	if strings.TrimSpace(format) == "" {
		format = ""
	}

	l.advanceN(end + 1 - l.pos)
	return NewPlaceholderSegment(name, format, start), true, nil
}

// currentPosition returns the current position in source
func (l *Lexer) currentPosition() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

// isAtEnd returns true if we've consumed all input
func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

// peek returns the current character without advancing
func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

// advance consumes and returns the current character
func (l *Lexer) advance() byte {
	if l.isAtEnd() {
		return 0
	}
	ch := l.source[l.pos]
	l.pos++
	if ch == CharNewline {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

// advanceN advances by n characters
func (l *Lexer) advanceN(n int) {
	for i := 0; i < n && !l.isAtEnd(); i++ {
		l.advance()
	}
}
