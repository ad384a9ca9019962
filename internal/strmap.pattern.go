package internal

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Pattern is the compiled, read-only matcher derived from a template.
// It is safe for concurrent use.
type Pattern struct {
	regex   *regexp.Regexp
	groups  map[string]int // placeholder name -> capture group of its first occurrence
	repeats []groupRef     // later occurrences that must capture the same text
	formats map[string]string
	names   []string      // distinct placeholder names in first-seen order
	parts   []patternPart // template in order, walked when repeated captures disagree
	ngroups int
}

// patternPart is one literal or one placeholder occurrence of the template
type patternPart struct {
	literal string
	name    string
	group   int // 0 for literals
}

// groupRef ties the capture group of a repeated placeholder to the group of its first occurrence
type groupRef struct {
	group int
	first int
}

// CompilePattern builds the anchored match pattern and the format table from scanned segments.
func CompilePattern(segments []Segment, logger *zap.Logger) (*Pattern, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgPatternCompile, zap.Int(LogFieldSegments, len(segments)))

	p := &Pattern{
		groups:  make(map[string]int),
		formats: make(map[string]string),
	}

	var sb strings.Builder
	sb.WriteString(PatternPrefix)

	group := 0
	for _, seg := range segments {
		if !seg.IsPlaceholder() {
			sb.WriteString(regexp.QuoteMeta(seg.Text))
			p.parts = append(p.parts, patternPart{literal: seg.Text})
			continue
		}

		group++
		sb.WriteString(PatternPlaceholder)
		p.parts = append(p.parts, patternPart{name: seg.Name, group: group})

		if first, seen := p.groups[seg.Name]; seen {
			p.repeats = append(p.repeats, groupRef{group: group, first: first})
		} else {
			p.groups[seg.Name] = group
			p.names = append(p.names, seg.Name)
		}

		if seg.Format == "" {
			continue
		}
		if existing, ok := p.formats[seg.Name]; ok {
			if existing != seg.Format {
				logger.Debug(LogMsgFormatConflict,
					zap.String(LogFieldPlaceholder, seg.Name),
					zap.String(LogFieldFormat, existing),
					zap.String(LogFieldIgnoredFormat, seg.Format))
			}
			continue
		}
		p.formats[seg.Name] = seg.Format
	}
	sb.WriteString(PatternSuffix)

	regex, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, err
	}
	p.regex = regex
	p.ngroups = group

	logger.Debug(LogMsgPatternReady,
		zap.String(LogFieldPattern, regex.String()),
		zap.Int(LogFieldGroups, group))
	return p, nil
}

// Expr returns the regular expression source of the pattern
func (p *Pattern) Expr() string {
	return p.regex.String()
}

// Names returns the distinct placeholder names in first-seen order
func (p *Pattern) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Format returns the format spec recorded for a placeholder name
func (p *Pattern) Format(name string) (string, bool) {
	f, ok := p.formats[name]
	return f, ok
}

// Formats returns a copy of the format table
func (p *Pattern) Formats() map[string]string {
	out := make(map[string]string, len(p.formats))
	for k, v := range p.formats {
		out[k] = v
	}
	return out
}

// Has reports whether the pattern captures the named placeholder
func (p *Pattern) Has(name string) bool {
	_, ok := p.groups[name]
	return ok
}

// Match runs a full-string match. Repeated placeholders must capture identical text.
// When the greedy split leaves repeated captures unequal, the other splits are
// searched in the same longest-first order.
func (p *Pattern) Match(text string) (Captures, bool) {
	idx := p.regex.FindStringSubmatchIndex(text)
	if idx == nil {
		return Captures{}, false
	}

	if !p.repeatsAgree(text, idx) {
		idx = p.matchRepeats(text)
		if idx == nil {
			return Captures{}, false
		}
	}

	return Captures{text: text, idx: idx, groups: p.groups}, true
}

func (p *Pattern) repeatsAgree(text string, idx []int) bool {
	for _, ref := range p.repeats {
		if submatch(text, idx, ref.group) != submatch(text, idx, ref.first) {
			return false
		}
	}
	return true
}

// matchRepeats walks the template parts with back-references, returning
// submatch indexes laid out like regexp's or nil when no split fits.
func (p *Pattern) matchRepeats(text string) []int {
	idx := make([]int, 2*(p.ngroups+1))
	idx[0], idx[1] = 0, len(text)
	bound := make(map[string]string, len(p.names))
	if !p.walk(text, 0, 0, bound, idx) {
		return nil
	}
	return idx
}

func (p *Pattern) walk(text string, part, pos int, bound map[string]string, idx []int) bool {
	if part == len(p.parts) {
		return pos == len(text)
	}

	pp := p.parts[part]
	if pp.group == 0 {
		if !strings.HasPrefix(text[pos:], pp.literal) {
			return false
		}
		return p.walk(text, part+1, pos+len(pp.literal), bound, idx)
	}

	if value, ok := bound[pp.name]; ok {
		if !strings.HasPrefix(text[pos:], value) {
			return false
		}
		idx[2*pp.group], idx[2*pp.group+1] = pos, pos+len(value)
		return p.walk(text, part+1, pos+len(value), bound, idx)
	}

	for end := len(text); end >= pos; end-- {
		if end < len(text) && !utf8.RuneStart(text[end]) {
			continue
		}
		bound[pp.name] = text[pos:end]
		idx[2*pp.group], idx[2*pp.group+1] = pos, end
		if p.walk(text, part+1, end, bound, idx) {
			return true
		}
	}
	delete(bound, pp.name)
	return false
}

// Captures holds the result of a successful match
type Captures struct {
	text   string
	idx    []int
	groups map[string]int
}

// Get returns the text captured for a placeholder name.
// ok is false when the name has no capture group or the group did not participate.
func (c Captures) Get(name string) (string, bool) {
	g, ok := c.groups[name]
	if !ok || c.idx[2*g] < 0 {
		return "", false
	}
	return submatch(c.text, c.idx, g), true
}

func submatch(text string, idx []int, group int) string {
	start, end := idx[2*group], idx[2*group+1]
	if start < 0 {
		return ""
	}
	return text[start:end]
}
