package internal

import (
	"strings"
	"time"
)

// DefaultTimeLayout is used for time.Time values whose placeholder declares no format
const DefaultTimeLayout = time.RFC3339Nano

// Standard single-letter date/time patterns
var standardTimeLayouts = map[string]string{
	"o": time.RFC3339Nano,
	"O": time.RFC3339Nano,
	"s": "2006-01-02T15:04:05",
	"u": "2006-01-02 15:04:05Z",
	"r": time.RFC1123,
	"R": time.RFC1123,
}

// customTimeTokens maps custom date/time pattern tokens to Go layout elements.
// Longer tokens must come first so that "yyyy" wins over "yy".
var customTimeTokens = []struct {
	token  string
	layout string
}{
	{"yyyy", "2006"},
	{"yy", "06"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"MM", "01"},
	{"M", "1"},
	{"dddd", "Monday"},
	{"ddd", "Mon"},
	{"dd", "02"},
	{"d", "2"},
	{"HH", "15"},
	{"H", "15"},
	{"hh", "03"},
	{"h", "3"},
	{"mm", "04"},
	{"m", "4"},
	{"ss", "05"},
	{"s", "5"},
	{"fffffffff", "000000000"},
	{"ffffff", "000000"},
	{"fff", "000"},
	{"ff", "00"},
	{"f", "0"},
	{"tt", "PM"},
	{"zzz", "-07:00"},
	{"zz", "-07"},
	{"K", "Z07:00"},
}

// customPatternMarkers are doubled tokens that never appear in a Go reference layout
var customPatternMarkers = []string{"yy", "MM", "dd", "HH", "hh", "mm", "ss"}

// TimeLayout resolves a placeholder format spec to a Go time layout.
// Go reference layouts pass through unchanged; custom patterns such as
// "yyyy/MM/dd" and standard single-letter patterns are translated.
func TimeLayout(format string) string {
	if format == "" {
		return DefaultTimeLayout
	}
	if layout, ok := standardTimeLayouts[format]; ok {
		return layout
	}
	if !IsCustomTimePattern(format) {
		return format
	}
	return translateCustomPattern(format)
}

// IsCustomTimePattern reports whether format uses custom pattern tokens rather than a Go layout
func IsCustomTimePattern(format string) bool {
	for _, marker := range customPatternMarkers {
		if strings.Contains(format, marker) {
			return true
		}
	}
	return false
}

func translateCustomPattern(format string) string {
	var sb strings.Builder
	for i := 0; i < len(format); {
		ch := format[i]

		// Quoted literal text: 'text'
		if ch == CharSingleQuote {
			end := strings.IndexByte(format[i+1:], CharSingleQuote)
			if end < 0 {
				sb.WriteString(format[i+1:])
				break
			}
			sb.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		// Escaped single character: \x
		if ch == CharBackslash && i+1 < len(format) {
			sb.WriteByte(format[i+1])
			i += 2
			continue
		}

		matched := false
		for _, tok := range customTimeTokens {
			if strings.HasPrefix(format[i:], tok.token) {
				// Fractional seconds need a separator in Go layouts
				if tok.token[0] == 'f' && (i == 0 || (format[i-1] != '.' && format[i-1] != ',')) {
					sb.WriteByte('.')
				}
				sb.WriteString(tok.layout)
				i += len(tok.token)
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		sb.WriteByte(ch)
		i++
	}
	return sb.String()
}

// parseTime parses text with the layout resolved from format.
// Layouts without zone information are interpreted in loc.
func parseTime(text, format string, loc *time.Location) (time.Time, error) {
	layout := TimeLayout(format)
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(layout, text, loc)
}

// formatTime renders t with the layout resolved from format
func formatTime(t time.Time, format string) string {
	return t.Format(TimeLayout(format))
}
