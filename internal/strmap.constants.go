package internal

// Template syntax characters
const (
	CharOpenBrace   = '{'
	CharCloseBrace  = '}'
	CharFormatSep   = ':'
	CharNewline     = '\n'
	CharPercent     = '%'
	CharSingleQuote = '\''
	CharBackslash   = '\\'
)

// KeywordThis is the placeholder name that stands for the whole mapped value.
const KeywordThis = "this"

// Pattern construction constants
const (
	PatternPrefix      = "(?s)^"
	PatternSuffix      = "$"
	PatternPlaceholder = "(.*)"
)

// Error messages - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	ErrMsgEmptyPlaceholderName = "placeholder name cannot be empty"
	ErrMsgPatternCompile       = "failed to compile match pattern"
	ErrMsgUnformattableType    = "type cannot honor a format spec"
	ErrMsgUnsupportedFormat    = "format spec is not supported for type"
	ErrMsgUnknownFieldType     = "unknown field type name"
)

// Logging constants
const (
	LogMsgLexerCreated   = "lexer created"
	LogMsgLexStart       = "starting template scan"
	LogMsgLexEnd         = "template scan complete"
	LogMsgPatternCompile = "compiling match pattern"
	LogMsgPatternReady   = "match pattern compiled"
	LogMsgFormatConflict = "conflicting format for repeated placeholder - first declaration wins"
)

// Log field constants
const (
	LogFieldSource        = "source_length"
	LogFieldSegments      = "segment_count"
	LogFieldPlaceholder   = "placeholder"
	LogFieldPattern       = "pattern"
	LogFieldGroups        = "group_count"
	LogFieldFormat        = "format"
	LogFieldIgnoredFormat = "ignored_format"
)

// Field type names accepted by ParseFieldType
const (
	TypeNameString   = "string"
	TypeNameInt      = "int"
	TypeNameInt32    = "int32"
	TypeNameInt64    = "int64"
	TypeNameUint     = "uint"
	TypeNameUint64   = "uint64"
	TypeNameFloat32  = "float32"
	TypeNameFloat64  = "float64"
	TypeNameBool     = "bool"
	TypeNameUUID     = "uuid"
	TypeNameTime     = "time"
	TypeNameDuration = "duration"

	// TypeNameNullablePrefix marks a nullable field type, e.g. "*int".
	TypeNameNullablePrefix = "*"
)

// UUID format specs
const (
	UUIDFormatCompact = "N"
	UUIDFormatDashed  = "D"
	UUIDFormatBraces  = "B"
	UUIDFormatParens  = "P"
	UUIDFormatURN     = "URN"
)

// Number formatting constants
const (
	IntBase10         = 10
	FloatFormatFlag   = 'g'
	FloatPrecisionAll = -1
	BitSize32         = 32
	BitSize64         = 64
)
