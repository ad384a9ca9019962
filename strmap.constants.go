package strmap

import (
	"time"

	"github.com/itsatony/go-strmap/internal"
)

// KeywordThis is the reserved placeholder name for the whole mapped value:
//
//	{this} or {this:yyyy/MM/dd}
const KeywordThis = internal.KeywordThis

// StructTagName is the struct tag consulted by StructDescriptor.
// `strmap:"Name"` renames a field, `strmap:"-"` hides it.
const (
	StructTagName   = "strmap"
	StructTagIgnore = "-"
)

// Error codes for categorization
const (
	ErrCodeConfig  = "STRMAP_CONFIG"
	ErrCodeMissing = "STRMAP_MISSING"
	ErrCodeStorage = "STRMAP_STORAGE"
)

// Error kinds stored under MetaKeyKind
const (
	ErrKindConfig       = "config"
	ErrKindMissingValue = "missing_value"
)

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyKind        = "kind"
	MetaKeyPlaceholder = "placeholder"
	MetaKeyTemplate    = "template"
	MetaKeyType        = "type"
	MetaKeyFormat      = "format"
	MetaKeyField       = "field"
	MetaKeyLine        = "line"
	MetaKeyColumn      = "column"
	MetaKeyOffset      = "offset"
	MetaKeyReason      = "reason"
	MetaKeyName        = "name"
)

// Logging constants
const (
	LogMsgMapperCreated    = "mapper created"
	LogMsgPatternFailed    = "match pattern compilation failed"
	LogMsgNoMatch          = "input does not match template"
	LogMsgFieldParseFailed = "captured value could not be parsed"
	LogMsgBuildFailed      = "entity construction failed"
	LogMsgPartialMap       = "partial map stopped at missing value"
	LogMsgCacheEvicted     = "mapper cache entry evicted"
	LogMsgStoreOpened      = "template store opened"
)

// Log field constants
const (
	LogFieldTemplate    = "template"
	LogFieldType        = "type"
	LogFieldPlaceholder = "placeholder"
	LogFieldField       = "field"
	LogFieldFormat      = "format"
	LogFieldRendered    = "rendered_length"
	LogFieldDriver      = "driver"
	LogFieldKey         = "key"
	LogFieldCount       = "count"
)

// Mapper cache defaults
const (
	DefaultCacheMaxEntries = 256
)

// CatalogResolveConcurrency bounds the definitions Catalog.Resolve tries at once
const CatalogResolveConcurrency = 8

// Storage driver names
const (
	StorageDriverNameMemory     = "memory"
	StorageDriverNameFilesystem = "filesystem"
	StorageDriverNamePostgres   = "postgres"
)

// Filesystem storage constants
const (
	FilesystemDirPermissions  = 0o755
	FilesystemFilePermissions = 0o644
	FilesystemFileExtension   = ".yaml"
)

// PostgreSQL storage constants
const (
	PostgresTablePrefix            = "strmap_"
	PostgresDefaultMaxOpenConns    = 10
	PostgresDefaultMaxIdleConns    = 2
	PostgresDefaultConnMaxLifetime = 5 * time.Minute
	PostgresDefaultConnMaxIdleTime = 5 * time.Minute
	PostgresDefaultQueryTimeout    = 30 * time.Second
)
