package main

// Command names
const (
	CmdNameRender   = "render"
	CmdNameParse    = "parse"
	CmdNameMatch    = "match"
	CmdNameResolve  = "resolve"
	CmdNameValidate = "validate"
	CmdNameVersion  = "version"
)

// Flag names - long form
const (
	FlagTemplate = "template"
	FlagCatalog  = "catalog"
	FlagName     = "name"
	FlagData     = "data"
	FlagDataFile = "data-file"
	FlagInput    = "input"
	FlagField    = "field"
	FlagPartial  = "partial"
	FlagOutput   = "output"
	FlagFormat   = "format"
	FlagVerbose  = "verbose"
)

// Flag names - short form
const (
	FlagTemplateShort = "t"
	FlagCatalogShort  = "c"
	FlagNameShort     = "n"
	FlagDataShort     = "d"
	FlagDataFileShort = "f"
	FlagInputShort    = "i"
	FlagOutputShort   = "o"
	FlagFormatShort   = "F"
	FlagVerboseShort  = "v"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Separator between a field name and its type in --field name=type
const FieldSpecSeparator = "="

// Error messages - ALL must be constants
const (
	ErrMsgMissingTemplate     = "template required: use --template or --catalog with --name"
	ErrMsgTemplateConflict    = "--template and --catalog cannot be combined"
	ErrMsgMissingName         = "--name is required with --catalog"
	ErrMsgMissingCatalog      = "--catalog is required"
	ErrMsgMissingInput        = "input text required"
	ErrMsgInvalidFieldSpec    = "invalid field spec, expected name=type"
	ErrMsgInvalidJSON         = "invalid JSON data"
	ErrMsgInvalidFieldValue   = "value cannot be converted to field type"
	ErrMsgReadFileFailed      = "failed to read file"
	ErrMsgWriteOutputFailed   = "failed to write output"
	ErrMsgLoadCatalogFailed   = "failed to load catalog"
	ErrMsgInvalidTemplate     = "invalid template"
	ErrMsgRenderFailed        = "render failed"
	ErrMsgNoMatch             = "input does not match template"
	ErrMsgInvalidFormat       = "invalid output format"
	ErrMsgJSONMarshalFailed   = "failed to marshal JSON"
)

// Help text
const (
	CLIName        = "strmap"
	CLIDescription = "Bidirectional template-based string mapping"

	HelpMainLong = `strmap maps records to strings and strings back to records through
templates such as "orders/{order:N}/lines/{line}".

Templates come from --template or from a YAML catalog file (--catalog) by --name.
Field types are declared with --field name=type (or in the catalog); undeclared
placeholders are strings.

Field types: string, int, int32, int64, uint, uint64, float32, float64, bool,
uuid, time, duration. Prefix with * for a nullable field (*int).`

	HelpRenderExample = `  strmap render -t "tenants/{tenant}/pages/{page}" -d '{"tenant":"acme","page":3}'
  strmap render -c catalog.yaml -n order-line -f line.json
  strmap render -t "a/{a}/b/{b}" -d '{"a":"x"}' --partial`

	HelpParseExample = `  strmap parse -t "tenants/{tenant}/pages/{page}" --field page=int -i tenants/acme/pages/3
  echo "orders/0f8fad5bd9cb469fa16570867728950e/lines/2" | strmap parse -c catalog.yaml -n order-line -i -`

	HelpMatchExample = `  strmap match -t "alfa/{x}/bravo" -i alfa/1/bravo`

	HelpResolveExample = `  strmap resolve -c catalog.yaml -i orders/0f8fad5bd9cb469fa16570867728950e/lines/2`

	HelpValidateExample = `  strmap validate -t "orders/{order:N}/lines/{line}" --field order=uuid --field line=int
  strmap validate -c catalog.yaml -F json`
)

// Version output
const (
	VersionTextTemplate = "go-strmap version %s\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
)

// Validation output
const (
	ValidationTextSuccess     = "Template is valid"
	ValidationTextName        = "Name: %s"
	ValidationTextTemplate    = "Template: %s"
	ValidationTextPlaceholder = "  {%s} %s"
	ValidationTextFormat      = " format=%q"
	ValidationTextHeader      = "Placeholders:"
	ValidationTextInvalid     = "Template is invalid: %v"
	ValidationFieldThis       = "(whole value)"
)

// Match output
const (
	MatchTrue  = "true"
	MatchFalse = "false"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
	FmtFieldError      = "%s: %s"
	FmtFieldValueError = "%s: %s=%q (%s)"
	FmtFieldLine       = "%s=%s\n"
	JSONIndent         = "  "
)
