package main

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/itsatony/go-strmap"
)

// cliApp holds the streams and shared state of one CLI invocation
type cliApp struct {
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	verbose bool
	logger  *zap.Logger
}

func newRootCommand(app *cliApp) *cobra.Command {
	root := &cobra.Command{
		Use:           CLIName,
		Short:         CLIDescription,
		Long:          HelpMainLong,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().BoolVarP(&app.verbose, FlagVerbose, FlagVerboseShort, false, "log debug output to stderr")

	root.AddCommand(
		newRenderCommand(app),
		newParseCommand(app),
		newMatchCommand(app),
		newResolveCommand(app),
		newValidateCommand(app),
		newVersionCommand(app),
	)
	return root
}

// log returns the invocation logger: a development console logger on stderr
// with --verbose, a no-op logger otherwise.
func (a *cliApp) log() *zap.Logger {
	if a.logger != nil {
		return a.logger
	}
	if !a.verbose {
		a.logger = zap.NewNop()
		return a.logger
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(a.stderr),
		zapcore.DebugLevel,
	)
	a.logger = zap.New(core, zap.Development())
	return a.logger
}

func (a *cliApp) closeLogger() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// templateFlags selects a template either inline or from a catalog file
type templateFlags struct {
	template string
	catalog  string
	name     string
	fields   []string
}

func (f *templateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.template, FlagTemplate, FlagTemplateShort, "", "template text")
	cmd.Flags().StringVarP(&f.catalog, FlagCatalog, FlagCatalogShort, "", "YAML catalog file")
	cmd.Flags().StringVarP(&f.name, FlagName, FlagNameShort, "", "template name in the catalog")
	cmd.Flags().StringArrayVar(&f.fields, FlagField, nil, "field type as name=type (repeatable)")
}

// resolvedTemplate is a ready mapper plus where it came from
type resolvedTemplate struct {
	name   string
	source string
	mapper *strmap.Mapper[strmap.Record]
}

// resolve builds the Record mapper selected by the flags
func (f *templateFlags) resolve(ctx context.Context, app *cliApp) (*resolvedTemplate, error) {
	fields, err := parseFieldSpecs(f.fields)
	if err != nil {
		return nil, err
	}
	opts := []strmap.Option{strmap.WithLogger(app.log())}

	switch {
	case f.template != "" && f.catalog != "":
		return nil, failWith(ExitCodeUsageError, ErrMsgTemplateConflict, nil)
	case f.catalog != "":
		if f.name == "" {
			return nil, failWith(ExitCodeUsageError, ErrMsgMissingName, nil)
		}
		catalog, err := strmap.LoadCatalogFile(ctx, f.catalog, opts...)
		if err != nil {
			return nil, catalogError(err)
		}
		defer catalog.Close()

		def, err := catalog.Definition(ctx, f.name)
		if err != nil {
			return nil, failWith(ExitCodeInputError, ErrMsgLoadCatalogFailed, err)
		}
		for name, typeName := range def.Fields {
			if _, overridden := fields[name]; !overridden {
				fields[name] = typeName
			}
		}
		m, err := strmap.NewRecordMapper(def.Template, fields, append(opts, strmap.WithName(def.Name))...)
		if err != nil {
			return nil, failWith(ExitCodeValidationError, ErrMsgInvalidTemplate, err)
		}
		return &resolvedTemplate{name: def.Name, source: def.Template, mapper: m}, nil
	case f.template != "":
		m, err := strmap.NewRecordMapper(f.template, fields, opts...)
		if err != nil {
			return nil, failWith(ExitCodeValidationError, ErrMsgInvalidTemplate, err)
		}
		return &resolvedTemplate{source: f.template, mapper: m}, nil
	default:
		return nil, failWith(ExitCodeUsageError, ErrMsgMissingTemplate, nil)
	}
}

// catalogError maps catalog loading failures: invalid definitions are
// validation errors, everything else is an input error.
func catalogError(err error) error {
	if strmap.IsConfigError(err) {
		return failWith(ExitCodeValidationError, ErrMsgInvalidTemplate, err)
	}
	return failWith(ExitCodeInputError, ErrMsgLoadCatalogFailed, err)
}

// parseFieldSpecs turns name=type flags into a field type map
func parseFieldSpecs(specs []string) (map[string]string, error) {
	fields := make(map[string]string, len(specs))
	for _, spec := range specs {
		name, typeName, ok := strings.Cut(spec, FieldSpecSeparator)
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, failWith(ExitCodeUsageError, ErrMsgInvalidFieldSpec, nil)
		}
		fields[name] = strings.TrimSpace(typeName)
	}
	return fields, nil
}
