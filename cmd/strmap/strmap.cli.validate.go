package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itsatony/go-strmap"
)

// validateConfig holds parsed validate command configuration
type validateConfig struct {
	source templateFlags
	format string
}

// validationOutput represents JSON output for one validated template
type validationOutput struct {
	Name         string              `json:"name,omitempty"`
	Template     string              `json:"template"`
	Valid        bool                `json:"valid"`
	Error        string              `json:"error,omitempty"`
	Placeholders []placeholderOutput `json:"placeholders,omitempty"`
}

type placeholderOutput struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Format string `json:"format,omitempty"`
}

func newValidateCommand(app *cliApp) *cobra.Command {
	cfg := &validateConfig{}
	cmd := &cobra.Command{
		Use:     CmdNameValidate,
		Short:   "Validate a template, or every template of a catalog",
		Example: HelpValidateExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, app, cfg)
		},
	}

	cfg.source.register(cmd)
	cmd.Flags().StringVarP(&cfg.format, FlagFormat, FlagFormatShort, FlagDefaultFormat, "output format: text, json")
	return cmd
}

func runValidate(cmd *cobra.Command, app *cliApp, cfg *validateConfig) error {
	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return failWith(ExitCodeUsageError, ErrMsgInvalidFormat, nil)
	}

	results, err := cfg.collect(cmd.Context(), app)
	if err != nil {
		return err
	}

	if cfg.format == OutputFormatJSON {
		var payload any = results
		if len(results) == 1 {
			payload = results[0]
		}
		jsonBytes, err := json.MarshalIndent(payload, "", JSONIndent)
		if err != nil {
			return failWith(ExitCodeError, ErrMsgJSONMarshalFailed, err)
		}
		fmt.Fprintln(app.stdout, string(jsonBytes))
	} else {
		for _, result := range results {
			outputValidationText(result, app)
		}
	}

	for _, result := range results {
		if !result.Valid {
			return exitSilently(ExitCodeValidationError)
		}
	}
	return nil
}

// collect validates the selected template, or all catalog entries when
// --catalog is given without --name.
func (cfg *validateConfig) collect(ctx context.Context, app *cliApp) ([]validationOutput, error) {
	if cfg.source.catalog == "" || cfg.source.name != "" {
		tmpl, err := cfg.source.resolve(ctx, app)
		if err != nil {
			var cliErr *cliError
			if errors.As(err, &cliErr) && cliErr.code == ExitCodeValidationError && cliErr.cause != nil {
				return []validationOutput{{
					Name:     cfg.source.name,
					Template: cfg.source.template,
					Error:    cliErr.cause.Error(),
				}}, nil
			}
			return nil, err
		}
		return []validationOutput{describeTemplate(tmpl.name, tmpl.source, tmpl.mapper)}, nil
	}

	defs, err := strmap.ReadCatalogFile(cfg.source.catalog)
	if err != nil {
		return nil, failWith(ExitCodeInputError, ErrMsgLoadCatalogFailed, err)
	}
	results := make([]validationOutput, 0, len(defs))
	for _, def := range defs {
		m, err := strmap.NewRecordMapper(def.Template, def.Fields, strmap.WithLogger(app.log()))
		if err != nil {
			results = append(results, validationOutput{Name: def.Name, Template: def.Template, Error: err.Error()})
			continue
		}
		results = append(results, describeTemplate(def.Name, def.Template, m))
	}
	return results, nil
}

func describeTemplate(name, source string, m *strmap.Mapper[strmap.Record]) validationOutput {
	out := validationOutput{Name: name, Template: source, Valid: true}
	if err := m.Compile(); err != nil {
		out.Valid = false
		out.Error = err.Error()
		return out
	}

	types := make(map[string]string)
	for _, f := range m.Fields() {
		types[f.Name] = strmap.FieldTypeName(f.Type)
	}
	formats := m.Formats()
	for _, placeholder := range m.Placeholders() {
		typeName := types[placeholder]
		if placeholder == strmap.KeywordThis {
			typeName = ValidationFieldThis
		}
		out.Placeholders = append(out.Placeholders, placeholderOutput{
			Name:   placeholder,
			Type:   typeName,
			Format: formats[placeholder],
		})
	}
	return out
}

func outputValidationText(result validationOutput, app *cliApp) {
	if result.Name != "" {
		fmt.Fprintf(app.stdout, ValidationTextName+FmtNewline, result.Name)
	}
	fmt.Fprintf(app.stdout, ValidationTextTemplate+FmtNewline, result.Template)
	if !result.Valid {
		fmt.Fprintf(app.stdout, ValidationTextInvalid+FmtNewline, result.Error)
		return
	}

	fmt.Fprintln(app.stdout, ValidationTextSuccess)
	if len(result.Placeholders) == 0 {
		return
	}
	fmt.Fprintln(app.stdout, ValidationTextHeader)
	for _, p := range result.Placeholders {
		fmt.Fprintf(app.stdout, ValidationTextPlaceholder, p.Name, p.Type)
		if p.Format != "" {
			fmt.Fprintf(app.stdout, ValidationTextFormat, p.Format)
		}
		fmt.Fprint(app.stdout, FmtNewline)
	}
}
