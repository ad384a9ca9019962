package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/itsatony/go-strmap"
)

// parseConfig holds parsed parse/match/resolve command configuration
type parseConfig struct {
	source templateFlags
	input  string
	format string
}

func newParseCommand(app *cliApp) *cobra.Command {
	cfg := &parseConfig{}
	cmd := &cobra.Command{
		Use:     CmdNameParse,
		Short:   "Parse text through a template into a JSON record",
		Example: HelpParseExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runParse(cmd, app, cfg)
		},
	}

	cfg.source.register(cmd)
	cmd.Flags().StringVarP(&cfg.input, FlagInput, FlagInputShort, "", `text to parse ("-" for stdin)`)
	cmd.Flags().StringVarP(&cfg.format, FlagFormat, FlagFormatShort, OutputFormatJSON, "output format: json, text")
	return cmd
}

func runParse(cmd *cobra.Command, app *cliApp, cfg *parseConfig) error {
	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return failWith(ExitCodeUsageError, ErrMsgInvalidFormat, nil)
	}
	tmpl, text, err := cfg.prepare(cmd.Context(), app)
	if err != nil {
		return err
	}

	record, ok := tmpl.mapper.MapFromString(text)
	if !ok {
		return failWith(ExitCodeValidationError, ErrMsgNoMatch, nil)
	}

	if cfg.format == OutputFormatText {
		return outputRecordText(record, app)
	}
	return outputRecordJSON(record, app)
}

func (cfg *parseConfig) prepare(ctx context.Context, app *cliApp) (*resolvedTemplate, string, error) {
	if cfg.input == "" {
		return nil, "", failWith(ExitCodeUsageError, ErrMsgMissingInput, nil)
	}
	tmpl, err := cfg.source.resolve(ctx, app)
	if err != nil {
		return nil, "", err
	}
	text, err := readText(cfg.input, app.stdin)
	if err != nil {
		return nil, "", failWith(ExitCodeInputError, ErrMsgReadFileFailed, err)
	}
	return tmpl, text, nil
}

func outputRecordJSON(record strmap.Record, app *cliApp) error {
	jsonBytes, err := json.MarshalIndent(record, "", JSONIndent)
	if err != nil {
		return failWith(ExitCodeError, ErrMsgJSONMarshalFailed, err)
	}
	fmt.Fprintln(app.stdout, string(jsonBytes))
	return nil
}

// outputRecordText prints name=value lines in name order; absent values print empty
func outputRecordText(record strmap.Record, app *cliApp) error {
	names := make([]string, 0, len(record))
	for name := range record {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		text, _, err := strmap.FormatText(record[name], "")
		if err != nil {
			return failWith(ExitCodeError, ErrMsgWriteOutputFailed, err)
		}
		fmt.Fprintf(app.stdout, FmtFieldLine, name, text)
	}
	return nil
}

func newMatchCommand(app *cliApp) *cobra.Command {
	cfg := &parseConfig{}
	cmd := &cobra.Command{
		Use:     CmdNameMatch,
		Short:   "Report whether text matches a template (exit 3 when not)",
		Example: HelpMatchExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMatch(cmd, app, cfg)
		},
	}

	cfg.source.register(cmd)
	cmd.Flags().StringVarP(&cfg.input, FlagInput, FlagInputShort, "", `text to match ("-" for stdin)`)
	return cmd
}

func runMatch(cmd *cobra.Command, app *cliApp, cfg *parseConfig) error {
	tmpl, text, err := cfg.prepare(cmd.Context(), app)
	if err != nil {
		return err
	}

	if !tmpl.mapper.IsMatch(text) {
		fmt.Fprintln(app.stdout, MatchFalse)
		return exitSilently(ExitCodeValidationError)
	}
	fmt.Fprintln(app.stdout, MatchTrue)
	return nil
}

func newResolveCommand(app *cliApp) *cobra.Command {
	cfg := &parseConfig{}
	cmd := &cobra.Command{
		Use:     CmdNameResolve,
		Short:   "List the catalog templates that parse the given text",
		Example: HelpResolveExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd, app, cfg)
		},
	}

	cmd.Flags().StringVarP(&cfg.source.catalog, FlagCatalog, FlagCatalogShort, "", "YAML catalog file")
	cmd.Flags().StringVarP(&cfg.input, FlagInput, FlagInputShort, "", `text to resolve ("-" for stdin)`)
	return cmd
}

func runResolve(cmd *cobra.Command, app *cliApp, cfg *parseConfig) error {
	if cfg.source.catalog == "" {
		return failWith(ExitCodeUsageError, ErrMsgMissingCatalog, nil)
	}
	if cfg.input == "" {
		return failWith(ExitCodeUsageError, ErrMsgMissingInput, nil)
	}

	ctx := cmd.Context()
	catalog, err := strmap.LoadCatalogFile(ctx, cfg.source.catalog, strmap.WithLogger(app.log()))
	if err != nil {
		return catalogError(err)
	}
	defer catalog.Close()

	text, err := readText(cfg.input, app.stdin)
	if err != nil {
		return failWith(ExitCodeInputError, ErrMsgReadFileFailed, err)
	}

	names, err := catalog.Resolve(ctx, text)
	if err != nil {
		return failWith(ExitCodeError, ErrMsgLoadCatalogFailed, err)
	}
	if len(names) == 0 {
		return failWith(ExitCodeValidationError, ErrMsgNoMatch, nil)
	}
	for _, name := range names {
		fmt.Fprintln(app.stdout, name)
	}
	return nil
}
