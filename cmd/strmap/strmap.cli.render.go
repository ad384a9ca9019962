package main

import (
	"github.com/spf13/cobra"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	source       templateFlags
	dataJSON     string
	dataFilePath string
	outputPath   string
	partial      bool
}

func newRenderCommand(app *cliApp) *cobra.Command {
	cfg := &renderConfig{}
	cmd := &cobra.Command{
		Use:     CmdNameRender,
		Short:   "Render a JSON record through a template",
		Example: HelpRenderExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, app, cfg)
		},
	}

	cfg.source.register(cmd)
	cmd.Flags().StringVarP(&cfg.dataJSON, FlagData, FlagDataShort, "", "JSON object with field values")
	cmd.Flags().StringVarP(&cfg.dataFilePath, FlagDataFile, FlagDataFileShort, "", `JSON file with field values ("-" for stdin)`)
	cmd.Flags().StringVarP(&cfg.outputPath, FlagOutput, FlagOutputShort, FlagDefaultOutput, "output file")
	cmd.Flags().BoolVar(&cfg.partial, FlagPartial, false, "stop at the first missing value instead of failing")
	return cmd
}

func runRender(cmd *cobra.Command, app *cliApp, cfg *renderConfig) error {
	tmpl, err := cfg.source.resolve(cmd.Context(), app)
	if err != nil {
		return err
	}

	raw, err := loadData(cfg.dataJSON, cfg.dataFilePath, app.stdin)
	if err != nil {
		return failWith(ExitCodeInputError, ErrMsgInvalidJSON, err)
	}
	record, err := buildRecord(raw, tmpl.mapper.Fields())
	if err != nil {
		return failWith(ExitCodeInputError, ErrMsgInvalidJSON, err)
	}

	result, err := tmpl.mapper.Render(record, cfg.partial)
	if err != nil {
		return failWith(ExitCodeError, ErrMsgRenderFailed, err)
	}

	output := []byte(result)
	if cfg.outputPath == FlagDefaultOutput {
		output = append(output, FmtNewline...)
	}
	if err := writeOutput(cfg.outputPath, output, app.stdout); err != nil {
		return failWith(ExitCodeError, ErrMsgWriteOutputFailed, err)
	}
	return nil
}
