package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// versionOutput represents JSON output for version
type versionOutput struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// versionsYAML represents the versions.yaml file structure
type versionsYAML struct {
	Project struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"project"`
	Git struct {
		Commit string `yaml:"commit"`
		Branch string `yaml:"branch"`
	} `yaml:"git"`
	Build struct {
		Time      string `yaml:"time"`
		GoVersion string `yaml:"go_version"`
	} `yaml:"build"`
}

// versionsFilePaths are searched in order for versions.yaml
var versionsFilePaths = []string{"versions.yaml", "../versions.yaml", "../../versions.yaml"}

// build settings recorded by the go command
const (
	buildSettingRevision = "vcs.revision"
	buildSettingTime     = "vcs.time"
	buildVersionDevel    = "(devel)"
)

func newVersionCommand(app *cliApp) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   CmdNameVersion,
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != OutputFormatText && format != OutputFormatJSON {
				return failWith(ExitCodeUsageError, ErrMsgInvalidFormat, nil)
			}
			v := getVersionInfo()
			if format == OutputFormatJSON {
				jsonBytes, err := json.MarshalIndent(v, "", JSONIndent)
				if err != nil {
					return failWith(ExitCodeError, ErrMsgJSONMarshalFailed, err)
				}
				fmt.Fprintln(app.stdout, string(jsonBytes))
				return nil
			}
			fmt.Fprintf(app.stdout, VersionTextTemplate+FmtNewline,
				v.Version, v.Commit, v.Branch, v.BuildTime, v.GoVersion)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, FlagFormat, FlagFormatShort, FlagDefaultFormat, "output format: text, json")
	return cmd
}

// getVersionInfo prefers versions.yaml and falls back to the embedded build info
func getVersionInfo() versionOutput {
	v := versionOutput{
		Version:   VersionUnknown,
		Commit:    VersionUnknown,
		Branch:    VersionUnknown,
		BuildTime: VersionUnknown,
		GoVersion: runtime.Version(),
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != buildVersionDevel {
			v.Version = info.Main.Version
		}
		for _, setting := range info.Settings {
			switch setting.Key {
			case buildSettingRevision:
				v.Commit = setting.Value
			case buildSettingTime:
				v.BuildTime = setting.Value
			}
		}
	}

	for _, path := range versionsFilePaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var vy versionsYAML
		if err := yaml.Unmarshal(data, &vy); err != nil {
			continue
		}
		if vy.Project.Version != "" {
			v.Version = vy.Project.Version
		}
		if vy.Git.Commit != "" {
			v.Commit = vy.Git.Commit
		}
		if vy.Git.Branch != "" {
			v.Branch = vy.Git.Branch
		}
		if vy.Build.Time != "" {
			v.BuildTime = vy.Build.Time
		}
		if vy.Build.GoVersion != "" {
			v.GoVersion = vy.Build.GoVersion
		}
		break
	}
	return v
}
