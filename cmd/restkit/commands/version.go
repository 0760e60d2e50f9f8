package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the restkit CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			type versionInfo struct {
				Version string `json:"version" yaml:"version"`
				Commit  string `json:"commit" yaml:"commit"`
				Built   string `json:"built" yaml:"built"`
			}

			info := versionInfo{Version: version, Commit: commit, Built: date}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return writeJSON(info)
			case OutputFormatYAML:
				out, err := yaml.Marshal(info)
				if err != nil {
					return fmt.Errorf("encoding version: %w", err)
				}

				fmt.Print(string(out))

				return nil
			default:
				fmt.Printf("restkit version %s\n", version)
				fmt.Printf("  commit: %s\n", commit)
				fmt.Printf("  built:  %s\n", date)

				return nil
			}
		},
	}
}
