package cli

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mediaplanschema/mediaplan-go/internal/schema"
)

// versionsResult is the JSON output shape for the versions command.
type versionsResult struct {
	Supported []string `json:"supported"`
	Minimum   string   `json:"minimum"`
	Current   string   `json:"current"`
}

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List supported schema versions",
	Long: `List the schema versions bundled with this build.

The minimum version is the oldest a document may declare and still be
migrated forward. The current version is the one new documents should
use and the default migration target.`,
	Example: `  mediaplan versions
  mediaplan versions -c config.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfiguration(cmd)
		if err != nil {
			return err
		}

		registry := schema.NewRegistry()
		supported := registry.SupportedVersions()
		out := cmd.OutOrStdout()

		if cfg.OutputFormat == "json" {
			result := versionsResult{
				Supported: make([]string, 0, len(supported)),
				Minimum:   registry.MinimumVersion().String(),
				Current:   registry.CurrentVersion().String(),
			}
			for _, v := range supported {
				result.Supported = append(result.Supported, v.String())
			}
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		for _, v := range supported {
			switch v {
			case registry.CurrentVersion():
				fmt.Fprintf(out, "%s %s\n", v, color.GreenString("(current)"))
			case registry.MinimumVersion():
				fmt.Fprintf(out, "%s (minimum)\n", v)
			default:
				fmt.Fprintln(out, v)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionsCmd)
}
