package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mediaplanschema/mediaplan-go/internal/schema"
)

// compatResult is the JSON output shape for the compat command.
type compatResult struct {
	Version        string `json:"version"`
	Compatibility  string `json:"compatibility"`
	Recommendation string `json:"recommendation,omitempty"`
}

var compatCmd = &cobra.Command{
	Use:   "compat <version|file>",
	Short: "Check how a schema version relates to this build",
	Long: `Check how a schema version relates to the versions this build supports.

The argument is either a version string or a path to a media plan
document, in which case the version is read from meta.schema_version.

Verdicts:
  current               the document needs no migration
  backwards_compatible  older but supported; migrate before use
  forward_minor         newer minor on the current major; unknown fields
                        are tolerated as warnings
  unsupported           outside the supported range`,
	Example: `  # Check a version string
  mediaplan compat 1.0

  # Check the version embedded in a document
  mediaplan compat plan.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfiguration(cmd)
		if err != nil {
			return err
		}

		version := args[0]
		if _, statErr := os.Stat(version); statErr == nil {
			doc, err := readDocument(version)
			if err != nil {
				return err
			}
			embedded, ok := schema.DocumentVersion(doc)
			if !ok {
				fmt.Fprintln(cmd.ErrOrStderr(), color.RedString("Error: %s has no meta.schema_version", version))
				return NewExitError(ExitInvalidArguments)
			}
			version = embedded
		}

		classifier := schema.NewClassifier(schema.NewRegistry())
		verdict, err := classifier.Classify(version)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cfg.OutputFormat == "json" {
			result := compatResult{
				Version:        verdict.Version.String(),
				Compatibility:  string(verdict.Compatibility),
				Recommendation: verdict.Recommendation,
			}
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
		} else {
			fmt.Fprintf(out, "%s: %s\n", verdict.Version, colorizeVerdict(verdict.Compatibility))
			if verdict.Recommendation != "" {
				fmt.Fprintf(out, "  %s\n", verdict.Recommendation)
			}
		}

		if verdict.Compatibility == schema.CompatibilityUnsupported {
			return NewExitError(ExitUnsupportedVersion)
		}
		return nil
	},
}

func colorizeVerdict(c schema.Compatibility) string {
	switch c {
	case schema.CompatibilityCurrent:
		return color.GreenString(string(c))
	case schema.CompatibilityBackwards, schema.CompatibilityForwardMinor:
		return color.YellowString(string(c))
	default:
		return color.RedString(string(c))
	}
}

func init() {
	rootCmd.AddCommand(compatCmd)
}
