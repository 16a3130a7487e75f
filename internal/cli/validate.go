package cli

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mediaplanschema/mediaplan-go/internal/progress"
	"github.com/mediaplanschema/mediaplan-go/internal/schema"
)

var (
	validateSchemaVersion string
	validateStrict        bool
)

// validateResult is the JSON output shape for the validate command.
type validateResult struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

var validateCmd = &cobra.Command{
	Use:     "validate <file>",
	Aliases: []string{"check"},
	Short:   "Validate a media plan document",
	Long: `Validate a media plan document against a schema version.

By default the document is validated against the version embedded in
meta.schema_version. Validation covers both document structure and
business rules (date ordering, budget positivity, currency codes).

Findings are reported as errors and warnings. Warnings never fail the
command unless --strict is set.`,
	Example: `  # Validate against the document's embedded version
  mediaplan validate plan.json

  # Validate against an explicit version
  mediaplan validate plan.json --schema-version 2.0

  # Read from stdin
  cat plan.json | mediaplan validate -

  # Treat warnings as failures
  mediaplan validate plan.json --strict`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfiguration(cmd)
		if err != nil {
			return err
		}

		doc, err := readDocument(args[0])
		if err != nil {
			return err
		}

		indicator := progress.NewIndicator(progress.DetectTerminalCapabilities(), cfg.ShowProgress && cfg.OutputFormat == "text")
		indicator.Start("Validating " + args[0])

		validator := schema.NewValidator(schema.NewRegistry())
		msgs, err := validator.Validate(doc, validateSchemaVersion)
		if err != nil {
			indicator.Stop()
			return err
		}
		indicator.Stop()

		errs, warnings := splitMessages(msgs)
		out := cmd.OutOrStdout()

		if cfg.OutputFormat == "json" {
			result := validateResult{
				File:     args[0],
				Valid:    len(errs) == 0,
				Errors:   append([]string{}, errs...),
				Warnings: append([]string{}, warnings...),
			}
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
		} else {
			printMessages(out, errs, warnings)
			switch {
			case len(errs) > 0:
				fmt.Fprintln(out, color.RedString("✗ %s is invalid (%d error(s), %d warning(s))", args[0], len(errs), len(warnings)))
			case len(warnings) > 0:
				fmt.Fprintln(out, color.YellowString("✓ %s is valid with %d warning(s)", args[0], len(warnings)))
			default:
				fmt.Fprintln(out, color.GreenString("✓ %s is valid", args[0]))
			}
		}

		strict := validateStrict || cfg.StrictWarnings
		if len(errs) > 0 || (strict && len(warnings) > 0) {
			return NewExitError(ExitValidationFailed)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateSchemaVersion, "schema-version", "", "Validate against this version instead of the document's own")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Treat warnings as validation failures")
	rootCmd.AddCommand(validateCmd)
}
