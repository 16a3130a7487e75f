// Package cli provides Cobra-based CLI commands for working with media plan
// documents: validation against a schema version, forward migration between
// versions, compatibility checks, and registry inspection.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mediaplan",
	Short: "media plan schema tools",
	Long: `mediaplan validates, migrates, and inspects media plan documents.

Documents carry their schema version in meta.schema_version. The tool
knows every supported schema version, validates documents against them,
and migrates older documents forward to newer versions.`,
	Example: `  # Validate a document against its embedded schema version
  mediaplan validate plan.json

  # Validate against an explicit version
  mediaplan validate plan.json --schema-version 1.0

  # Migrate a document to the current schema version
  mediaplan migrate plan.json -o plan-v2.json

  # Check how a version relates to this build
  mediaplan compat 1.0

  # List supported schema versions
  mediaplan versions`,
}

// Execute runs the root command
func Execute() error {
	rootCmd.SilenceErrors = true
	err := rootCmd.Execute()
	if err != nil && !isExitError(err) {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
	}
	return err
}

func isExitError(err error) bool {
	var exitErr *exitError
	return errors.As(err, &exitErr)
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", ".mediaplan/config.json", "Path to config file")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress progress output")
}
