package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mediaplanschema/mediaplan-go/internal/progress"
	"github.com/mediaplanschema/mediaplan-go/internal/schema"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateOutput string
	migrateCheck  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate <file>",
	Short: "Migrate a media plan document to a newer schema version",
	Long: `Migrate a media plan document forward to a newer schema version.

The source version is taken from meta.schema_version unless --from is
given. The target defaults to the current schema version. Migration is
forward-only; requesting an older target fails.

The input file is never modified. The migrated document is written to
stdout or to the file given with --output.`,
	Example: `  # Migrate to the current schema version
  mediaplan migrate plan.json -o plan-v2.json

  # Migrate to an explicit target
  mediaplan migrate plan.json --to 2.0

  # Migrate and validate the result in one pass
  mediaplan migrate plan.json --check`,
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

		registry := schema.NewRegistry()

		fromStr := migrateFrom
		if fromStr == "" {
			embedded, ok := schema.DocumentVersion(doc)
			if !ok {
				fmt.Fprintln(cmd.ErrOrStderr(), color.RedString("Error: document has no meta.schema_version; use --from"))
				return NewExitError(ExitInvalidArguments)
			}
			fromStr = embedded
		}
		from, err := schema.ParseVersion(fromStr)
		if err != nil {
			return err
		}

		toStr := migrateTo
		if toStr == "" {
			toStr = cfg.DefaultTargetVersion
		}
		to := registry.CurrentVersion()
		if toStr != "" {
			if to, err = schema.ParseVersion(toStr); err != nil {
				return err
			}
		}

		indicator := progress.NewIndicator(progress.DetectTerminalCapabilities(), cfg.ShowProgress)
		indicator.Start(fmt.Sprintf("Migrating %s from %s to %s", args[0], from, to))

		migrator := schema.NewMigrator(registry)
		migrated, err := migrator.Migrate(doc, from, to)
		if err != nil {
			indicator.Fail(fmt.Sprintf("migration failed: %v", err))
			return NewExitError(ExitMigrationFailed)
		}

		if migrateCheck {
			validator := schema.NewValidator(registry)
			msgs, err := validator.Validate(migrated, to.String())
			if err != nil {
				indicator.Fail(fmt.Sprintf("post-migration validation could not run: %v", err))
				return NewExitError(ExitMigrationFailed)
			}
			if errs, _ := splitMessages(msgs); len(errs) > 0 {
				indicator.Fail(fmt.Sprintf("migrated document is invalid at %s", to))
				printMessages(cmd.ErrOrStderr(), errs, nil)
				return NewExitError(ExitValidationFailed)
			}
		}

		indicator.Succeed(fmt.Sprintf("migrated %s -> %s", from, to))
		return writeDocument(cmd.OutOrStdout(), migrateOutput, migrated, cfg.Indent)
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "Source schema version (defaults to the document's own)")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "Target schema version (defaults to the current version)")
	migrateCmd.Flags().StringVarP(&migrateOutput, "output", "o", "", "Write the migrated document to this file instead of stdout")
	migrateCmd.Flags().BoolVar(&migrateCheck, "check", false, "Validate the migrated document against the target version")
	rootCmd.AddCommand(migrateCmd)
}
