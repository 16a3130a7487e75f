package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mediaplanschema/mediaplan-go/internal/config"
	"github.com/mediaplanschema/mediaplan-go/internal/schema"
)

// loadConfiguration loads config and applies persistent flag overrides.
func loadConfiguration(cmd *cobra.Command) (*config.Configuration, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		cfg.NoColor = true
	}
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		cfg.ShowProgress = false
	}
	if cfg.NoColor {
		color.NoColor = true
	}

	return cfg, nil
}

// readDocument reads and parses a JSON media plan. The path "-" reads
// from stdin.
func readDocument(path string) (map[string]any, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// writeDocument writes doc as indented JSON to path, or to out when path
// is empty or "-".
func writeDocument(out io.Writer, path string, doc map[string]any, indent int) error {
	data, err := json.MarshalIndent(doc, "", strings.Repeat(" ", indent))
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	data = append(data, '\n')

	if path == "" || path == "-" {
		_, err = out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// splitMessages separates validation output into hard errors and warnings.
func splitMessages(msgs []string) (errs, warnings []string) {
	for _, msg := range msgs {
		if strings.HasPrefix(msg, schema.WarningPrefix) {
			warnings = append(warnings, msg)
		} else {
			errs = append(errs, msg)
		}
	}
	return errs, warnings
}

// printMessages prints errors in red and warnings in yellow.
func printMessages(out io.Writer, errs, warnings []string) {
	for _, msg := range errs {
		fmt.Fprintln(out, color.RedString("  %s", msg))
	}
	for _, msg := range warnings {
		fmt.Fprintln(out, color.YellowString("  %s", msg))
	}
}
