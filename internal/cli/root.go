// Package cli wires the query pipeline, catalog and exporters into the
// macroquery command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Profile string // connection profile YAML path
	EnvFile string // .env file with WAREHOUSE_* credentials
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the macroquery CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "macroquery",
		Short: "CPI & BOP warehouse explorer",
		Long: `Query macroeconomic time-series (consumer price index and balance of
payments) from a star-schema warehouse, aggregate them by month, quarter,
calendar year or July–June fiscal year, and view or export the result.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			// Credentials may live in a .env file; absence is fine.
			if opts.EnvFile != "" {
				if _, err := os.Stat(opts.EnvFile); err == nil {
					if err := godotenv.Load(opts.EnvFile); err != nil {
						return fmt.Errorf("load %s: %w", opts.EnvFile, err)
					}
				}
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Profile, "profile", "warehouse.yaml", "connection profile file")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "env file with WAREHOUSE_* overrides")

	// Add subcommands
	cmd.AddCommand(NewPingCommand(opts))
	cmd.AddCommand(NewLocationsCommand(opts))
	cmd.AddCommand(NewUnitsCommand(opts))
	cmd.AddCommand(NewIndicatorsCommand(opts))
	cmd.AddCommand(NewUnitsForCommand(opts))
	cmd.AddCommand(NewDataCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	cmd := NewRootCommand()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "macroquery: %v\n", err)
		return GetExitCode(err)
	}
	return ExitSuccess
}
