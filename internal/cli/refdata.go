package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ndolage/macroquery/internal/catalog"
	"github.com/ndolage/macroquery/internal/query"
)

// NewLocationsCommand creates the locations command.
func NewLocationsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "locations",
		Short:         "List the known locations",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(opts, cmd, func(svc *catalog.Service, cmd *cobra.Command) error {
				return outputNames(opts, cmd, svc.Locations(cmd.Context()))
			})
		},
	}
}

// NewUnitsCommand creates the units command.
func NewUnitsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "units",
		Short:         "List the known measurement units",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(opts, cmd, func(svc *catalog.Service, cmd *cobra.Command) error {
				return outputNames(opts, cmd, svc.Units(cmd.Context()))
			})
		},
	}
}

// NewIndicatorsCommand creates the indicators command.
func NewIndicatorsCommand(opts *RootOptions) *cobra.Command {
	var (
		section string
		group   string
	)

	cmd := &cobra.Command{
		Use:   "indicators",
		Short: "List indicators, optionally by section",
		Long: `List indicators with their descriptions. With --section, restrict to a
data group ("CPI" or "BOP"); indicators without an explicit section match
on their indicator type instead. With --group, print just the indicator
names offered for that data group, falling back to the names present in
its fact table when the dimension carries no section metadata.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(opts, cmd, func(svc *catalog.Service, cmd *cobra.Command) error {
				if group != "" {
					return outputNames(opts, cmd, svc.IndicatorOptions(cmd.Context(), query.DataGroup(group)))
				}
				formatter := newFormatter(opts, cmd)
				lookup := svc.Indicators(cmd.Context(), section)
				warnDegraded(formatter, lookup.Degraded, lookup.Reason)

				if opts.Format == "json" {
					return formatter.Success(lookup)
				}
				for _, ind := range lookup.Data {
					line := ind.Name
					if ind.Section != "" {
						line += " [" + ind.Section + "]"
					}
					if ind.Description != "" {
						line += ": " + ind.Description
					}
					if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&section, "section", "", "section filter (CPI|BOP)")
	cmd.Flags().StringVar(&group, "group", "", "print only the names offered for a data group (CPI|BOP)")
	return cmd
}

// NewUnitsForCommand creates the units-for command.
func NewUnitsForCommand(opts *RootOptions) *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "units-for <indicator>...",
		Short: "Resolve the units used by a set of indicators",
		Long: `Resolve the distinct measurement units actually attached to fact data
for the given indicators.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(opts, cmd, func(svc *catalog.Service, cmd *cobra.Command) error {
				return outputNames(opts, cmd, svc.UnitsFor(cmd.Context(), query.DataGroup(group), args))
			})
		},
	}

	cmd.Flags().StringVar(&group, "group", "CPI", "data group (CPI|BOP)")
	return cmd
}

func withCatalog(opts *RootOptions, cmd *cobra.Command, fn func(*catalog.Service, *cobra.Command) error) error {
	sess, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	return fn(catalog.New(sess.DB(), sess.Dialect()), cmd)
}

// outputNames renders a name-list lookup. Degraded lookups still exit
// zero, since reference data is advisory, but say so on stderr.
func outputNames(opts *RootOptions, cmd *cobra.Command, lookup catalog.Lookup[[]string]) error {
	formatter := newFormatter(opts, cmd)
	warnDegraded(formatter, lookup.Degraded, lookup.Reason)

	if opts.Format == "json" {
		return formatter.Success(lookup)
	}
	if len(lookup.Data) == 0 {
		return formatter.Success("(none)")
	}
	return formatter.Success(strings.Join(lookup.Data, "\n"))
}

func warnDegraded(formatter *OutputFormatter, degraded bool, reason string) {
	if degraded {
		fmt.Fprintf(formatter.ErrWriter, "warning: lookup degraded: %s\n", reason)
	}
}
