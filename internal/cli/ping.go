package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndolage/macroquery/internal/catalog"
	"github.com/ndolage/macroquery/internal/warehouse"
)

// pingReport is the ping command's JSON payload.
type pingReport struct {
	warehouse.PingResult
	Counts catalog.FactCounts `json:"fact_counts"`
}

// NewPingCommand creates the ping command.
func NewPingCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check the warehouse connection",
		Long: `Check the warehouse connection with a trivial current-time query and
report the fact table row counts.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPing(opts, cmd)
		},
	}
}

func runPing(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	sess, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx := cmd.Context()
	report := pingReport{
		PingResult: sess.Ping(ctx),
		Counts:     catalog.New(sess.DB(), sess.Dialect()).Counts(ctx),
	}

	if !report.OK {
		if ferr := formatter.Failure("E_PING", report.Message); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitFailure, "ping", fmt.Errorf("%s", report.Message))
	}

	if opts.Format == "json" {
		return formatter.Success(report)
	}
	return formatter.Success(fmt.Sprintf("%s (server time %s, %d CPI facts, %d BOP facts)",
		report.Message, report.ServerTime, report.Counts.CPI, report.Counts.BOP))
}
