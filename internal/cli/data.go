package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndolage/macroquery/internal/query"
	"github.com/ndolage/macroquery/internal/table"
	"github.com/ndolage/macroquery/internal/warehouse"
)

// dataFlags mirror the request descriptor for callers who prefer flags
// over a descriptor file.
type dataFlags struct {
	requestFile string
	group       string
	startYear   int
	endYear     int
	startMonth  int
	endMonth    int
	location    string
	indicators  []string
	units       []string
	aggregation string
	wide        bool
}

func (f *dataFlags) request() query.Request {
	return query.Request{
		DataGroup:      query.DataGroup(f.group),
		StartYear:      f.startYear,
		EndYear:        f.endYear,
		StartMonth:     f.startMonth,
		EndMonth:       f.endMonth,
		Location:       f.location,
		IndicatorNames: f.indicators,
		UnitNames:      f.units,
		Aggregation:    query.Aggregation(f.aggregation),
		WideFormat:     f.wide,
	}
}

func (f *dataFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.requestFile, "request", "", "request descriptor file (YAML or JSON)")
	cmd.Flags().StringVar(&f.group, "group", "CPI", "data group (CPI|BOP)")
	cmd.Flags().IntVar(&f.startYear, "start-year", 2020, "first year, inclusive")
	cmd.Flags().IntVar(&f.endYear, "end-year", 2030, "last year, inclusive")
	cmd.Flags().IntVar(&f.startMonth, "start-month", 0, "first month of an optional month-of-year filter")
	cmd.Flags().IntVar(&f.endMonth, "end-month", 0, "last month of an optional month-of-year filter")
	cmd.Flags().StringVar(&f.location, "location", "Tanzania", "location name, exact match")
	cmd.Flags().StringSliceVar(&f.indicators, "indicators", nil, "indicator names to include (default all)")
	cmd.Flags().StringSliceVar(&f.units, "units", nil, "unit names to include (default all)")
	cmd.Flags().StringVar(&f.aggregation, "aggregation", "monthly", "monthly|quarterly|annual|fiscal_year")
	cmd.Flags().BoolVar(&f.wide, "wide", false, "pivot to one column per indicator")
}

// resolve produces the request, from the descriptor file when given.
func (f *dataFlags) resolve() (query.Request, error) {
	if f.requestFile != "" {
		return LoadRequest(f.requestFile)
	}
	return f.request(), nil
}

// NewDataCommand creates the data command.
func NewDataCommand(opts *RootOptions) *cobra.Command {
	flags := &dataFlags{}

	cmd := &cobra.Command{
		Use:   "data",
		Short: "Query fact data",
		Long: `Query fact data with the given filters and aggregation and print the
result table. The request can come from flags or from a descriptor file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runData(opts, flags, cmd)
		},
	}

	flags.register(cmd)
	return cmd
}

func runData(opts *RootOptions, flags *dataFlags, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	r, err := flags.resolve()
	if err != nil {
		return WrapExitError(ExitCommandError, "request", err)
	}

	sess, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	result, err := runPipeline(opts, sess, cmd, r)
	if err != nil {
		return err
	}

	formatter.VerboseLog("%d rows", len(result.Rows))
	return formatter.SuccessTable(result)
}

// runPipeline executes one request and maps pipeline errors to exit
// codes: a rejected descriptor is a command error, a failed statement
// is a query failure.
func runPipeline(opts *RootOptions, sess *warehouse.Session, cmd *cobra.Command, r query.Request) (result table.Table, err error) {
	result, err = sess.Run(cmd.Context(), r)
	if err == nil {
		return result, nil
	}

	formatter := newFormatter(opts, cmd)
	var ia *query.InvalidArgumentError
	if errors.As(err, &ia) {
		if ferr := formatter.Failure("E_REQUEST", ia.Error()); ferr != nil {
			return result, ferr
		}
		return result, WrapExitError(ExitCommandError, "request", ia)
	}

	var qe *warehouse.QueryError
	if errors.As(err, &qe) {
		if ferr := formatter.Failure("E_QUERY", qe.Error()); ferr != nil {
			return result, ferr
		}
		return result, WrapExitError(ExitFailure, "query", qe)
	}
	return result, fmt.Errorf("pipeline: %w", err)
}
