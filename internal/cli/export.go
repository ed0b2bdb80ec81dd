package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ndolage/macroquery/internal/export"
	"github.com/ndolage/macroquery/internal/table"
)

// NewExportCommand creates the export command.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	flags := &dataFlags{}
	var (
		outPath      string
		withMetadata bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Query fact data and write it to a file",
		Long: `Query fact data like the data command and write the result to a CSV or
XLSX file, chosen by the output extension. XLSX exports can include a
Metadata sheet listing the indicator, unit, location and source
combinations behind the data.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, flags, outPath, withMetadata, cmd)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&outPath, "out", "", "output file (.csv or .xlsx)")
	cmd.Flags().BoolVar(&withMetadata, "metadata", false, "add a Metadata sheet (xlsx only)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func runExport(opts *RootOptions, flags *dataFlags, outPath string, withMetadata bool, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	ext := strings.ToLower(filepath.Ext(outPath))
	if ext != ".csv" && ext != ".xlsx" {
		return WrapExitError(ExitCommandError, "out", fmt.Errorf("unsupported extension %q: use .csv or .xlsx", ext))
	}
	if withMetadata && ext != ".xlsx" {
		return WrapExitError(ExitCommandError, "metadata", fmt.Errorf("metadata sheets require an .xlsx output"))
	}

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

	var meta *table.Table
	if withMetadata {
		m, err := export.Metadata(cmd.Context(), sess.DB(), sess.Dialect(), r.DataGroup, r.IndicatorNames)
		if err != nil {
			// Metadata is advisory; the data sheet still exports.
			formatter.VerboseLog("metadata lookup failed: %v", err)
		} else {
			meta = &m
		}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "out", err)
	}
	defer f.Close()

	switch ext {
	case ".csv":
		err = export.WriteCSV(f, result)
	case ".xlsx":
		err = export.WriteXLSX(f, result, meta)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "export", err)
	}

	return formatter.Success(fmt.Sprintf("wrote %d rows to %s", len(result.Rows), outPath))
}
