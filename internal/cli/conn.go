package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ndolage/macroquery/internal/warehouse"
)

// resolveConfig builds the connection config from the profile file and
// WAREHOUSE_* environment overrides. A missing profile file is not an
// error; the environment alone may be enough.
func resolveConfig(opts *RootOptions) (warehouse.Config, error) {
	cfg := warehouse.Config{
		Driver:  "postgres",
		Host:    "localhost",
		Port:    5432,
		SSLMode: "require",
	}

	if opts.Profile != "" {
		if _, err := os.Stat(opts.Profile); err == nil {
			loaded, err := warehouse.LoadProfile(opts.Profile)
			if err != nil {
				return warehouse.Config{}, WrapExitError(ExitCommandError, "connection profile", err)
			}
			cfg = loaded
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// openSession connects to the warehouse for the duration of one
// command. Callers must Close it.
func openSession(opts *RootOptions, cmd *cobra.Command) (*warehouse.Session, error) {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, err
	}

	formatter := newFormatter(opts, cmd)
	formatter.VerboseLog("connecting to %s", cfg.RedactedDSN())

	sess, err := warehouse.Open(cfg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "connect", err)
	}
	return sess, nil
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
