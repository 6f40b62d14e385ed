// Package cmd provides CLI commands for tracker.
package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tracker/internal/backend"
	"tracker/internal/cli"
	"tracker/internal/config"
	applog "tracker/internal/log"
	"tracker/internal/services"
)

// app carries the global flags and what the pre-run hook builds from them.
type app struct {
	envFile  string
	dataFile string
	backend  string
	debug    bool

	cfg     *config.Config
	logger  *applog.Logger
	svc     *services.ExpenseService
	cleanup backend.CleanupFunc
}

// Execute builds the command tree and runs it. This is called by main.main().
func Execute() error {
	root, a := newRootCmd()
	defer a.close()
	return root.Execute()
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "tracker",
		Short: "Track personal expenses in a CSV file",
		Long: `tracker records personal expenses in a flat CSV file
(ID, Date, Category, Description, Amount) and reports on them.

Ids are always 1..N in file order: deleting an expense renumbers
every expense after it.

Example:
  tracker add --category Food --description Lunch --amount 12.50
  tracker list
  tracker update 1 --amount 0
  tracker delete 1
  tracker summary --format yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsStore(cmd) {
				return nil
			}
			if err := a.setup(); err != nil {
				return err
			}
			return a.openBackend(cmd.Context())
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env", "", "env file to load (default is .env, optional)")
	rootCmd.PersistentFlags().StringVarP(&a.dataFile, "file", "f", "", "expenses file (overrides EXPENSES_FILE)")
	rootCmd.PersistentFlags().StringVar(&a.backend, "backend", "", "data backend: csv, sqlite or memory (overrides DATA_BACKEND)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newFindCmd(a),
		newSummaryCmd(a),
		newChartCmd(a),
		newExportCmd(a),
		newMenuCmd(a),
		newWatchCmd(a),
	)

	return rootCmd, a
}

// setup loads env, configuration and logging.
func (a *app) setup() error {
	if err := cli.LoadEnvFile(a.envFile); err != nil {
		return err
	}

	cfg, err := cli.LoadAndValidateConfig(func(c *config.Config) {
		if a.dataFile != "" {
			c.ExpensesFile = a.dataFile
		}
		if a.backend != "" {
			c.DataBackend = a.backend
		}
	})
	if err != nil {
		return err
	}

	logger, err := cli.SetupLogger(cfg, a.debug)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) openBackend(ctx context.Context) error {
	result, err := cli.InitBackend(ctx, a.logger, a.cfg)
	if err != nil {
		return err
	}
	a.svc = result.Service
	a.cleanup = result.Cleanup
	return nil
}

func (a *app) close() {
	if a.cleanup == nil {
		return
	}
	if err := a.cleanup(); err != nil {
		a.logger.Warn("Cleanup failed", applog.FieldError, err)
	}
	a.cleanup = nil
}

func (a *app) currency() string {
	if a.cfg == nil {
		return ""
	}
	return a.cfg.CurrencySymbol
}

// needsStore is false for cobra's own help and completion commands.
func needsStore(cmd *cobra.Command) bool {
	if cmd.Name() == "help" {
		return false
	}
	return !cmd.HasParent() || cmd.Parent().Name() != "completion"
}

// parseID reads a positional expense id.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid expense id %q: must be a positive integer", arg)
	}
	return id, nil
}
