// Package cli provides the command-line interface for querybridge.
// The CLI is a thin shell over the runner: it loads a data source
// configuration, executes queries, discovers schemas, and probes
// connectivity.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/querybridge/querybridge/internal/config"
	qerrors "github.com/querybridge/querybridge/internal/errors"
	"github.com/querybridge/querybridge/internal/observability"
	"github.com/querybridge/querybridge/internal/runner"
	"github.com/querybridge/querybridge/internal/runner/presto"
)

// Exit codes
const (
	ExitSuccess     = 0
	ExitValidation  = 1
	ExitConnection  = 2
	ExitQuery       = 3
	ExitInternal    = 4
	ExitDiagnostics = 5
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// CLI holds the command-line interface state.
type CLI struct {
	rootCmd *cobra.Command
	cfg     *config.Config

	// Global flags
	configPath string
	host       string
	jsonOutput bool
	quiet      bool
	debug      bool
}

// New creates a new CLI instance.
func New() *CLI {
	cli := &CLI{}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

// Execute runs the CLI and returns the process exit code.
func (c *CLI) Execute() int {
	if err := c.rootCmd.Execute(); err != nil {
		return exitCodeFor(err)
	}
	return ExitSuccess
}

func (c *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "querybridge",
		Short: "querybridge - query adapter for distributed SQL engines",
		Long: `querybridge connects a caller to a remote distributed SQL engine,
submits queries, and normalizes results into a uniform row/column shape.

It provides:
  • query execution with structured error reporting and cancellation
  • schema discovery with schema-name exclusion filtering
  • connectivity diagnostics for the configured data source`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig()
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ~/.querybridge/config.yaml)")
	cmd.PersistentFlags().StringVar(&c.host, "host", "", "data source host (overrides config)")
	cmd.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "machine-readable JSON output")
	cmd.PersistentFlags().BoolVar(&c.quiet, "quiet", false, "suppress non-essential output")
	cmd.PersistentFlags().BoolVar(&c.debug, "debug", false, "verbose debug logs")

	cmd.AddCommand(c.newQueryCmd())
	cmd.AddCommand(c.newSchemaCmd())
	cmd.AddCommand(c.newDoctorCmd())
	cmd.AddCommand(c.newVersionCmd())

	return cmd
}

func (c *CLI) initConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	// Override with flags
	if c.host != "" {
		c.cfg.DataSource.Host = c.host
	}

	return nil
}

// newRunner builds the runner registry for the configured data source and
// returns the Presto runner from it.
func (c *CLI) newRunner() (runner.Runner, error) {
	if err := c.cfg.DataSource.Validate(); err != nil {
		return nil, err
	}

	var logger observability.QueryLogger = observability.NewNoopLogger()
	if c.cfg.Logging.Enabled && !c.quiet {
		logger = observability.NewJSONLogger(os.Stderr)
	}

	registry := runner.NewRegistry()
	if err := registry.Register(presto.New(c.cfg.DataSource, presto.WithQueryLogger(logger))); err != nil {
		return nil, err
	}

	rn, ok := registry.Get(presto.Name)
	if !ok {
		return nil, fmt.Errorf("runner %q not registered", presto.Name)
	}
	return rn, nil
}

func exitCodeFor(err error) int {
	var doctor *doctorFailed
	if errors.As(err, &doctor) {
		return ExitDiagnostics
	}
	var qe *qerrors.QueryError
	if !errors.As(err, &qe) {
		// Config and flag problems surface as plain errors.
		return ExitValidation
	}
	switch qe.Kind {
	case qerrors.KindConnection:
		return ExitConnection
	case qerrors.KindRemote, qerrors.KindCancelled, qerrors.KindSchemaDiscovery:
		return ExitQuery
	default:
		return ExitInternal
	}
}

// Helper functions for output

func (c *CLI) outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *CLI) printf(format string, args ...interface{}) {
	if !c.quiet {
		fmt.Printf(format, args...)
	}
}

func (c *CLI) println(args ...interface{}) {
	if !c.quiet {
		fmt.Println(args...)
	}
}

func (c *CLI) errorf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}

func (c *CLI) debugf(format string, args ...interface{}) {
	if c.debug {
		fmt.Printf("[DEBUG] "+format, args...)
	}
}
