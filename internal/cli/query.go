package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/querybridge/querybridge/internal/runner"
)

func (c *CLI) newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query execution commands",
		Long:  `Execute SQL queries against the configured data source.`,
	}

	cmd.AddCommand(c.newQueryExecCmd())

	return cmd
}

func (c *CLI) newQueryExecCmd() *cobra.Command {
	var asUser string

	cmd := &cobra.Command{
		Use:   "exec <SQL>",
		Short: "Execute a SQL query",
		Long: `Execute a SQL query against the configured data source.

The query is submitted to the remote engine, the result set is normalized,
and printed to stdout. Interrupting the command (Ctrl-C) cancels the
in-flight remote query.

Example:
  querybridge query exec "SELECT * FROM analytics.sales_orders LIMIT 10"
  querybridge query exec --as-user a@b.com "SHOW TABLES"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runQueryExec(cmd, args[0], asUser)
		},
	}

	cmd.Flags().StringVar(&asUser, "as-user", "", "principal email for user impersonation")

	return cmd
}

func (c *CLI) runQueryExec(cmd *cobra.Command, sqlQuery, asUser string) error {
	rn, err := c.newRunner()
	if err != nil {
		return err
	}

	var principal *runner.Principal
	if asUser != "" {
		principal = &runner.Principal{Email: asUser}
	}

	// Ctrl-C cancels the in-flight remote query.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c.debugf("executing query: %s\n", sqlQuery)

	result, err := rn.Execute(ctx, principal, sqlQuery)
	if err != nil {
		if c.jsonOutput {
			_ = c.outputJSON(map[string]interface{}{"error": err.Error()})
		} else {
			c.errorf("Query failed: %v\n", err)
		}
		return err
	}

	if c.jsonOutput {
		return c.outputJSON(result)
	}

	for i, col := range result.Columns {
		if i > 0 {
			c.printf("\t")
		}
		c.printf("%s", col.Name)
	}
	c.println("")
	for _, row := range result.Rows {
		for i, col := range result.Columns {
			if i > 0 {
				c.printf("\t")
			}
			c.printf("%v", row[col.Name])
		}
		c.println("")
	}
	c.printf("(%d rows)\n", len(result.Rows))

	return nil
}
