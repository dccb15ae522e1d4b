package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/querybridge/querybridge/pkg/models"
)

func (c *CLI) newSchemaCmd() *cobra.Command {
	var yamlOutput bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Discover the data source schema",
		Long: `Discover the tables and columns visible to the configured data source.

The information schema of the remote engine is queried, with system schemas
and any blacklisted schemas excluded. Tables are listed in the order the
catalog returns them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSchema(cmd, yamlOutput)
		},
	}

	cmd.Flags().BoolVar(&yamlOutput, "yaml", false, "YAML output")

	return cmd
}

func (c *CLI) runSchema(cmd *cobra.Command, yamlOutput bool) error {
	rn, err := c.newRunner()
	if err != nil {
		return err
	}

	schemas, err := rn.Schema(cmd.Context())
	if err != nil {
		c.errorf("Schema discovery failed: %v\n", err)
		return err
	}

	if c.jsonOutput {
		return c.outputJSON(schemas)
	}
	if yamlOutput {
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(schemas)
	}

	c.printf("%s", formatSchemaListing(schemas))

	return nil
}

// formatSchemaListing renders the plain-text table listing: one line per
// table, column names indented beneath it.
func formatSchemaListing(schemas []models.TableSchema) string {
	var b strings.Builder
	for _, ts := range schemas {
		fmt.Fprintf(&b, "%s\n", ts.Name)
		for _, col := range ts.Columns {
			fmt.Fprintf(&b, "  %s\n", col)
		}
	}
	fmt.Fprintf(&b, "(%d tables)\n", len(schemas))
	return b.String()
}
