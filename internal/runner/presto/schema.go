package presto

import (
	"context"
	"fmt"
	"strings"

	qerrors "github.com/querybridge/querybridge/internal/errors"
	"github.com/querybridge/querybridge/pkg/models"
)

// systemTableSchemas are always excluded from schema discovery, on top of
// whatever the data source blacklists.
var systemTableSchemas = []string{"pg_catalog", "information_schema"}

// columnsQueryTemplate is the catalog query for this engine's dialect. Other
// engines may need a different template; the exclusion-set semantics stay
// the same.
const columnsQueryTemplate = `
SELECT table_schema, table_name, column_name
FROM information_schema.columns
WHERE table_schema NOT IN (%s)
`

// Schema discovers the tables visible to the data source by querying the
// engine's information schema, excluding system schemas and blacklisted
// ones. Rows fold into one entry per "<schema>.<table>" in first-seen order,
// with column order following the catalog row order. A failed catalog query
// aborts discovery; no partial schema is returned.
func (r *Runner) Schema(ctx context.Context) ([]models.TableSchema, error) {
	query := fmt.Sprintf(columnsQueryTemplate, quotedList(r.exclusionSet()))

	result, err := r.Execute(ctx, nil, query)
	if err != nil {
		return nil, qerrors.NewSchemaDiscovery(err)
	}

	index := make(map[string]int)
	schemas := make([]models.TableSchema, 0)
	for _, row := range result.Rows {
		name := asString(row["table_schema"]) + "." + asString(row["table_name"])
		i, seen := index[name]
		if !seen {
			i = len(schemas)
			index[name] = i
			schemas = append(schemas, models.TableSchema{Name: name})
		}
		schemas[i].Columns = append(schemas[i].Columns, asString(row["column_name"]))
	}
	return schemas, nil
}

// exclusionSet returns the system schemas plus the blacklisted ones from the
// data source record, comma-split, whitespace-trimmed, empty entries dropped.
func (r *Runner) exclusionSet() []string {
	excluded := append([]string(nil), systemTableSchemas...)
	for _, entry := range strings.Split(r.ds.BlacklistedTableSchemas, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			excluded = append(excluded, entry)
		}
	}
	return excluded
}

// quotedList single-quotes and comma-joins names for a NOT IN clause.
func quotedList(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = "'" + name + "'"
	}
	return strings.Join(quoted, ", ")
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(v)
	}
}
