// Package sql provides SQL inspection utilities for query logging.
// Uses xwb1989/sqlparser to pull table references out of a query; parsing is
// best effort only and never blocks execution, since the remote engine is the
// authority on the dialect.
package sql

import (
	"github.com/xwb1989/sqlparser"
)

// ExtractTables returns the table names referenced by query, qualified where
// the query qualifies them, in first-appearance order without duplicates.
// Queries the parser cannot handle (engine-specific statements such as
// SHOW TABLES) yield nil.
func ExtractTables(query string) []string {
	stmt, err := sqlparser.Parse(query)
	if err != nil {
		return nil
	}

	var tables []string
	seen := make(map[string]struct{})

	// Only table expressions count. Matching bare TableName nodes would also
	// pick up the qualifiers of column references such as "e.id".
	_ = sqlparser.Walk(func(node sqlparser.SQLNode) (bool, error) {
		ate, ok := node.(*sqlparser.AliasedTableExpr)
		if !ok {
			return true, nil
		}
		tn, ok := ate.Expr.(sqlparser.TableName)
		if !ok || tn.Name.IsEmpty() {
			return true, nil
		}
		name := tn.Name.String()
		if !tn.Qualifier.IsEmpty() {
			name = tn.Qualifier.String() + "." + name
		}
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			tables = append(tables, name)
		}
		return true, nil
	}, stmt)

	return tables
}
