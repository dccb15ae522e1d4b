// Package models provides the shared data models of the querybridge public API.
// These are the shapes serialized to the host runtime: normalized query results,
// discovered table schemas, and data source configuration descriptors.
package models

// ColumnType is the canonical, engine-independent column type.
// Native engine types are normalized to one of these values; anything the
// engine reports that has no mapping becomes TypeUnknown.
type ColumnType string

const (
	TypeInteger ColumnType = "integer"
	TypeFloat   ColumnType = "float"
	TypeBoolean ColumnType = "boolean"
	TypeString  ColumnType = "string"
	TypeDate    ColumnType = "date"
	TypeUnknown ColumnType = "unknown"
)

// Column describes one column of a result set.
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Row maps column names to scalar values. Values pass through exactly as the
// engine returned them; no coercion is applied. When a query yields duplicate
// column names, the last value wins.
type Row map[string]interface{}

// ResultSet is the sole success output of a query execution.
// Constructed once per execution, never mutated afterwards.
type ResultSet struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// TableSchema describes one discovered table: its qualified
// "<schema>.<table>" name and the ordered list of its column names.
type TableSchema struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// ConfigField describes one field of a data source configuration, for the
// host that validates submitted configurations and renders the setup form.
type ConfigField struct {
	Name    string      `json:"name"`
	Type    string      `json:"type"`
	Title   string      `json:"title,omitempty"`
	Default interface{} `json:"default,omitempty"`
	Secret  bool        `json:"secret,omitempty"`
}

// ConfigurationSchema is the declarative description of a runner's
// configuration record.
type ConfigurationSchema struct {
	Fields   []ConfigField `json:"fields"`
	Required []string      `json:"required"`
}
