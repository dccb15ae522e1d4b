package presto

import (
	"github.com/querybridge/querybridge/pkg/models"
)

// nativeTypes maps engine-native type names to the canonical type system.
// Lookups are case-sensitive; the connection layer lowercases the raw type
// names the driver reports before they reach this table.
var nativeTypes = map[string]models.ColumnType{
	"integer":  models.TypeInteger,
	"tinyint":  models.TypeInteger,
	"smallint": models.TypeInteger,
	"long":     models.TypeInteger,
	"bigint":   models.TypeInteger,
	"float":    models.TypeFloat,
	"double":   models.TypeFloat,
	"boolean":  models.TypeBoolean,
	"string":   models.TypeString,
	"varchar":  models.TypeString,
	"date":     models.TypeDate,
}

// MapType normalizes an engine-native type name. Names without a mapping
// resolve to TypeUnknown, never an error.
func MapType(native string) models.ColumnType {
	if t, ok := nativeTypes[native]; ok {
		return t
	}
	return models.TypeUnknown
}
