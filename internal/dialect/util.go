package dialect

import (
	"strings"
)

// DefaultSchema is the schema SQL Server assumes when none is given.
const DefaultSchema = "dbo"

// ClassificationPropertyPrefix marks the extended properties this tool owns.
const ClassificationPropertyPrefix = "Classification:"

// escapeQuotes doubles single quotes for use inside a T-SQL string literal.
func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// DefaultNormalizeType is a default implementation for type normalization (lowercase).
func DefaultNormalizeType(sqlType string) string {
	return strings.ToLower(strings.TrimSpace(sqlType))
}

// DefaultGetSchemaName falls back to DefaultSchema for blank input.
func DefaultGetSchemaName(input string) string {
	if strings.TrimSpace(input) == "" {
		return DefaultSchema
	}
	return input
}
