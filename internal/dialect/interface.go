package dialect

// Dialect abstracts the database-specific parts of classification sync.
type Dialect interface {
	// Metadata Queries (Schema Introspection)
	GetTablesQuery(schema string) string
	GetColumnsQuery(schema string) string
	GetForeignKeysQuery(schema string) string
	GetExtendedPropertiesQuery(schema string) string

	// Classification catalog (reporting)
	GetClassificationsQuery() string
	GetClassificationPropertiesQuery() string

	// Quoting
	QuoteIdentifier(name string) string
	QuoteString(value string) string
	QualifiedName(schema, table string) string

	// Helpers
	NormalizeType(sqlType string) string
	GetSchemaName(input string) string
	BatchSeparator() string
}
