package dialect

import (
	"strings"

	_ "github.com/denisenkom/go-mssqldb" // SQL Server Driver
)

type MSSQLDialect struct{}

// Queries bind the schema as @p1, which go-mssqldb expects for positional arguments.

func (d *MSSQLDialect) GetTablesQuery(schema string) string {
	return `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = @p1 AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`
}

func (d *MSSQLDialect) GetColumnsQuery(schema string) string {
	// PK flag, identity flag and MS_Description (Comment) in one pass
	return `
		SELECT 
			c.TABLE_NAME, 
			c.COLUMN_NAME, 
			c.DATA_TYPE, 
			c.CHARACTER_MAXIMUM_LENGTH, 
			c.IS_NULLABLE, 
			CASE WHEN pk.COLUMN_NAME IS NOT NULL THEN 'PRIMARY' ELSE '' END AS COLUMN_KEY,
			CASE 
				WHEN COLUMNPROPERTY(OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME)), c.COLUMN_NAME, 'IsIdentity') = 1 THEN 'identity'
				ELSE ''
			END AS EXTRA,
			CAST(ep.value AS NVARCHAR(MAX)) AS COMMENT
		FROM INFORMATION_SCHEMA.COLUMNS c
		LEFT JOIN (
			SELECT kcu.TABLE_NAME, kcu.COLUMN_NAME
			FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
			JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu 
				ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
				AND tc.TABLE_SCHEMA = kcu.TABLE_SCHEMA
			WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY' AND tc.TABLE_SCHEMA = @p1
		) pk ON c.TABLE_NAME = pk.TABLE_NAME AND c.COLUMN_NAME = pk.COLUMN_NAME
		LEFT JOIN sys.extended_properties ep 
			ON ep.major_id = OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME)) 
			AND ep.minor_id = COLUMNPROPERTY(OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME)), c.COLUMN_NAME, 'ColumnId')
			AND ep.name = 'MS_Description'
		WHERE c.TABLE_SCHEMA = @p1 
		ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION
	`
}

func (d *MSSQLDialect) GetForeignKeysQuery(schema string) string {
	return `SELECT KCU1.TABLE_NAME, KCU1.CONSTRAINT_NAME, KCU1.COLUMN_NAME, KCU2.TABLE_NAME AS REF_TABLE, KCU2.COLUMN_NAME AS REF_COLUMN FROM INFORMATION_SCHEMA.REFERENTIAL_CONSTRAINTS RC JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE KCU1 ON RC.CONSTRAINT_NAME = KCU1.CONSTRAINT_NAME JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE KCU2 ON RC.UNIQUE_CONSTRAINT_NAME = KCU2.CONSTRAINT_NAME AND KCU1.ORDINAL_POSITION = KCU2.ORDINAL_POSITION WHERE KCU1.TABLE_SCHEMA = @p1`
}

// GetExtendedPropertiesQuery returns (table, column, property name, value) rows
// for the classification properties on columns of a schema.
func (d *MSSQLDialect) GetExtendedPropertiesQuery(schema string) string {
	return `
		SELECT
			t.name AS TABLE_NAME,
			c.name AS COLUMN_NAME,
			ep.name AS PROPERTY_NAME,
			CAST(ep.value AS NVARCHAR(MAX)) AS PROPERTY_VALUE
		FROM sys.extended_properties ep
		JOIN sys.tables t ON ep.major_id = t.object_id
		JOIN sys.schemas s ON t.schema_id = s.schema_id
		JOIN sys.columns c ON ep.major_id = c.object_id AND ep.minor_id = c.column_id
		WHERE ep.class = 1
			AND s.name = @p1
			AND ep.name LIKE N'` + escapeQuotes(ClassificationPropertyPrefix) + `%'
		ORDER BY t.name, c.name, ep.name
	`
}

// GetClassificationsQuery reads the native catalog (SQL Server 2019+).
func (d *MSSQLDialect) GetClassificationsQuery() string {
	return `
		SELECT 
			SCHEMA_NAME(o.schema_id) AS SCHEMA_NAME,
			o.name AS TABLE_NAME,
			c.name AS COLUMN_NAME,
			CAST(sc.label AS NVARCHAR(128)) AS LABEL,
			CAST(sc.information_type AS NVARCHAR(128)) AS INFORMATION_TYPE,
			sc.rank_desc AS RANK
		FROM sys.sensitivity_classifications sc
		JOIN sys.objects o ON sc.major_id = o.object_id
		JOIN sys.columns c ON sc.major_id = c.object_id 
			AND sc.minor_id = c.column_id
		ORDER BY SCHEMA_NAME(o.schema_id), o.name, c.name
	`
}

// GetClassificationPropertiesQuery pivots the Classification:* extended properties
// into one row per column.
func (d *MSSQLDialect) GetClassificationPropertiesQuery() string {
	p := escapeQuotes(ClassificationPropertyPrefix)
	return `
		SELECT 
			SCHEMA_NAME(t.schema_id) AS SCHEMA_NAME,
			t.name AS TABLE_NAME,
			c.name AS COLUMN_NAME,
			MAX(CASE WHEN ep.name = N'` + p + `Label' THEN CAST(ep.value AS NVARCHAR(MAX)) END) AS LABEL,
			MAX(CASE WHEN ep.name = N'` + p + `InformationType' THEN CAST(ep.value AS NVARCHAR(MAX)) END) AS INFORMATION_TYPE,
			MAX(CASE WHEN ep.name = N'` + p + `Rank' THEN CAST(ep.value AS NVARCHAR(MAX)) END) AS RANK
		FROM sys.extended_properties ep
		JOIN sys.tables t ON ep.major_id = t.object_id
		JOIN sys.columns c ON ep.major_id = c.object_id AND ep.minor_id = c.column_id
		WHERE ep.class = 1 AND ep.name LIKE N'` + p + `%'
		GROUP BY t.schema_id, t.name, c.name
		ORDER BY SCHEMA_NAME(t.schema_id), t.name, c.name
	`
}

// QuoteIdentifier delimits a name with brackets, doubling any closing bracket.
func (d *MSSQLDialect) QuoteIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// QuoteString renders an N-prefixed Unicode literal.
func (d *MSSQLDialect) QuoteString(value string) string {
	return "N'" + escapeQuotes(value) + "'"
}

// QualifiedName renders [schema].[table], defaulting the schema.
func (d *MSSQLDialect) QualifiedName(schema, table string) string {
	return d.QuoteIdentifier(d.GetSchemaName(schema)) + "." + d.QuoteIdentifier(table)
}

func (d *MSSQLDialect) NormalizeType(sqlType string) string {
	t := DefaultNormalizeType(sqlType)
	switch t {
	case "numeric":
		return "decimal"
	case "integer":
		return "int"
	default:
		return t
	}
}

func (d *MSSQLDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}

func (d *MSSQLDialect) BatchSeparator() string {
	return "GO"
}
