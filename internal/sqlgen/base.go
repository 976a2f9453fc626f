package sqlgen

import (
	"fmt"
	"strings"

	"db-classify/internal/dialect"
	"db-classify/internal/migration"
	"db-classify/internal/schema"
)

// StructuralWriter renders structural (non-classification) operations. Hosts
// with their own DDL generator plug it in here.
type StructuralWriter interface {
	// Write appends the statements for op and reports whether op was handled.
	Write(b *Builder, op migration.Operation) (bool, error)
}

// BaseWriter is a minimal SQL Server StructuralWriter.
type BaseWriter struct {
	d dialect.Dialect
}

func NewBaseWriter(d dialect.Dialect) *BaseWriter {
	return &BaseWriter{d: d}
}

func (w *BaseWriter) Write(b *Builder, op migration.Operation) (bool, error) {
	switch o := op.(type) {
	case *migration.CreateTable:
		w.createTable(b, o)
	case *migration.DropTable:
		b.Append("DROP TABLE ").Append(w.d.QualifiedName(o.Schema, o.Name)).Append(";").EndCommand()
	case *migration.AddColumn:
		b.Append("ALTER TABLE ").Append(w.d.QualifiedName(o.Schema, o.Table)).
			Append(" ADD ").Append(w.columnDefinition(o.Column)).Append(";").EndCommand()
	case *migration.DropColumn:
		b.Append("ALTER TABLE ").Append(w.d.QualifiedName(o.Schema, o.Table)).
			Append(" DROP COLUMN ").Append(w.d.QuoteIdentifier(o.Name)).Append(";").EndCommand()
	case *migration.AlterColumn:
		if o.Old != nil && o.Column.SameStructure(o.Old) {
			// annotation-only change
			return true, nil
		}
		b.Append("ALTER TABLE ").Append(w.d.QualifiedName(o.Schema, o.Table)).
			Append(" ALTER COLUMN ").Append(w.columnType(o.Column)).Append(";").EndCommand()
	case *migration.RenameColumn:
		path := w.d.QualifiedName(o.Schema, o.Table) + "." + w.d.QuoteIdentifier(o.Name)
		b.Append(fmt.Sprintf("EXEC sp_rename %s, %s, N'COLUMN';", w.d.QuoteString(path), w.d.QuoteString(o.NewName))).EndCommand()
	case *migration.RenameTable:
		w.renameTable(b, o)
	default:
		return false, nil
	}
	return true, nil
}

func (w *BaseWriter) createTable(b *Builder, o *migration.CreateTable) {
	if len(o.Columns) == 0 {
		return
	}
	b.AppendLine("CREATE TABLE " + w.d.QualifiedName(o.Schema, o.Name) + " (")
	var lines, pk []string
	for _, c := range o.Columns {
		lines = append(lines, "    "+w.columnDefinition(c))
		if c.IsPK {
			pk = append(pk, w.d.QuoteIdentifier(c.Name))
		}
	}
	if len(pk) > 0 {
		lines = append(lines, fmt.Sprintf("    CONSTRAINT %s PRIMARY KEY (%s)",
			w.d.QuoteIdentifier("PK_"+o.Name), strings.Join(pk, ", ")))
	}
	b.AppendLine(strings.Join(lines, ",\n"))
	b.Append(");").EndCommand()
}

func (w *BaseWriter) renameTable(b *Builder, o *migration.RenameTable) {
	newSchema := o.NewSchema
	if newSchema == "" {
		newSchema = o.Schema
	}
	if o.Name != o.NewName {
		b.Append(fmt.Sprintf("EXEC sp_rename %s, %s;",
			w.d.QuoteString(w.d.QualifiedName(o.Schema, o.Name)), w.d.QuoteString(o.NewName))).EndCommand()
	}
	if !schema.SameSchema(o.Schema, newSchema) {
		b.Append(fmt.Sprintf("ALTER SCHEMA %s TRANSFER %s;",
			w.d.QuoteIdentifier(w.d.GetSchemaName(newSchema)), w.d.QualifiedName(o.Schema, o.NewName))).EndCommand()
	}
}

func (w *BaseWriter) columnDefinition(c *schema.Column) string {
	def := w.columnType(c)
	if c.IsAutoInc {
		def += " IDENTITY(1,1)"
	}
	return def
}

// columnType renders "[name] type NULL|NOT NULL".
func (w *BaseWriter) columnType(c *schema.Column) string {
	t := strings.ToLower(strings.TrimSpace(c.DataType))
	if t == "" {
		t = "nvarchar"
		if c.Length == 0 {
			t = "nvarchar(max)"
		}
	}
	if hasLength(t) && !strings.Contains(t, "(") {
		switch {
		case c.Length < 0:
			t += "(max)"
		case c.Length > 0:
			t += fmt.Sprintf("(%d)", c.Length)
		default:
			t += "(max)"
		}
	}
	null := "NULL"
	if !c.IsNullable || c.IsPK {
		null = "NOT NULL"
	}
	return fmt.Sprintf("%s %s %s", w.d.QuoteIdentifier(c.Name), t, null)
}

func hasLength(t string) bool {
	switch t {
	case "varchar", "nvarchar", "char", "nchar", "varbinary", "binary":
		return true
	}
	return false
}
