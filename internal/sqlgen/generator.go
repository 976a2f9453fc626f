package sqlgen

import (
	"fmt"
	"strings"

	"db-classify/internal/classification"
	"db-classify/internal/dialect"
	"db-classify/internal/migration"
	"db-classify/internal/schema"
)

// Generator emits SQL for migration operations, adding classification
// statements around them.
type Generator struct {
	d    dialect.Dialect
	base StructuralWriter
}

// NewGenerator returns a Generator using BaseWriter for structural statements.
func NewGenerator(d dialect.Dialect) *Generator {
	return &Generator{d: d, base: NewBaseWriter(d)}
}

// WithStructuralWriter replaces the writer used for structural operations.
func (g *Generator) WithStructuralWriter(w StructuralWriter) *Generator {
	g.base = w
	return g
}

// Generate emits every operation in order. model is the live schema used to
// re-derive classifications for bare CreateTable/AddColumn/Drop operations;
// pass nil when ops were already decorated.
func (g *Generator) Generate(ops []migration.Operation, model *schema.Snapshot) ([]Command, error) {
	var b Builder
	for _, op := range ops {
		if err := g.Emit(&b, op, model); err != nil {
			return nil, err
		}
	}
	return b.Commands(), nil
}

// Emit appends the statements for a single operation. Classifications are
// validated before anything is appended, so a failing operation leaves b untouched.
func (g *Generator) Emit(b *Builder, op migration.Operation, model *schema.Snapshot) error {
	switch o := op.(type) {
	case *migration.CreateClassification:
		if err := classification.Validate(o.At, o.DisplayName, o.Triple); err != nil {
			return err
		}
		g.writeCreate(b, o.At, o.Triple)
		return nil

	case *migration.RemoveClassification:
		g.writeRemove(b, o.At)
		return nil

	case *migration.CreateTable:
		var creates []*migration.CreateClassification
		for _, c := range o.Columns {
			creates = append(creates, derive(model, o.Schema, o.Name, c.Name)...)
		}
		return g.structuralThenCreate(b, op, creates)

	case *migration.AddColumn:
		return g.structuralThenCreate(b, op, derive(model, o.Schema, o.Table, o.Column.Name))

	case *migration.DropColumn:
		if model != nil {
			g.writeRemove(b, classification.NewCoordinate(o.Schema, o.Table, o.Name))
		}
		return g.structural(b, op)

	case *migration.DropTable:
		if t := model.FindTable(o.Schema, o.Name); t != nil {
			for _, c := range t.Columns {
				if _, ok := classification.FromColumn(c); ok {
					g.writeRemove(b, classification.NewCoordinate(o.Schema, o.Name, c.Name))
				}
			}
		}
		return g.structural(b, op)
	}
	return g.structural(b, op)
}

// derive looks up the classification of one column in a live model and wraps it
// as a Create operation, the same shape the decorator produces.
func derive(model *schema.Snapshot, schemaName, table, column string) []*migration.CreateClassification {
	if model == nil {
		return nil
	}
	at := classification.NewCoordinate(schemaName, table, column)
	t, ok := classification.Lookup(model, at)
	if !ok {
		return nil
	}
	return []*migration.CreateClassification{{At: at, Triple: t, DisplayName: table + "." + column}}
}

func (g *Generator) structuralThenCreate(b *Builder, op migration.Operation, creates []*migration.CreateClassification) error {
	for _, c := range creates {
		if err := classification.Validate(c.At, c.DisplayName, c.Triple); err != nil {
			return err
		}
	}
	if err := g.structural(b, op); err != nil {
		return err
	}
	for _, c := range creates {
		g.writeCreate(b, c.At, c.Triple)
	}
	return nil
}

func (g *Generator) structural(b *Builder, op migration.Operation) error {
	if g.base == nil {
		return nil
	}
	handled, err := g.base.Write(b, op)
	if err != nil {
		return err
	}
	if !handled {
		return fmt.Errorf("no SQL generator for operation %T", op)
	}
	return nil
}

// writeCreate appends one extended property per non-blank field and the native
// ADD SENSITIVITY CLASSIFICATION statement. Callers validate first.
func (g *Generator) writeCreate(b *Builder, at classification.Coordinate, t classification.Triple) {
	if t.IsEmpty() {
		return
	}
	at = at.Normalize()

	if !blank(t.Label) {
		g.addProperty(b, at, schema.AnnotationLabel, t.Label)
	}
	if !blank(t.InformationType) {
		g.addProperty(b, at, schema.AnnotationInformationType, t.InformationType)
	}
	if !t.Rank.IsBlank() {
		g.addProperty(b, at, schema.AnnotationRank, string(t.Rank.Canonical()))
	}

	var parts []string
	if !blank(t.Label) {
		parts = append(parts, "LABEL = "+g.d.QuoteString(t.Label))
	}
	if !blank(t.InformationType) {
		parts = append(parts, "INFORMATION_TYPE = "+g.d.QuoteString(t.InformationType))
	}
	if token := t.Rank.Token(); token != "" {
		parts = append(parts, "RANK = "+token)
	}
	// a rank of None alone leaves nothing to classify natively
	if len(parts) == 0 {
		return
	}
	b.Append("ADD SENSITIVITY CLASSIFICATION TO ").Append(g.columnPath(at)).
		Append(" WITH (").Append(strings.Join(parts, ", ")).Append(");").
		EndCommand()
}

// writeRemove appends guarded drops for the three properties and the native classification.
func (g *Generator) writeRemove(b *Builder, at classification.Coordinate) {
	at = at.Normalize()
	for _, name := range []string{schema.AnnotationLabel, schema.AnnotationInformationType, schema.AnnotationRank} {
		g.dropProperty(b, at, name)
	}

	object := g.d.QuoteString(g.d.QualifiedName(at.Schema, at.Table))
	b.AppendLine("IF EXISTS (SELECT 1 FROM sys.sensitivity_classifications sc WHERE sc.major_id = OBJECT_ID(" + object +
		") AND sc.minor_id = COLUMNPROPERTY(OBJECT_ID(" + object + "), " + g.d.QuoteString(at.Column) + ", 'ColumnId'))").
		Append("    DROP SENSITIVITY CLASSIFICATION FROM ").Append(g.columnPath(at)).Append(";").
		EndCommand()
}

func (g *Generator) addProperty(b *Builder, at classification.Coordinate, name, value string) {
	b.Append("EXEC sys.sp_addextendedproperty @name=").Append(g.d.QuoteString(name)).
		Append(", @value=").Append(g.d.QuoteString(value)).
		Append(", ").Append(g.levels(at)).Append(";").
		EndCommand()
}

func (g *Generator) dropProperty(b *Builder, at classification.Coordinate, name string) {
	object := g.d.QuoteString(g.d.QualifiedName(at.Schema, at.Table))
	b.AppendLine("IF EXISTS (SELECT 1 FROM sys.extended_properties ep WHERE ep.class = 1 AND ep.name = " + g.d.QuoteString(name) +
		" AND ep.major_id = OBJECT_ID(" + object + ") AND ep.minor_id = COLUMNPROPERTY(OBJECT_ID(" + object + "), " +
		g.d.QuoteString(at.Column) + ", 'ColumnId'))").
		Append("    EXEC sys.sp_dropextendedproperty @name=").Append(g.d.QuoteString(name)).
		Append(", ").Append(g.levels(at)).Append(";").
		EndCommand()
}

// levels renders the SCHEMA/TABLE/COLUMN addressing arguments.
func (g *Generator) levels(at classification.Coordinate) string {
	return "@level0type=N'SCHEMA', @level0name=" + g.d.QuoteString(at.Schema) +
		", @level1type=N'TABLE', @level1name=" + g.d.QuoteString(at.Table) +
		", @level2type=N'COLUMN', @level2name=" + g.d.QuoteString(at.Column)
}

func (g *Generator) columnPath(at classification.Coordinate) string {
	return g.d.QualifiedName(at.Schema, at.Table) + "." + g.d.QuoteIdentifier(at.Column)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
