package schema

import (
	"strings"

	"db-classify/internal/dialect"

	"golang.org/x/text/cases"
)

// Annotation names under which a column's classification is stored.
const (
	AnnotationLabel           = "Classification:Label"
	AnnotationInformationType = "Classification:InformationType"
	AnnotationRank            = "Classification:Rank"
)

// DefaultSchema is used for tables declared without a schema.
const DefaultSchema = dialect.DefaultSchema

var folder = cases.Fold()

// Fold returns the case-folded form of an identifier. SQL Server's default
// collations compare identifiers case-insensitively.
func Fold(name string) string {
	return folder.String(name)
}

// SchemaOrDefault maps a blank schema to DefaultSchema.
func SchemaOrDefault(schema string) string {
	if strings.TrimSpace(schema) == "" {
		return DefaultSchema
	}
	return schema
}

// SameName reports whether two identifiers match case-insensitively.
func SameName(a, b string) bool {
	return Fold(a) == Fold(b)
}

// SameSchema reports whether two schema names match after defaulting.
func SameSchema(a, b string) bool {
	return SameName(SchemaOrDefault(a), SchemaOrDefault(b))
}

// Snapshot is a point-in-time view of a database schema.
type Snapshot struct {
	Tables []*Table
}

type Table struct {
	Schema       string
	Name         string
	RenamedFrom  string
	Columns      []*Column
	ForeignKeys  []*ForeignKey
	Dependencies []string // table names this table references
}

type Column struct {
	Name        string
	DataType    string
	Length      int
	IsNullable  bool
	IsPK        bool
	IsAutoInc   bool
	Comment     string // MS_Description
	RenamedFrom string
	Annotations map[string]string
}

type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

// FindTable resolves a table by schema and name. A blank schema means DefaultSchema.
func (s *Snapshot) FindTable(schema, name string) *Table {
	if s == nil {
		return nil
	}
	for _, t := range s.Tables {
		if SameSchema(t.Schema, schema) && SameName(t.Name, name) {
			return t
		}
	}
	return nil
}

// AddTable appends a table and returns it.
func (s *Snapshot) AddTable(schema, name string) *Table {
	t := &Table{Schema: schema, Name: name, Dependencies: []string{}}
	s.Tables = append(s.Tables, t)
	return t
}

// FindColumn resolves a column by name, case-insensitively.
func (t *Table) FindColumn(name string) *Column {
	if t == nil {
		return nil
	}
	for _, c := range t.Columns {
		if SameName(c.Name, name) {
			return c
		}
	}
	return nil
}

// AddColumn appends a column and returns it.
func (t *Table) AddColumn(name, dataType string) *Column {
	c := &Column{Name: name, DataType: dataType, IsNullable: true}
	t.Columns = append(t.Columns, c)
	return c
}

// SchemaName returns the table's schema with the default applied.
func (t *Table) SchemaName() string {
	return SchemaOrDefault(t.Schema)
}

// Annotation returns the value stored under name, or "".
func (c *Column) Annotation(name string) string {
	if c == nil || c.Annotations == nil {
		return ""
	}
	return c.Annotations[name]
}

// SetAnnotation stores a value; an empty value removes the annotation.
func (c *Column) SetAnnotation(name, value string) {
	if value == "" {
		delete(c.Annotations, name)
		return
	}
	if c.Annotations == nil {
		c.Annotations = make(map[string]string)
	}
	c.Annotations[name] = value
}

// Classify writes the three classification annotations at once.
func (c *Column) Classify(label, informationType, rank string) *Column {
	c.SetAnnotation(AnnotationLabel, label)
	c.SetAnnotation(AnnotationInformationType, informationType)
	c.SetAnnotation(AnnotationRank, rank)
	return c
}

// SameStructure reports whether two columns have the same type, length and nullability.
func (c *Column) SameStructure(o *Column) bool {
	return strings.EqualFold(c.DataType, o.DataType) &&
		c.Length == o.Length &&
		c.IsNullable == o.IsNullable &&
		c.IsAutoInc == o.IsAutoInc
}

// SameAnnotations reports whether two columns carry the same classification annotations.
func (c *Column) SameAnnotations(o *Column) bool {
	for _, k := range []string{AnnotationLabel, AnnotationInformationType, AnnotationRank} {
		if c.Annotation(k) != o.Annotation(k) {
			return false
		}
	}
	return true
}
