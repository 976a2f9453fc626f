// Package migration holds the operation stream exchanged between the
// structural differ, the classification decorator and the SQL generator.
package migration

import (
	"fmt"

	"db-classify/internal/classification"
	"db-classify/internal/schema"
)

// Operation is one step of a migration.
type Operation interface {
	// Describe returns a one-line human readable summary.
	Describe() string
}

type CreateTable struct {
	Schema  string
	Name    string
	Columns []*schema.Column
}

type DropTable struct {
	Schema string
	Name   string
}

type AddColumn struct {
	Schema string
	Table  string
	Column *schema.Column
}

type DropColumn struct {
	Schema string
	Table  string
	Name   string
}

type RenameColumn struct {
	Schema  string
	Table   string
	Name    string
	NewName string
}

type RenameTable struct {
	Schema    string
	Name      string
	NewSchema string
	NewName   string
}

// AlterColumn changes a column in place. Old is the column as it was.
type AlterColumn struct {
	Schema string
	Table  string
	Column *schema.Column
	Old    *schema.Column
}

// CreateClassification registers a triple on a column.
type CreateClassification struct {
	At          classification.Coordinate
	Triple      classification.Triple
	DisplayName string
}

// RemoveClassification clears any classification on a column.
type RemoveClassification struct {
	At classification.Coordinate
}

func (o *CreateTable) Describe() string {
	return fmt.Sprintf("CreateTable %s.%s (%d columns)", schema.SchemaOrDefault(o.Schema), o.Name, len(o.Columns))
}

func (o *DropTable) Describe() string {
	return fmt.Sprintf("DropTable %s.%s", schema.SchemaOrDefault(o.Schema), o.Name)
}

func (o *AddColumn) Describe() string {
	return fmt.Sprintf("AddColumn %s.%s.%s", schema.SchemaOrDefault(o.Schema), o.Table, o.Column.Name)
}

func (o *DropColumn) Describe() string {
	return fmt.Sprintf("DropColumn %s.%s.%s", schema.SchemaOrDefault(o.Schema), o.Table, o.Name)
}

func (o *RenameColumn) Describe() string {
	return fmt.Sprintf("RenameColumn %s.%s.%s -> %s", schema.SchemaOrDefault(o.Schema), o.Table, o.Name, o.NewName)
}

func (o *RenameTable) Describe() string {
	return fmt.Sprintf("RenameTable %s.%s -> %s.%s", schema.SchemaOrDefault(o.Schema), o.Name, schema.SchemaOrDefault(o.NewSchema), o.NewName)
}

func (o *AlterColumn) Describe() string {
	return fmt.Sprintf("AlterColumn %s.%s.%s", schema.SchemaOrDefault(o.Schema), o.Table, o.Column.Name)
}

func (o *CreateClassification) Describe() string {
	return fmt.Sprintf("CreateClassification %s %s", o.At, o.Triple)
}

func (o *RemoveClassification) Describe() string {
	return fmt.Sprintf("RemoveClassification %s", o.At)
}

// AddClassification builds a hand-written Create operation.
func AddClassification(schemaName, table, column, label, informationType, rank string) *CreateClassification {
	return &CreateClassification{
		At: classification.NewCoordinate(schemaName, table, column),
		Triple: classification.Triple{
			Label:           label,
			InformationType: informationType,
			Rank:            classification.Rank(rank),
		},
	}
}

// DropClassification builds a hand-written Remove operation.
func DropClassification(schemaName, table, column string) *RemoveClassification {
	return &RemoveClassification{At: classification.NewCoordinate(schemaName, table, column)}
}
