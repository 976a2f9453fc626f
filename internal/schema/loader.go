package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SnapshotFile is the top-level structure of a snapshot declaration.
type SnapshotFile struct {
	DefaultSchema string      `yaml:"default_schema"`
	Tables        []TableSpec `yaml:"tables"`
}

// TableSpec declares one table.
type TableSpec struct {
	Schema      string           `yaml:"schema"`
	Name        string           `yaml:"name"`
	RenamedFrom string           `yaml:"renamed_from,omitempty"`
	Columns     []ColumnSpec     `yaml:"columns"`
	ForeignKeys []ForeignKeySpec `yaml:"foreign_keys,omitempty"`
}

// ColumnSpec declares one column and, optionally, its classification.
type ColumnSpec struct {
	Name           string              `yaml:"name"`
	Type           string              `yaml:"type"`
	Length         int                 `yaml:"length,omitempty"`
	Nullable       *bool               `yaml:"nullable,omitempty"`
	PrimaryKey     bool                `yaml:"primary_key,omitempty"`
	Identity       bool                `yaml:"identity,omitempty"`
	Comment        string              `yaml:"comment,omitempty"`
	RenamedFrom    string              `yaml:"renamed_from,omitempty"`
	Classification *ClassificationSpec `yaml:"classification,omitempty"`
}

// ClassificationSpec is the declared triple for a column.
type ClassificationSpec struct {
	Label           string `yaml:"label,omitempty"`
	InformationType string `yaml:"information_type,omitempty"`
	Rank            string `yaml:"rank,omitempty"`
}

type ForeignKeySpec struct {
	Column    string `yaml:"column"`
	RefTable  string `yaml:"ref_table"`
	RefColumn string `yaml:"ref_column"`
}

// LoadSnapshot reads and builds a Snapshot from a YAML declaration file.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSnapshot(data)
}

// ParseSnapshot builds a Snapshot from YAML bytes.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var f SnapshotFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing snapshot yaml: %w", err)
	}
	return f.Build()
}

// Build converts the declaration into a Snapshot. Classification blocks are
// written into column annotations.
func (f *SnapshotFile) Build() (*Snapshot, error) {
	snap := &Snapshot{}
	for i, ts := range f.Tables {
		if ts.Name == "" {
			return nil, fmt.Errorf("table #%d has no name", i+1)
		}
		schema := ts.Schema
		if schema == "" {
			schema = f.DefaultSchema
		}
		if snap.FindTable(schema, ts.Name) != nil {
			return nil, fmt.Errorf("table %s.%s declared twice", SchemaOrDefault(schema), ts.Name)
		}

		t := snap.AddTable(schema, ts.Name)
		t.RenamedFrom = ts.RenamedFrom
		for _, cs := range ts.Columns {
			if cs.Name == "" {
				return nil, fmt.Errorf("table %s has a column without a name", ts.Name)
			}
			if t.FindColumn(cs.Name) != nil {
				return nil, fmt.Errorf("column %s.%s declared twice", ts.Name, cs.Name)
			}
			c := t.AddColumn(cs.Name, cs.Type)
			c.Length = cs.Length
			c.IsPK = cs.PrimaryKey
			c.IsAutoInc = cs.Identity
			c.Comment = cs.Comment
			c.RenamedFrom = cs.RenamedFrom
			if cs.Nullable != nil {
				c.IsNullable = *cs.Nullable
			} else if cs.PrimaryKey {
				c.IsNullable = false
			}
			if cl := cs.Classification; cl != nil {
				c.Classify(cl.Label, cl.InformationType, cl.Rank)
			}
		}
		for _, fk := range ts.ForeignKeys {
			t.ForeignKeys = append(t.ForeignKeys, &ForeignKey{
				Column:    fk.Column,
				RefTable:  fk.RefTable,
				RefColumn: fk.RefColumn,
			})
			if !SameName(fk.RefTable, ts.Name) {
				t.Dependencies = append(t.Dependencies, fk.RefTable)
			}
		}
	}
	return snap, nil
}
