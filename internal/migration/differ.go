package migration

import (
	"strings"

	"db-classify/internal/schema"

	"github.com/rs/zerolog/log"
)

// Diff compares two snapshots and returns the structural operations that turn
// source into target. Renames are recognised only through renamed_from hints.
// A nil source diffs against an empty database.
func Diff(source, target *schema.Snapshot) []Operation {
	if source == nil {
		source = &schema.Snapshot{}
	}
	if target == nil {
		target = &schema.Snapshot{}
	}

	var renames, columnOps, creates, drops []Operation
	matched := make(map[*schema.Table]bool)

	for _, tt := range target.Tables {
		st := source.FindTable(tt.Schema, tt.Name)
		if st == nil && tt.RenamedFrom != "" {
			oldSchema, oldName := splitQualified(tt.RenamedFrom, tt.Schema)
			if st = source.FindTable(oldSchema, oldName); st != nil {
				renames = append(renames, &RenameTable{
					Schema:    st.Schema,
					Name:      st.Name,
					NewSchema: tt.Schema,
					NewName:   tt.Name,
				})
			}
		}
		if st == nil || matched[st] {
			continue
		}
		matched[st] = true
		columnOps = append(columnOps, diffColumns(st, tt)...)
	}

	var newTables []*schema.Table
	for _, tt := range target.Tables {
		if st := source.FindTable(tt.Schema, tt.Name); st != nil && matched[st] {
			continue
		}
		if tt.RenamedFrom != "" {
			oldSchema, oldName := splitQualified(tt.RenamedFrom, tt.Schema)
			if st := source.FindTable(oldSchema, oldName); st != nil && matched[st] {
				continue
			}
		}
		newTables = append(newTables, tt)
	}
	for _, t := range schema.SortTablesByFKCount(newTables) {
		creates = append(creates, &CreateTable{Schema: t.Schema, Name: t.Name, Columns: t.Columns})
	}

	var goneTables []*schema.Table
	for _, st := range source.Tables {
		if !matched[st] {
			goneTables = append(goneTables, st)
		}
	}
	for _, t := range schema.Reversed(schema.SortTablesByFKCount(goneTables)) {
		drops = append(drops, &DropTable{Schema: t.Schema, Name: t.Name})
	}

	ops := make([]Operation, 0, len(renames)+len(columnOps)+len(creates)+len(drops))
	ops = append(ops, renames...)
	ops = append(ops, columnOps...)
	ops = append(ops, creates...)
	ops = append(ops, drops...)

	log.Debug().
		Int("renames", len(renames)).
		Int("columns", len(columnOps)).
		Int("creates", len(creates)).
		Int("drops", len(drops)).
		Msg("snapshots diffed")
	return ops
}

// diffColumns compares the columns of a matched table pair. Operations use the
// target table's coordinates.
func diffColumns(st, tt *schema.Table) []Operation {
	var renames, drops, alters, adds []Operation
	matched := make(map[*schema.Column]bool)

	for _, tc := range tt.Columns {
		sc := st.FindColumn(tc.Name)
		if sc == nil && tc.RenamedFrom != "" {
			if sc = st.FindColumn(tc.RenamedFrom); sc != nil {
				renames = append(renames, &RenameColumn{
					Schema:  tt.Schema,
					Table:   tt.Name,
					Name:    sc.Name,
					NewName: tc.Name,
				})
			}
		}
		if sc == nil || matched[sc] {
			adds = append(adds, &AddColumn{Schema: tt.Schema, Table: tt.Name, Column: tc})
			continue
		}
		matched[sc] = true
		if !sc.SameStructure(tc) || !sc.SameAnnotations(tc) {
			alters = append(alters, &AlterColumn{Schema: tt.Schema, Table: tt.Name, Column: tc, Old: sc})
		}
	}

	for _, sc := range st.Columns {
		if !matched[sc] {
			drops = append(drops, &DropColumn{Schema: tt.Schema, Table: tt.Name, Name: sc.Name})
		}
	}

	ops := append(renames, drops...)
	ops = append(ops, alters...)
	return append(ops, adds...)
}

// splitQualified splits "schema.name" and falls back to defaultSchema for a bare name.
func splitQualified(name, defaultSchema string) (string, string) {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i], name[i+1:]
	}
	return defaultSchema, name
}
