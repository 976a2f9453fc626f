package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"db-classify/internal/dialect"

	"github.com/rs/zerolog/log"
)

// Analyze reads one schema of a live database into a Snapshot, including the
// Classification:* extended properties as column annotations.
func Analyze(ctx context.Context, db *sql.DB, d dialect.Dialect, schemaName string) (*Snapshot, error) {
	target := d.GetSchemaName(schemaName)

	// normalized keys for case-insensitive matching
	tableMap := make(map[string]*Table)
	snap := &Snapshot{}

	// --- Step 1: Fetch Tables ---
	rows, err := db.QueryContext(ctx, d.GetTablesQuery(target), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tableMap[Fold(name)] = snap.AddTable(target, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}

	// --- Step 2: Fetch Columns ---
	colRows, err := db.QueryContext(ctx, d.GetColumnsQuery(target), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer colRows.Close()

	for colRows.Next() {
		var tName, cName, dType, cLen, isNull, cKey, extra, comment sql.NullString
		if err := colRows.Scan(&tName, &cName, &dType, &cLen, &isNull, &cKey, &extra, &comment); err != nil {
			return nil, fmt.Errorf("failed to scan column (table: %s): %w", tName.String, err)
		}
		if !tName.Valid || !cName.Valid {
			continue
		}

		t, ok := tableMap[Fold(tName.String)]
		if !ok {
			continue
		}
		col := &Column{
			Name:       cName.String,
			DataType:   d.NormalizeType(dType.String),
			IsNullable: isNull.String == "YES",
			IsPK:       strings.Contains(cKey.String, "PRIMARY"),
			IsAutoInc:  strings.Contains(strings.ToLower(extra.String), "identity"),
			Comment:    comment.String,
		}
		if cLen.Valid && cLen.String != "" {
			var length int
			if _, err := fmt.Sscanf(cLen.String, "%d", &length); err == nil {
				col.Length = length
			}
		}
		t.Columns = append(t.Columns, col)
	}
	if err := colRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}

	// --- Step 3: Fetch Foreign Keys ---
	fkRows, err := db.QueryContext(ctx, d.GetForeignKeysQuery(target), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query foreign keys: %w", err)
	}
	defer fkRows.Close()

	for fkRows.Next() {
		var tName, cConst, cName, rTable, rCol sql.NullString
		if err := fkRows.Scan(&tName, &cConst, &cName, &rTable, &rCol); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key: %w", err)
		}
		if !tName.Valid || !rTable.Valid || SameName(tName.String, rTable.String) {
			continue
		}
		t, ok := tableMap[Fold(tName.String)]
		if !ok {
			continue
		}
		// external references are ignored
		ref, ok := tableMap[Fold(rTable.String)]
		if !ok {
			continue
		}
		t.Dependencies = append(t.Dependencies, ref.Name)
		t.ForeignKeys = append(t.ForeignKeys, &ForeignKey{
			Column:    cName.String,
			RefTable:  ref.Name,
			RefColumn: rCol.String,
		})
	}
	if err := fkRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating foreign keys: %w", err)
	}

	// --- Step 4: Fetch classification extended properties ---
	epRows, err := db.QueryContext(ctx, d.GetExtendedPropertiesQuery(target), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query extended properties: %w", err)
	}
	defer epRows.Close()

	annotated := 0
	for epRows.Next() {
		var tName, cName, pName, pValue sql.NullString
		if err := epRows.Scan(&tName, &cName, &pName, &pValue); err != nil {
			return nil, fmt.Errorf("failed to scan extended property: %w", err)
		}
		col := snap.FindTable(target, tName.String).FindColumn(cName.String)
		if col == nil || !pValue.Valid {
			continue
		}
		col.SetAnnotation(pName.String, pValue.String)
		annotated++
	}
	if err := epRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating extended properties: %w", err)
	}

	log.Debug().
		Str("schema", target).
		Int("tables", len(snap.Tables)).
		Int("annotations", annotated).
		Msg("schema analyzed")

	snap.Tables = SortTablesByFKCount(snap.Tables)
	return snap, nil
}
