package migration

import (
	"db-classify/internal/classification"
	"db-classify/internal/schema"

	"github.com/rs/zerolog/log"
)

// Decorate augments a structural operation list with the classification
// operations needed to keep column classifications in sync. Either snapshot may
// be nil, in which case lookups against it find nothing.
//
// Creates are placed right after the operation that makes the column exist;
// removes are placed right before the operation that makes it disappear.
func Decorate(source, target *schema.Snapshot, ops []Operation) []Operation {
	d := decorator{source: source, target: target, renamed: renamedColumns(ops)}

	out := make([]Operation, 0, len(ops))
	for _, op := range ops {
		before, after := d.around(op)
		out = append(out, before...)
		out = append(out, op)
		out = append(out, after...)
	}
	out = orderRemovesBeforeDrops(out)

	log.Debug().
		Int("structural", len(ops)).
		Int("classification", len(out)-len(ops)).
		Msg("operations decorated")
	return out
}

type decorator struct {
	source *schema.Snapshot
	target *schema.Snapshot
	// new column coordinate key -> coordinate before the rename
	renamed map[string]classification.Coordinate
}

// renamedColumns indexes the RenameColumn operations of ops by their new coordinate.
func renamedColumns(ops []Operation) map[string]classification.Coordinate {
	renamed := make(map[string]classification.Coordinate)
	for _, op := range ops {
		if o, ok := op.(*RenameColumn); ok {
			newAt := classification.NewCoordinate(o.Schema, o.Table, o.NewName)
			renamed[newAt.Key()] = classification.NewCoordinate(o.Schema, o.Table, o.Name)
		}
	}
	return renamed
}

func lookup(snap *schema.Snapshot, at classification.Coordinate) (classification.Triple, bool) {
	if snap == nil {
		return classification.Triple{}, false
	}
	return classification.Lookup(snap, at)
}

func displayName(at classification.Coordinate) string {
	return at.Table + "." + at.Column
}

func create(at classification.Coordinate, t classification.Triple) *CreateClassification {
	return &CreateClassification{At: at, Triple: t, DisplayName: displayName(at)}
}

func remove(at classification.Coordinate) *RemoveClassification {
	return &RemoveClassification{At: at}
}

// around returns the classification operations to insert before and after op.
func (d decorator) around(op Operation) (before, after []Operation) {
	switch o := op.(type) {
	case *CreateTable:
		for _, col := range o.Columns {
			at := classification.NewCoordinate(o.Schema, o.Name, col.Name)
			if t, ok := lookup(d.target, at); ok {
				after = append(after, create(at, t))
			}
		}

	case *DropTable:
		if d.source == nil {
			return nil, nil
		}
		table := d.source.FindTable(o.Schema, o.Name)
		if table == nil {
			return nil, nil
		}
		for _, col := range table.Columns {
			at := classification.NewCoordinate(o.Schema, o.Name, col.Name)
			if _, ok := lookup(d.source, at); ok {
				before = append(before, remove(at))
			}
		}

	case *AddColumn:
		at := classification.NewCoordinate(o.Schema, o.Table, o.Column.Name)
		if t, ok := lookup(d.target, at); ok {
			after = append(after, create(at, t))
		}

	case *DropColumn:
		at := classification.NewCoordinate(o.Schema, o.Table, o.Name)
		if _, ok := lookup(d.source, at); ok {
			before = append(before, remove(at))
		}

	case *RenameColumn:
		oldAt := classification.NewCoordinate(o.Schema, o.Table, o.Name)
		newAt := classification.NewCoordinate(o.Schema, o.Table, o.NewName)
		oldT, oldHas := lookup(d.source, oldAt)
		newT, newHas := lookup(d.target, newAt)

		// sp_rename carries extended properties and classifications along with
		// the column, so an unchanged triple needs nothing.
		if oldHas && newHas && oldT.Equal(newT) {
			return nil, nil
		}
		// The old coordinate only resolves while the column still has its old name;
		// sp_rename would otherwise carry the old properties to the new column.
		if oldHas {
			before = append(before, remove(oldAt))
		}
		if newHas {
			after = append(after, create(newAt, newT))
		}

	case *AlterColumn:
		at := classification.NewCoordinate(o.Schema, o.Table, o.Column.Name)
		if oldAt, ok := d.renamed[at.Key()]; ok {
			// the RenameColumn rule already compared oldAt in source with at in target
			log.Debug().Str("column", at.String()).Str("renamed_from", oldAt.Column).
				Msg("classification reconciled by column rename")
			return nil, nil
		}
		sT, sHas := lookup(d.source, at)
		tT, tHas := lookup(d.target, at)
		switch {
		case !sHas && tHas:
			after = append(after, create(at, tT))
		case sHas && !tHas:
			after = append(after, remove(at))
		case sHas && tHas && !sT.Equal(tT):
			after = append(after, remove(at), create(at, tT))
		}

	case *RenameTable:
		// Classifications are keyed by the current coordinates and travel with
		// the table on rename.
	}
	return before, after
}

// orderRemovesBeforeDrops moves every RemoveClassification that follows a
// DropColumn of the same coordinate to just before that DropColumn. Relative
// order of everything else is preserved.
func orderRemovesBeforeDrops(ops []Operation) []Operation {
	dropAt := make(map[string]int)
	out := make([]Operation, 0, len(ops))

	for _, op := range ops {
		switch o := op.(type) {
		case *DropColumn:
			key := classification.NewCoordinate(o.Schema, o.Table, o.Name).Key()
			if _, seen := dropAt[key]; !seen {
				dropAt[key] = len(out)
			}

		case *AddColumn:
			// the coordinate exists again; later removes refer to the new column
			delete(dropAt, classification.NewCoordinate(o.Schema, o.Table, o.Column.Name).Key())

		case *RenameColumn:
			delete(dropAt, classification.NewCoordinate(o.Schema, o.Table, o.NewName).Key())

		case *RemoveClassification:
			if idx, ok := dropAt[o.At.Key()]; ok {
				out = append(out, nil)
				copy(out[idx+1:], out[idx:])
				out[idx] = op
				for k, v := range dropAt {
					if v >= idx {
						dropAt[k] = v + 1
					}
				}
				log.Debug().Str("column", o.At.String()).Msg("moved classification removal before column drop")
				continue
			}
		}
		out = append(out, op)
	}
	return out
}
