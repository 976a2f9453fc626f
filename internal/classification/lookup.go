package classification

import "db-classify/internal/schema"

// TryGetTriplet returns the classification stored on a column of snap.
// found is false when the table or column is missing or when all three
// annotations are blank. A nil snapshot is a programming error.
func TryGetTriplet(snap *schema.Snapshot, schemaName, table, column string) (Triple, bool) {
	if snap == nil {
		panic("classification: TryGetTriplet called with a nil snapshot")
	}

	t := snap.FindTable(schema.SchemaOrDefault(schemaName), table)
	if t == nil {
		return Triple{}, false
	}
	c := t.FindColumn(column)
	if c == nil {
		return Triple{}, false
	}
	return FromColumn(c)
}

// Lookup is TryGetTriplet at a coordinate.
func Lookup(snap *schema.Snapshot, at Coordinate) (Triple, bool) {
	return TryGetTriplet(snap, at.Schema, at.Table, at.Column)
}

// FromColumn reads the classification annotations of a single column.
func FromColumn(c *schema.Column) (Triple, bool) {
	t := Triple{
		Label:           c.Annotation(schema.AnnotationLabel),
		InformationType: c.Annotation(schema.AnnotationInformationType),
		Rank:            Rank(c.Annotation(schema.AnnotationRank)),
	}
	if t.IsEmpty() {
		return Triple{}, false
	}
	return t, true
}
