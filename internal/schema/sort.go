package schema

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// tableKey identifies a table by folded schema and name.
func tableKey(schema, name string) string {
	return Fold(SchemaOrDefault(schema)) + "\x00" + Fold(name)
}

// dependencyKey resolves a dependency name against the referencing table's
// schema unless it is qualified as "schema.name".
func dependencyKey(t *Table, dep string) string {
	if i := strings.LastIndex(dep, "."); i > 0 {
		return tableKey(dep[:i], dep[i+1:])
	}
	return tableKey(t.Schema, dep)
}

// SortTablesByFKCount sorts tables by dependency order.
// It handles circular dependencies by using a scoring system.
func SortTablesByFKCount(tables []*Table) []*Table {
	var sorted []*Table
	processed := make(map[string]bool)
	byName := make(map[string]*Table, len(tables))
	for _, t := range tables {
		byName[tableKey(t.Schema, t.Name)] = t
	}

	// dependencies outside the set are treated as satisfied
	satisfied := func(t *Table, dep string) bool {
		key := dependencyKey(t, dep)
		if _, known := byName[key]; !known {
			return true
		}
		return processed[key]
	}

	for len(sorted) < len(tables) {
		added := false

		// Pass 1: Add tables whose dependencies are fully satisfied
		for _, t := range tables {
			if processed[tableKey(t.Schema, t.Name)] {
				continue
			}

			allDepsProcessed := true
			for _, depName := range t.Dependencies {
				if !satisfied(t, depName) {
					allDepsProcessed = false
					break
				}
			}

			if allDepsProcessed {
				sorted = append(sorted, t)
				processed[tableKey(t.Schema, t.Name)] = true
				added = true
			}
		}

		// Pass 2: If no table added, we have a cycle. Break it using heuristic score.
		if !added {
			var bestTable *Table
			bestScore := -999999

			for _, t := range tables {
				if processed[tableKey(t.Schema, t.Name)] {
					continue
				}

				// Penalty: unprocessed FKs. Bonus: taking part in a cycle.
				score := 0
				unprocessedDeps := 0
				for _, dep := range t.Dependencies {
					if !satisfied(t, dep) {
						unprocessedDeps++
					}
				}
				score -= unprocessedDeps * 100

				if inCycle(t, byName, satisfied) {
					score += 500
				}

				// Tie-breaker: Name (Deterministic)
				if score > bestScore || (score == bestScore && (bestTable == nil || t.Name > bestTable.Name)) {
					bestScore = score
					bestTable = t
				}
			}

			if bestTable == nil {
				log.Error().Int("remaining", len(tables)-len(sorted)).Msg("table sort deadlocked")
				break
			}
			sorted = append(sorted, bestTable)
			processed[tableKey(bestTable.Schema, bestTable.Name)] = true
			log.Debug().Str("table", bestTable.Name).Int("score", bestScore).Msg("breaking circular dependency")
		}
	}

	return sorted
}

// inCycle reports whether one of t's pending dependencies depends back on t.
func inCycle(t *Table, byName map[string]*Table, satisfied func(*Table, string) bool) bool {
	self := tableKey(t.Schema, t.Name)
	for _, depName := range t.Dependencies {
		if satisfied(t, depName) {
			continue
		}
		cand := byName[dependencyKey(t, depName)]
		for _, candDep := range cand.Dependencies {
			if dependencyKey(cand, candDep) == self {
				return true
			}
		}
	}
	return false
}

// Reversed returns a copy of tables in reverse order (drop order).
func Reversed(tables []*Table) []*Table {
	out := make([]*Table, len(tables))
	for i, t := range tables {
		out[len(tables)-1-i] = t
	}
	return out
}
