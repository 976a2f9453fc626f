// Package report reads classifications back from a live database for audits.
package report

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"db-classify/internal/dialect"
)

// Metadata is one classified column as stored in the database.
type Metadata struct {
	Schema          string `json:"schema"`
	Table           string `json:"table"`
	Column          string `json:"column"`
	Label           string `json:"label,omitempty"`
	InformationType string `json:"informationType,omitempty"`
	Rank            string `json:"rank,omitempty"`
}

// Summary counts classified columns.
type Summary struct {
	TotalClassifiedColumns int             `json:"totalClassifiedColumns"`
	ByRank                 []RankCount     `json:"byRank"`
	ByInformationType      []InfoTypeCount `json:"byInformationType"`
	GeneratedAt            time.Time       `json:"generatedAt"`
}

type RankCount struct {
	Rank  string `json:"rank"`
	Count int    `json:"count"`
}

type InfoTypeCount struct {
	InformationType string `json:"informationType"`
	Count           int    `json:"count"`
}

// List reads sys.sensitivity_classifications.
func List(ctx context.Context, db *sql.DB, d dialect.Dialect) ([]Metadata, error) {
	return query(ctx, db, d.GetClassificationsQuery())
}

// ListExtendedProperties reads the Classification:* extended properties, one row per column.
func ListExtendedProperties(ctx context.Context, db *sql.DB, d dialect.Dialect) ([]Metadata, error) {
	return query(ctx, db, d.GetClassificationPropertiesQuery())
}

func query(ctx context.Context, db *sql.DB, q string) ([]Metadata, error) {
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query classifications: %w", err)
	}
	defer rows.Close()

	var out []Metadata
	for rows.Next() {
		var m Metadata
		var label, info, rank sql.NullString
		if err := rows.Scan(&m.Schema, &m.Table, &m.Column, &label, &info, &rank); err != nil {
			return nil, fmt.Errorf("failed to scan classification: %w", err)
		}
		m.Label, m.InformationType, m.Rank = label.String, info.String, rank.String
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating classifications: %w", err)
	}
	return out, nil
}

// Filter narrows a report. Empty fields match everything.
type Filter struct {
	Rank            string // exact, case-insensitive
	InformationType string // substring, case-insensitive
	Table           string // exact, case-insensitive
}

// Apply returns the entries matching f.
func (f Filter) Apply(items []Metadata) []Metadata {
	var out []Metadata
	for _, m := range items {
		if f.Rank != "" && !strings.EqualFold(m.Rank, f.Rank) {
			continue
		}
		if f.InformationType != "" && !strings.Contains(strings.ToLower(m.InformationType), strings.ToLower(f.InformationType)) {
			continue
		}
		if f.Table != "" && !strings.EqualFold(m.Table, f.Table) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Summarize counts entries by rank and by information type, most frequent first.
func Summarize(items []Metadata, now time.Time) Summary {
	ranks := map[string]int{}
	infos := map[string]int{}
	for _, m := range items {
		ranks[orUnknown(m.Rank)]++
		infos[orUnknown(m.InformationType)]++
	}

	s := Summary{TotalClassifiedColumns: len(items), GeneratedAt: now.UTC()}
	for r, n := range ranks {
		s.ByRank = append(s.ByRank, RankCount{Rank: r, Count: n})
	}
	for i, n := range infos {
		s.ByInformationType = append(s.ByInformationType, InfoTypeCount{InformationType: i, Count: n})
	}
	sort.Slice(s.ByRank, func(i, j int) bool {
		if s.ByRank[i].Count != s.ByRank[j].Count {
			return s.ByRank[i].Count > s.ByRank[j].Count
		}
		return s.ByRank[i].Rank < s.ByRank[j].Rank
	})
	sort.Slice(s.ByInformationType, func(i, j int) bool {
		a, b := s.ByInformationType[i], s.ByInformationType[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.InformationType < b.InformationType
	})
	return s
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

// Sort orders entries by schema, table, column.
func Sort(items []Metadata) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Schema != b.Schema {
			return a.Schema < b.Schema
		}
		if a.Table != b.Table {
			return a.Table < b.Table
		}
		return a.Column < b.Column
	})
}
