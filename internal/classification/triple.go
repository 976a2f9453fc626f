// Package classification models column sensitivity classifications and
// looks them up in schema snapshots.
package classification

import (
	"fmt"
	"strings"

	"db-classify/internal/schema"
)

// Rank is a sensitivity rank. The zero value means "no rank given".
type Rank string

const (
	RankNone     Rank = "None"
	RankLow      Rank = "Low"
	RankMedium   Rank = "Medium"
	RankHigh     Rank = "High"
	RankCritical Rank = "Critical"
)

// AllowedRanks lists the valid ranks in ascending severity.
var AllowedRanks = []Rank{RankNone, RankLow, RankMedium, RankHigh, RankCritical}

// ParseRank matches s case-insensitively against AllowedRanks.
// A blank string parses to the empty Rank.
func ParseRank(s string) (Rank, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, r := range AllowedRanks {
		if strings.EqualFold(string(r), s) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q (allowed: %s)", ErrInvalidRank, s, allowedRanksString())
}

// IsBlank reports whether no rank was given.
func (r Rank) IsBlank() bool {
	return strings.TrimSpace(string(r)) == ""
}

// Canonical returns the rank in its declared casing, or r unchanged if it is not valid.
func (r Rank) Canonical() Rank {
	if p, err := ParseRank(string(r)); err == nil {
		return p
	}
	return r
}

// Token returns the T-SQL RANK token (LOW, MEDIUM, ...). None and blank ranks
// have no token.
func (r Rank) Token() string {
	c := r.Canonical()
	if c == "" || c == RankNone {
		return ""
	}
	return strings.ToUpper(string(c))
}

func allowedRanksString() string {
	names := make([]string, len(AllowedRanks))
	for i, r := range AllowedRanks {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// Triple is a column's classification. Any field may be blank.
type Triple struct {
	Label           string
	InformationType string
	Rank            Rank
}

// IsEmpty reports whether all three fields are blank.
func (t Triple) IsEmpty() bool {
	return isBlank(t.Label) && isBlank(t.InformationType) && t.Rank.IsBlank()
}

// Equal compares label and information type exactly and rank case-insensitively.
func (t Triple) Equal(o Triple) bool {
	return t.Label == o.Label &&
		t.InformationType == o.InformationType &&
		t.Rank.Canonical() == o.Rank.Canonical()
}

func (t Triple) String() string {
	return fmt.Sprintf("{label=%q infoType=%q rank=%q}", t.Label, t.InformationType, string(t.Rank))
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Coordinate addresses a column. A blank schema means the default schema.
type Coordinate struct {
	Schema string
	Table  string
	Column string
}

// NewCoordinate builds a coordinate with the schema defaulted.
func NewCoordinate(schemaName, table, column string) Coordinate {
	return Coordinate{Schema: schema.SchemaOrDefault(schemaName), Table: table, Column: column}
}

// Normalize applies the schema default.
func (c Coordinate) Normalize() Coordinate {
	c.Schema = schema.SchemaOrDefault(c.Schema)
	return c
}

// Equal compares coordinates case-insensitively after schema defaulting.
func (c Coordinate) Equal(o Coordinate) bool {
	return c.Key() == o.Key()
}

// Key is a folded identity usable as a map key.
func (c Coordinate) Key() string {
	c = c.Normalize()
	return schema.Fold(c.Schema) + "\x00" + schema.Fold(c.Table) + "\x00" + schema.Fold(c.Column)
}

func (c Coordinate) String() string {
	c = c.Normalize()
	return c.Schema + "." + c.Table + "." + c.Column
}
