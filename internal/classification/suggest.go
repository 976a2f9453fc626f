package classification

import "db-classify/internal/schema"

// Suggestion proposes a classification for an unclassified column.
type Suggestion struct {
	Coordinate Coordinate
	Meaning    string
	Triple     Triple
}

var suggestions = map[string]Triple{
	"password":    {Label: "Highly Confidential", InformationType: "Credentials", Rank: RankCritical},
	"creditcard":  {Label: "Highly Confidential", InformationType: "Credit Card", Rank: RankCritical},
	"bankaccount": {Label: "Highly Confidential", InformationType: "Banking", Rank: RankHigh},
	"nationalid":  {Label: "Highly Confidential", InformationType: "National ID", Rank: RankCritical},
	"email":       {Label: "Confidential", InformationType: "Contact Info", Rank: RankMedium},
	"phone":       {Label: "Confidential", InformationType: "Contact Info", Rank: RankMedium},
	"address":     {Label: "Confidential", InformationType: "Contact Info", Rank: RankMedium},
	"zipcode":     {Label: "Confidential", InformationType: "Contact Info", Rank: RankLow},
	"birthdate":   {Label: "Confidential - GDPR", InformationType: "Date Of Birth", Rank: RankMedium},
	"name":        {Label: "Confidential - GDPR", InformationType: "Name", Rank: RankMedium},
	"ip":          {Label: "Confidential", InformationType: "Networking", Rank: RankLow},
	"latitude":    {Label: "Confidential", InformationType: "Location", Rank: RankLow},
	"longitude":   {Label: "Confidential", InformationType: "Location", Rank: RankLow},
}

// Suggest proposes a triple for a column from its inferred meaning.
func Suggest(c *schema.Column) (Triple, string, bool) {
	meaning := schema.AnalyzeMeaning(c.Name, c.Comment)
	t, ok := suggestions[meaning]
	return t, meaning, ok
}

// SuggestAll walks a snapshot and returns suggestions for columns that carry no
// classification yet, in table/column order.
func SuggestAll(snap *schema.Snapshot) []Suggestion {
	var out []Suggestion
	for _, t := range snap.Tables {
		for _, c := range t.Columns {
			if _, classified := FromColumn(c); classified {
				continue
			}
			triple, meaning, ok := Suggest(c)
			if !ok {
				continue
			}
			out = append(out, Suggestion{
				Coordinate: NewCoordinate(t.Schema, t.Name, c.Name),
				Meaning:    meaning,
				Triple:     triple,
			})
		}
	}
	return out
}
