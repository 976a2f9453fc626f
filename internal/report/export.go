package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var csvHeader = []string{"Schema", "Table", "Column", "Label", "InformationType", "Rank"}

// WriteCSV writes a semicolon-delimited export with CRLF line endings, sorted
// by schema, table and column.
func WriteCSV(w io.Writer, items []Metadata) error {
	sorted := append([]Metadata(nil), items...)
	Sort(sorted)

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	cw.UseCRLF = true
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, m := range sorted {
		if err := cw.Write([]string{m.Schema, m.Table, m.Column, m.Label, m.InformationType, m.Rank}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// WriteTable renders entries as a fixed-column text table.
func WriteTable(w io.Writer, items []Metadata) {
	headers := []string{"SCHEMA", "TABLE", "COLUMN", "LABEL", "INFORMATION TYPE", "RANK"}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	rows := make([][]string, len(items))
	for r, m := range items {
		rows[r] = []string{m.Schema, m.Table, m.Column, m.Label, m.InformationType, m.Rank}
		for i, v := range rows[r] {
			// fmt pads by runes, so widths are rune counts
			if n := utf8.RuneCountInString(v); n > widths[i] {
				widths[i] = n
			}
		}
	}

	printRow := func(cols []string) {
		var sb strings.Builder
		for i, c := range cols {
			if i == len(cols)-1 {
				sb.WriteString(c)
				break
			}
			fmt.Fprintf(&sb, "%-*s", widths[i]+2, c)
		}
		fmt.Fprintln(w, sb.String())
	}

	printRow(headers)
	dashes := make([]string, len(headers))
	for i := range headers {
		dashes[i] = strings.Repeat("-", widths[i])
	}
	printRow(dashes)
	for _, r := range rows {
		printRow(r)
	}
}
