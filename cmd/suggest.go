package cmd

import (
	"fmt"
	"os"

	"db-classify/internal/classification"
	"db-classify/internal/schema"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var suggestFromDB bool

var suggestCmd = &cobra.Command{
	Use:   "suggest [snapshot.yaml]",
	Short: "Propose classifications for unclassified columns from their names and comments",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var snap *schema.Snapshot
		var err error
		switch {
		case suggestFromDB:
			db, d, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			if snap, err = analyzeLive(ctx, db, d); err != nil {
				return err
			}
		case len(args) == 1:
			if snap, err = schema.LoadSnapshot(args[0]); err != nil {
				return fmt.Errorf("loading snapshot: %w", err)
			}
		default:
			return fmt.Errorf("pass a snapshot file or --from-db")
		}

		suggestions := classification.SuggestAll(snap)
		if len(suggestions) == 0 {
			fmt.Println("No suggestions.")
			return nil
		}
		return yaml.NewEncoder(os.Stdout).Encode(suggestionsFile(suggestions))
	},
}

// suggestionsFile renders suggestions in the snapshot declaration format so they
// can be pasted into a snapshot.
func suggestionsFile(suggestions []classification.Suggestion) schema.SnapshotFile {
	var f schema.SnapshotFile
	index := map[string]int{}
	for _, s := range suggestions {
		key := s.Coordinate.Schema + "." + s.Coordinate.Table
		i, ok := index[key]
		if !ok {
			i = len(f.Tables)
			index[key] = i
			f.Tables = append(f.Tables, schema.TableSpec{Schema: s.Coordinate.Schema, Name: s.Coordinate.Table})
		}
		f.Tables[i].Columns = append(f.Tables[i].Columns, schema.ColumnSpec{
			Name:    s.Coordinate.Column,
			Comment: "suggested from meaning: " + s.Meaning,
			Classification: &schema.ClassificationSpec{
				Label:           s.Triple.Label,
				InformationType: s.Triple.InformationType,
				Rank:            string(s.Triple.Rank),
			},
		})
	}
	return f
}

func init() {
	RootCmd.AddCommand(suggestCmd)
	suggestCmd.Flags().BoolVar(&suggestFromDB, "from-db", false, "Read columns from the live database")
}
