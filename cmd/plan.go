package cmd

import (
	"fmt"

	"db-classify/internal/migration"

	"github.com/spf13/cobra"
)

var planFromDB bool

var planCmd = &cobra.Command{
	Use:   "plan [source.yaml] <target.yaml>",
	Short: "Show the structural and classification operations between two snapshots",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, target, err := loadPair(cmd.Context(), args, planFromDB)
		if err != nil {
			return err
		}

		ops := migration.Decorate(source, target, migration.Diff(source, target))
		if len(ops) == 0 {
			fmt.Println("No differences found.")
			return nil
		}
		for i, op := range ops {
			fmt.Printf("[%02d] %s\n", i+1, op.Describe())
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(planCmd)
	planCmd.Flags().BoolVar(&planFromDB, "from-db", false, "Use the live database as the source snapshot")
}
