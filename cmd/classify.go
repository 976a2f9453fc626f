package cmd

import (
	"db-classify/internal/dialect"
	"db-classify/internal/migration"
	"db-classify/internal/sqlgen"

	"github.com/spf13/cobra"
)

var (
	classifySchema   string
	classifyTable    string
	classifyColumn   string
	classifyLabel    string
	classifyInfoType string
	classifyRank     string
	classifyOutput   string
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Generate SQL for a single hand-written classification change",
}

var classifyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Emit SQL that classifies one column",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		op := migration.AddClassification(classifySchema, classifyTable, classifyColumn, classifyLabel, classifyInfoType, classifyRank)
		return emitSingle(op)
	},
}

var classifyDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Emit SQL that removes the classification of one column",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return emitSingle(migration.DropClassification(classifySchema, classifyTable, classifyColumn))
	},
}

func emitSingle(op migration.Operation) error {
	d := &dialect.MSSQLDialect{}
	commands, err := sqlgen.NewGenerator(d).Generate([]migration.Operation{op}, nil)
	if err != nil {
		return err
	}
	return writeScript(classifyOutput, sqlgen.Script(commands, d.BatchSeparator()), len(commands))
}

func init() {
	RootCmd.AddCommand(classifyCmd)
	classifyCmd.AddCommand(classifyAddCmd, classifyDropCmd)

	for _, c := range []*cobra.Command{classifyAddCmd, classifyDropCmd} {
		c.Flags().StringVar(&classifySchema, "schema", "", "Schema name (default dbo)")
		c.Flags().StringVar(&classifyTable, "table", "", "Table name")
		c.Flags().StringVar(&classifyColumn, "column", "", "Column name")
		c.Flags().StringVarP(&classifyOutput, "output", "o", "", "Write output to file instead of stdout")
		c.MarkFlagRequired("table")
		c.MarkFlagRequired("column")
	}
	classifyAddCmd.Flags().StringVar(&classifyLabel, "label", "", "Sensitivity label")
	classifyAddCmd.Flags().StringVar(&classifyInfoType, "info-type", "", "Information type")
	classifyAddCmd.Flags().StringVar(&classifyRank, "rank", "", "Rank: None, Low, Medium, High or Critical")
}
