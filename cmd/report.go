package cmd

import (
	"fmt"
	"os"
	"time"

	"db-classify/internal/report"

	"github.com/spf13/cobra"
)

var (
	reportFormat     string
	reportFilter     report.Filter
	reportSummary    bool
	reportProperties bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "List the classifications stored in the live database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, d, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		list := report.List
		if reportProperties {
			list = report.ListExtendedProperties
		}
		items, err := list(ctx, db, d)
		if err != nil {
			return err
		}
		items = reportFilter.Apply(items)

		if reportSummary {
			return report.WriteJSON(os.Stdout, report.Summarize(items, time.Now()))
		}

		switch reportFormat {
		case "json":
			return report.WriteJSON(os.Stdout, items)
		case "csv":
			return report.WriteCSV(os.Stdout, items)
		case "table", "":
			if len(items) == 0 {
				fmt.Println("No classified columns found.")
				return nil
			}
			report.WriteTable(os.Stdout, items)
			return nil
		default:
			return fmt.Errorf("unknown format %q (table, json, csv)", reportFormat)
		}
	},
}

func init() {
	RootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "table", "Output format: table, json or csv")
	reportCmd.Flags().StringVar(&reportFilter.Rank, "rank", "", "Only columns with this rank")
	reportCmd.Flags().StringVar(&reportFilter.InformationType, "info-type", "", "Only columns whose information type contains this text")
	reportCmd.Flags().StringVar(&reportFilter.Table, "table", "", "Only columns of this table")
	reportCmd.Flags().BoolVar(&reportSummary, "summary", false, "Print counts by rank and information type")
	reportCmd.Flags().BoolVar(&reportProperties, "extended-properties", false, "Read the Classification:* extended properties instead of sys.sensitivity_classifications")
}
