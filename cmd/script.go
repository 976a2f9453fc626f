package cmd

import (
	"fmt"
	"io"
	"os"

	"db-classify/internal/dialect"
	"db-classify/internal/migration"
	"db-classify/internal/sqlgen"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	scriptFromDB bool
	scriptOutput string
)

var scriptCmd = &cobra.Command{
	Use:   "script [source.yaml] <target.yaml>",
	Short: "Generate the T-SQL migration script between two snapshots",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, target, err := loadPair(cmd.Context(), args, scriptFromDB)
		if err != nil {
			return err
		}

		d := &dialect.MSSQLDialect{}
		ops := migration.Decorate(source, target, migration.Diff(source, target))
		commands, err := sqlgen.NewGenerator(d).Generate(ops, nil)
		if err != nil {
			return err
		}
		return writeScript(scriptOutput, sqlgen.Script(commands, d.BatchSeparator()), len(commands))
	},
}

func writeScript(path, script string, count int) error {
	var out io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file %q: %w", path, err)
		}
		defer f.Close()
		out = f
	}
	if _, err := io.WriteString(out, script); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	log.Debug().Int("commands", count).Str("output", path).Msg("script written")
	return nil
}

func init() {
	RootCmd.AddCommand(scriptCmd)
	scriptCmd.Flags().BoolVar(&scriptFromDB, "from-db", false, "Use the live database as the source snapshot")
	scriptCmd.Flags().StringVarP(&scriptOutput, "output", "o", "", "Write output to file instead of stdout")
}
