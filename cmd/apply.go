package cmd

import (
	"fmt"

	"db-classify/internal/engine"
	"db-classify/internal/migration"
	"db-classify/internal/schema"
	"db-classify/internal/sqlgen"

	"github.com/gosuri/uiprogress"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var applyDryRun bool

var applyCmd = &cobra.Command{
	Use:   "apply <target.yaml>",
	Short: "Migrate the live database to a target snapshot, classifications included",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		target, err := schema.LoadSnapshot(args[0])
		if err != nil {
			return fmt.Errorf("loading target snapshot: %w", err)
		}

		db, d, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		source, err := analyzeLive(ctx, db, d)
		if err != nil {
			return err
		}

		ops := migration.Decorate(source, target, migration.Diff(source, target))
		commands, err := sqlgen.NewGenerator(d).Generate(ops, nil)
		if err != nil {
			return err
		}
		if len(commands) == 0 {
			fmt.Println("Database is up to date.")
			return nil
		}

		if applyDryRun {
			log.Info().Msg("dry run: no changes will be written")
			fmt.Print(sqlgen.Script(commands, d.BatchSeparator()))
			return nil
		}

		uiprogress.Start()
		bar := uiprogress.AddBar(len(commands)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Applying: "
		})

		res, err := engine.Execute(ctx, db, commands, func() {
			bar.Incr()
		})
		uiprogress.Stop()
		if err != nil {
			return err
		}

		log.Info().
			Int("operations", len(ops)).
			Int("commands", res.Executed).
			Dur("elapsed", res.Elapsed).
			Msg("apply complete")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(applyCmd)
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Print the script without executing it")
}
