package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"db-classify/internal/dialect"
	"db-classify/internal/schema"

	"github.com/rs/zerolog/log"
)

// loadPair resolves the source and target snapshots for plan/script.
// With fromDB the source is read from the live database and args holds only the
// target; otherwise a single argument means "diff against an empty database".
func loadPair(ctx context.Context, args []string, fromDB bool) (source, target *schema.Snapshot, err error) {
	switch {
	case fromDB:
		if len(args) != 1 {
			return nil, nil, fmt.Errorf("--from-db takes exactly one argument: <target.yaml>")
		}
		db, d, err := openDB(ctx)
		if err != nil {
			return nil, nil, err
		}
		defer db.Close()
		if source, err = analyzeLive(ctx, db, d); err != nil {
			return nil, nil, err
		}
	case len(args) == 2:
		if source, err = schema.LoadSnapshot(args[0]); err != nil {
			return nil, nil, fmt.Errorf("loading source snapshot: %w", err)
		}
		args = args[1:]
	}

	if target, err = schema.LoadSnapshot(args[0]); err != nil {
		return nil, nil, fmt.Errorf("loading target snapshot: %w", err)
	}
	return source, target, nil
}

func analyzeLive(ctx context.Context, db *sql.DB, d dialect.Dialect) (*schema.Snapshot, error) {
	log.Info().Str("schema", defaultSchema()).Msg("analyzing schema")
	snap, err := schema.Analyze(ctx, db, d, defaultSchema())
	if err != nil {
		return nil, fmt.Errorf("analyzing live schema: %w", err)
	}
	return snap, nil
}
