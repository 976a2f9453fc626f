package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"db-classify/internal/sqlgen"

	"github.com/rs/zerolog/log"
)

// ExecResult summarizes one Execute run.
type ExecResult struct {
	Executed int
	Total    int
	Elapsed  time.Duration
}

// Execute runs commands in order inside a single transaction. The first
// failing command rolls back everything. onProgress, if set, is called after
// each successful command.
func Execute(ctx context.Context, db *sql.DB, commands []sqlgen.Command, onProgress func()) (ExecResult, error) {
	res := ExecResult{Total: len(commands)}
	start := time.Now()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Warn().Err(rbErr).Msg("rollback failed")
			}
		}
	}()

	for i, c := range commands {
		if _, err := tx.ExecContext(ctx, c.SQL); err != nil {
			log.Debug().Int("command", i+1).Str("sql", c.SQL).Msg("command failed")
			return res, fmt.Errorf("command %d/%d failed: %w", i+1, len(commands), err)
		}
		res.Executed++
		if onProgress != nil {
			onProgress()
		}
	}

	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("failed to commit: %w", err)
	}
	tx = nil
	res.Elapsed = time.Since(start)
	log.Debug().Int("commands", res.Executed).Dur("elapsed", res.Elapsed).Msg("commands executed")
	return res, nil
}
