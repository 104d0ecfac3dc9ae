package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"stock_harvester/internal/domain"
)

// CheckpointStore keeps run progress in harvest_runs and harvest_checkpoints.
// A run row exists from Start until Clear; its presence marks the run as
// unfinished.
type CheckpointStore struct {
	db *sqlx.DB
	tm *TransactionManager
}

func NewCheckpointStore(db *sqlx.DB) *CheckpointStore {
	return &CheckpointStore{db: db, tm: NewTransactionManager(db)}
}

func (s *CheckpointStore) Unfinished(ctx context.Context) (string, bool, error) {
	var cp domain.Checkpoint
	query := `
		SELECT run_id, started_at
		FROM harvest_runs
		ORDER BY started_at DESC
		LIMIT 1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &cp, query)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapErr("find unfinished run", err)
	}
	return cp.RunID, true, nil
}

func (s *CheckpointStore) Start(ctx context.Context, runID string, reset bool) error {
	return s.tm.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, s.db)

		if reset {
			if _, err := exec.ExecContext(ctx, "DELETE FROM harvest_checkpoints WHERE run_id = $1", runID); err != nil {
				return wrapErr("reset checkpoint", err)
			}
		}

		_, err := exec.ExecContext(ctx, `
			INSERT INTO harvest_runs (run_id) VALUES ($1)
			ON CONFLICT (run_id) DO NOTHING`,
			runID,
		)
		return wrapErr("start run", err)
	})
}

func (s *CheckpointStore) MarkComplete(ctx context.Context, runID string, ticker domain.Ticker) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO harvest_checkpoints (run_id, market, code)
		VALUES ($1, $2, $3)
		ON CONFLICT (run_id, market, code) DO NOTHING`,
		runID, string(ticker.Market), ticker.Code,
	)
	return wrapErr("mark ticker complete", err)
}

func (s *CheckpointStore) Completed(ctx context.Context, runID string, market domain.Market) (map[string]struct{}, error) {
	var codes []string
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &codes,
		"SELECT code FROM harvest_checkpoints WHERE run_id = $1 AND market = $2",
		runID, string(market),
	)
	if err != nil {
		return nil, wrapErr("load checkpoint", err)
	}

	done := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		done[code] = struct{}{}
	}
	return done, nil
}

// Clear drops the run and, through the cascade, its ticker checkpoints.
func (s *CheckpointStore) Clear(ctx context.Context, runID string) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, "DELETE FROM harvest_runs WHERE run_id = $1", runID)
	return wrapErr("clear checkpoint", err)
}
