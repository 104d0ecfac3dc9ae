package service

import (
	"context"
	"fmt"
	"log/slog"

	"stock_harvester/internal/domain"
)

// CheckpointManager records per-run ticker progress so an interrupted run can
// be resumed without refetching completed tickers.
type CheckpointManager struct {
	store  CheckpointStore
	logger *slog.Logger
}

func NewCheckpointManager(store CheckpointStore, logger *slog.Logger) *CheckpointManager {
	return &CheckpointManager{store: store, logger: logger}
}

// Unfinished returns the id of a run that was started but never cleared.
func (m *CheckpointManager) Unfinished(ctx context.Context) (string, bool, error) {
	runID, ok, err := m.store.Unfinished(ctx)
	if err != nil {
		return "", false, fmt.Errorf("find unfinished run: %w", err)
	}
	return runID, ok, nil
}

// MarkStarted creates the checkpoint for runID. A fresh run discards any
// progress recorded under the same id; a resumed run keeps it.
func (m *CheckpointManager) MarkStarted(ctx context.Context, runID string, resume bool) error {
	if err := m.store.Start(ctx, runID, !resume); err != nil {
		return fmt.Errorf("start checkpoint %s: %w", runID, err)
	}
	return nil
}

func (m *CheckpointManager) OnTickerComplete(ctx context.Context, runID string, ticker domain.Ticker) error {
	if err := m.store.MarkComplete(ctx, runID, ticker); err != nil {
		return fmt.Errorf("checkpoint ticker %s: %w", ticker.Key(), err)
	}
	return nil
}

// PendingTickers returns full minus the tickers already completed in runID,
// preserving order.
func (m *CheckpointManager) PendingTickers(ctx context.Context, runID string, full []domain.Ticker) ([]domain.Ticker, error) {
	completed := make(map[domain.Market]map[string]struct{})

	pending := make([]domain.Ticker, 0, len(full))
	for _, t := range full {
		done, ok := completed[t.Market]
		if !ok {
			var err error
			done, err = m.store.Completed(ctx, runID, t.Market)
			if err != nil {
				return nil, fmt.Errorf("load completed tickers for %s: %w", t.Market, err)
			}
			completed[t.Market] = done
		}
		if _, skip := done[t.Code]; skip {
			continue
		}
		pending = append(pending, t)
	}

	m.logger.Debug("resolved pending tickers",
		"run_id", runID,
		"full", len(full),
		"pending", len(pending),
	)
	return pending, nil
}

func (m *CheckpointManager) ClearCheckpoint(ctx context.Context, runID string) error {
	if err := m.store.Clear(ctx, runID); err != nil {
		return fmt.Errorf("clear checkpoint %s: %w", runID, err)
	}
	return nil
}
