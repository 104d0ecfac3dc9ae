package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"stock_harvester/internal/domain"
)

// upsertChunk keeps multi-row statements below the 65535 bind parameter limit.
const upsertChunk = 1000

type TickerStore struct {
	db *sqlx.DB
}

func NewTickerStore(db *sqlx.DB) *TickerStore {
	return &TickerStore{db: db}
}

func (s *TickerStore) UpsertTickers(ctx context.Context, tickers []domain.Ticker) error {
	for start := 0; start < len(tickers); start += upsertChunk {
		end := min(start+upsertChunk, len(tickers))
		if err := s.upsertBatch(ctx, tickers[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *TickerStore) upsertBatch(ctx context.Context, tickers []domain.Ticker) error {
	if len(tickers) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO stock_list (code, name, market) VALUES ")
	valueArgs := make([]interface{}, 0, len(tickers)*3)

	for i, t := range tickers {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("($")
		sb.WriteString(strconv.Itoa(i*3 + 1))
		sb.WriteString(", $")
		sb.WriteString(strconv.Itoa(i*3 + 2))
		sb.WriteString(", $")
		sb.WriteString(strconv.Itoa(i*3 + 3))
		sb.WriteString(")")
		valueArgs = append(valueArgs, t.Code, t.Name, string(t.Market))
	}
	sb.WriteString(` ON CONFLICT (code, market) DO UPDATE SET
		name = EXCLUDED.name,
		update_time = NOW()`)

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, sb.String(), valueArgs...)
	return wrapErr("upsert tickers", err)
}

func (s *TickerStore) ListByMarket(ctx context.Context, market domain.Market) ([]domain.Ticker, error) {
	var tickers []domain.Ticker
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &tickers,
		"SELECT code, name, market FROM stock_list WHERE market = $1 ORDER BY code",
		string(market),
	)
	if err != nil {
		return nil, wrapErr("list tickers", err)
	}
	return tickers, nil
}
