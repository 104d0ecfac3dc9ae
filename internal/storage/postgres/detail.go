package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"stock_harvester/internal/domain"
)

type DetailStore struct {
	db *sqlx.DB
}

func NewDetailStore(db *sqlx.DB) *DetailStore {
	return &DetailStore{db: db}
}

// UpsertDetail replaces the current detail for (code, market) in a single
// statement, so readers see either the old or the new row.
func (s *DetailStore) UpsertDetail(ctx context.Context, record *domain.DetailRecord) error {
	query := `
		INSERT INTO stock_details (code, market, detail_json, update_time)
		VALUES ($1, $2, $3::jsonb, $4)
		ON CONFLICT (code, market) DO UPDATE SET
			detail_json = EXCLUDED.detail_json,
			update_time = EXCLUDED.update_time`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		record.Code,
		string(record.Market),
		string(record.Payload),
		record.FetchedAt,
	)
	return wrapErr("upsert detail", err)
}

func (s *DetailStore) Get(ctx context.Context, code string, market domain.Market) (*domain.DetailRecord, error) {
	var record domain.DetailRecord
	query := `
		SELECT code, market, detail_json, update_time
		FROM stock_details
		WHERE code = $1 AND market = $2`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &record, query, code, string(market))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("get detail", err)
	}
	return &record, nil
}
