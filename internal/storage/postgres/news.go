package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"stock_harvester/internal/domain"
)

type NewsStore struct {
	db *sqlx.DB
}

func NewNewsStore(db *sqlx.DB) *NewsStore {
	return &NewsStore{db: db}
}

// InsertNewsIfAbsent inserts item unless (code, market, url) already exists.
// It reports whether a row was written; insert_time keeps its first value.
func (s *NewsStore) InsertNewsIfAbsent(ctx context.Context, item *domain.NewsItem) (bool, error) {
	query := `
		INSERT INTO stock_news (code, market, title, url, publish_time)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code, market, url) DO NOTHING
		RETURNING insert_time`

	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		item.Code,
		string(item.Market),
		item.Title,
		item.URL,
		nullTime(item),
	).Scan(&item.InsertedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, wrapErr("insert news", err)
	}
	return true, nil
}

// InsertNewsBatch inserts all items in one statement and returns the ones that
// were new. Items must not repeat a key within the batch.
func (s *NewsStore) InsertNewsBatch(ctx context.Context, items []domain.NewsItem) ([]domain.NewsItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO stock_news (code, market, title, url, publish_time) VALUES ")
	valueArgs := make([]interface{}, 0, len(items)*5)

	for i := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := 1; j <= 5; j++ {
			if j > 1 {
				sb.WriteString(", ")
			}
			sb.WriteString("$")
			sb.WriteString(strconv.Itoa(i*5 + j))
		}
		sb.WriteString(")")
		valueArgs = append(valueArgs,
			items[i].Code,
			string(items[i].Market),
			items[i].Title,
			items[i].URL,
			nullTime(&items[i]),
		)
	}
	sb.WriteString(` ON CONFLICT (code, market, url) DO NOTHING
		RETURNING code, market, title, url, publish_time, insert_time`)

	rows, err := GetExecutor(ctx, s.db).QueryxContext(ctx, sb.String(), valueArgs...)
	if err != nil {
		return nil, wrapErr("insert news batch", err)
	}
	defer rows.Close()

	var inserted []domain.NewsItem
	for rows.Next() {
		var row newsRow
		if err := rows.StructScan(&row); err != nil {
			return nil, wrapErr("scan inserted news", err)
		}
		inserted = append(inserted, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("insert news batch", err)
	}
	return inserted, nil
}

func (s *NewsStore) CountByTicker(ctx context.Context, code string, market domain.Market) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &count,
		"SELECT COUNT(*) FROM stock_news WHERE code = $1 AND market = $2",
		code, string(market),
	)
	if err != nil {
		return 0, wrapErr("count news", err)
	}
	return count, nil
}

type newsRow struct {
	Code        string       `db:"code"`
	Market      string       `db:"market"`
	Title       string       `db:"title"`
	URL         string       `db:"url"`
	PublishTime sql.NullTime `db:"publish_time"`
	InsertTime  sql.NullTime `db:"insert_time"`
}

func (r newsRow) toDomain() domain.NewsItem {
	return domain.NewsItem{
		Code:        r.Code,
		Market:      domain.Market(r.Market),
		Title:       r.Title,
		URL:         r.URL,
		PublishedAt: r.PublishTime.Time,
		InsertedAt:  r.InsertTime.Time,
	}
}

func nullTime(item *domain.NewsItem) sql.NullTime {
	return sql.NullTime{Time: item.PublishedAt, Valid: !item.PublishedAt.IsZero()}
}
