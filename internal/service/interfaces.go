package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"stock_harvester/internal/domain"
)

type ListFetcher interface {
	ListTickers(ctx context.Context, market domain.Market) ([]domain.Ticker, error)
}

type DetailFetcher interface {
	FetchDetail(ctx context.Context, ticker domain.Ticker) (*domain.DetailRecord, error)
}

type NewsFetcher interface {
	FetchNews(ctx context.Context, ticker domain.Ticker) ([]domain.NewsItem, error)
}

type TickerStore interface {
	UpsertTickers(ctx context.Context, tickers []domain.Ticker) error
}

type DetailStore interface {
	UpsertDetail(ctx context.Context, record *domain.DetailRecord) error
}

type NewsStore interface {
	InsertNewsIfAbsent(ctx context.Context, item *domain.NewsItem) (bool, error)
	InsertNewsBatch(ctx context.Context, items []domain.NewsItem) ([]domain.NewsItem, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type CheckpointStore interface {
	Unfinished(ctx context.Context) (string, bool, error)
	Start(ctx context.Context, runID string, reset bool) error
	MarkComplete(ctx context.Context, runID string, ticker domain.Ticker) error
	Completed(ctx context.Context, runID string, market domain.Market) (map[string]struct{}, error)
	Clear(ctx context.Context, runID string) error
}

type Publisher interface {
	PublishReport(ctx context.Context, report *domain.CycleReport) error
	PublishNews(ctx context.Context, item *domain.NewsItem) error
	Close() error
}
