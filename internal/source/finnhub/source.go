package finnhub

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"stock_harvester/internal/domain"
	"stock_harvester/internal/source/eastmoney"
)

const SourceID = "finnhub"

type Config struct {
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	NewsDays int
}

// NewsSource fetches company news from Finnhub.
type NewsSource struct {
	client   *finnhub.DefaultApiService
	newsDays int
	now      func() time.Time
	logger   *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *NewsSource {
	fc := finnhub.NewConfiguration()
	fc.AddDefaultHeader("X-Finnhub-Token", cfg.APIKey)
	fc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	if cfg.BaseURL != "" {
		fc.Servers = finnhub.ServerConfigurations{{URL: cfg.BaseURL}}
	}

	days := cfg.NewsDays
	if days < 1 {
		days = 7
	}

	return &NewsSource{
		client:   finnhub.NewAPIClient(fc).DefaultApi,
		newsDays: days,
		now:      time.Now,
		logger:   logger.With("source", SourceID),
	}
}

func (s *NewsSource) FetchNews(ctx context.Context, ticker domain.Ticker) ([]domain.NewsItem, error) {
	symbol, err := Symbol(ticker)
	if err != nil {
		return nil, domain.Permanent(err)
	}

	to := s.now().UTC()
	from := to.AddDate(0, 0, -s.newsDays)

	res, httpResp, err := s.client.CompanyNews(ctx).
		Symbol(symbol).
		From(from.Format("2006-01-02")).
		To(to.Format("2006-01-02")).
		Execute()
	if err != nil {
		if httpResp != nil && httpResp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("company news %s: %w", symbol, &domain.HTTPStatusError{
				StatusCode: httpResp.StatusCode,
				URL:        httpResp.Request.URL.Path,
			})
		}
		return nil, fmt.Errorf("company news %s: %w", symbol, err)
	}

	items := make([]domain.NewsItem, 0, len(res))
	for _, news := range res {
		item := domain.NewsItem{
			Code:   ticker.Code,
			Market: ticker.Market,
		}
		if news.Headline != nil {
			item.Title = *news.Headline
		}
		if news.Url != nil {
			item.URL = *news.Url
		}
		if news.Datetime != nil {
			item.PublishedAt = time.Unix(*news.Datetime, 0).UTC()
		}
		items = append(items, item)
	}

	s.logger.Debug("fetched company news", "symbol", symbol, "items", len(items))
	return items, nil
}

// Symbol maps a ticker onto Finnhub's exchange suffixes.
func Symbol(t domain.Ticker) (string, error) {
	switch t.Market {
	case domain.MarketHK:
		code := strings.TrimLeft(t.Code, "0")
		if len(code) < 4 {
			code = strings.Repeat("0", 4-len(code)) + code
		}
		return code + ".HK", nil
	case domain.MarketA:
		exchange, err := eastmoney.Exchange(t.Code)
		if err != nil {
			return "", err
		}
		switch exchange {
		case "SH":
			return t.Code + ".SS", nil
		case "SZ":
			return t.Code + ".SZ", nil
		}
		// Finnhub does not list Beijing codes.
		return "", fmt.Errorf("no finnhub symbol for %s", t.Key())
	}
	return "", fmt.Errorf("unknown market %q", t.Market)
}
