package eastmoney

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stock_harvester/internal/domain"
)

const (
	SourceID = "eastmoney"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	referer   = "https://quote.eastmoney.com/"

	maxBodySize = 32 << 20
	newsLayout  = "2006-01-02 15:04:05"
)

// Board filters for clist/get.
var boards = map[domain.Market]string{
	domain.MarketA:  "m:0 t:6,m:0 t:80,m:1 t:2,m:1 t:23",
	domain.MarketHK: "b:DLMK0106",
}

const detailFields = "f43,f44,f45,f46,f47,f48,f57,f58,f60,f116,f117,f162,f167,f168,f170"

var beijing = time.FixedZone("CST", 8*60*60)

// Config holds EastMoney endpoint configuration.
type Config struct {
	ListURL      string
	DetailURL    string
	NewsURL      string
	Timeout      time.Duration
	ListPageSize int
	NewsPageSize int
}

// Source fetches ticker lists, quote details and news from EastMoney.
// Retries are left to the caller.
type Source struct {
	httpClient   *http.Client
	listURL      string
	detailURL    string
	newsURL      string
	listPageSize int
	newsPageSize int
	logger       *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Source {
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		listURL:      cfg.ListURL,
		detailURL:    cfg.DetailURL,
		newsURL:      cfg.NewsURL,
		listPageSize: cfg.ListPageSize,
		newsPageSize: cfg.NewsPageSize,
		logger:       logger.With("source", SourceID),
	}
}

// ListTickers pages through the board for market until total is reached.
func (s *Source) ListTickers(ctx context.Context, market domain.Market) ([]domain.Ticker, error) {
	fs, ok := boards[market]
	if !ok {
		return nil, domain.Permanent(fmt.Errorf("no board for market %q", market))
	}

	var tickers []domain.Ticker
	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("pn", strconv.Itoa(page))
		params.Set("pz", strconv.Itoa(s.listPageSize))
		params.Set("po", "1")
		params.Set("np", "1")
		params.Set("fltt", "2")
		params.Set("invt", "2")
		params.Set("fid", "f3")
		params.Set("fs", fs)
		params.Set("fields", "f12,f14")

		var resp listResponse
		if err := s.getJSON(ctx, s.listURL, params, &resp); err != nil {
			return nil, fmt.Errorf("list %s page %d: %w", market, page, err)
		}
		if resp.Data == nil {
			if page == 1 {
				return nil, fmt.Errorf("%w: empty %s list", domain.ErrInvalidPayload, market)
			}
			break
		}

		for _, row := range resp.Data.Diff {
			code := strings.TrimSpace(row.Code)
			if code == "" || code == "-" {
				continue
			}
			tickers = append(tickers, domain.Ticker{Code: code, Name: strings.TrimSpace(row.Name), Market: market})
		}

		s.logger.Debug("fetched list page",
			"market", market,
			"page", page,
			"rows", len(resp.Data.Diff),
			"total", resp.Data.Total,
		)

		if len(resp.Data.Diff) == 0 || len(tickers) >= resp.Data.Total {
			break
		}
	}

	return tickers, nil
}

// FetchDetail fetches the quote snapshot for ticker. The raw data object is
// kept as the payload.
func (s *Source) FetchDetail(ctx context.Context, ticker domain.Ticker) (*domain.DetailRecord, error) {
	secid, err := SecID(ticker)
	if err != nil {
		return nil, domain.Permanent(err)
	}

	params := url.Values{}
	params.Set("secid", secid)
	params.Set("fltt", "2")
	params.Set("invt", "2")
	params.Set("fields", detailFields)

	var resp detailResponse
	if err := s.getJSON(ctx, s.detailURL, params, &resp); err != nil {
		return nil, fmt.Errorf("detail %s: %w", ticker.Key(), err)
	}

	data := bytes.TrimSpace(resp.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, fmt.Errorf("detail %s: %w", ticker.Key(), domain.ErrNotFound)
	}

	return &domain.DetailRecord{
		Code:      ticker.Code,
		Market:    ticker.Market,
		Payload:   json.RawMessage(data),
		FetchedAt: time.Now().UTC(),
	}, nil
}

// FetchNews returns the latest articles the news search finds for the
// ticker code.
func (s *Source) FetchNews(ctx context.Context, ticker domain.Ticker) ([]domain.NewsItem, error) {
	query, err := json.Marshal(newsQuery{
		Keyword:       ticker.Code,
		Type:          []string{"cmsArticleWebOld"},
		Client:        "web",
		ClientType:    "web",
		ClientVersion: "curr",
		Param: newsQueryParams{CMSArticleWebOld: newsPaging{
			SearchScope: "default",
			Sort:        "time",
			PageIndex:   1,
			PageSize:    s.newsPageSize,
			PreTag:      "<em>",
			PostTag:     "</em>",
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode news query: %w", err)
	}

	params := url.Values{}
	params.Set("cb", "jQuery_harvester")
	params.Set("param", string(query))

	var resp newsResponse
	if err := s.getJSON(ctx, s.newsURL, params, &resp); err != nil {
		return nil, fmt.Errorf("news %s: %w", ticker.Key(), err)
	}

	items := make([]domain.NewsItem, 0, len(resp.Result.Articles))
	for _, a := range resp.Result.Articles {
		publishedAt, err := time.ParseInLocation(newsLayout, a.Date, beijing)
		if err != nil {
			s.logger.Warn("failed to parse date",
				"ticker", ticker.Key(),
				"date", a.Date,
			)
			continue
		}

		items = append(items, domain.NewsItem{
			Code:        ticker.Code,
			Market:      ticker.Market,
			Title:       stripTags(a.Title),
			URL:         a.URL,
			PublishedAt: publishedAt.UTC(),
		})
	}

	return items, nil
}

func (s *Source) getJSON(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	reqURL := endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Permanent(fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Accept", "application/json, text/javascript, */*")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", referer)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &domain.HTTPStatusError{StatusCode: resp.StatusCode, URL: endpoint}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(unwrapJSONP(body), out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrInvalidPayload, err)
	}
	return nil
}

// unwrapJSONP strips a callback(...) wrapper; plain JSON passes through.
func unwrapJSONP(body []byte) []byte {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] == '{' || body[0] == '[' {
		return body
	}
	start := bytes.IndexByte(body, '(')
	end := bytes.LastIndexByte(body, ')')
	if start == -1 || end <= start {
		return body
	}
	return body[start+1 : end]
}

func stripTags(s string) string {
	s = strings.ReplaceAll(s, "<em>", "")
	s = strings.ReplaceAll(s, "</em>", "")
	return strings.TrimSpace(s)
}

// Exchange returns the listing exchange of an A-share code: SH, SZ or BJ.
func Exchange(code string) (string, error) {
	switch {
	case strings.HasPrefix(code, "60"), strings.HasPrefix(code, "68"), strings.HasPrefix(code, "90"):
		return "SH", nil
	case strings.HasPrefix(code, "00"), strings.HasPrefix(code, "30"), strings.HasPrefix(code, "20"):
		return "SZ", nil
	case strings.HasPrefix(code, "8"), strings.HasPrefix(code, "4"), strings.HasPrefix(code, "92"):
		return "BJ", nil
	}
	return "", fmt.Errorf("unknown exchange for code %q", code)
}

// SecID builds the quote id EastMoney uses: 1.x for Shanghai, 0.x for
// Shenzhen and Beijing, 116.x with a 5-digit code for Hong Kong.
func SecID(t domain.Ticker) (string, error) {
	switch t.Market {
	case domain.MarketA:
		exchange, err := Exchange(t.Code)
		if err != nil {
			return "", err
		}
		if exchange == "SH" {
			return "1." + t.Code, nil
		}
		return "0." + t.Code, nil
	case domain.MarketHK:
		return "116." + PadHK(t.Code), nil
	}
	return "", fmt.Errorf("unknown market %q", t.Market)
}

// PadHK left-pads a Hong Kong code to five digits.
func PadHK(code string) string {
	if len(code) >= 5 {
		return code
	}
	return strings.Repeat("0", 5-len(code)) + code
}
