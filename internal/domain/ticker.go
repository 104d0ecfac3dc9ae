package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

type Market string

const (
	MarketA  Market = "A"
	MarketHK Market = "HK"
)

// Markets lists every supported market.
var Markets = []Market{MarketA, MarketHK}

func ParseMarket(s string) (Market, error) {
	switch Market(s) {
	case MarketA, MarketHK:
		return Market(s), nil
	default:
		return "", fmt.Errorf("unknown market %q", s)
	}
}

// Ticker identifies a tradable instrument. Code+Market is the identity key.
type Ticker struct {
	Code   string `db:"code" json:"code"`
	Name   string `db:"name" json:"name"`
	Market Market `db:"market" json:"market"`
}

func (t Ticker) Key() string {
	return string(t.Market) + ":" + t.Code
}

type DetailRecord struct {
	Code      string          `db:"code" json:"code"`
	Market    Market          `db:"market" json:"market"`
	Payload   json.RawMessage `db:"detail_json" json:"payload"`
	FetchedAt time.Time       `db:"update_time" json:"fetched_at"`
}

// Validate performs the minimal shape check applied before a detail is stored.
func (d *DetailRecord) Validate() error {
	if d.Code == "" || d.Market == "" {
		return fmt.Errorf("%w: detail without identity", ErrInvalidPayload)
	}
	if len(d.Payload) == 0 || !json.Valid(d.Payload) {
		return fmt.Errorf("%w: detail %s/%s payload is not json", ErrInvalidPayload, d.Market, d.Code)
	}
	return nil
}

type NewsItem struct {
	Code        string    `db:"code" json:"code"`
	Market      Market    `db:"market" json:"market"`
	Title       string    `db:"title" json:"title"`
	URL         string    `db:"url" json:"url"`
	PublishedAt time.Time `db:"publish_time" json:"published_at"`
	InsertedAt  time.Time `db:"insert_time" json:"inserted_at"`
}

func (n *NewsItem) Validate() error {
	if n.Code == "" || n.Market == "" || n.URL == "" {
		return fmt.Errorf("%w: news item without identity", ErrInvalidPayload)
	}
	if n.Title == "" {
		return fmt.Errorf("%w: news item %s without title", ErrInvalidPayload, n.URL)
	}
	return nil
}
