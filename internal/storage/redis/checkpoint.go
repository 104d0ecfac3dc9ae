package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_harvester/internal/domain"
)

// NewClient connects to redisURL, accepting either a redis:// URL or a bare
// host:port address.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// CheckpointStore keeps run progress in Redis. Unfinished runs live in a
// sorted set scored by start time; completed tickers are one set per run and
// market. Every key expires after ttl so abandoned runs do not pile up.
type CheckpointStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewCheckpointStore(client *redis.Client, prefix string, ttl time.Duration) *CheckpointStore {
	return &CheckpointStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *CheckpointStore) runsKey() string {
	return s.prefix + ":runs"
}

func (s *CheckpointStore) completedKey(runID string, market domain.Market) string {
	return fmt.Sprintf("%s:run:%s:%s", s.prefix, runID, market)
}

func (s *CheckpointStore) Unfinished(ctx context.Context) (string, bool, error) {
	if s.ttl > 0 {
		cutoff := time.Now().Add(-s.ttl).Unix()
		if err := s.client.ZRemRangeByScore(ctx, s.runsKey(), "-inf", fmt.Sprint(cutoff)).Err(); err != nil {
			return "", false, wrapErr("expire runs", err)
		}
	}

	ids, err := s.client.ZRevRange(ctx, s.runsKey(), 0, 0).Result()
	if err != nil {
		return "", false, wrapErr("find unfinished run", err)
	}
	if len(ids) == 0 {
		return "", false, nil
	}
	return ids[0], true, nil
}

func (s *CheckpointStore) Start(ctx context.Context, runID string, reset bool) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if reset {
			for _, m := range domain.Markets {
				pipe.Del(ctx, s.completedKey(runID, m))
			}
		}
		pipe.ZAddNX(ctx, s.runsKey(), redis.Z{Score: float64(time.Now().Unix()), Member: runID})
		return nil
	})
	return wrapErr("start run", err)
}

func (s *CheckpointStore) MarkComplete(ctx context.Context, runID string, ticker domain.Ticker) error {
	key := s.completedKey(runID, ticker.Market)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, key, ticker.Code)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	return wrapErr("mark ticker complete", err)
}

func (s *CheckpointStore) Completed(ctx context.Context, runID string, market domain.Market) (map[string]struct{}, error) {
	codes, err := s.client.SMembers(ctx, s.completedKey(runID, market)).Result()
	if err != nil {
		return nil, wrapErr("load checkpoint", err)
	}

	done := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		done[code] = struct{}{}
	}
	return done, nil
}

func (s *CheckpointStore) Clear(ctx context.Context, runID string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, s.runsKey(), runID)
		for _, m := range domain.Markets {
			pipe.Del(ctx, s.completedKey(runID, m))
		}
		return nil
	})
	return wrapErr("clear checkpoint", err)
}

// Ping reports whether Redis is reachable.
func (s *CheckpointStore) Ping(ctx context.Context) error {
	return wrapErr("ping", s.client.Ping(ctx).Err())
}

func wrapErr(op string, err error) error {
	if err == nil || errors.Is(err, redis.Nil) {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
}
