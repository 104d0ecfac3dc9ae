package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"stock_harvester/internal/config"
	"stock_harvester/internal/domain"
)

// Sources groups the fetch adapters used by a cycle.
type Sources struct {
	List   ListFetcher
	Detail DetailFetcher
	News   NewsFetcher
}

// Stores groups the persistence collaborators used by a cycle.
type Stores struct {
	Tickers TickerStore
	Details DetailStore
	News    NewsStore
	Health  HealthChecker
}

type Harvester struct {
	sources     Sources
	stores      Stores
	checkpoints *CheckpointManager
	publisher   Publisher
	limiters    *Limiters
	policy      RetryPolicy
	classify    Classifier
	logger      *slog.Logger
	config      config.HarvestConfig
	markets     []domain.Market
	newRunID    func() string
}

func NewHarvester(
	sources Sources,
	stores Stores,
	checkpoints CheckpointStore,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.HarvestConfig,
) *Harvester {
	logger = logger.With("component", "harvester")

	markets := make([]domain.Market, 0, len(cfg.Markets))
	for _, m := range cfg.Markets {
		market, err := domain.ParseMarket(m)
		if err != nil {
			logger.Warn("ignoring market", "error", err)
			continue
		}
		markets = append(markets, market)
	}

	return &Harvester{
		sources:     sources,
		stores:      stores,
		checkpoints: NewCheckpointManager(checkpoints, logger),
		publisher:   publisher,
		limiters:    NewLimiters(cfg.RateLimit),
		policy:      NewRetryPolicy(cfg.Retry),
		classify:    DefaultClassifier,
		logger:      logger,
		config:      cfg,
		markets:     markets,
		newRunID:    uuid.NewString,
	}
}

// WithClassifier replaces the error classification predicate.
func (h *Harvester) WithClassifier(c Classifier) *Harvester {
	h.classify = c
	return h
}

// Run executes one full cycle: list, fan out detail and news tasks, store,
// checkpoint and report. A cancelled ctx stops the cycle cooperatively and
// leaves the checkpoint in place for the next run to resume.
func (h *Harvester) Run(ctx context.Context) (*domain.CycleReport, error) {
	startTime := time.Now()

	if err := h.ping(ctx); err != nil {
		return nil, fmt.Errorf("ping store: %w", err)
	}

	runID, resumed, err := h.checkpoints.Unfinished(ctx)
	if err != nil {
		return nil, err
	}
	if !resumed {
		runID = h.newRunID()
	}
	if err := h.checkpoints.MarkStarted(ctx, runID, resumed); err != nil {
		return nil, err
	}

	logger := h.logger.With("run_id", runID)
	logger.Info("starting cycle",
		"resumed", resumed,
		"markets", h.markets,
		"concurrency", h.config.Concurrency,
		"max_attempts", h.policy.MaxAttempts,
	)

	report := domain.NewCycleReport(runID, resumed, h.markets)
	report.StartedAt = startTime

	tickers, err := h.collectTickers(ctx, runID, resumed, report, logger)
	if err != nil {
		report.Duration = time.Since(startTime)
		return report, err
	}

	c := newCycle(h, runID, report, logger)
	c.execute(ctx, tickers)

	report.Duration = time.Since(startTime)

	switch {
	case c.fatal != nil:
		logger.Error("cycle aborted", "error", c.fatal, "completed", report.TickersCompleted)
		return report, fmt.Errorf("cycle %s aborted: %w", runID, c.fatal)
	case c.outstanding > 0:
		report.Interrupted = true
		logger.Warn("cycle interrupted",
			"completed", report.TickersCompleted,
			"tickers", report.Tickers,
		)
		h.publishReport(ctx, report, logger)
		cause := context.Cause(ctx)
		if cause == nil {
			cause = domain.ErrTasksUnfinished
		}
		return report, fmt.Errorf("cycle %s interrupted: %w", runID, cause)
	}

	if err := h.checkpoints.ClearCheckpoint(ctx, runID); err != nil {
		logger.Error("failed to clear checkpoint", "error", err)
	}

	logger.Info("cycle completed",
		"tickers", report.Tickers,
		"tickers_completed", report.TickersCompleted,
		"tasks_done", report.TasksDone,
		"tasks_skipped", report.TasksSkipped,
		"attempts", report.Attempts,
		"details_upserted", report.DetailsUpserted,
		"news_inserted", report.NewsInserted,
		"errors", report.ErrorsByClass,
		"duration", report.Duration,
	)

	h.publishReport(ctx, report, logger)

	return report, nil
}

func (h *Harvester) ping(ctx context.Context) error {
	if h.stores.Health == nil {
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = h.policy.InitialBackoff
	expo.MaxInterval = h.policy.MaxBackoff
	retries := uint64(0)
	if h.policy.MaxAttempts > 1 {
		retries = uint64(h.policy.MaxAttempts - 1)
	}

	return backoff.RetryNotify(
		func() error { return h.stores.Health.Ping(ctx) },
		backoff.WithContext(backoff.WithMaxRetries(expo, retries), ctx),
		func(err error, wait time.Duration) {
			h.logger.Warn("store ping failed, retrying", "backoff", wait, "error", err)
		},
	)
}

// collectTickers lists every market, persists the lists and returns the
// tickers this cycle has to process.
func (h *Harvester) collectTickers(
	ctx context.Context,
	runID string,
	resumed bool,
	report *domain.CycleReport,
	logger *slog.Logger,
) ([]domain.Ticker, error) {
	var all []domain.Ticker
	listed := 0

	for _, market := range h.markets {
		tickers, err := h.listMarket(ctx, market)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("list %s: %w", market, ctx.Err())
			}
			report.ErrorsByClass[h.classify(err)]++
			logger.Error("failed to list market, skipping", "market", market, "error", err)
			continue
		}
		listed++

		if err := h.stores.Tickers.UpsertTickers(ctx, tickers); err != nil {
			if errors.Is(err, domain.ErrStoreUnavailable) {
				return nil, fmt.Errorf("save %s ticker list: %w", market, err)
			}
			report.ErrorsByClass[h.classify(err)]++
			logger.Error("failed to save ticker list", "market", market, "error", err)
		}

		tickers = h.filterExcluded(tickers)
		logger.Info("listed market", "market", market, "tickers", len(tickers))
		all = append(all, tickers...)
	}

	if listed == 0 && len(h.markets) > 0 {
		return nil, fmt.Errorf("no market could be listed")
	}

	if resumed {
		pending, err := h.checkpoints.PendingTickers(ctx, runID, all)
		if err != nil {
			return nil, err
		}
		logger.Info("resuming run", "already_completed", len(all)-len(pending), "pending", len(pending))
		all = pending
	}

	report.Tickers = len(all)
	return all, nil
}

func (h *Harvester) listMarket(ctx context.Context, market domain.Market) ([]domain.Ticker, error) {
	var lastErr error
	for attempt := 1; attempt <= h.policy.MaxAttempts; attempt++ {
		if err := h.limiters.Wait(ctx, SourceList); err != nil {
			return nil, err
		}

		tickers, err := h.listOnce(ctx, market)
		if err == nil {
			return dedupTickers(tickers, market), nil
		}
		lastErr = err

		if !h.classify(err).Retryable() || attempt == h.policy.MaxAttempts {
			break
		}

		wait := h.policy.Backoff(attempt)
		h.logger.Warn("list fetch failed, retrying",
			"market", market,
			"attempt", attempt,
			"backoff", wait,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", h.policy.MaxAttempts, lastErr)
}

func (h *Harvester) listOnce(ctx context.Context, market domain.Market) ([]domain.Ticker, error) {
	if h.config.TaskTimeout <= 0 {
		return h.sources.List.ListTickers(ctx, market)
	}
	listCtx, cancel := context.WithTimeout(ctx, h.config.TaskTimeout)
	defer cancel()
	return h.sources.List.ListTickers(listCtx, market)
}

func (h *Harvester) filterExcluded(tickers []domain.Ticker) []domain.Ticker {
	if len(h.config.ExcludePrefixes) == 0 {
		return tickers
	}

	kept := tickers[:0:0]
	for _, t := range tickers {
		excluded := false
		for _, prefix := range h.config.ExcludePrefixes {
			if prefix != "" && strings.HasPrefix(t.Code, prefix) {
				excluded = true
				break
			}
		}
		if !excluded {
			kept = append(kept, t)
		}
	}
	return kept
}

// dedupTickers drops repeated codes and forces the requested market.
func dedupTickers(tickers []domain.Ticker, market domain.Market) []domain.Ticker {
	seen := make(map[string]struct{}, len(tickers))
	out := make([]domain.Ticker, 0, len(tickers))
	for _, t := range tickers {
		t.Code = strings.TrimSpace(t.Code)
		if t.Code == "" {
			continue
		}
		if _, ok := seen[t.Code]; ok {
			continue
		}
		seen[t.Code] = struct{}{}
		t.Market = market
		out = append(out, t)
	}
	return out
}

func (h *Harvester) publishReport(ctx context.Context, report *domain.CycleReport, logger *slog.Logger) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.PublishReport(context.WithoutCancel(ctx), report); err != nil {
		logger.Warn("failed to publish cycle report", "error", err)
	}
}

// cycle is the mutable state of one Run.
type cycle struct {
	h      *Harvester
	runID  string
	logger *slog.Logger
	queue  *TaskQueue
	retry  *retrier

	mu          sync.Mutex
	report      *domain.CycleReport
	remaining   map[string]int
	outstanding int
	fatal       error
	cancel      context.CancelFunc
}

func newCycle(h *Harvester, runID string, report *domain.CycleReport, logger *slog.Logger) *cycle {
	queue := NewTaskQueue()
	return &cycle{
		h:         h,
		runID:     runID,
		logger:    logger,
		queue:     queue,
		retry:     newRetrier(h.policy, queue),
		report:    report,
		remaining: make(map[string]int),
	}
}

func (c *cycle) execute(ctx context.Context, tickers []domain.Ticker) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.cancel = cancel

	kinds := []domain.TaskKind{domain.TaskDetail, domain.TaskNews}

	c.mu.Lock()
	for _, t := range tickers {
		c.remaining[t.Key()] = len(kinds)
		c.outstanding += len(kinds)
	}
	empty := c.outstanding == 0
	c.mu.Unlock()

	if empty {
		return
	}

	for _, t := range tickers {
		for _, kind := range kinds {
			c.queue.Enqueue(domain.NewTask(t, kind))
		}
	}

	pool := NewPool(c.h.config.Concurrency, c.h.config.TaskTimeout, c.h.limiters, c.logger)
	pool.Run(ctx, c.queue, c)

	cancel()
	c.retry.wait()
}

func (c *cycle) Fetch(ctx context.Context, task *domain.Task) (*FetchResult, error) {
	switch task.Kind {
	case domain.TaskDetail:
		record, err := c.h.sources.Detail.FetchDetail(ctx, task.Ticker)
		if err != nil {
			return nil, err
		}
		return &FetchResult{Detail: record}, nil
	case domain.TaskNews:
		items, err := c.h.sources.News.FetchNews(ctx, task.Ticker)
		if err != nil {
			return nil, err
		}
		return &FetchResult{News: items}, nil
	default:
		return nil, domain.Permanent(fmt.Errorf("unknown task kind %q", task.Kind))
	}
}

func (c *cycle) Store(ctx context.Context, task *domain.Task, res *FetchResult) error {
	switch task.Kind {
	case domain.TaskDetail:
		return c.storeDetail(ctx, task, res.Detail)
	case domain.TaskNews:
		return c.storeNews(ctx, task, res.News)
	}
	return nil
}

func (c *cycle) storeDetail(ctx context.Context, task *domain.Task, record *domain.DetailRecord) error {
	if record == nil {
		return fmt.Errorf("%w: empty detail for %s", domain.ErrInvalidPayload, task.Ticker.Key())
	}
	if record.Code == "" {
		record.Code = task.Ticker.Code
	}
	if record.Market == "" {
		record.Market = task.Ticker.Market
	}
	if record.FetchedAt.IsZero() {
		record.FetchedAt = time.Now().UTC()
	}
	if err := record.Validate(); err != nil {
		return err
	}

	if err := c.h.stores.Details.UpsertDetail(ctx, record); err != nil {
		return fmt.Errorf("upsert detail: %w", err)
	}

	c.mu.Lock()
	c.report.DetailsUpserted++
	c.mu.Unlock()
	return nil
}

func (c *cycle) storeNews(ctx context.Context, task *domain.Task, items []domain.NewsItem) error {
	valid := make([]domain.NewsItem, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.Code == "" {
			item.Code = task.Ticker.Code
		}
		if item.Market == "" {
			item.Market = task.Ticker.Market
		}
		if err := item.Validate(); err != nil {
			c.logger.Debug("dropping news item", "ticker", task.Ticker.Key(), "error", err)
			continue
		}
		if _, dup := seen[item.URL]; dup {
			continue
		}
		seen[item.URL] = struct{}{}
		valid = append(valid, item)
	}

	if len(valid) == 0 {
		return nil
	}

	inserted, err := c.h.stores.News.InsertNewsBatch(ctx, valid)
	if err != nil {
		return fmt.Errorf("insert news: %w", err)
	}

	c.mu.Lock()
	c.report.NewsInserted += len(inserted)
	c.mu.Unlock()

	if c.h.publisher != nil {
		for i := range inserted {
			if err := c.h.publisher.PublishNews(ctx, &inserted[i]); err != nil {
				c.logger.Warn("failed to publish news", "url", inserted[i].URL, "error", err)
			}
		}
	}
	return nil
}

// Finish applies the retry state machine to a task whose attempt has ended.
func (c *cycle) Finish(ctx context.Context, task *domain.Task, err error) {
	c.mu.Lock()
	c.report.Attempts++
	c.mu.Unlock()

	if err == nil {
		if terr := task.Transition(domain.StatusDone); terr != nil {
			c.logger.Error("invalid transition", "task", task.String(), "error", terr)
			return
		}
		c.terminal(ctx, task)
		return
	}

	task.LastErr = err
	if terr := task.Transition(domain.StatusFailed); terr != nil {
		c.logger.Error("invalid transition", "task", task.String(), "error", terr)
		return
	}

	class := c.h.classify(err)
	c.mu.Lock()
	c.report.ErrorsByClass[class]++
	c.mu.Unlock()

	switch {
	case class == domain.ClassStoreUnavailable:
		c.abort(err)
	case class == domain.ClassConstraint:
		c.logger.Error("data integrity error, skipping task", "task", task.String(), "error", err)
		c.skip(ctx, task)
	case !class.Retryable():
		c.logger.Warn("permanent failure, skipping task", "task", task.String(), "class", class, "error", err)
		c.skip(ctx, task)
	case c.h.policy.Exhausted(task.Attempts):
		c.logger.Warn("retries exhausted, skipping task", "task", task.String(), "attempts", task.Attempts, "error", err)
		c.skip(ctx, task)
	case ctx.Err() != nil:
		// stopping: the task stays Failed and its ticker is not checkpointed
	default:
		delay := c.retry.schedule(ctx, task)
		c.logger.Debug("task failed, retrying", "task", task.String(), "backoff", delay, "error", err)
	}
}

func (c *cycle) skip(ctx context.Context, task *domain.Task) {
	if err := task.Transition(domain.StatusSkipped); err != nil {
		c.logger.Error("invalid transition", "task", task.String(), "error", err)
		return
	}
	c.terminal(ctx, task)
}

// terminal accounts for a task reaching Done or Skipped, checkpoints its
// ticker when it was the ticker's last open task and closes the queue when
// the whole cycle is finished.
func (c *cycle) terminal(ctx context.Context, task *domain.Task) {
	key := task.Ticker.Key()

	c.mu.Lock()
	if task.Status == domain.StatusDone {
		c.report.TasksDone++
	} else {
		c.report.TasksSkipped++
	}
	c.remaining[key]--
	tickerDone := c.remaining[key] == 0
	if tickerDone {
		delete(c.remaining, key)
	}
	c.outstanding--
	cycleDone := c.outstanding == 0
	c.mu.Unlock()

	if tickerDone {
		if err := c.h.checkpoints.OnTickerComplete(context.WithoutCancel(ctx), c.runID, task.Ticker); err != nil {
			if errors.Is(err, domain.ErrStoreUnavailable) {
				c.abort(err)
			} else {
				c.logger.Error("failed to checkpoint ticker", "ticker", key, "error", err)
			}
		} else {
			c.mu.Lock()
			c.report.TickersCompleted++
			c.mu.Unlock()
		}
	}

	if cycleDone {
		c.queue.Close()
	}
}

// abort stops the cycle after a fatal store failure.
func (c *cycle) abort(err error) {
	c.mu.Lock()
	if c.fatal == nil {
		c.fatal = err
	}
	c.mu.Unlock()
	c.cancel()
}
