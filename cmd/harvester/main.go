package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"stock_harvester/internal/api"
	"stock_harvester/internal/config"
	"stock_harvester/internal/publisher"
	"stock_harvester/internal/scheduler"
	"stock_harvester/internal/service"
	"stock_harvester/internal/source/eastmoney"
	"stock_harvester/internal/source/finnhub"
	"stock_harvester/internal/storage/postgres"
	"stock_harvester/internal/storage/redis"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single cycle and exit")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	logger.Info("connected to database", "host", cfg.Database.Host, "dbname", cfg.Database.DBName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	var checkpoints service.CheckpointStore
	switch cfg.Checkpoint.Backend {
	case config.CheckpointRedis:
		client, err := redis.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		checkpoints = redis.NewCheckpointStore(client, cfg.Redis.KeyPrefix, cfg.Checkpoint.TTL)
		logger.Info("using redis checkpoints", "prefix", cfg.Redis.KeyPrefix)
	default:
		checkpoints = postgres.NewCheckpointStore(db)
	}

	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	eastMoney := eastmoney.New(eastmoney.Config{
		ListURL:      cfg.Source.ListURL,
		DetailURL:    cfg.Source.DetailURL,
		NewsURL:      cfg.Source.NewsURL,
		Timeout:      cfg.Source.Timeout,
		ListPageSize: cfg.Source.ListPageSize,
		NewsPageSize: cfg.Source.NewsPageSize,
	}, logger)

	var news service.NewsFetcher = eastMoney
	if cfg.Source.FinnhubAPIKey != "" {
		news = finnhub.New(finnhub.Config{
			APIKey:   cfg.Source.FinnhubAPIKey,
			Timeout:  cfg.Source.Timeout,
			NewsDays: cfg.Source.FinnhubNewsDays,
		}, logger)
		logger.Info("using finnhub for news")
	}

	health := postgres.NewHealthChecker(db)

	harvester := service.NewHarvester(
		service.Sources{List: eastMoney, Detail: eastMoney, News: news},
		service.Stores{
			Tickers: postgres.NewTickerStore(db),
			Details: postgres.NewDetailStore(db),
			News:    postgres.NewNewsStore(db),
			Health:  health,
		},
		checkpoints,
		pub,
		logger,
		cfg.Harvest,
	)

	if *once {
		if _, err := harvester.Run(ctx); err != nil {
			logger.Error("cycle failed", "error", err)
			os.Exit(1)
		}
		return
	}

	sched, err := scheduler.NewScheduler(harvester, cfg.Schedule, logger)
	if err != nil {
		logger.Error("invalid schedule", "error", err)
		os.Exit(1)
	}

	var wg sync.WaitGroup
	if cfg.API.Enabled {
		server := api.NewServer(cfg.API.Addr, sched, health, logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := server.Start(ctx); err != nil {
				logger.Error("api error", "error", err)
				cancel()
			}
		}()
	}

	logger.Info("starting stock harvester",
		"markets", cfg.Harvest.Markets,
		"concurrency", cfg.Harvest.Concurrency,
		"interval", cfg.Schedule.Interval,
		"cron", cfg.Schedule.Cron,
		"checkpoint_backend", cfg.Checkpoint.Backend,
	)

	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler error", "error", err)
		cancel()
		wg.Wait()
		os.Exit(1)
	}
	wg.Wait()
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
