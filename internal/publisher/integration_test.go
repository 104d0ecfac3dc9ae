//go:build integration

package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"stock_harvester/internal/domain"
)

type RabbitMQIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
	logger    *slog.Logger
}

func (s *RabbitMQIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := rabbitmq.Run(s.ctx,
		"rabbitmq:3.13-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	amqpURL, err := container.AmqpURL(s.ctx)
	s.Require().NoError(err)
	s.amqpURL = amqpURL
}

func (s *RabbitMQIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestRabbitMQIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQIntegrationSuite))
}

func (s *RabbitMQIntegrationSuite) TestPublisher_Connection() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange",
		RoutingKey: "test-routing-key",
		QueueName:  "test-queue",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.NoError(err)
	s.NotNil(pub)

	err = pub.Close()
	s.NoError(err)
}

func (s *RabbitMQIntegrationSuite) TestPublisher_PublishReport() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-report",
		RoutingKey: "test-routing-key-report",
		QueueName:  "test-queue-report",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	report := domain.NewCycleReport("run-1", false, []domain.Market{domain.MarketA, domain.MarketHK})
	report.Tickers = 2
	report.TasksDone = 3
	report.TasksSkipped = 1
	report.ErrorsByClass[domain.ClassTransient] = 5

	err = pub.PublishReport(s.ctx, report)
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)
	s.Equal(TypeCycleReport, msg.Type)

	var received EventMessage
	err = json.Unmarshal(msg.Body, &received)
	s.NoError(err)
	s.Equal(TypeCycleReport, received.Type)
	s.Nil(received.News)
	s.Require().NotNil(received.Report)
	s.Equal("run-1", received.Report.RunID)
	s.Equal(3, received.Report.TasksDone)
	s.Equal(5, received.Report.ErrorsByClass[domain.ClassTransient])
	s.False(received.Timestamp.IsZero())
}

func (s *RabbitMQIntegrationSuite) TestPublisher_PublishNews() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-news",
		RoutingKey: "test-routing-key-news",
		QueueName:  "test-queue-news",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	now := time.Now().Truncate(time.Millisecond)
	item := &domain.NewsItem{
		Code:        "0700",
		Market:      domain.MarketHK,
		Title:       "Tencent results",
		URL:         "https://finance.example.com/0700/1",
		PublishedAt: now,
		InsertedAt:  now,
	}

	err = pub.PublishNews(s.ctx, item)
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)
	s.Equal("application/json", msg.ContentType)

	var received EventMessage
	err = json.Unmarshal(msg.Body, &received)
	s.NoError(err)
	s.Equal(TypeNewsInserted, received.Type)
	s.Require().NotNil(received.News)
	s.Equal("0700", received.News.Code)
	s.Equal(domain.MarketHK, received.News.Market)
	s.Equal(item.URL, received.News.URL)
	s.True(now.Equal(received.News.PublishedAt))
}

func (s *RabbitMQIntegrationSuite) TestPublisher_MessagePersistence() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-persist",
		RoutingKey: "test-routing-key-persist",
		QueueName:  "test-queue-persist",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	err = pub.PublishReport(s.ctx, domain.NewCycleReport("run-2", true, nil))
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	s.Equal(uint8(amqp.Persistent), msg.DeliveryMode)
}

func (s *RabbitMQIntegrationSuite) consumeMessage(cfg Config) *amqp.Delivery {
	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	defer conn.Close()

	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	msgs, err := ch.Consume(cfg.QueueName, "", true, false, false, false, nil)
	s.Require().NoError(err)

	select {
	case msg := <-msgs:
		return &msg
	case <-time.After(5 * time.Second):
		s.Fail("Timeout waiting for message")
		return nil
	}
}