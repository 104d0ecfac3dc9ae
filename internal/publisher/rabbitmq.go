package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"stock_harvester/internal/domain"
)

// RabbitMQ publishes harvest events to a durable direct exchange.
type RabbitMQ struct {
	mu         sync.Mutex
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     *slog.Logger
}

type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
	QueueName  string
}

func NewRabbitMQ(cfg Config, logger *slog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	err = ch.QueueBind(
		q.Name,
		cfg.RoutingKey,
		cfg.Exchange,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"queue", cfg.QueueName,
		"routing_key", cfg.RoutingKey,
	)

	return &RabbitMQ{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger,
	}, nil
}

const (
	TypeCycleReport  = "cycle_report"
	TypeNewsInserted = "news_inserted"
)

// EventMessage is the envelope for everything the harvester publishes. The
// AMQP Type property carries the same value as Type.
type EventMessage struct {
	Type      string              `json:"type"`
	Report    *domain.CycleReport `json:"report,omitempty"`
	News      *domain.NewsItem    `json:"news,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

// PublishReport announces the outcome of a finished or interrupted cycle.
func (r *RabbitMQ) PublishReport(ctx context.Context, report *domain.CycleReport) error {
	if err := r.publish(ctx, EventMessage{Type: TypeCycleReport, Report: report}); err != nil {
		return err
	}

	r.logger.Debug("published cycle report",
		"run_id", report.RunID,
		"interrupted", report.Interrupted,
	)
	return nil
}

// PublishNews announces a news item stored for the first time.
func (r *RabbitMQ) PublishNews(ctx context.Context, item *domain.NewsItem) error {
	if err := r.publish(ctx, EventMessage{Type: TypeNewsInserted, News: item}); err != nil {
		return err
	}

	r.logger.Debug("published news",
		"code", item.Code,
		"market", item.Market,
		"url", item.URL,
	)
	return nil
}

func (r *RabbitMQ) publish(ctx context.Context, msg EventMessage) error {
	msg.Timestamp = time.Now().UTC()

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s message: %w", msg.Type, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.channel.PublishWithContext(
		ctx,
		r.exchange,
		r.routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Type:         msg.Type,
			Body:         body,
			Timestamp:    msg.Timestamp,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s message: %w", msg.Type, err)
	}
	return nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
