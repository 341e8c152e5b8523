package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/srgjo27/party_rental/internal/core/domain"
)

const (
	exchangeName = "rental.events"
	exchangeType = "topic"

	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
	maxBackoff     = 2 * time.Second
	confirmTimeout = 5 * time.Second
)

var errNotAcked = errors.New("event not acknowledged")

type Event struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Timestamp string          `json:"timestamp"`
	Booking   *domain.Booking `json:"booking"`
}

func newEvent(eventType string, booking *domain.Booking, now time.Time) Event {
	return Event{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Timestamp: now.UTC().Format(time.RFC3339),
		Booking:   booking,
	}
}

type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// confirmingChannel is the part of *amqp.Channel the publisher needs.
type confirmingChannel interface {
	publish(ctx context.Context, routingKey string, msg amqp.Publishing) (confirmation, error)
}

type amqpChannel struct {
	ch *amqp.Channel
}

func (c amqpChannel) publish(ctx context.Context, routingKey string, msg amqp.Publishing) (confirmation, error) {
	dc, err := c.ch.PublishWithDeferredConfirmWithContext(ctx, exchangeName, routingKey, false, false, msg)
	if err != nil {
		return nil, err
	}
	if dc == nil {
		return nil, errors.New("channel is not in confirm mode")
	}
	return dc, nil
}

// Publisher sends booking lifecycle events to a topic exchange with publisher confirms.
type Publisher struct {
	conn           *amqp.Connection
	channel        *amqp.Channel
	out            confirmingChannel
	initialBackoff time.Duration
	log            *zap.Logger
}

func NewPublisher(url string, log *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(exchangeName, exchangeType, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	if err := channel.Confirm(false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	log.Info("Connected to RabbitMQ", zap.String("exchange", exchangeName))

	return &Publisher{
		conn:           conn,
		channel:        channel,
		out:            amqpChannel{ch: channel},
		initialBackoff: initialBackoff,
		log:            log,
	}, nil
}

func (p *Publisher) PublishBookingEvent(ctx context.Context, eventType string, booking *domain.Booking) error {
	event := newEvent(eventType, booking, time.Now())

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	backoff := p.initialBackoff
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				backoff = min(backoff*2, maxBackoff)
			}
		}

		confirm, err := p.out.publish(ctx, eventType, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			MessageId:    event.EventID,
			Body:         body,
		})
		if err != nil {
			lastErr = err
			p.log.Warn("Failed to publish event, retrying", zap.Int("attempt", attempt+1), zap.Error(err))
			continue
		}

		confirmCtx, cancel := context.WithTimeout(ctx, confirmTimeout)
		acked, err := confirm.WaitContext(confirmCtx)
		cancel()

		if err == nil && acked {
			p.log.Debug("Event published", zap.String("event_id", event.EventID), zap.String("event_type", eventType))
			return nil
		}

		lastErr = err
		if lastErr == nil {
			lastErr = errNotAcked
		}
	}

	return fmt.Errorf("failed to publish event after %d attempts: %w", maxRetries, lastErr)
}

func (p *Publisher) IsHealthy() bool {
	return p.conn != nil && !p.conn.IsClosed()
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.log.Error("Failed to close channel", zap.Error(err))
		}
	}

	if p.conn != nil {
		return p.conn.Close()
	}

	return nil
}

// NoopPublisher drops events when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishBookingEvent(context.Context, string, *domain.Booking) error { return nil }
