package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const statusQueue = "booking.status"

// Publisher sends events to RabbitMQ. Failures are logged and returned so
// callers can ignore them without interrupting the request flow.
type Publisher struct {
	url string
	log *slog.Logger
}

func NewPublisher(url string, log *slog.Logger) *Publisher {
	return &Publisher{url: url, log: log}
}

func (p *Publisher) BookingStatusChanged(ctx context.Context, ev BookingStatusEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Error("amqp dial failed", "err", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Error("amqp channel open failed", "err", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(statusQueue, true, false, false, false, nil); err != nil {
		p.log.Error("amqp queue declare failed", "err", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, "", statusQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.log.Error("amqp publish failed", "err", err)
		return err
	}
	return nil
}
