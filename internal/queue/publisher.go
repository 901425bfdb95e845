package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Publisher sends booking events to RabbitMQ. It dials per publish: events
// are rare relative to requests and a short-lived connection never goes
// stale between them. Errors are logged and returned so the caller can
// choose to ignore them.
type Publisher struct {
	url string
	log zerolog.Logger
}

func NewPublisher(url string, log zerolog.Logger) *Publisher {
	return &Publisher{url: url, log: log.With().Str("component", "publisher").Logger()}
}

// Publish declares the event's queue (idempotent, durable) and publishes the
// event as a persistent JSON message.
func (p *Publisher) Publish(ctx context.Context, ev BookingEvent) error {
	if ev.Event == "" {
		return fmt.Errorf("publish: event name required")
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn().Err(err).Msg("rabbitmq dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn().Err(err).Msg("rabbitmq channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(ev.Event, true, false, false, false, nil); err != nil {
		p.log.Warn().Err(err).Str("queue", ev.Event).Msg("rabbitmq queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    ev.BookingID,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", ev.Event, false, false, pub); err != nil {
		p.log.Warn().Err(err).Str("queue", ev.Event).Msg("rabbitmq publish failed")
		return err
	}
	p.log.Debug().Str("queue", ev.Event).Str("booking_id", ev.BookingID).Msg("event published")
	return nil
}
