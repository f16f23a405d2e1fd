package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "fuelnow.orders"
	ExchangeType = "topic"
)

// SetupConn dials the broker and declares the order exchange.
func SetupConn(url string, attempts int) (*amqp.Connection, *amqp.Channel, error) {
	var conn *amqp.Connection
	var err error

	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		slog.Warn("rabbitmq dial failed", "attempt", i+1, "error", err)
		if i < attempts-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("could not open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		ExchangeName, // name
		ExchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("could not declare exchange: %w", err)
	}

	return conn, ch, nil
}

type amqpPublisher struct {
	ch *amqp.Channel
}

func NewAMQPPublisher(ch *amqp.Channel) Publisher {
	return &amqpPublisher{ch: ch}
}

func (p *amqpPublisher) Publish(ctx context.Context, e OrderEvent) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("could not marshal order event: %w", err)
	}
	return p.ch.PublishWithContext(ctx,
		ExchangeName,
		e.RoutingKey(),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    e.OrderID + ":" + e.To,
			Timestamp:    e.OccurredAt,
			Body:         body,
		},
	)
}
