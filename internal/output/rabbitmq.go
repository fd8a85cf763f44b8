package output

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const publishTimeout = 3 * time.Second

// amqpChannel is the part of *amqp.Channel the output needs.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQOutput publishes to a durable topic exchange using the topic as the
// routing key.
type RabbitMQOutput struct {
	conn     *amqp.Connection
	ch       amqpChannel
	exchange string
	logger   *zap.Logger
}

func NewRabbitMQOutput(url, exchange string, logger *zap.Logger) (*RabbitMQOutput, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	logger.Info("rabbitmq output ready", zap.String("exchange", exchange))
	out := newRabbitMQOutput(ch, exchange, logger)
	out.conn = conn
	return out, nil
}

func newRabbitMQOutput(ch amqpChannel, exchange string, logger *zap.Logger) *RabbitMQOutput {
	return &RabbitMQOutput{ch: ch, exchange: exchange, logger: logger}
}

func (r *RabbitMQOutput) WriteMessage(topic string, msg []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err := r.ch.PublishWithContext(ctx, r.exchange, topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         msg,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

func (r *RabbitMQOutput) Close() error {
	if err := r.ch.Close(); err != nil {
		r.logger.Warn("failed to close channel", zap.Error(err))
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
