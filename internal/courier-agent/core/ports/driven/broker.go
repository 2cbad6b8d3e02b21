package driven

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ConsumeOptions for reading from the broker
type ConsumeOptions struct {
	Prefetch     int  // messages held without ack
	AutoAck      bool // auto acknowledgement (better false)
	QueueDurable bool // queue survives broker restart
}

// IEventBroker is the AMQP transport used by fleet deployments where agents
// consume dispatch events straight off the broker instead of a websocket.
type IEventBroker interface {
	// PublishJSON publishes an object as JSON to the exchange/routing key.
	PublishJSON(ctx context.Context, exchange, routingKey string, msg any) error

	// Consume subscribes to a queue with the given binding.
	Consume(ctx context.Context, queueName, bindingKey string, opts ConsumeOptions) (<-chan amqp.Delivery, error)

	// Unbind detaches a queue binding when the driver leaves the room.
	Unbind(queueName, bindingKey string) error

	// IsAlive checks connection state.
	IsAlive() bool

	// Close shuts channel and connection down.
	Close() error
}
