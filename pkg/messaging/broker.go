package messaging

import (
	"context"
)

// Broker publishes JSON-encodable messages to named channels
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}

// Topic is a broker bound to a single channel.
type Topic struct {
	broker  Broker
	channel string
}

func NewTopic(broker Broker, channel string) *Topic {
	return &Topic{broker: broker, channel: channel}
}

func (t *Topic) Channel() string {
	return t.channel
}

func (t *Topic) Publish(ctx context.Context, message interface{}) error {
	return t.broker.Publish(ctx, t.channel, message)
}
