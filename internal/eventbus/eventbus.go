// Package eventbus wraps the watermill NATS transport the surrounding
// request handlers ride on. The core services never publish directly; the
// handler layer does.
package eventbus

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
)

// EventBus is the publish/subscribe surface handed to module routers.
type EventBus interface {
	Publish(topic string, msg *message.Message) error
	Subscriber() message.Subscriber
	Close() error
}

type natsEventBus struct {
	publisher  *wmnats.Publisher
	subscriber *wmnats.Subscriber
	logger     *slog.Logger
}

// NewNATSEventBus connects publisher and subscriber to the given NATS URL.
func NewNATSEventBus(url string, logger *slog.Logger) (EventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	natsOptions := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.MaxReconnects(-1),
	}

	publisher, err := wmnats.NewPublisher(wmnats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOptions,
		Marshaler:   &wmnats.NATSMarshaler{},
		JetStream:   wmnats.JetStreamConfig{Disabled: true},
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	subscriber, err := wmnats.NewSubscriber(wmnats.SubscriberConfig{
		URL:         url,
		NatsOptions: natsOptions,
		Unmarshaler: &wmnats.NATSMarshaler{},
		JetStream:   wmnats.JetStreamConfig{Disabled: true},
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS subscriber: %w", err)
	}

	return &natsEventBus{
		publisher:  publisher,
		subscriber: subscriber,
		logger:     logger,
	}, nil
}

func (b *natsEventBus) Publish(topic string, msg *message.Message) error {
	return b.publisher.Publish(topic, msg)
}

func (b *natsEventBus) Subscriber() message.Subscriber {
	return b.subscriber
}

func (b *natsEventBus) Close() error {
	pubErr := b.publisher.Close()
	subErr := b.subscriber.Close()
	if pubErr != nil {
		return pubErr
	}
	return subErr
}
