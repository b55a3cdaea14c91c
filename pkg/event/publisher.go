package event

import (
	"context"
	"fmt"

	"github.com/jwalitptl/marketplace-admin/pkg/messaging"
	"github.com/jwalitptl/marketplace-admin/pkg/metrics"
)

const DefaultChannel = "admin.events"

// Publisher emits events on a single broker channel.
type Publisher struct {
	broker  messaging.Broker
	channel string
	metrics *metrics.Metrics
}

func NewPublisher(broker messaging.Broker, channel string, m *metrics.Metrics) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{
		broker:  broker,
		channel: channel,
		metrics: m,
	}
}

func (p *Publisher) Emit(ctx context.Context, event *Event) error {
	err := p.broker.Publish(ctx, p.channel, event)
	p.metrics.ObserveEvent(string(event.Type), err)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

func (p *Publisher) Channel() string {
	return p.channel
}
