package messaging

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// LogBroker writes published messages to the logger. It is used when no
// Redis URL is configured so that audit events are still visible.
type LogBroker struct {
	logger *zerolog.Logger
}

func NewLogBroker(logger *zerolog.Logger) *LogBroker {
	return &LogBroker{logger: logger}
}

func (b *LogBroker) Publish(_ context.Context, channel string, message interface{}) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}
	b.logger.Info().Str("channel", channel).RawJSON("payload", payload).Msg("event published")
	return nil
}

// Subscribe returns a channel that is closed when ctx ends; the log broker
// never delivers messages.
func (b *LogBroker) Subscribe(ctx context.Context, _ string) (<-chan []byte, error) {
	ch := make(chan []byte)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (b *LogBroker) Close() error {
	return nil
}
