package messaging

import (
	"context"

	"github.com/rs/zerolog"
)

// Consume feeds every message received on topic to handler until ctx is
// done or the subscription closes. Handler errors are logged and skipped.
func Consume(ctx context.Context, broker Broker, topic string, handler func([]byte) error, logger *zerolog.Logger) error {
	msgChan, err := broker.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	for msg := range msgChan {
		if err := handler(msg); err != nil {
			logger.Warn().Err(err).Str("topic", topic).Msg("failed to handle message")
			continue
		}
	}
	return ctx.Err()
}
