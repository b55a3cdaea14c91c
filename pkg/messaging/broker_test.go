package messaging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogBrokerPublish(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	b := NewLogBroker(&log)

	require.NoError(t, b.Publish(context.Background(), "admin.events", map[string]string{"type": "SERVICE_CREATE"}))
	assert.Contains(t, buf.String(), `"channel":"admin.events"`)
	assert.Contains(t, buf.String(), `"type":"SERVICE_CREATE"`)
}

func TestConsumeStopsWithContext(t *testing.T) {
	log := zerolog.Nop()
	b := NewLogBroker(&log)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Consume(ctx, b, "admin.events", func([]byte) error { return nil }, &log)
	assert.ErrorIs(t, err, context.Canceled)
}
