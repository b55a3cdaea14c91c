package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/marketplace-admin/pkg/logger"
)

func TestPublishSubscribe(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := NewClient(ctx, Config{URL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	broker := NewRedisBroker(client, logger.Nop())
	msgs, err := broker.Subscribe(ctx, "admin.events")
	require.NoError(t, err)

	require.NoError(t, broker.Publish(ctx, "admin.events", map[string]string{"type": "provider.approved"}))

	select {
	case raw := <-msgs:
		var got map[string]string
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, "provider.approved", got["type"])
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient(context.Background(), Config{URL: "not a url"})
	assert.Error(t, err)
}
