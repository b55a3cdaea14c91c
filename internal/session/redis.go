package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/pkg/metrics"
)

const redisKeyPrefix = "admin:session:"

type RedisStore struct {
	client  *redis.Client
	sealer  *sealer
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewRedisStore(client *redis.Client, key string, m *metrics.Metrics) (*RedisStore, error) {
	s, err := newSealer(key)
	if err != nil {
		return nil, err
	}
	return &RedisStore{client: client, sealer: s, metrics: m, now: time.Now}, nil
}

func (r *RedisStore) Save(ctx context.Context, sess *model.AdminSession) error {
	sealed, err := r.sealer.seal(sess)
	if err == nil {
		err = r.client.Set(ctx, redisKeyPrefix+sess.ID, sealed, ttl(sess, r.now())).Err()
	}
	r.metrics.ObserveSession("save", err)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*model.AdminSession, error) {
	sealed, err := r.client.Get(ctx, redisKeyPrefix+id).Result()
	if stderrors.Is(err, redis.Nil) {
		r.metrics.ObserveSession("get", nil)
		return nil, ErrNotFound
	}
	if err != nil {
		r.metrics.ObserveSession("get", err)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	sess, err := r.sealer.open(sealed)
	r.metrics.ObserveSession("get", err)
	return sess, err
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	err := r.client.Del(ctx, redisKeyPrefix+id).Err()
	r.metrics.ObserveSession("delete", err)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
