package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/pkg/metrics"
)

// MemoryStore keeps sessions in process. Sessions do not survive a restart.
type MemoryStore struct {
	cache   *cache.Cache
	sealer  *sealer
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewMemoryStore(key string, m *metrics.Metrics) (*MemoryStore, error) {
	s, err := newSealer(key)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{
		cache:   cache.New(12*time.Hour, 10*time.Minute),
		sealer:  s,
		metrics: m,
		now:     time.Now,
	}, nil
}

func (m *MemoryStore) Save(_ context.Context, sess *model.AdminSession) error {
	sealed, err := m.sealer.seal(sess)
	m.metrics.ObserveSession("save", err)
	if err != nil {
		return err
	}
	m.cache.Set(sess.ID, sealed, ttl(sess, m.now()))
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*model.AdminSession, error) {
	v, ok := m.cache.Get(id)
	if !ok {
		m.metrics.ObserveSession("get", nil)
		return nil, ErrNotFound
	}
	sess, err := m.sealer.open(v.(string))
	m.metrics.ObserveSession("get", err)
	return sess, err
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.cache.Delete(id)
	m.metrics.ObserveSession("delete", nil)
	return nil
}
