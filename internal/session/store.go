// Package session keeps the remote session secret of each signed-in admin
// on the server, encrypted at rest. Clients only ever see the session id.
package session

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/jwalitptl/marketplace-admin/internal/model"
)

var ErrNotFound = stderrors.New("session not found")

type Store interface {
	Save(ctx context.Context, s *model.AdminSession) error
	Get(ctx context.Context, id string) (*model.AdminSession, error)
	Delete(ctx context.Context, id string) error
}

func ttl(s *model.AdminSession, now time.Time) time.Duration {
	d := s.ExpiresAt.Sub(now)
	if d <= 0 {
		return time.Second
	}
	return d
}
