package provider

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/marketplace-admin/internal/collection"
	"github.com/jwalitptl/marketplace-admin/internal/email"
	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/internal/normalizer"
	"github.com/jwalitptl/marketplace-admin/internal/repository"
	"github.com/jwalitptl/marketplace-admin/pkg/errors"
	"github.com/jwalitptl/marketplace-admin/pkg/metrics"
)

const fetchFallback = "Failed to fetch providers"

type ProviderService interface {
	Refresh(ctx context.Context) error
	Snapshot() collection.Snapshot[model.ServiceProvider]
	List(filter model.ProviderFilter) collection.Snapshot[model.ServiceProvider]
	Get(ctx context.Context, id string) (model.ServiceProvider, error)
	UpdateStatus(ctx context.Context, id string, status model.ProviderStatus) (*StatusChange, error)
	Approve(ctx context.Context, id string) (*StatusChange, error)
	Reject(ctx context.Context, id string) (*StatusChange, error)
	Reopen(ctx context.Context, id string) (*StatusChange, error)
	Pending() []model.ServiceProvider
}

var _ ProviderService = (*Service)(nil)

// StatusChange describes a completed provider status update.
type StatusChange struct {
	From     model.ProviderStatus  `json:"from"`
	To       model.ProviderStatus  `json:"to"`
	Provider model.ServiceProvider `json:"provider"`
}

type Service struct {
	store        repository.DocumentStore
	collectionID string
	items        *collection.Collection[model.ServiceProvider]
	mailer       email.Service
	metrics      *metrics.Metrics
	logger       *zerolog.Logger
}

func NewService(store repository.DocumentStore, collectionID string, limit int, mailer email.Service, m *metrics.Metrics, logger *zerolog.Logger) *Service {
	s := &Service{
		store:        store,
		collectionID: collectionID,
		mailer:       mailer,
		metrics:      m,
		logger:       logger,
	}
	s.items = collection.New("providers", fetchFallback, func(ctx context.Context) ([]model.ServiceProvider, error) {
		list, err := store.ListDocuments(ctx, collectionID, model.QueryLimit(limit))
		if err != nil {
			return nil, err
		}
		return normalizer.Providers(list.Documents), nil
	}, m, logger)
	return s
}

func (s *Service) Refresh(ctx context.Context) error {
	return s.items.Refresh(ctx)
}

func (s *Service) Snapshot() collection.Snapshot[model.ServiceProvider] {
	return s.items.Snapshot()
}

// List filters the current snapshot; it does not contact the backend.
func (s *Service) List(filter model.ProviderFilter) collection.Snapshot[model.ServiceProvider] {
	snap := s.items.Snapshot()
	out := snap.Items[:0]
	for _, p := range snap.Items {
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	snap.Items = out
	return snap
}

// Get looks the provider up in the snapshot, refreshing once when absent.
func (s *Service) Get(ctx context.Context, id string) (model.ServiceProvider, error) {
	if p, ok := s.find(id); ok {
		return p, nil
	}
	if err := s.items.Refresh(ctx); err != nil {
		return model.ServiceProvider{}, err
	}
	if p, ok := s.find(id); ok {
		return p, nil
	}
	return model.ServiceProvider{}, errors.NotFound("provider", nil)
}

// UpdateStatus writes {status} to the provider document and re-fetches the
// collection. The provider is looked up first, fetching the collection when
// it is not in the snapshot yet. A failure is recorded on the snapshot and
// returned.
func (s *Service) UpdateStatus(ctx context.Context, id string, status model.ProviderStatus) (*StatusChange, error) {
	if !status.Valid() {
		return nil, errors.BadRequest(fmt.Sprintf("invalid provider status %q", status), nil)
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, errors.Conflict(fmt.Sprintf("provider is already %s", status), nil)
	}

	err = s.items.Mutate(ctx, "update_status", func(ctx context.Context) error {
		_, err := s.store.UpdateDocument(ctx, s.collectionID, id, map[string]interface{}{
			"status": string(status),
		})
		return err
	})
	s.metrics.ObserveTransition("provider", string(status), err)
	if err != nil {
		s.items.SetError(errors.Message(err, "Failed to update provider status"))
		return nil, err
	}

	change := &StatusChange{From: current.Status, To: status}
	if updated, ok := s.find(id); ok {
		change.Provider = updated
	} else {
		change.Provider = current
		change.Provider.ID = id
		change.Provider.Status = status
	}

	s.logger.Info().Str("provider_id", id).Str("from", string(change.From)).Str("to", string(status)).Msg("provider status updated")
	s.notify(ctx, change)
	return change, nil
}

func (s *Service) Approve(ctx context.Context, id string) (*StatusChange, error) {
	return s.UpdateStatus(ctx, id, model.ProviderStatusApproved)
}

func (s *Service) Reject(ctx context.Context, id string) (*StatusChange, error) {
	return s.UpdateStatus(ctx, id, model.ProviderStatusRejected)
}

// Reopen moves a decided provider back to pending review.
func (s *Service) Reopen(ctx context.Context, id string) (*StatusChange, error) {
	return s.UpdateStatus(ctx, id, model.ProviderStatusPending)
}

// Pending returns the pending providers of the current snapshot.
func (s *Service) Pending() []model.ServiceProvider {
	return s.List(model.ProviderFilter{Status: model.ProviderStatusPending}).Items
}

func (s *Service) notify(ctx context.Context, change *StatusChange) {
	if s.mailer == nil || change.Provider.Email == "" {
		return
	}
	if err := s.mailer.SendProviderStatus(ctx, change.Provider, change.To); err != nil {
		s.logger.Warn().Err(err).Str("provider_id", change.Provider.ID).Msg("failed to send provider status e-mail")
	}
}

func (s *Service) find(id string) (model.ServiceProvider, bool) {
	return s.items.Find(func(p model.ServiceProvider) bool { return p.ID == id })
}
