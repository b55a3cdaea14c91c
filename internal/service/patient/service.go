package patient

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/marketplace-admin/internal/collection"
	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/internal/normalizer"
	"github.com/jwalitptl/marketplace-admin/internal/repository"
	"github.com/jwalitptl/marketplace-admin/pkg/errors"
	"github.com/jwalitptl/marketplace-admin/pkg/metrics"
)

type PatientService interface {
	Refresh(ctx context.Context) error
	List(filter model.PatientFilter) collection.Snapshot[model.UserModel]
	Get(ctx context.Context, id string) (model.UserModel, error)
}

// Service is read-only; patients are created by the patient-facing app.
type Service struct {
	items *collection.Collection[model.UserModel]
}

var _ PatientService = (*Service)(nil)

func NewService(store repository.DocumentStore, collectionID string, limit int, m *metrics.Metrics, logger *zerolog.Logger) *Service {
	return &Service{
		items: collection.New("patients", "Failed to fetch patients", func(ctx context.Context) ([]model.UserModel, error) {
			list, err := store.ListDocuments(ctx, collectionID, model.QueryLimit(limit))
			if err != nil {
				return nil, err
			}
			return normalizer.Patients(list.Documents), nil
		}, m, logger),
	}
}

func (s *Service) Refresh(ctx context.Context) error {
	return s.items.Refresh(ctx)
}

func (s *Service) List(filter model.PatientFilter) collection.Snapshot[model.UserModel] {
	snap := s.items.Snapshot()
	out := snap.Items[:0]
	for _, u := range snap.Items {
		if filter.Matches(u) {
			out = append(out, u)
		}
	}
	snap.Items = out
	return snap
}

func (s *Service) Get(ctx context.Context, id string) (model.UserModel, error) {
	match := func(u model.UserModel) bool { return u.ID == id }
	if u, ok := s.items.Find(match); ok {
		return u, nil
	}
	if err := s.items.Refresh(ctx); err != nil {
		return model.UserModel{}, err
	}
	if u, ok := s.items.Find(match); ok {
		return u, nil
	}
	return model.UserModel{}, errors.NotFound("patient", nil)
}
