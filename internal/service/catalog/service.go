package catalog

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/marketplace-admin/internal/collection"
	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/internal/normalizer"
	"github.com/jwalitptl/marketplace-admin/internal/repository"
	"github.com/jwalitptl/marketplace-admin/pkg/errors"
	"github.com/jwalitptl/marketplace-admin/pkg/metrics"
)

type CatalogService interface {
	Refresh(ctx context.Context) error
	List(filter model.ServiceFilter) collection.Snapshot[model.Service]
	Icons() []string
	Form(ctx context.Context, id string) (model.ServiceForm, error)
	Add(ctx context.Context, form model.ServiceForm) (model.Service, error)
	Update(ctx context.Context, id string, form model.ServiceForm) (model.Service, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	store        repository.DocumentStore
	collectionID string
	icons        []string
	items        *collection.Collection[model.Service]
	logger       *zerolog.Logger
	newID        func() string
}

var _ CatalogService = (*Service)(nil)

func NewService(store repository.DocumentStore, collectionID string, limit int, icons []string, m *metrics.Metrics, logger *zerolog.Logger) *Service {
	return &Service{
		store:        store,
		collectionID: collectionID,
		icons:        slices.Clone(icons),
		logger:       logger,
		newID:        uuid.NewString,
		items: collection.New("services", "Failed to fetch services", func(ctx context.Context) ([]model.Service, error) {
			list, err := store.ListDocuments(ctx, collectionID, model.QueryLimit(limit))
			if err != nil {
				return nil, err
			}
			return normalizer.Services(list.Documents), nil
		}, m, logger),
	}
}

func (s *Service) Refresh(ctx context.Context) error {
	return s.items.Refresh(ctx)
}

func (s *Service) List(filter model.ServiceFilter) collection.Snapshot[model.Service] {
	snap := s.items.Snapshot()
	out := snap.Items[:0]
	for _, item := range snap.Items {
		if filter.Matches(item) {
			out = append(out, item)
		}
	}
	snap.Items = out
	return snap
}

// Icons returns the closed set of selectable icon names.
func (s *Service) Icons() []string {
	return slices.Clone(s.icons)
}

// Form returns the edit view of a service with web colors. Stored colors
// that cannot be read fall back to the form defaults.
func (s *Service) Form(ctx context.Context, id string) (model.ServiceForm, error) {
	svc, err := s.get(ctx, id)
	if err != nil {
		return model.ServiceForm{}, err
	}
	form := model.ServiceForm{Name: svc.Name, Service: svc.Service, Icon: svc.Icon}
	if c, err := StorageToHex(svc.Color); err == nil {
		form.Color = c
	}
	if c, err := StorageToHex(svc.BgColor); err == nil {
		form.BgColor = c
	}
	return form.WithDefaults(), nil
}

func (s *Service) Add(ctx context.Context, form model.ServiceForm) (model.Service, error) {
	data, err := s.toDocument(form)
	if err != nil {
		return model.Service{}, err
	}
	id := s.newID()
	err = s.items.Mutate(ctx, "create", func(ctx context.Context) error {
		_, err := s.store.CreateDocument(ctx, s.collectionID, id, data)
		return err
	})
	if err != nil {
		return model.Service{}, fmt.Errorf("failed to add service: %w", err)
	}
	return s.result(id, data), nil
}

func (s *Service) Update(ctx context.Context, id string, form model.ServiceForm) (model.Service, error) {
	data, err := s.toDocument(form)
	if err != nil {
		return model.Service{}, err
	}
	err = s.items.Mutate(ctx, "update", func(ctx context.Context) error {
		_, err := s.store.UpdateDocument(ctx, s.collectionID, id, data)
		return err
	})
	if err != nil {
		return model.Service{}, fmt.Errorf("failed to update service: %w", err)
	}
	return s.result(id, data), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.items.Mutate(ctx, "delete", func(ctx context.Context) error {
		return s.store.DeleteDocument(ctx, s.collectionID, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	return nil
}

func (s *Service) toDocument(form model.ServiceForm) (map[string]interface{}, error) {
	form = form.WithDefaults()
	if !slices.Contains(s.icons, form.Icon) {
		return nil, errors.BadRequest(fmt.Sprintf("unknown icon %q", form.Icon), nil)
	}
	color, err := HexToStorage(form.Color)
	if err != nil {
		return nil, err
	}
	bgColor, err := HexToStorage(form.BgColor)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"name":    form.Name,
		"service": form.Service,
		"icon":    form.Icon,
		"color":   color,
		"bgColor": bgColor,
	}, nil
}

// result prefers the refreshed snapshot and falls back to the written data.
func (s *Service) result(id string, data map[string]interface{}) model.Service {
	if item, ok := s.find(id); ok {
		return item
	}
	doc := model.Document{"$id": id}
	for k, v := range data {
		doc[k] = v
	}
	return normalizer.Service(doc)
}

func (s *Service) get(ctx context.Context, id string) (model.Service, error) {
	if item, ok := s.find(id); ok {
		return item, nil
	}
	if err := s.items.Refresh(ctx); err != nil {
		return model.Service{}, err
	}
	if item, ok := s.find(id); ok {
		return item, nil
	}
	return model.Service{}, errors.NotFound("service", nil)
}

func (s *Service) find(id string) (model.Service, bool) {
	return s.items.Find(func(item model.Service) bool { return item.ID == id })
}
