package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/marketplace-admin/internal/collection"
	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/internal/normalizer"
	"github.com/jwalitptl/marketplace-admin/internal/repository"
	"github.com/jwalitptl/marketplace-admin/pkg/errors"
	"github.com/jwalitptl/marketplace-admin/pkg/metrics"
)

const dateLayout = "2006-01-02"

type AppointmentService interface {
	Refresh(ctx context.Context) error
	List(filter model.AppointmentFilter) collection.Snapshot[model.Appointment]
	Summary() model.AppointmentSummary
	UpdateStatus(ctx context.Context, id string, to model.AppointmentStatus) (*StatusChange, error)
	Cancel(ctx context.Context, id string) (*StatusChange, error)
	Dispute(ctx context.Context, id string) (*StatusChange, error)
	Resolve(ctx context.Context, id string) (*StatusChange, error)
}

type StatusChange struct {
	From        model.AppointmentStatus `json:"from"`
	To          model.AppointmentStatus `json:"to"`
	Appointment model.Appointment       `json:"appointment"`
}

type Service struct {
	store        repository.DocumentStore
	collectionID string
	items        *collection.Collection[model.Appointment]
	metrics      *metrics.Metrics
	logger       *zerolog.Logger
	now          func() time.Time
}

var _ AppointmentService = (*Service)(nil)

func NewService(store repository.DocumentStore, collectionID string, limit int, m *metrics.Metrics, logger *zerolog.Logger) *Service {
	return &Service{
		store:        store,
		collectionID: collectionID,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
		items: collection.New("appointments", "Failed to fetch appointments", func(ctx context.Context) ([]model.Appointment, error) {
			list, err := store.ListDocuments(ctx, collectionID, model.QueryLimit(limit))
			if err != nil {
				return nil, err
			}
			return normalizer.Appointments(list.Documents), nil
		}, m, logger),
	}
}

// WithClock overrides the clock used for "today".
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Refresh(ctx context.Context) error {
	return s.items.Refresh(ctx)
}

func (s *Service) List(filter model.AppointmentFilter) collection.Snapshot[model.Appointment] {
	snap := s.items.Snapshot()
	out := snap.Items[:0]
	for _, a := range snap.Items {
		if filter.Matches(a) {
			out = append(out, a)
		}
	}
	snap.Items = out
	return snap
}

// Summary aggregates the current snapshot relative to the local date.
func (s *Service) Summary() model.AppointmentSummary {
	return model.SummarizeAppointments(s.items.Snapshot().Items, s.now().Format(dateLayout))
}

// UpdateStatus moves an appointment along the status workflow. The current
// status is read from the snapshot, refreshing once if the appointment is
// not in it yet.
func (s *Service) UpdateStatus(ctx context.Context, id string, to model.AppointmentStatus) (*StatusChange, error) {
	to = model.NormalizeAppointmentStatus(string(to))
	if !to.Known() {
		return nil, errors.BadRequest(fmt.Sprintf("invalid appointment status %q", to), nil)
	}

	current, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(to) {
		return nil, errors.Conflict(fmt.Sprintf("cannot change appointment from %s to %s", current.Status, to), nil)
	}

	err = s.items.Mutate(ctx, "update_status", func(ctx context.Context) error {
		_, err := s.store.UpdateDocument(ctx, s.collectionID, id, map[string]interface{}{
			"status": string(to),
		})
		return err
	})
	s.metrics.ObserveTransition("appointment", string(to), err)
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}

	change := &StatusChange{From: current.Status, To: to, Appointment: current}
	change.Appointment.Status = to
	if updated, ok := s.find(id); ok {
		change.Appointment = updated
	}
	s.logger.Info().Str("appointment_id", id).Str("from", string(change.From)).Str("to", string(to)).Msg("appointment status updated")
	return change, nil
}

func (s *Service) Cancel(ctx context.Context, id string) (*StatusChange, error) {
	return s.UpdateStatus(ctx, id, model.AppointmentStatusCancelled)
}

// Dispute opens, or re-opens, a dispute on a completed appointment.
func (s *Service) Dispute(ctx context.Context, id string) (*StatusChange, error) {
	return s.UpdateStatus(ctx, id, model.AppointmentStatusDisputed)
}

func (s *Service) Resolve(ctx context.Context, id string) (*StatusChange, error) {
	return s.UpdateStatus(ctx, id, model.AppointmentStatusResolved)
}

func (s *Service) get(ctx context.Context, id string) (model.Appointment, error) {
	if a, ok := s.find(id); ok {
		return a, nil
	}
	if err := s.items.Refresh(ctx); err != nil {
		return model.Appointment{}, err
	}
	if a, ok := s.find(id); ok {
		return a, nil
	}
	return model.Appointment{}, errors.NotFound("appointment", nil)
}

func (s *Service) find(id string) (model.Appointment, bool) {
	return s.items.Find(func(a model.Appointment) bool { return a.ID == id })
}
