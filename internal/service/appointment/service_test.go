package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/internal/repository/repotest"
	"github.com/jwalitptl/marketplace-admin/pkg/errors"
	"github.com/jwalitptl/marketplace-admin/pkg/logger"
	"github.com/jwalitptl/marketplace-admin/pkg/metrics"
)

func setup(t *testing.T) (*Service, *repotest.DocumentStore) {
	store := repotest.NewDocumentStore()
	store.Seed("appointments",
		model.Document{"$id": "a1", "status": "scheduled", "date": "2024-05-02", "cost": 1000, "username": "Ayesha", "userId": "u1"},
		model.Document{"$id": "a2", "status": "completed", "date": "2024-05-01", "cost": 2500, "username": "Bilal", "userId": "u1"},
		model.Document{"$id": "a3", "status": "cancelled", "date": "2024-05-09", "cost": 800, "username": "Hina", "userId": "u2"},
	)
	svc := NewService(store, "appointments", 500, metrics.NewNop(), logger.Nop()).
		WithClock(func() time.Time { return time.Date(2024, 5, 2, 10, 0, 0, 0, time.Local) })
	require.NoError(t, svc.Refresh(context.Background()))
	store.Calls = nil
	return svc, store
}

func TestListMapsLegacyStatusesAndFilters(t *testing.T) {
	svc, _ := setup(t)

	snap := svc.List(model.AppointmentFilter{Status: model.AppointmentStatusConfirmed})
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "a1", snap.Items[0].ID)

	assert.Empty(t, svc.List(model.AppointmentFilter{Status: model.AppointmentStatusPending}).Items)
}

func TestSummary(t *testing.T) {
	svc, _ := setup(t)

	s := svc.Summary()
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Today)
	assert.Equal(t, 1, s.Upcoming)
	assert.Equal(t, 2500.0, s.CompletedRevenue)
	assert.Equal(t, 2, s.ActivePatients)
}

func TestCancelConfirmedAppointment(t *testing.T) {
	svc, store := setup(t)

	change, err := svc.Cancel(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, change.From)
	assert.Equal(t, model.AppointmentStatusCancelled, change.Appointment.Status)

	require.Len(t, store.Calls, 2)
	assert.Equal(t, map[string]interface{}{"status": "cancelled"}, store.Calls[0].Data)
	assert.Equal(t, "list", store.Calls[1].Op)
}

func TestDisputeResolveCycle(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Dispute(ctx, "a2")
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, "a2")
	require.NoError(t, err)
	change, err := svc.Dispute(ctx, "a2")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusResolved, change.From)
}

func TestInvalidTransitions(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()

	_, err := svc.Cancel(ctx, "a2")
	assert.True(t, errors.HasCode(err, errors.ErrConflict))

	_, err = svc.UpdateStatus(ctx, "a1", "archived")
	assert.True(t, errors.HasCode(err, errors.ErrBadRequest))

	_, err = svc.Resolve(ctx, "a3")
	assert.True(t, errors.HasCode(err, errors.ErrConflict))
	assert.Empty(t, store.CallsOf("update"))
}

func TestLegacyTargetLabelAccepted(t *testing.T) {
	svc, _ := setup(t)

	change, err := svc.UpdateStatus(context.Background(), "a1", "in-progress")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusActive, change.To)
}

func TestUpdateFailureLeavesSnapshot(t *testing.T) {
	svc, store := setup(t)
	store.Errors["update"] = errors.Upstream("Server Error", nil)

	_, err := svc.Cancel(context.Background(), "a1")
	require.Error(t, err)
	a := svc.List(model.AppointmentFilter{Search: "ayesha"}).Items
	require.Len(t, a, 1)
	assert.Equal(t, model.AppointmentStatusConfirmed, a[0].Status)
	assert.Empty(t, store.CallsOf("list"))
}

func TestUnknownAppointment(t *testing.T) {
	svc, _ := setup(t)
	_, err := svc.Cancel(context.Background(), "zzz")
	assert.True(t, errors.HasCode(err, errors.ErrNotFound))
}
