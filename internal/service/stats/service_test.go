package stats

import (
	"context"
	"fmt"
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

func files(n int, size int64) []model.File {
	out := make([]model.File, n)
	for i := range out {
		out[i] = model.File{ID: fmt.Sprintf("f%d", i), SizeOriginal: size}
	}
	return out
}

func setup() (*Service, *repotest.DocumentStore, *repotest.FileStore) {
	store := repotest.NewDocumentStore()
	store.Seed("appointments",
		model.Document{"$id": "a1", "date": "2024-05-02"},
		model.Document{"$id": "a2", "date": "2024-05-02"},
		model.Document{"$id": "a3", "date": "2024-05-03"},
	)
	store.Seed("patients", model.Document{"$id": "u1"}, model.Document{"$id": "u2"})
	store.Totals["patients"] = 42
	store.Seed("providers",
		model.Document{"$id": "p1", "name": "Dr. A", "status": "pending"},
		model.Document{"$id": "p2", "name": "Dr. B", "status": "approved"},
		model.Document{"$id": "p3", "name": "Dr. C", "status": "pending"},
	)
	fs := &repotest.FileStore{Pages: [][]model.File{files(100, 10), files(100, 10), files(37, 2)}}

	svc := NewService(store, fs, Config{
		Collections: Collections{Providers: "providers", Appointments: "appointments", Patients: "patients"},
		Bucket:      "uploads",
	}, metrics.NewNop(), logger.Nop())
	svc.WithClock(func() time.Time { return time.Date(2024, 5, 2, 15, 0, 0, 0, time.Local) })
	return svc, store, fs
}

func TestDashboard(t *testing.T) {
	svc, store, fs := setup()

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2024-05-02", stats.Date)
	assert.Equal(t, 2, stats.TodayAppointments)
	assert.Equal(t, 42, stats.TotalPatients)
	assert.Equal(t, 3, stats.TotalProviders)
	assert.Equal(t, 2, stats.PendingProviders)
	require.Len(t, stats.PendingList, 2)
	assert.Equal(t, "p1", stats.PendingList[0].ID)

	assert.Equal(t, 237, stats.Storage.FilesCount)
	assert.Equal(t, int64(2074), stats.Storage.TotalStorage)
	require.Len(t, fs.Requests, 3)
	assert.Equal(t, 100, fs.Requests[0].Limit)
	assert.Equal(t, "2", fs.Requests[2].Cursor)

	for _, c := range store.CallsOf("list") {
		if c.Collection == "appointments" {
			assert.Contains(t, c.Queries, model.QueryEqual("date", "2024-05-02"))
		}
	}

	state := svc.State()
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
	assert.Same(t, stats, state.Stats)
}

func TestBucketUsageStopsAtShortPage(t *testing.T) {
	svc, _, fs := setup()
	fs.Pages = [][]model.File{files(40, 1), files(100, 1)}

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 40, stats.Storage.FilesCount)
	assert.Len(t, fs.Requests, 1)
}

func TestBucketUsageEmptyBucket(t *testing.T) {
	svc, _, fs := setup()
	fs.Pages = nil

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.BucketUsage{}, stats.Storage)
}

func TestDashboardFailureStoresMessage(t *testing.T) {
	svc, _, fs := setup()
	fs.Err = errors.Forbidden("Storage access denied", nil)

	_, err := svc.Dashboard(context.Background())
	require.Error(t, err)

	state := svc.State()
	assert.False(t, state.Loading)
	assert.Equal(t, "Storage access denied", state.Error)
	assert.Nil(t, state.Stats)
}
