package stats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/internal/normalizer"
	"github.com/jwalitptl/marketplace-admin/internal/repository"
	"github.com/jwalitptl/marketplace-admin/pkg/errors"
	"github.com/jwalitptl/marketplace-admin/pkg/metrics"
)

const (
	dateLayout      = "2006-01-02"
	defaultPageSize = 100
	fallbackMessage = "Failed to fetch dashboard stats"
)

type StatsService interface {
	Dashboard(ctx context.Context) (*model.DashboardStats, error)
	State() model.StatsState
}

type Collections struct {
	Providers    string
	Appointments string
	Patients     string
}

type Config struct {
	Collections Collections
	Bucket      string
	PageSize    int
	ListLimit   int
}

type Service struct {
	store   repository.DocumentStore
	files   repository.FileStore
	cfg     Config
	metrics *metrics.Metrics
	logger  *zerolog.Logger
	now     func() time.Time

	mu    sync.RWMutex
	state model.StatsState
}

var _ StatsService = (*Service)(nil)

func NewService(store repository.DocumentStore, files repository.FileStore, cfg Config, m *metrics.Metrics, logger *zerolog.Logger) *Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	return &Service{
		store:   store,
		files:   files,
		cfg:     cfg,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock overrides the clock used for "today".
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) State() model.StatsState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dashboard gathers today's appointment count, the patient count, pending
// providers and bucket usage. The four queries run concurrently; the first
// failure aborts the others and is stored on the state.
func (s *Service) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	s.mu.Lock()
	s.state.Loading = true
	s.mu.Unlock()

	today := s.now().Format(dateLayout)
	stats := &model.DashboardStats{Date: today, PendingList: []model.ServiceProvider{}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.store.ListDocuments(gctx, s.cfg.Collections.Appointments,
			model.QueryEqual("date", today), model.QueryLimit(1))
		if err != nil {
			return fmt.Errorf("failed to count appointments: %w", err)
		}
		stats.TodayAppointments = list.Total
		return nil
	})
	g.Go(func() error {
		list, err := s.store.ListDocuments(gctx, s.cfg.Collections.Patients, model.QueryLimit(1))
		if err != nil {
			return fmt.Errorf("failed to count patients: %w", err)
		}
		stats.TotalPatients = list.Total
		return nil
	})
	g.Go(func() error {
		queries := []model.Query{}
		if s.cfg.ListLimit > 0 {
			queries = append(queries, model.QueryLimit(s.cfg.ListLimit))
		}
		list, err := s.store.ListDocuments(gctx, s.cfg.Collections.Providers, queries...)
		if err != nil {
			return fmt.Errorf("failed to list providers: %w", err)
		}
		providers := normalizer.Providers(list.Documents)
		stats.TotalProviders = len(providers)
		for _, p := range providers {
			if p.Status == model.ProviderStatusPending {
				stats.PendingList = append(stats.PendingList, p)
			}
		}
		stats.PendingProviders = len(stats.PendingList)
		return nil
	})
	g.Go(func() error {
		usage, err := s.bucketUsage(gctx)
		if err != nil {
			return fmt.Errorf("failed to read bucket usage: %w", err)
		}
		stats.Storage = usage
		return nil
	})

	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	if err != nil {
		s.state.Error = errors.Message(err, fallbackMessage)
		s.logger.Error().Err(err).Msg("dashboard stats failed")
		return nil, err
	}
	s.state.Stats = stats
	s.state.Error = ""
	s.state.FetchedAt = s.now()
	return stats, nil
}

// bucketUsage walks the bucket one page at a time and stops at the first
// short page or when no further page is offered.
func (s *Service) bucketUsage(ctx context.Context) (model.BucketUsage, error) {
	var usage model.BucketUsage
	page := model.PageRequest{Limit: s.cfg.PageSize}
	for {
		res, err := s.files.ListFiles(ctx, s.cfg.Bucket, page)
		if err != nil {
			return model.BucketUsage{}, err
		}
		for _, f := range res.Files {
			usage.FilesCount++
			usage.TotalStorage += f.SizeOriginal
		}
		if len(res.Files) < page.Limit || res.Next == "" {
			return usage, nil
		}
		page.Cursor = res.Next
	}
}
