package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Lumbe/lcrm-app/internal/infrastructure/persistence"
)

const sessionCleanupTimeout = time.Minute

// SchedulerService runs periodic maintenance jobs
type SchedulerService struct {
	sessions *persistence.SessionRepository
	spec     string
	logger   *zap.Logger

	cron    *cron.Cron
	mu      sync.Mutex
	running bool
	stopped bool
}

// NewSchedulerService creates a scheduler running the session cleanup on
// spec, a cron expression or descriptor such as "@hourly".
func NewSchedulerService(sessions *persistence.SessionRepository, spec string, logger *zap.Logger) *SchedulerService {
	return &SchedulerService{
		sessions: sessions,
		spec:     spec,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start registers the jobs and starts the cron loop
func (s *SchedulerService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.stopped {
		return nil
	}

	if _, err := s.cron.AddFunc(s.spec, s.runSessionCleanup); err != nil {
		return fmt.Errorf("invalid session cleanup schedule %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.running = true

	s.logger.Info("scheduler started", zap.String("session_cleanup", s.spec))
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish
func (s *SchedulerService) Stop() {
	s.mu.Lock()
	if !s.running || s.stopped {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.stopped = true
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

func (s *SchedulerService) runSessionCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), sessionCleanupTimeout)
	defer cancel()
	if _, err := s.CleanupSessions(ctx, time.Now()); err != nil {
		s.logger.Error("session cleanup failed", zap.Error(err))
	}
}

// CleanupSessions deletes sessions that expired before now or were revoked
func (s *SchedulerService) CleanupSessions(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.sessions.DeleteStale(ctx, now)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("stale sessions removed", zap.Int64("count", n))
	}
	return n, nil
}
