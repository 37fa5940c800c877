package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"polingo/internal/logger"
)

// Pruner is the slice of the device service the scheduler needs.
type Pruner interface {
	PruneInactive(ctx context.Context, maxAge time.Duration) (int, error)
}

// Scheduler runs periodic maintenance tasks for the server.
type Scheduler struct {
	scheduler *gocron.Scheduler
	pruner    Pruner
	maxAge    time.Duration
	log       *logger.Logger
}

// New creates a scheduler that prunes devices idle for longer than maxAge.
func New(pruner Pruner, maxAge time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		pruner:    pruner,
		maxAge:    maxAge,
		log:       logger.Default().WithPrefix("scheduler"),
	}
}

// Start registers the maintenance jobs and runs them in the background.
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Day().At("03:00").Do(s.pruneDevices)
	s.scheduler.StartAsync()
	s.log.Info("scheduler started, pruning devices older than %v daily", s.maxAge)
}

// Stop terminates all scheduled tasks.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) pruneDevices() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ctx = logger.NewContext(ctx, s.log)
	if _, err := s.pruner.PruneInactive(ctx, s.maxAge); err != nil {
		s.log.Error("device prune failed: %v", err)
	}
}
