package cache

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper periodically deletes expired entries from the persistent tier so
// the table does not accumulate dead documents between lazy reads.
type Sweeper struct {
	cron  *cron.Cron
	store Store
	log   *zap.Logger
	spec  string
}

// NewSweeper creates a sweeper that fires on the given cron spec
// (e.g. "@every 1h").
func NewSweeper(store Store, spec string, log *zap.Logger) *Sweeper {
	if spec == "" {
		spec = "@every 1h"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{
		cron:  cron.New(),
		store: store,
		log:   log,
		spec:  spec,
	}
}

// Start registers the sweep job and starts the scheduler.
func (s *Sweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.sweep(ctx)
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("cache sweeper started", zap.String("spec", s.spec))
	return nil
}

// Stop shuts down the scheduler.
func (s *Sweeper) Stop() {
	s.cron.Stop()
}

// SweepOnce runs a single sweep immediately, outside the schedule.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	s.sweep(ctx)
}

func (s *Sweeper) sweep(ctx context.Context) {
	if s.store == nil {
		return
	}
	deleted, err := s.store.DeleteExpiredCacheEntries(ctx, time.Now())
	if err != nil {
		s.log.Warn("cache sweep failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		s.log.Info("cache sweep removed expired entries", zap.Int64("deleted", deleted))
	}
}
