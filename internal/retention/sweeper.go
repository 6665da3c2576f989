package retention

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ABIRENIS/Jero-CRM/internal/audit"
	"github.com/ABIRENIS/Jero-CRM/internal/config"
	"github.com/ABIRENIS/Jero-CRM/internal/repository"
	"github.com/ABIRENIS/Jero-CRM/pkg/log"
)

// Sweeper deletes chat messages older than the retention age on a fixed
// cron schedule. Sweep failures are logged and never stop the schedule.
type Sweeper struct {
	messages repository.MessageRepository
	schedule string
	maxAge   time.Duration
	cron     *cron.Cron
}

// NewSweeper creates a retention sweeper from config.
func NewSweeper(messages repository.MessageRepository, cfg config.RetentionConfig) *Sweeper {
	return &Sweeper{
		messages: messages,
		schedule: cfg.Schedule,
		maxAge:   cfg.MessageMaxAge(),
	}
}

// Start schedules the sweep. The default schedule is daily at midnight.
func (s *Sweeper) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() {
		if err := s.RunOnce(context.Background()); err != nil {
			log.L().Error().Err(err).Msg("retention sweep failed")
		}
	}); err != nil {
		return err
	}

	c.Start()
	s.cron = c
	log.L().Info().Str("schedule", s.schedule).Dur("max_age", s.maxAge).Msg("retention sweeper started")
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// RunOnce performs a single sweep.
func (s *Sweeper) RunOnce(ctx context.Context) error {
	deleted, err := s.messages.DeleteOlderThan(ctx, s.maxAge)
	if err != nil {
		return err
	}

	audit.LogRetention(ctx, deleted)
	return nil
}
