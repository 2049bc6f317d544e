package echoapi

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/schedule"
)

// Scheduler periodically extends the sessions of every auto-renew entry,
// so the generation horizon keeps moving forward without user action.
type Scheduler struct {
	cron      *cron.Cron
	generator *schedule.Generator
	logger    core.Logger
	metrics   *Metrics // optional
}

func NewScheduler(conf *core.Config, generator *schedule.Generator, logger core.Logger, metrics *Metrics) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger))),
		generator: generator,
		logger:    logger,
		metrics:   metrics,
	}
	if _, err := s.cron.AddFunc(conf.Schedule.Cron, s.run); err != nil {
		return nil, errors.Wrapf(err, "scheduling generation %q", conf.Schedule.Cron)
	}
	return s, nil
}

func (s *Scheduler) run() {
	count, err := s.Run(context.Background())
	if err != nil {
		s.logger.Error(fmt.Sprintf("scheduled generation failed after %d sessions: %v", count, err), err)
		return
	}
	s.logger.Info(fmt.Sprintf("scheduled generation created %d sessions", count))
}

// Run generates the missing sessions of every owner once.
func (s *Scheduler) Run(ctx context.Context) (int, error) {
	count, err := s.generator.GenerateAll(ctx, nil)
	if s.metrics != nil {
		s.metrics.generationRun(err)
	}
	return count, err
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for a running one to complete or ctx to be done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
