package scheduler

import (
	"catalog-service/internal/service"
	"catalog-service/prometheus"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the periodic full reindex. Failures are logged and counted,
// never propagated or retried; the next run happens on schedule regardless.
type Scheduler struct {
	cron     *cron.Cron
	catalogs *service.CatalogService
	log      *zap.Logger
}

// New wires a full reindex onto the given cron spec (e.g. "@daily")
func New(catalogs *service.CatalogService, spec string, log *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		catalogs: catalogs,
		log:      log,
	}

	if _, err := s.cron.AddFunc(spec, s.runReindex); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins running scheduled jobs in their own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Reindex scheduler started")
}

// Stop stops the scheduler; running jobs finish on their own
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("Reindex scheduler stopped")
}

func (s *Scheduler) runReindex() {
	if err := s.catalogs.IndexAll(); err != nil {
		s.log.Error("Scheduled full reindex failed", zap.Error(err))
		prometheus.RecordReindexRun(false)
		return
	}
	s.log.Info("Scheduled full reindex completed")
	prometheus.RecordReindexRun(true)
}
