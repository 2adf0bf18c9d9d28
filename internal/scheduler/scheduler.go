// Package scheduler runs the periodic maintenance digest.
package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/erazemk/devicetrack/internal/model"
	"github.com/erazemk/devicetrack/internal/report"
)

// digestTimeout bounds one digest run.
const digestTimeout = time.Minute

// Digest is what the maintenance digest reports.
type Digest struct {
	LowStock        []model.Item
	CriticalSchools []report.SchoolHealth
	OpenRepairs     int
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	db       *sql.DB
	schedule string
	logger   *zap.Logger
}

// New creates a scheduler that runs the digest on the given cron schedule
// (standard five-field syntax).
func New(database *sql.DB, schedule string, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:     cron.New(),
		db:       database,
		schedule: schedule,
		logger:   logger,
	}
}

// Start registers the digest job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runDigest); err != nil {
		return fmt.Errorf("scheduling digest %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("digest_schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	d, err := BuildDigest(ctx, s.db)
	if err != nil {
		s.logger.Error("failed to build maintenance digest", zap.Error(err))
		return
	}
	s.log(d)
}

func (s *Scheduler) log(d Digest) {
	for _, it := range d.LowStock {
		minLevel := 0
		if it.MinStockLevel != nil {
			minLevel = *it.MinStockLevel
		}
		s.logger.Warn("item below minimum stock",
			zap.Int64("item", it.ID),
			zap.String("name", it.ItemName),
			zap.Int("quantity", it.Quantity),
			zap.Int("min_stock_level", minLevel),
		)
	}
	for _, sh := range d.CriticalSchools {
		s.logger.Warn("school in critical health",
			zap.Int64("school", sh.ID),
			zap.String("name", sh.Name),
			zap.Int("health_score", sh.HealthScore),
			zap.Int("defective", sh.Defective),
		)
	}
	s.logger.Info("maintenance digest",
		zap.Int("low_stock", len(d.LowStock)),
		zap.Int("critical_schools", len(d.CriticalSchools)),
		zap.Int("open_repairs", d.OpenRepairs),
	)
}

// BuildDigest collects low-stock items, schools in critical health and the
// number of not-working items awaiting repair.
func BuildDigest(ctx context.Context, database *sql.DB) (Digest, error) {
	var d Digest

	low, err := report.LoadLowStock(ctx, database)
	if err != nil {
		return d, err
	}
	d.LowStock = low

	health, err := report.LoadSchoolHealth(ctx, database, report.HealthOptions{Sort: report.SortHealth})
	if err != nil {
		return d, err
	}
	for _, sh := range health.Schools {
		if sh.Status == report.StatusCritical {
			d.CriticalSchools = append(d.CriticalSchools, sh)
		}
	}

	maint, err := report.LoadMaintenance(ctx, database)
	if err != nil {
		return d, err
	}
	d.OpenRepairs = len(maint.Critical)

	return d, nil
}
