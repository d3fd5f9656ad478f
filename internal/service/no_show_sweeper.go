package service

import (
	"context"
	"fmt"
	"time"

	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const sweepTimeout = 2 * time.Minute

// NoShowSweeper marks appointments that stayed scheduled past their date as
// no-show. It runs on a cron schedule and can also be invoked directly.
type NoShowSweeper struct {
	transactor      repository.Transactor
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	auditService    AuditService
	location        *time.Location
	graceDays       int
	now             func() time.Time

	cron *cron.Cron
}

func NewNoShowSweeper(
	transactor repository.Transactor,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	auditService AuditService,
	location *time.Location,
	graceDays int,
) *NoShowSweeper {
	if location == nil {
		location = time.UTC
	}
	return &NoShowSweeper{
		transactor:      transactor,
		log:             log,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
		location:        location,
		graceDays:       graceDays,
		now:             time.Now,
	}
}

// Start schedules Sweep with a standard five-field cron expression evaluated
// in the clinic's location.
func (s *NoShowSweeper) Start(spec string) error {
	c := cron.New(cron.WithLocation(s.location))

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		if _, err := s.Sweep(ctx); err != nil {
			s.log.Errorf("No-show sweep failed: %+v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid no-show cron %q: %w", spec, err)
	}

	s.cron = c
	c.Start()
	s.log.Infof("No-show sweeper scheduled: %s (%s)", spec, s.location)
	return nil
}

// Stop waits for a running sweep to finish. Safe to call when not started.
func (s *NoShowSweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.log.Info("No-show sweeper stopped")
}

// Cutoff is the first date that is still inside the grace period.
// Appointments strictly before it are swept.
func (s *NoShowSweeper) Cutoff() time.Time {
	today := s.now().In(s.location)
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, s.location)
	return day.AddDate(0, 0, -s.graceDays)
}

// Sweep runs one pass and returns the number of appointments marked.
func (s *NoShowSweeper) Sweep(ctx context.Context) (int64, error) {
	cutoff := s.Cutoff()
	var marked int64

	err := s.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		n, err := s.appointmentRepo.MarkNoShowBefore(ctx, tx, cutoff)
		if err != nil {
			return fmt.Errorf("mark no-show: %w", err)
		}
		marked = n

		if n == 0 {
			return nil
		}

		return s.auditService.LogEvent(ctx, tx, nil, entity.AuditActionAppointmentNoShow, entity.JSON{
			"before": cutoff.Format(entity.DateLayout),
			"count":  n,
		})
	})
	if err != nil {
		return 0, err
	}

	if marked > 0 {
		s.log.Infof("Marked %d appointments before %s as no-show", marked, cutoff.Format(entity.DateLayout))
	}
	return marked, nil
}
